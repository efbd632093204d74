// Package storage provides the byte-level backends the credential manager
// keeps its hash in.
//
// Backends:
//   - File: a regular file inside a root directory (os.Root confined)
//   - Bolt: a key in a BBolt database, with its mode kept alongside
//   - Memory: an in-process map, for tests and embedding
//
// All backends share the same contract: Write re-creates the entry with
// mode 0600 even if the previous one was read-only, SetPermissions never
// requires the entry to be writable, and missing entries surface as
// fs.ErrNotExist.
package storage
