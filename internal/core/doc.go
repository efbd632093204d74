// Package core provides the hashguard credential manager.
//
// Manager composes two injected collaborators:
//   - Hasher: produces and checks salted, self-describing hash strings
//   - Storage: byte-level exists/write/read/chmod over a named path
//
// Operations:
//   - Save: hash the secret, write it to HashFile, make it read-only
//   - HashFileExists: existence check, errors passed through
//   - ReadHashFromFile: re-assert read-only mode, read, trim
//   - VerifyPassword: compare a secret with a stored hash
//
// Failures are reported with a small vocabulary. Hashing errors during Save
// are returned as-is; every read failure is ErrFileRead and every
// verification failure is ErrInvalidHash, without the underlying cause.
// A wrong password is not an error: VerifyPassword returns false.
package core
