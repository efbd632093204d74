// Package git checks how the hash file relates to an enclosing git
// repository.
//
// Checks performed:
//   - Whether the working directory is inside a git repository
//   - Whether the hash file is tracked by git (should not be)
//   - Whether the hash file is in .gitignore (should be)
//
// A committed hash can be attacked offline by anyone with clone access.
package git
