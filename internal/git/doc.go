// Package git checks how git sees files that hold unencrypted passwords.
//
// Checks performed:
//   - Whether the file is inside a git work tree
//   - Whether it is tracked by git (should not be)
//   - Whether it is in .gitignore (should be)
//
// CSV exports and decrypted copies of a store are plaintext; these checks
// help users avoid committing them.
package git
