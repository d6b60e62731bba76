// Package vault is the encrypted record store: a single local file holding
// the passwords table, protected by a passphrase-derived key.
//
// The empty passphrase is a legal key and produces a plaintext store. A
// passphrase is checked by unsealing a known check value; nothing about the
// key itself is written to the file.
//
// A store's key never changes in place. Rekey and Dekey attach a sibling file
// (encrypted_<name> or decrypted_<name>), export every bucket into it under the
// new key and detach again, leaving the source file and its key untouched.
package vault
