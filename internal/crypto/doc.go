// Package crypto derives store keys from passphrases and seals store values.
//
// A non-empty passphrase is stretched with PBKDF2-HMAC-SHA256 (32-byte salt,
// 210,000 iterations) into an AES-256 key; values are sealed with AES-256-GCM
// using a fresh 12-byte nonce prepended to the ciphertext.
//
// The empty passphrase is a legal key meaning "no encryption": its Sealer
// passes values through unchanged.
//
// Use ClearBytes() to zero passphrases and keys once they are no longer needed.
package crypto
