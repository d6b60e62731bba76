// Package storage provides the BBolt container behind a pswdb record store.
//
// Database structure uses two buckets:
//   - meta: format version, timestamps, KDF parameters (salt, iterations),
//     the sealed check value, store ID and encryption flag (unencrypted)
//   - passwords: one sealed row per record, keyed by an 8-byte big-endian
//     sequence so iteration order is storage order
//
// The unencrypted meta bucket lets status and compact work without a
// passphrase. Values in passwords are opaque here; sealing is the caller's job.
//
// Export copies every bucket into a second, attached database file. It is the
// only way the key of a store changes: the caller re-seals values on the way.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
