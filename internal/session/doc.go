// Package session drives one run of pswdb: the loaded password list, the open
// record store, and the authentication policy used to open it.
//
// Authentication states:
//
//	Unauthenticated -> Authenticating -> Open -> Closed
//	                        |
//	                        +-> Rejected (terminal)
//
// A prompted passphrase gets three consecutive attempts. A passphrase supplied
// up front (flag, environment) is tried once. A passphrase taken from the OS
// keyring that no longer matches falls back to prompting.
package session
