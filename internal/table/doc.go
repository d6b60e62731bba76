// Package table holds the in-memory password list that the CSV files and the
// record store are loaded into.
//
// A Table keeps rows in the order they were read. Cleaning operations
// (dropping empty passwords, dropping duplicates, sorting by name) mutate the
// table in place and report which 1-based rows they affected so callers can
// ask for confirmation first.
package table
