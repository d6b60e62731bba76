package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/illarion/pswdb/internal/config"
	"github.com/illarion/pswdb/internal/crypto"
	"github.com/illarion/pswdb/internal/keyring"
	"github.com/illarion/pswdb/internal/session"
	"github.com/illarion/pswdb/internal/table"
	"github.com/illarion/pswdb/internal/vault"
)

// passphraseFor resolves the passphrase of the store at path: -p, then
// PSWDB_PASSPHRASE, then the OS keyring, then an interactive prompt.
func passphraseFor(cmd *cobra.Command, path string) session.Passphrase {
	secret := config.LookupSecret(passphrase, cmd.Flags().Changed("passphrase"), config.EnvPassphrase)
	if secret.Set {
		defer crypto.ClearBytes(secret.Value)
		return session.Supplied(secret.Value, originOf(secret))
	}

	if cfg.Keyring && vault.Exists(path) {
		if id, err := vault.StoreID(path); err == nil {
			if stored, err := keyring.GetPassphrase(id); err == nil {
				defer crypto.ClearBytes(stored)
				log.Debug("using passphrase from keyring", "store_id", id)
				return session.Supplied(stored, session.OriginKeyring)
			}
		}
	}
	return session.Prompt()
}

// newPassphraseFor resolves the passphrase for --encrypt.
func newPassphraseFor(cmd *cobra.Command) session.Passphrase {
	secret := config.LookupSecret(newPassphrase, cmd.Flags().Changed("new-passphrase"), config.EnvNewPassphrase)
	if !secret.Set {
		return session.Prompt()
	}
	defer crypto.ClearBytes(secret.Value)
	return session.Supplied(secret.Value, originOf(secret))
}

func originOf(s config.Secret) session.Origin {
	if s.Source == "env" {
		return session.OriginEnv
	}
	return session.OriginFlag
}

// describe turns an error into the message shown to the user.
func describe(err error) string {
	var schemaErr *table.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		return schemaErr.Error()
	case errors.Is(err, table.ErrNotFound):
		return fmt.Sprintf("File not found: %s", err)
	case errors.Is(err, session.ErrRejected):
		return "Wrong password. Exiting."
	case errors.Is(err, vault.ErrNotFound):
		return fmt.Sprintf("Database not found: %s", err)
	case errors.Is(err, vault.ErrAlreadyExists):
		return fmt.Sprintf("%s\nRemove it or move it away first", err)
	case errors.Is(err, vault.ErrNotStore):
		return fmt.Sprintf("Not a password database: %s", err)
	case errors.Is(err, vault.ErrEmptyKey):
		return "Password cannot be empty."
	case errors.Is(err, session.ErrNoTable):
		return "No password list loaded. Read a CSV file or a database first."
	case errors.Is(err, session.ErrNoStore):
		return "No database open. Open or create one first."
	case errors.Is(err, config.ErrInvalidMode), errors.Is(err, config.ErrMissingPath):
		return fmt.Sprintf("%s\nRun 'pswdb --help' for usage", err)
	default:
		return fmt.Sprintf("Error: %s", err)
	}
}

// HandleError prints err and exits with status 1
func HandleError(err error) {
	color.New(color.FgRed).Fprintln(os.Stderr, describe(err))
	os.Exit(1)
}

// formatSize formats a file size in human-readable form
func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
