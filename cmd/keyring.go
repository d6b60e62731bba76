package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/illarion/pswdb/internal/keyring"
	"github.com/illarion/pswdb/internal/session"
	"github.com/illarion/pswdb/internal/vault"
)

var keyringCmd = &cobra.Command{
	Use:   "keyring",
	Short: "Manage the database password in the OS keyring",
	Long: `A password saved in the OS keyring is used instead of prompting when
neither -p nor PSWDB_PASSPHRASE is given. It is stored per database.`,
}

var keyringSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Verify the password and save it to the OS keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return KeyringSave(cmd, cfg.DB)
	},
}

var keyringDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the saved password from the OS keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return KeyringDelete(cmd, cfg.DB)
	},
}

var keyringStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check if a password is saved in the OS keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return KeyringStatus(cmd, cfg.DB)
	},
}

func init() {
	keyringCmd.AddCommand(keyringSaveCmd, keyringDeleteCmd, keyringStatusCmd)
	rootCmd.AddCommand(keyringCmd)
}

// KeyringSave saves the password of the database at path to the OS keyring
func KeyringSave(cmd *cobra.Command, path string) error {
	var saveErr error
	s := newSession(cmd, func(o *session.Options) {
		// The key is only handed out while authenticating.
		o.OnAuthenticated = func(store *vault.Store, key []byte, _ session.Origin) {
			saveErr = keyring.SavePassphrase(store.ID(), key)
		}
	})
	defer s.Close()

	pass := passphraseFor(cmd, path)
	if pass.Origin() == session.OriginKeyring {
		pass = session.Prompt()
	}
	if err := s.OpenExisting(path, pass); err != nil {
		return err
	}
	if saveErr != nil {
		return fmt.Errorf("failed to save to keyring: %w", saveErr)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Password saved to keyring")
	return nil
}

// KeyringDelete removes the password of the database at path from the OS keyring
func KeyringDelete(cmd *cobra.Command, path string) error {
	id, err := vault.StoreID(path)
	if err != nil {
		return err
	}
	if !keyring.HasPassphrase(id) {
		fmt.Fprintln(cmd.OutOrStdout(), "No password stored in keyring")
		return nil
	}
	if err := keyring.DeletePassphrase(id); err != nil {
		return fmt.Errorf("failed to remove from keyring: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Password removed from keyring")
	return nil
}

// KeyringStatus checks if a password is stored in the keyring
func KeyringStatus(cmd *cobra.Command, path string) error {
	id, err := vault.StoreID(path)
	if err != nil {
		return err
	}

	if keyring.HasPassphrase(id) {
		fmt.Fprintln(cmd.OutOrStdout(), "Password: stored in keyring")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Password: not stored")
	}
	return nil
}
