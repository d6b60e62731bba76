package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/illarion/pswdb/internal/git"
	"github.com/illarion/pswdb/internal/keyring"
	"github.com/illarion/pswdb/internal/vault"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database information",
	Long: `Shows the database file, its identifier, whether it is encrypted, the
number of stored entries and when it was created and last written.

Does not require a password.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return Status(cmd, cfg.DB)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// Status prints the unencrypted header of the database at path.
func Status(cmd *cobra.Command, path string) error {
	info, err := vault.Inspect(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Database:  %s (%s)\n", info.Path, formatSize(info.Size))
	fmt.Fprintf(out, "ID:        %s\n", info.StoreID)
	if info.Encrypted {
		fmt.Fprintf(out, "Encrypted: %s\n", color.GreenString("yes"))
	} else {
		fmt.Fprintf(out, "Encrypted: %s\n", color.YellowString("no"))
	}
	fmt.Fprintf(out, "Entries:   %d\n", info.Records)
	fmt.Fprintf(out, "Created:   %s\n", info.Created.Format(time.RFC3339))
	fmt.Fprintf(out, "Modified:  %s\n", info.Modified.Format(time.RFC3339))

	if cfg.Keyring {
		if keyring.HasPassphrase(info.StoreID) {
			fmt.Fprintln(out, "Keyring:   password stored")
		} else {
			fmt.Fprintln(out, "Keyring:   not stored")
		}
	}

	if !info.Encrypted {
		if warning := git.CheckPlaintext(path); warning != "" {
			fmt.Fprint(out, "\nGit Integration:\n")
			color.New(color.FgYellow).Fprint(out, warning)
		}
	}
	return nil
}
