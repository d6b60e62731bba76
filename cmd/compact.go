package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/illarion/pswdb/internal/vault"
)

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Compact the database to reclaim unused disk space",
	Long: `Rewrites the database file without the free pages left behind by
full overwrites.

Does not require a password.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return Compact(cmd, cfg.DB)
	},
}

func init() {
	rootCmd.AddCommand(compactCmd)
}

// Compact compacts the database at path and prints the size change.
func Compact(cmd *cobra.Command, path string) error {
	info, err := vault.Inspect(path)
	if err != nil {
		return err
	}
	sizeBefore := info.Size

	if err := vault.CompactFile(path); err != nil {
		return err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return err
	}
	sizeAfter := stat.Size()

	log.Info("store compacted", "path", path, "before", sizeBefore, "after", sizeAfter)
	fmt.Fprintf(cmd.OutOrStdout(), "Compacted: %s -> %s\n", formatSize(sizeBefore), formatSize(sizeAfter))
	return nil
}
