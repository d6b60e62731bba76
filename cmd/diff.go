package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/illarion/pswdb/internal/config"
	"github.com/illarion/pswdb/internal/diff"
	"github.com/illarion/pswdb/internal/table"
)

var (
	diffReveal bool
	diffFull   bool
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare the database contents with a CSV file",
	Long: `Shows entries that are only in the database (-) or only in the CSV
file (+). Passwords are masked unless --reveal is given, so entries that
differ only in their password are shown as equal.`,
	Example: `  pswdb diff --db p.db --csv export.csv`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return Diff(cmd, cfg.DB, cfg.CSV, diffReveal, diffFull)
	},
}

func init() {
	diffCmd.Flags().BoolVar(&diffReveal, "reveal", false, "compare and show passwords")
	diffCmd.Flags().BoolVar(&diffFull, "full", false, "also show unchanged entries")
	rootCmd.AddCommand(diffCmd)
}

// Diff compares the database at dbPath with the CSV file at csvPath.
func Diff(cmd *cobra.Command, dbPath, csvPath string, reveal, full bool) error {
	if csvPath == "" {
		return fmt.Errorf("%w: diff requires --csv", config.ErrMissingPath)
	}

	local, err := table.LoadCSV(csvPath)
	if err != nil {
		return err
	}

	s := newSession(cmd)
	defer s.Close()
	if err := s.OpenExisting(dbPath, passphraseFor(cmd, dbPath)); err != nil {
		return err
	}
	rows, err := s.Store().ReadAll()
	if err != nil {
		return err
	}

	res, err := diff.Tables(table.New(rows...), local, reveal)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !res.Changed() {
		fmt.Fprintln(out, "No differences")
		return nil
	}

	for _, line := range strings.SplitAfter(diff.Format(res, dbPath, csvPath, full), "\n") {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			color.New(color.Bold).Fprint(out, line)
		case strings.HasPrefix(line, "-"):
			color.New(color.FgRed).Fprint(out, line)
		case strings.HasPrefix(line, "+"):
			color.New(color.FgGreen).Fprint(out, line)
		default:
			fmt.Fprint(out, line)
		}
	}
	return nil
}
