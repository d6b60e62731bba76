package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"

	"github.com/illarion/pswdb/internal/config"
	"github.com/illarion/pswdb/internal/logger"
	"github.com/illarion/pswdb/internal/session"
)

// Version is printed by -v/--version.
const Version = "Passwords Database v1.0"

var (
	cfgFile       string
	debug         bool
	passphrase    string
	newPassphrase string
	defaultAlias  bool
	modeFlags     config.ModeFlags

	v   = viper.New()
	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pswdb",
	Short: "Manage a password list stored as CSV or in an encrypted database",
	Long: `pswdb imports and exports password lists as CSV, cleans them (empty
passwords, duplicated entries, sorting by name) and keeps them in a local
database file that is encrypted with a passphrase.

Without a mode flag an interactive menu is opened.`,
	Example: `  pswdb                                          # interactive menu
  pswdb --csv export.csv --db p.db --csv-to-database
  pswdb --db p.db --csv out.csv --database-to-csv -p None
  pswdb --db p.db --encrypt                      # writes encrypted_p.db`,
	Version:           Version,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runRoot,
}

// Execute runs the command line and exits non-zero on failure.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		HandleError(err)
	}
}

func init() {
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.String("csv", "", "CSV file name")
	pf.String("db", "", "database file name (default \"passwords.db\")")
	pf.Bool("no-ask", false, "do not ask for confirmations")
	pf.StringVarP(&passphrase, "passphrase", "p", "", "database passphrase, \"None\" for no passphrase")
	pf.StringVar(&newPassphrase, "new-passphrase", "", "passphrase for --encrypt")
	pf.StringVar(&cfgFile, "config", "", "config file (default ~/.pswdb/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "enable debug logging")

	for key, flag := range map[string]string{
		config.KeyCSV:   "csv",
		config.KeyDB:    "db",
		config.KeyNoAsk: "no-ask",
	} {
		if err := v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	f := rootCmd.Flags()
	f.BoolVar(&modeFlags.CSVToDatabase, "csv-to-database", false, "read --csv, remove empty and duplicated entries, sort by name and write --db")
	f.BoolVar(&defaultAlias, "default", false, "alias for --csv-to-database")
	f.BoolVar(&modeFlags.DatabaseToCSV, "database-to-csv", false, "read --db and write it to --csv")
	f.BoolVar(&modeFlags.Encrypt, "encrypt", false, "write an encrypted copy of --db")
	f.BoolVar(&modeFlags.Decrypt, "decrypt", false, "write an unencrypted copy of --db")
}

func setup(cmd *cobra.Command, _ []string) error {
	mode := config.ModeInteractive
	if !cmd.HasParent() {
		flags := modeFlags
		flags.CSVToDatabase = flags.CSVToDatabase || defaultAlias
		var err error
		if mode, err = flags.Mode(); err != nil {
			return err
		}
	}

	var err error
	cfg, err = config.Load(v, cfgFile, mode)
	if err != nil {
		return err
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	log = logger.New(cfg.LogLevel)
	log.Debug("config loaded", "mode", cfg.Mode, "db", cfg.DB, "csv", cfg.CSV)
	return nil
}

func runRoot(cmd *cobra.Command, _ []string) error {
	s := newSession(cmd)
	defer s.Close()

	switch cfg.Mode {
	case config.ModeInteractive:
		return runMenu(cmd.Context(), cmd, s)

	case config.ModeCSVToDatabase:
		return s.CSVToDatabase(cfg.CSV, cfg.DB, passphraseFor(cmd, cfg.DB))

	case config.ModeDatabaseToCSV:
		return s.DatabaseToCSV(cfg.DB, cfg.CSV, passphraseFor(cmd, cfg.DB))

	case config.ModeEncrypt:
		if err := s.OpenExisting(cfg.DB, passphraseFor(cmd, cfg.DB)); err != nil {
			return err
		}
		path, err := s.Encrypt(newPassphraseFor(cmd))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Encrypted copy written to %s\n", path)
		return nil

	case config.ModeDecrypt:
		if err := s.OpenExisting(cfg.DB, passphraseFor(cmd, cfg.DB)); err != nil {
			return err
		}
		path, err := s.Decrypt()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Unencrypted copy written to %s\n", path)
		return nil

	default:
		return fmt.Errorf("%w: %s", config.ErrInvalidMode, cfg.Mode)
	}
}

func newSession(cmd *cobra.Command, opts ...func(*session.Options)) *session.Session {
	o := session.Options{
		Prompter: session.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
		Out:      cmd.OutOrStdout(),
		Logger:   log,
		NoAsk:    cfg.NoAsk,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return session.New(o)
}
