// Package config loads pswdb settings from flags, environment, a .env file
// and an optional YAML config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix        = "PSWDB"
	EnvPassphrase    = EnvPrefix + "_PASSPHRASE"
	EnvNewPassphrase = EnvPrefix + "_NEW_PASSPHRASE"

	// PassphraseNone as a passphrase value means "no encryption".
	PassphraseNone = "None"

	defaultDB        = "passwords.db"
	defaultLogLevel  = "warn"
	defaultConfigDir = ".pswdb"
	envPath          = ".env"
)

// Keys understood in the config file and as PSWDB_* variables.
const (
	KeyDB       = "db"
	KeyCSV      = "csv"
	KeyNoAsk    = "no_ask"
	KeyLogLevel = "log_level"
	KeyKeyring  = "keyring"
)

var (
	ErrInvalidMode = errors.New("invalid mode")
	ErrMissingPath = errors.New("missing path")
)

// Mode is the kind of run requested on the command line.
type Mode int

const (
	ModeInteractive Mode = iota
	ModeCSVToDatabase
	ModeDatabaseToCSV
	ModeEncrypt
	ModeDecrypt
)

func (m Mode) String() string {
	switch m {
	case ModeInteractive:
		return "interactive"
	case ModeCSVToDatabase:
		return "csv-to-database"
	case ModeDatabaseToCSV:
		return "database-to-csv"
	case ModeEncrypt:
		return "encrypt"
	case ModeDecrypt:
		return "decrypt"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ModeFlags are the mutually exclusive batch switches.
type ModeFlags struct {
	CSVToDatabase bool
	DatabaseToCSV bool
	Encrypt       bool
	Decrypt       bool
}

// Mode returns the selected mode. Selecting more than one is an error.
func (f ModeFlags) Mode() (Mode, error) {
	var selected []Mode
	if f.CSVToDatabase {
		selected = append(selected, ModeCSVToDatabase)
	}
	if f.DatabaseToCSV {
		selected = append(selected, ModeDatabaseToCSV)
	}
	if f.Encrypt {
		selected = append(selected, ModeEncrypt)
	}
	if f.Decrypt {
		selected = append(selected, ModeDecrypt)
	}

	switch len(selected) {
	case 0:
		return ModeInteractive, nil
	case 1:
		return selected[0], nil
	default:
		names := make([]string, len(selected))
		for i, m := range selected {
			names[i] = "--" + m.String()
		}
		return ModeInteractive, fmt.Errorf("%w: %s cannot be combined", ErrInvalidMode, strings.Join(names, ", "))
	}
}

// Config is the resolved run configuration.
type Config struct {
	DB       string `mapstructure:"db"`
	CSV      string `mapstructure:"csv"`
	NoAsk    bool   `mapstructure:"no_ask"`
	LogLevel string `mapstructure:"log_level"`
	Keyring  bool   `mapstructure:"keyring"`
	Mode     Mode   `mapstructure:"-"`
}

// Validate checks that the mode has the paths it needs.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeInteractive:
		return nil
	case ModeCSVToDatabase, ModeDatabaseToCSV:
		if c.CSV == "" {
			return fmt.Errorf("%w: --%s requires --csv", ErrMissingPath, c.Mode)
		}
		if c.DB == "" {
			return fmt.Errorf("%w: --%s requires --db", ErrMissingPath, c.Mode)
		}
		return nil
	case ModeEncrypt, ModeDecrypt:
		if c.DB == "" {
			return fmt.Errorf("%w: --%s requires --db", ErrMissingPath, c.Mode)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidMode, c.Mode)
	}
}

// Load reads the configuration into a Config. Flags bound to v before the
// call take precedence over everything else. cfgFile may be empty, in which
// case ~/.pswdb/config.yaml and ./config.yaml are tried.
func Load(v *viper.Viper, cfgFile string, mode Mode) (*Config, error) {
	// Load .env file if present
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault(KeyDB, defaultDB)
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeyKeyring, true)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, defaultConfigDir))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		DB:       v.GetString(KeyDB),
		CSV:      v.GetString(KeyCSV),
		NoAsk:    v.GetBool(KeyNoAsk),
		LogLevel: v.GetString(KeyLogLevel),
		Keyring:  v.GetBool(KeyKeyring),
		Mode:     mode,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Secret is a passphrase given up front.
type Secret struct {
	Value  []byte
	Set    bool
	Source string // "flag" or "env"
}

// LookupSecret resolves a passphrase from a flag value, falling back to the
// environment variable env. The value "None" means the empty passphrase.
func LookupSecret(flagValue string, flagSet bool, env string) Secret {
	if flagSet {
		return Secret{Value: secretValue(flagValue), Set: true, Source: "flag"}
	}
	if value, ok := os.LookupEnv(env); ok {
		return Secret{Value: secretValue(value), Set: true, Source: "env"}
	}
	return Secret{}
}

func secretValue(s string) []byte {
	if s == PassphraseNone {
		return []byte{}
	}
	return []byte(s)
}
