package session

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/exp/slog"

	"github.com/illarion/pswdb/internal/crypto"
	"github.com/illarion/pswdb/internal/git"
	"github.com/illarion/pswdb/internal/table"
	"github.com/illarion/pswdb/internal/vault"
)

// MaxAttempts is the number of consecutive wrong prompted passphrases
// tolerated before the session is rejected.
const MaxAttempts = 3

// State is the authentication state of a session.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Open
	Closed
	Rejected
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticating:
		return "authenticating"
	case Open:
		return "open"
	case Closed:
		return "closed"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrRejected             = errors.New("authentication rejected")
	ErrConfirmationMismatch = errors.New("passwords don't match")
	ErrNoTable              = errors.New("no password list loaded")
	ErrNoStore              = errors.New("no database open")
)

// AuthenticatedFunc is called after a store was opened or created, while the
// key is still available. It must not retain key.
type AuthenticatedFunc func(store *vault.Store, key []byte, origin Origin)

// Options configures a Session.
type Options struct {
	Prompter Prompter
	Out      io.Writer
	Logger   *slog.Logger
	// NoAsk skips confirmation questions.
	NoAsk bool
	// OnAuthenticated, when set, is called after every successful open/create.
	OnAuthenticated AuthenticatedFunc
}

// Session is the context every operation works on: the loaded password list,
// the open store and the authentication state.
type Session struct {
	prompter        Prompter
	out             io.Writer
	log             *slog.Logger
	noAsk           bool
	onAuthenticated AuthenticatedFunc

	table    *table.Table
	store    *vault.Store
	csvPath  string
	dbPath   string
	state    State
	failures int
}

// New creates a session with nothing loaded.
func New(opts Options) *Session {
	s := &Session{
		prompter:        opts.Prompter,
		out:             opts.Out,
		log:             opts.Logger,
		noAsk:           opts.NoAsk,
		onAuthenticated: opts.OnAuthenticated,
	}
	if s.prompter == nil {
		s.prompter = NewTerminal()
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Session) State() State { return s.state }
func (s *Session) Failures() int { return s.failures }
func (s *Session) Table() *table.Table { return s.table }
func (s *Session) Store() *vault.Store { return s.store }
func (s *Session) CSVPath() string { return s.csvPath }
func (s *Session) DBPath() string { return s.dbPath }
func (s *Session) NoAsk() bool { return s.noAsk }
func (s *Session) Prompter() Prompter { return s.prompter }
func (s *Session) SetTable(t *table.Table) { s.table = t }

// Close closes the open store, if any.
func (s *Session) Close() error {
	if s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	s.state = Closed
	return err
}

// OpenStore opens the store at path, creating it when the file does not exist.
func (s *Session) OpenStore(path string, pass Passphrase) error {
	if !vault.Exists(path) {
		return s.create(path, pass)
	}
	return s.authenticate(path, pass)
}

// OpenExisting opens the store at path and fails with vault.ErrNotFound when
// it does not exist.
func (s *Session) OpenExisting(path string, pass Passphrase) error {
	if !vault.Exists(path) {
		return fmt.Errorf("%s: %w", path, vault.ErrNotFound)
	}
	return s.authenticate(path, pass)
}

func (s *Session) create(path string, pass Passphrase) error {
	if err := s.Close(); err != nil {
		return err
	}
	s.state = Unauthenticated

	key, err := s.newPassphrase(pass, "Type the new database password (empty for no password): ", true)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(key)

	store, err := vault.Create(path, key)
	if err != nil {
		return err
	}
	s.log.Info("store created", "path", path, "encrypted", store.Encrypted())

	s.opened(store, path, key, pass.Origin())
	return nil
}

func (s *Session) authenticate(path string, pass Passphrase) error {
	if err := s.Close(); err != nil {
		return err
	}
	s.state = Authenticating
	s.failures = 0

	for {
		key, err := pass.read(s.prompter, "Type the database password: ")
		if err != nil {
			s.state = Unauthenticated
			return err
		}

		store, err := vault.Open(path, key)
		if err == nil {
			s.opened(store, path, key, pass.Origin())
			crypto.ClearBytes(key)
			return nil
		}
		crypto.ClearBytes(key)

		if !errors.Is(err, vault.ErrAuthentication) {
			s.state = Unauthenticated
			return err
		}

		if pass.Origin() == OriginKeyring {
			s.log.Warn("stored passphrase rejected, prompting", "path", path)
			s.fail("Stored password is out of date.")
			pass = Prompt()
			continue
		}

		s.failures++
		s.log.Warn("authentication failed", "path", path, "attempt", s.failures, "origin", pass.Origin())

		if !pass.Interactive() || s.failures >= MaxAttempts {
			s.state = Rejected
			return fmt.Errorf("%w after %d failed attempt(s): %w", ErrRejected, s.failures, vault.ErrAuthentication)
		}
		s.fail("Wrong Password. Try again.")
	}
}

func (s *Session) opened(store *vault.Store, path string, key []byte, origin Origin) {
	s.store = store
	s.dbPath = path
	s.state = Open
	s.log.Info("store opened", "path", path, "origin", origin)
	if s.onAuthenticated != nil {
		s.onAuthenticated(store, key, origin)
	}
}

// step prints "<label>..." and returns a function that finishes the line.
func (s *Session) step(label string) func(err error) {
	fmt.Fprintf(s.out, "%s...", label)
	return func(err error) {
		if err != nil {
			color.New(color.FgRed).Fprintln(s.out, "failed")
			return
		}
		color.New(color.FgGreen).Fprintln(s.out, "ok")
	}
}

func (s *Session) fail(msg string) {
	color.New(color.FgRed).Fprintln(s.out, msg)
}

// warnPlaintext prints git warnings for a file holding unencrypted passwords.
func (s *Session) warnPlaintext(path string) {
	if warning := git.CheckPlaintext(path); warning != "" {
		color.New(color.FgYellow).Fprint(s.out, warning)
	}
}
