package session

import (
	"errors"
	"fmt"

	"github.com/illarion/pswdb/internal/crypto"
	"github.com/illarion/pswdb/internal/table"
	"github.com/illarion/pswdb/internal/vault"
)

// ImportCSV replaces the session table with the contents of the CSV at path.
func (s *Session) ImportCSV(path string) error {
	done := s.step("Reading")
	t, err := table.LoadCSV(path)
	done(err)
	if err != nil {
		return err
	}
	s.table = t
	s.csvPath = path
	s.log.Info("csv imported", "path", path, "rows", t.Len())
	return nil
}

// ExportCSV writes the session table to path as CSV.
func (s *Session) ExportCSV(path string) error {
	if s.table == nil {
		return ErrNoTable
	}
	done := s.step("Writing")
	err := s.table.SaveCSV(path)
	done(err)
	if err != nil {
		return err
	}
	s.csvPath = path
	s.log.Info("csv exported", "path", path, "rows", s.table.Len())
	s.warnPlaintext(path)
	return nil
}

// RemoveEmpty drops rows without a password. With ask set the affected rows
// are listed and the user may decline.
func (s *Session) RemoveEmpty(ask bool) (int, error) {
	if s.table == nil {
		return 0, ErrNoTable
	}
	if ask {
		rows := s.table.EmptyPasswordRows()
		ok, err := confirmed(s.prompter, fmt.Sprintf("%d empty passwords entries were found:\nRows = %v\nDo you want to remove them?", len(rows), rows))
		if err != nil {
			return 0, err
		}
		if !ok {
			fmt.Fprintln(s.out, "Not removing them.")
			return 0, nil
		}
	}

	done := s.step("Removing empty passwords")
	n := s.table.DropEmptyPasswords()
	done(nil)
	s.log.Debug("empty passwords removed", "count", n)
	return n, nil
}

// RemoveDuplicates drops rows repeating an earlier (name, username, password)
// triple. With ask set the affected rows are listed and the user may decline.
func (s *Session) RemoveDuplicates(ask bool) (int, error) {
	if s.table == nil {
		return 0, ErrNoTable
	}
	if ask {
		rows := s.table.DuplicateRows()
		ok, err := confirmed(s.prompter, fmt.Sprintf("%d duplicated entries were found:\nRows = %v\nDo you want to remove them?", len(rows), rows))
		if err != nil {
			return 0, err
		}
		if !ok {
			fmt.Fprintln(s.out, "Not removing them.")
			return 0, nil
		}
	}

	done := s.step("Removing duplicated entries")
	n := s.table.DropDuplicates()
	done(nil)
	s.log.Debug("duplicates removed", "count", n)
	return n, nil
}

// Sort orders the session table by name.
func (s *Session) Sort(ask bool) error {
	if s.table == nil {
		return ErrNoTable
	}
	if ask {
		ok, err := confirmed(s.prompter, "Do you want to sort the list by name?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(s.out, "Not sorting it.")
			return nil
		}
	}

	done := s.step("Sorting")
	s.table.SortByName()
	done(nil)
	return nil
}

// AddEntry reads a new record from the prompter, appends it and sorts the
// table. An empty session table is started when none is loaded.
func (s *Session) AddEntry() error {
	fmt.Fprintln(s.out, "Adding new entry:")

	var r table.Record
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Enter the name: ", &r.Name},
		{"Enter the url: ", &r.URL},
		{"Enter the username: ", &r.Username},
	}
	for _, f := range fields {
		v, err := s.prompter.ReadLine(f.prompt)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	password, err := s.prompter.ReadPassword("Enter the password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	r.Password = string(password)
	crypto.ClearBytes(password)

	if s.table == nil {
		s.table = table.New()
	}
	done := s.step("Adding")
	s.table.Append(r)
	done(nil)

	return s.Sort(!s.noAsk)
}

// WriteStore overwrites the store contents with the session table.
func (s *Session) WriteStore() error {
	if err := s.requireOpen(); err != nil {
		return err
	}
	if s.table == nil {
		return ErrNoTable
	}
	done := s.step("Writing")
	err := s.store.ReplaceAll(s.table.Rows())
	done(err)
	if err != nil {
		return err
	}
	s.log.Info("store written", "path", s.dbPath, "rows", s.table.Len())
	return nil
}

// ReadStore replaces the session table with the store contents.
func (s *Session) ReadStore() error {
	if err := s.requireOpen(); err != nil {
		return err
	}
	done := s.step("Reading")
	rows, err := s.store.ReadAll()
	done(err)
	if err != nil {
		return err
	}
	s.table = table.New(rows...)
	s.log.Info("store read", "path", s.dbPath, "rows", len(rows))
	return nil
}

// Encrypt writes an encrypted copy of the open store next to it and returns
// its path. A prompted passphrase is asked twice and must not be empty.
func (s *Session) Encrypt(pass Passphrase) (string, error) {
	if err := s.requireOpen(); err != nil {
		return "", err
	}
	key, err := s.newPassphrase(pass, "Type the new password: ", false)
	if err != nil {
		return "", err
	}
	defer crypto.ClearBytes(key)

	done := s.step("Adding encryption")
	path, err := s.store.Rekey(key)
	done(err)
	if err != nil {
		return "", err
	}
	s.log.Info("encrypted copy written", "source", s.dbPath, "path", path)
	return path, nil
}

// Decrypt writes an unencrypted copy of the open store next to it and
// returns its path.
func (s *Session) Decrypt() (string, error) {
	if err := s.requireOpen(); err != nil {
		return "", err
	}
	done := s.step("Removing encryption")
	path, err := s.store.Dekey()
	done(err)
	if err != nil {
		return "", err
	}
	s.log.Info("decrypted copy written", "source", s.dbPath, "path", path)
	s.warnPlaintext(path)
	return path, nil
}

// CSVToDatabase imports csvPath, cleans it and writes it to the store at
// dbPath, creating the store when needed. No questions are asked.
func (s *Session) CSVToDatabase(csvPath, dbPath string, pass Passphrase) error {
	if err := s.ImportCSV(csvPath); err != nil {
		return err
	}
	if err := s.OpenStore(dbPath, pass); err != nil {
		return err
	}
	if _, err := s.RemoveEmpty(false); err != nil {
		return err
	}
	if _, err := s.RemoveDuplicates(false); err != nil {
		return err
	}
	if err := s.Sort(false); err != nil {
		return err
	}
	return s.WriteStore()
}

// DatabaseToCSV reads the existing store at dbPath and exports it to csvPath.
func (s *Session) DatabaseToCSV(dbPath, csvPath string, pass Passphrase) error {
	if err := s.OpenExisting(dbPath, pass); err != nil {
		return err
	}
	if err := s.ReadStore(); err != nil {
		return err
	}
	return s.ExportCSV(csvPath)
}

func (s *Session) requireOpen() error {
	if s.store == nil || s.state != Open {
		return ErrNoStore
	}
	return nil
}

// IsRecoverable reports whether a menu loop may continue after err. Rejected
// authentication and unreadable input files end the run.
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}
	var schemaErr *table.SchemaError
	switch {
	case errors.Is(err, ErrRejected),
		errors.Is(err, table.ErrNotFound),
		errors.Is(err, vault.ErrNotFound),
		errors.As(err, &schemaErr):
		return false
	}
	return true
}
