package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/illarion/pswdb/internal/crypto"
	"github.com/illarion/pswdb/internal/storage"
	"github.com/illarion/pswdb/internal/table"
)

const (
	EncryptedPrefix = "encrypted_"
	DecryptedPrefix = "decrypted_"

	checkValue = "pswdb:passwords"
)

var (
	ErrNotFound       = errors.New("store not found")
	ErrAlreadyExists  = errors.New("store already exists")
	ErrAuthentication = errors.New("wrong passphrase")
	ErrNotStore       = errors.New("not a password store")
	ErrEmptyKey       = errors.New("passphrase cannot be empty")
)

// Store is an open, authenticated record store.
type Store struct {
	path   string
	db     *storage.Storage
	meta   *storage.Meta
	sealer crypto.Sealer
}

// Exists reports whether a file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Create makes a new empty store at path keyed by key. An empty key creates
// an unencrypted store.
func Create(path string, key []byte) (*Store, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrAlreadyExists)
	}

	kdf, err := crypto.NewKDF()
	if err != nil {
		return nil, fmt.Errorf("failed to create KDF: %w", err)
	}
	sealer := kdf.NewSealer(key)

	meta, err := newMeta(kdf, sealer)
	if err != nil {
		sealer.Destroy()
		return nil, err
	}

	db, err := storage.Open(path)
	if err != nil {
		sealer.Destroy()
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	if err := db.Initialize(meta); err != nil {
		sealer.Destroy()
		db.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	return &Store{path: path, db: db, meta: meta, sealer: sealer}, nil
}

// Open opens the store at path and authenticates key against it.
func Open(path string, key []byte) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	// A file that is not a store cannot be told apart from a wrong key.
	db, err := storage.Open(path)
	if errors.Is(err, storage.ErrLocked) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w: %v", path, ErrAuthentication, ErrNotStore, err)
	}

	meta, err := db.ReadMeta()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w: %w: %v", path, ErrAuthentication, ErrNotStore, err)
	}

	kdf := &crypto.KDF{Salt: meta.Salt, Iterations: int(meta.Iterations)}
	sealer := kdf.NewSealer(key)

	check, err := sealer.Open(meta.Check)
	if err != nil || !crypto.ConstantTimeCompare(check, []byte(checkValue)) {
		sealer.Destroy()
		db.Close()
		return nil, ErrAuthentication
	}

	return &Store{path: path, db: db, meta: meta, sealer: sealer}, nil
}

// Path returns the store file path.
func (s *Store) Path() string { return s.path }

// ID returns the store identifier, used as the keyring account.
func (s *Store) ID() string { return s.meta.StoreID }

// Encrypted reports whether the store is keyed by a non-empty passphrase.
func (s *Store) Encrypted() bool { return s.sealer.Encrypted() }

// Close releases the file and clears key material.
func (s *Store) Close() error {
	s.sealer.Destroy()
	return s.db.Close()
}

// ReadAll returns every record in storage order.
func (s *Store) ReadAll() ([]table.Record, error) {
	rows, err := s.db.Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	records := make([]table.Record, 0, len(rows))
	for i, row := range rows {
		plain, err := s.sealer.Open(row)
		if err != nil {
			return nil, fmt.Errorf("failed to unseal row %d: %w", i+1, err)
		}

		var r table.Record
		err = json.Unmarshal(plain, &r)
		crypto.ClearBytes(plain)
		if err != nil {
			return nil, fmt.Errorf("failed to decode row %d: %w", i+1, err)
		}
		records = append(records, r)
	}
	return records, nil
}

// ReplaceAll overwrites the whole passwords table with records, atomically.
func (s *Store) ReplaceAll(records []table.Record) error {
	rows := make([][]byte, 0, len(records))
	for i, r := range records {
		plain, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to encode row %d: %w", i+1, err)
		}

		sealed, err := s.sealer.Seal(plain)
		crypto.ClearBytes(plain)
		if err != nil {
			return fmt.Errorf("failed to seal row %d: %w", i+1, err)
		}
		rows = append(rows, sealed)
	}

	if err := s.db.ReplaceRows(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// Compact reclaims space left behind by full-table replaces.
func (s *Store) Compact() error {
	return s.db.Compact()
}

func newMeta(kdf *crypto.KDF, sealer crypto.Sealer) (*storage.Meta, error) {
	check, err := sealer.Seal([]byte(checkValue))
	if err != nil {
		return nil, fmt.Errorf("failed to seal check value: %w", err)
	}

	now := time.Now()
	return &storage.Meta{
		Format:     storage.FormatVersion,
		Created:    now,
		Modified:   now,
		Salt:       kdf.Salt,
		Iterations: uint32(kdf.Iterations),
		Check:      check,
		StoreID:    uuid.NewString(),
		Encrypted:  sealer.Encrypted(),
	}, nil
}
