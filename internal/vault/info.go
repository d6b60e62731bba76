package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/illarion/pswdb/internal/storage"
)

// Info describes a store without needing its passphrase.
type Info struct {
	Path      string
	StoreID   string
	Created   time.Time
	Modified  time.Time
	Encrypted bool
	Records   int
	Size      int64
}

// Inspect reads the unencrypted header of the store at path.
func Inspect(path string) (*Info, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, err
	}

	db, err := storage.OpenReadOnly(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrNotStore, err)
	}
	defer db.Close()

	return describe(db, stat.Size())
}

// Info describes the open store.
func (s *Store) Info() (*Info, error) {
	stat, err := os.Stat(s.path)
	if err != nil {
		return nil, err
	}
	return describe(s.db, stat.Size())
}

func describe(db *storage.Storage, size int64) (*Info, error) {
	meta, err := db.ReadMeta()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", db.Path(), ErrNotStore, err)
	}

	count, err := db.RowCount()
	if err != nil {
		return nil, err
	}

	return &Info{
		Path:      db.Path(),
		StoreID:   meta.StoreID,
		Created:   meta.Created,
		Modified:  meta.Modified,
		Encrypted: meta.Encrypted,
		Records:   count,
		Size:      size,
	}, nil
}

// CompactFile compacts the store at path without authenticating.
func CompactFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return err
	}

	db, err := storage.Open(path)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", path, ErrNotStore, err)
	}
	defer db.Close()

	if ok, err := db.IsInitialized(); err != nil || !ok {
		return fmt.Errorf("%s: %w", path, ErrNotStore)
	}
	return db.Compact()
}

// StoreID returns the identifier of the store at path without authenticating.
func StoreID(path string) (string, error) {
	info, err := Inspect(path)
	if err != nil {
		return "", err
	}
	return info.StoreID, nil
}
