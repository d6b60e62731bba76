package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	MetaBucket      = []byte("meta")      // Store header - unencrypted
	PasswordsBucket = []byte("passwords") // Sealed rows
)

// Meta keys
var (
	MetaFormat    = []byte("format")
	MetaCreated   = []byte("created")
	MetaModified  = []byte("modified")
	MetaSalt      = []byte("salt")
	MetaIters     = []byte("iterations")
	MetaCheck     = []byte("check")
	MetaStoreID   = []byte("store_id")
	MetaEncrypted = []byte("encrypted")
)

const filePerm = 0600

var (
	ErrNotInitialized = errors.New("store not initialized")
	ErrExists         = errors.New("file already exists")
	ErrEmptyFile      = errors.New("empty file")
	ErrLocked         = errors.New("database is in use")
)

// Storage provides BBolt-based storage for a record store.
type Storage struct {
	db *bolt.DB
}

// Open opens a store file, creating it if none exists. An existing empty
// file is refused rather than formatted.
func Open(path string) (*Storage, error) {
	return open(path, &bolt.Options{Timeout: time.Second})
}

// OpenReadOnly opens an existing store file without write access.
func OpenReadOnly(path string) (*Storage, error) {
	return open(path, &bolt.Options{Timeout: time.Second, ReadOnly: true})
}

func open(path string, opts *bolt.Options) (*Storage, error) {
	if stat, err := os.Stat(path); err == nil && stat.Size() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyFile)
	}

	db, err := bolt.Open(path, filePerm, opts)
	if errors.Is(err, bolt.ErrTimeout) {
		return nil, fmt.Errorf("%s: %w", path, ErrLocked)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Storage) Path() string {
	return s.db.Path()
}

// Initialize creates the bucket structure and writes meta.
func (s *Storage) Initialize(meta *Meta) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{MetaBucket, PasswordsBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return meta.put(tx.Bucket(MetaBucket))
	})
}

// IsInitialized checks if the database has been initialized.
func (s *Storage) IsInitialized() (bool, error) {
	var initialized bool
	err := s.db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(MetaBucket)
		if meta != nil && meta.Get(MetaFormat) != nil {
			initialized = true
		}
		return nil
	})
	return initialized, err
}

// ReadMeta returns the store header.
func (s *Storage) ReadMeta() (*Meta, error) {
	var meta *Meta
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(MetaBucket)
		if b == nil {
			return ErrNotInitialized
		}
		var err error
		meta, err = readMeta(b)
		return err
	})
	return meta, err
}

// ReplaceRows drops every row and writes rows in order, in one transaction.
func (s *Storage) ReplaceRows(rows [][]byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(PasswordsBucket) != nil {
			if err := tx.DeleteBucket(PasswordsBucket); err != nil {
				return fmt.Errorf("failed to drop rows: %w", err)
			}
		}
		b, err := tx.CreateBucket(PasswordsBucket)
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", PasswordsBucket, err)
		}

		for _, row := range rows {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			if err := b.Put(sequenceKey(seq), row); err != nil {
				return fmt.Errorf("failed to write row %d: %w", seq, err)
			}
		}

		return touch(tx)
	})
}

// Rows returns every row in storage order.
func (s *Storage) Rows() ([][]byte, error) {
	var rows [][]byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(PasswordsBucket)
		if b == nil {
			return fmt.Errorf("%s bucket not found", PasswordsBucket)
		}
		return b.ForEach(func(_, v []byte) error {
			// Make a copy since the slice is only valid during the transaction
			rows = append(rows, append([]byte(nil), v...))
			return nil
		})
	})
	return rows, err
}

// RowCount returns the number of rows without reading them.
func (s *Storage) RowCount() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(PasswordsBucket)
		if b == nil {
			return fmt.Errorf("%s bucket not found", PasswordsBucket)
		}
		n = b.Stats().KeyN
		return nil
	})
	return n, err
}

func touch(tx *bolt.Tx) error {
	meta := tx.Bucket(MetaBucket)
	if meta == nil {
		return ErrNotInitialized
	}
	modified, err := time.Now().MarshalBinary()
	if err != nil {
		return err
	}
	return meta.Put(MetaModified, modified)
}

func sequenceKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
