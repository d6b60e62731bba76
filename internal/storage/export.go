package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"
)

// ExportFunc maps a value read from the source into the value written to the
// attachment.
type ExportFunc func(bucket, key, value []byte) ([]byte, error)

// Attachment is a second database opened next to a store as an export target.
type Attachment struct {
	db *bolt.DB
}

// Attach creates a new database at path to export into. The file must not
// exist yet.
func Attach(path string) (*Attachment, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	db, err := bolt.Open(path, filePerm, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to attach database: %w", err)
	}
	return &Attachment{db: db}, nil
}

// Path returns the attachment file path.
func (a *Attachment) Path() string {
	return a.db.Path()
}

// Detach closes the attachment.
func (a *Attachment) Detach() error {
	return a.db.Close()
}

// Discard closes the attachment and removes its file.
func (a *Attachment) Discard() {
	path := a.db.Path()
	a.db.Close()
	os.Remove(path)
}

// Export copies every bucket of s into dst in a single write transaction on
// dst, passing each value through fn. Keys and bucket sequences are kept.
// A non-nil meta replaces the copied header.
func (s *Storage) Export(dst *Attachment, meta *Meta, fn ExportFunc) error {
	return s.db.View(func(srcTx *bolt.Tx) error {
		return dst.db.Update(func(dstTx *bolt.Tx) error {
			if err := copyBuckets(srcTx, dstTx, fn); err != nil {
				return err
			}
			if meta == nil {
				return nil
			}
			b, err := dstTx.CreateBucketIfNotExists(MetaBucket)
			if err != nil {
				return err
			}
			return meta.put(b)
		})
	})
}

func copyBuckets(srcTx, dstTx *bolt.Tx, fn ExportFunc) error {
	return srcTx.ForEach(func(name []byte, srcBucket *bolt.Bucket) error {
		dstBucket, err := dstTx.CreateBucketIfNotExists(name)
		if err != nil {
			return err
		}
		if err := dstBucket.SetSequence(srcBucket.Sequence()); err != nil {
			return err
		}
		return srcBucket.ForEach(func(k, v []byte) error {
			if v == nil {
				return nil // nested buckets are not used
			}
			if fn != nil {
				if v, err = fn(name, k, v); err != nil {
					return fmt.Errorf("%s/%s: %w", name, k, err)
				}
			}
			return dstBucket.Put(k, v)
		})
	})
}

// rename is swapped in tests.
var rename = os.Rename

// Compact rewrites the database into a fresh file, removing unused space.
// This is useful after full-table replaces. On failure the original file is
// left in place and reopened.
func (s *Storage) Compact() error {
	srcPath := s.db.Path()
	tmpPath := srcPath + ".compact"

	dst, err := Attach(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}

	if err := s.Export(dst, nil, nil); err != nil {
		dst.Discard()
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := dst.Detach(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close compact database: %w", err)
	}

	if err := s.db.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close source database: %w", err)
	}

	// Atomic replace
	backupPath := srcPath + ".backup"
	if err := rename(srcPath, backupPath); err != nil {
		os.Remove(tmpPath)
		return s.reopen(srcPath, fmt.Errorf("failed to backup original: %w", err))
	}
	if err := rename(tmpPath, srcPath); err != nil {
		os.Rename(backupPath, srcPath) // rollback
		os.Remove(tmpPath)
		return s.reopen(srcPath, fmt.Errorf("failed to replace database: %w", err))
	}
	os.Remove(backupPath)

	return s.reopen(srcPath, nil)
}

// reopen opens path again after Compact closed it and returns cause, or the
// reopen error when there is no cause.
func (s *Storage) reopen(path string, cause error) error {
	db, err := bolt.Open(path, filePerm, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return errors.Join(cause, fmt.Errorf("failed to reopen database: %w", err))
	}
	s.db = db
	return cause
}
