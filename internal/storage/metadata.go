package storage

import (
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// FormatVersion is written to every new store.
const FormatVersion = "1"

// Meta is the unencrypted header of a store.
type Meta struct {
	Format     string
	Created    time.Time
	Modified   time.Time
	Salt       []byte
	Iterations uint32
	Check      []byte // check value sealed under the store key
	StoreID    string
	Encrypted  bool
}

// put writes every meta field into bucket b.
func (m *Meta) put(b *bolt.Bucket) error {
	created, err := m.Created.MarshalBinary()
	if err != nil {
		return err
	}
	modified, err := m.Modified.MarshalBinary()
	if err != nil {
		return err
	}
	iters := make([]byte, 4)
	binary.BigEndian.PutUint32(iters, m.Iterations)
	encrypted := []byte("0")
	if m.Encrypted {
		encrypted = []byte("1")
	}

	for _, kv := range []struct{ k, v []byte }{
		{MetaFormat, []byte(m.Format)},
		{MetaCreated, created},
		{MetaModified, modified},
		{MetaSalt, m.Salt},
		{MetaIters, iters},
		{MetaCheck, m.Check},
		{MetaStoreID, []byte(m.StoreID)},
		{MetaEncrypted, encrypted},
	} {
		if err := b.Put(kv.k, kv.v); err != nil {
			return fmt.Errorf("failed to write %s: %w", kv.k, err)
		}
	}
	return nil
}

// readMeta decodes meta from bucket b. Slices are copied out of the
// transaction.
func readMeta(b *bolt.Bucket) (*Meta, error) {
	m := &Meta{}

	format := b.Get(MetaFormat)
	if format == nil {
		return nil, ErrNotInitialized
	}
	m.Format = string(format)

	if err := m.Created.UnmarshalBinary(b.Get(MetaCreated)); err != nil {
		return nil, fmt.Errorf("invalid created time: %w", err)
	}
	if err := m.Modified.UnmarshalBinary(b.Get(MetaModified)); err != nil {
		return nil, fmt.Errorf("invalid modified time: %w", err)
	}

	salt := b.Get(MetaSalt)
	if salt == nil {
		return nil, fmt.Errorf("salt not found")
	}
	m.Salt = append([]byte(nil), salt...)

	iters := b.Get(MetaIters)
	if len(iters) != 4 {
		return nil, fmt.Errorf("iterations not found")
	}
	m.Iterations = binary.BigEndian.Uint32(iters)

	check := b.Get(MetaCheck)
	if check == nil {
		return nil, fmt.Errorf("check value not found")
	}
	m.Check = append([]byte(nil), check...)

	m.StoreID = string(b.Get(MetaStoreID))
	m.Encrypted = string(b.Get(MetaEncrypted)) == "1"

	return m, nil
}
