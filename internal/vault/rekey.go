package vault

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/illarion/pswdb/internal/crypto"
	"github.com/illarion/pswdb/internal/security"
	"github.com/illarion/pswdb/internal/storage"
)

// Rekey exports the store to encrypted_<name> next to it, keyed by newKey,
// and returns the new path. The source store is not modified.
func (s *Store) Rekey(newKey []byte) (string, error) {
	if len(newKey) == 0 {
		return "", ErrEmptyKey
	}
	return s.export(EncryptedPrefix, newKey)
}

// Dekey exports the store to decrypted_<name> next to it without encryption
// and returns the new path. The source store is not modified.
func (s *Store) Dekey() (string, error) {
	return s.export(DecryptedPrefix, nil)
}

// export attaches a sibling file, copies every bucket into it re-sealed under
// key, then detaches. On failure the sibling file is removed.
func (s *Store) export(prefix string, key []byte) (string, error) {
	target, err := security.SiblingPath(s.path, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to derive target path: %w", err)
	}

	attachment, err := storage.Attach(target)
	if err != nil {
		if errors.Is(err, storage.ErrExists) {
			return "", fmt.Errorf("%s: %w", target, ErrAlreadyExists)
		}
		return "", err
	}

	kdf, err := crypto.NewKDF()
	if err != nil {
		attachment.Discard()
		return "", fmt.Errorf("failed to create KDF: %w", err)
	}
	sealer := kdf.NewSealer(key)
	defer sealer.Destroy()

	meta, err := newMeta(kdf, sealer)
	if err != nil {
		attachment.Discard()
		return "", err
	}
	meta.Created = s.meta.Created

	reseal := func(bucket, _, value []byte) ([]byte, error) {
		if !bytes.Equal(bucket, storage.PasswordsBucket) {
			return value, nil
		}
		plain, err := s.sealer.Open(value)
		if err != nil {
			return nil, err
		}
		defer crypto.ClearBytes(plain)
		return sealer.Seal(plain)
	}

	if err := s.db.Export(attachment, meta, reseal); err != nil {
		attachment.Discard()
		return "", fmt.Errorf("failed to export store: %w", err)
	}

	if err := attachment.Detach(); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("failed to detach %s: %w", target, err)
	}

	return target, nil
}
