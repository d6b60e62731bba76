package vault

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illarion/pswdb/internal/table"
)

var sample = []table.Record{
	{Name: "Mail", URL: "mail.com", Username: "a", Password: "p1"},
	{Name: "Bank", URL: "bank.com", Username: "b", Password: ""},
	{Name: "Shop", URL: "shop.com", Username: "c", Password: "p,\"3\""},
}

func createStore(t *testing.T, path string, key string) {
	t.Helper()
	s, err := Create(path, []byte(key))
	require.NoError(t, err)
	require.NoError(t, s.ReplaceAll(sample))
	require.NoError(t, s.Close())
}

func TestCreateThenOpen(t *testing.T) {
	for _, key := range []string{"correct", ""} {
		t.Run("key="+key, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "pw.db")

			s, err := Create(path, []byte(key))
			require.NoError(t, err)
			assert.Equal(t, key != "", s.Encrypted())
			assert.NotEmpty(t, s.ID())
			require.NoError(t, s.Close())

			s, err = Open(path, []byte(key))
			require.NoError(t, err)
			records, err := s.ReadAll()
			require.NoError(t, err)
			assert.Empty(t, records)
			require.NoError(t, s.Close())

			_, err = Open(path, []byte(key+"x"))
			assert.ErrorIs(t, err, ErrAuthentication)
		})
	}
}

func TestOpenEncryptedWithEmptyKeyFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pw.db")
	createStore(t, path, "correct")

	_, err := Open(path, nil)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestCreateRefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pw.db")
	createStore(t, path, "k")

	_, err := Create(path, []byte("k"))
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.db"), []byte("k"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("just some text, not a database"), 0600))

	_, err := Open(path, []byte("k"))
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.ErrorIs(t, err, ErrNotStore)
}

func TestOpenEmptyFileLeavesItUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	_, err := Open(path, []byte("k"))
	assert.ErrorIs(t, err, ErrAuthentication)

	_, err = Inspect(path)
	assert.ErrorIs(t, err, ErrNotStore)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestInspectForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	content := []byte("just some text, not a database")
	require.NoError(t, os.WriteFile(path, content, 0600))

	_, err := Inspect(path)
	assert.ErrorIs(t, err, ErrNotStore)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, after)
}

func TestReplaceAllThenReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pw.db")
	s, err := Create(path, []byte("k"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.ReplaceAll(sample))
	records, err := s.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, sample, records)

	replacement := []table.Record{{Name: "Only", Password: "one"}}
	require.NoError(t, s.ReplaceAll(replacement))
	records, err = s.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, replacement, records)
}

func TestRowsAreNotStoredInPlaintext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pw.db")
	createStore(t, path, "k")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "mail.com")
}

func TestRekey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pw.db")
	createStore(t, path, "old")

	s, err := Open(path, []byte("old"))
	require.NoError(t, err)
	target, err := s.Rekey([]byte("new"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.Equal(t, filepath.Join(dir, "encrypted_pw.db"), target)

	rekeyed, err := Open(target, []byte("new"))
	require.NoError(t, err)
	records, err := rekeyed.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, sample, records)
	assert.True(t, rekeyed.Encrypted())
	require.NoError(t, rekeyed.Close())

	_, err = Open(target, []byte("old"))
	assert.ErrorIs(t, err, ErrAuthentication)

	original, err := Open(path, []byte("old"))
	require.NoError(t, err)
	records, err = original.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, sample, records)
	require.NoError(t, original.Close())
}

func TestRekeyRejectsEmptyKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pw.db")
	s, err := Create(path, nil)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Rekey(nil)
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestRekeyRefusesExistingTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pw.db")
	target := filepath.Join(dir, "encrypted_pw.db")
	require.NoError(t, os.WriteFile(target, []byte("keep me"), 0600))

	s, err := Create(path, nil)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Rekey([]byte("k"))
	assert.ErrorIs(t, err, ErrAlreadyExists)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))
}

func TestDekey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pw.db")
	createStore(t, path, "secret")

	s, err := Open(path, []byte("secret"))
	require.NoError(t, err)
	target, err := s.Dekey()
	require.NoError(t, err)
	storeID := s.ID()
	require.NoError(t, s.Close())
	assert.Equal(t, filepath.Join(dir, "decrypted_pw.db"), target)

	plain, err := Open(target, nil)
	require.NoError(t, err)
	defer plain.Close()
	assert.False(t, plain.Encrypted())
	assert.NotEqual(t, storeID, plain.ID())

	records, err := plain.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, sample, records)
}

func TestInspectAndCompact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pw.db")
	createStore(t, path, "k")

	info, err := Inspect(path)
	require.NoError(t, err)
	assert.True(t, info.Encrypted)
	assert.Equal(t, len(sample), info.Records)
	assert.NotEmpty(t, info.StoreID)

	require.NoError(t, CompactFile(path))

	s, err := Open(path, []byte("k"))
	require.NoError(t, err)
	defer s.Close()
	records, err := s.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, sample, records)
}

func TestInspectMissing(t *testing.T) {
	_, err := Inspect(filepath.Join(t.TempDir(), "nope.db"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pw.db")
	s, err := Create(path, nil)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.ReplaceAll(sample))

	info, err := s.Info()
	require.NoError(t, err)
	assert.Equal(t, path, info.Path)
	assert.Equal(t, s.ID(), info.StoreID)
	assert.False(t, info.Encrypted)
	assert.Equal(t, len(sample), info.Records)
	assert.Positive(t, info.Size)
	assert.False(t, info.Modified.Before(info.Created))
}
