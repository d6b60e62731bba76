package table

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVNormalisesColumns(t *testing.T) {
	input := "Password,extra,URL,NAME,Username\n" +
		"p1,x,mail.com,Mail,a\n" +
		",y,bank.com,Bank,b\n"

	tbl, err := ReadCSV(strings.NewReader(input), "in.csv")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, tbl.WriteCSV(&out))

	assert.Equal(t,
		"name,url,username,password\n"+
			"Mail,mail.com,a,p1\n"+
			"Bank,bank.com,b,\n",
		out.String())
}

func TestReadCSVMissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("name,url,password\nMail,mail.com,p1\n"), "in.csv")

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "username", schemaErr.Column)
	assert.Equal(t, "in.csv", schemaErr.Path)
	assert.Contains(t, err.Error(), "username")
}

func TestReadCSVEmptyInput(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), "empty.csv")

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "name", schemaErr.Column)
}

func TestReadCSVStripsBOMAndPadsShortRows(t *testing.T) {
	input := "\ufeffname,url,username,password\nMail,mail.com\n"

	tbl, err := ReadCSV(strings.NewReader(input), "bom.csv")
	require.NoError(t, err)
	assert.Equal(t, []Record{{Name: "Mail", URL: "mail.com"}}, tbl.Rows())
}

func TestLoadCSVNotFound(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveAndLoadCSVPreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	rows := []Record{
		{Name: "Zed", URL: "z.com", Username: "z", Password: "pz"},
		{Name: "Alpha, Inc", URL: "a.com", Username: "a", Password: "p\"a"},
	}

	require.NoError(t, New(rows...).SaveCSV(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, rows, loaded.Rows())
}
