package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illarion/pswdb/internal/table"
)

func TestTablesIdentical(t *testing.T) {
	a := table.New(table.Record{Name: "Mail", URL: "mail.com", Username: "a", Password: "p1"})
	b := table.New(table.Record{Name: "Mail", URL: "mail.com", Username: "a", Password: "p1"})

	res, err := Tables(a, b, false)
	require.NoError(t, err)
	assert.False(t, res.Changed())
	assert.Equal(t, 2, res.Unchanged)
	assert.Empty(t, Format(res, "a", "b", false))
}

func TestTablesAddedAndRemoved(t *testing.T) {
	a := table.New(
		table.Record{Name: "Bank", URL: "bank.com", Username: "b", Password: "p2"},
		table.Record{Name: "Mail", URL: "mail.com", Username: "a", Password: "p1"},
	)
	b := table.New(
		table.Record{Name: "Mail", URL: "mail.com", Username: "a", Password: "p1"},
		table.Record{Name: "Shop", URL: "shop.com", Username: "c", Password: "p3"},
	)

	res, err := Tables(a, b, true)
	require.NoError(t, err)
	assert.True(t, res.Changed())
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 1, res.Removed)

	out := Format(res, "store", "export.csv", false)
	assert.Contains(t, out, "--- store\n+++ export.csv\n")
	assert.Contains(t, out, "-Bank,bank.com,b,p2\n")
	assert.Contains(t, out, "+Shop,shop.com,c,p3\n")
	assert.NotContains(t, out, " Mail")
	assert.Contains(t, Format(res, "store", "export.csv", true), " Mail,mail.com,a,p1\n")
}

func TestTablesMasksPasswords(t *testing.T) {
	a := table.New(table.Record{Name: "Mail", Username: "a", Password: "old"})
	b := table.New(table.Record{Name: "Mail", Username: "a", Password: "new"})

	res, err := Tables(a, b, false)
	require.NoError(t, err)
	assert.False(t, res.Changed())

	res, err = Tables(a, b, true)
	require.NoError(t, err)
	assert.True(t, res.Changed())
	for _, l := range res.Lines {
		assert.False(t, strings.Contains(l.Text, "********"))
	}
}

func TestTablesNil(t *testing.T) {
	b := table.New(table.Record{Name: "Mail", Password: "p"})

	res, err := Tables(nil, b, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 0, res.Removed)
}
