package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDropDuplicatesKeepsFirstRegardlessOfURL(t *testing.T) {
	tbl := New(
		Record{Name: "Mail", URL: "mail.com", Username: "a", Password: "p1"},
		Record{Name: "Mail", URL: "webmail.com", Username: "a", Password: "p1"},
		Record{Name: "Mail", URL: "mail.com", Username: "b", Password: "p1"},
		Record{Name: "Mail", URL: "other.com", Username: "a", Password: "p1"},
	)

	assert.Equal(t, []int{2, 4}, tbl.DuplicateRows())
	assert.Equal(t, 2, tbl.DropDuplicates())
	assert.Equal(t, []Record{
		{Name: "Mail", URL: "mail.com", Username: "a", Password: "p1"},
		{Name: "Mail", URL: "mail.com", Username: "b", Password: "p1"},
	}, tbl.Rows())
	assert.Empty(t, tbl.DuplicateRows())
}

func TestDropEmptyPasswords(t *testing.T) {
	tbl := New(
		Record{Name: "Bank", Password: ""},
		Record{Name: "Mail", Password: "p1"},
		Record{Name: "Shop", Password: ""},
	)

	assert.Equal(t, []int{1, 3}, tbl.EmptyPasswordRows())
	assert.Equal(t, 2, tbl.DropEmptyPasswords())
	assert.Equal(t, []Record{{Name: "Mail", Password: "p1"}}, tbl.Rows())
}

func TestCleaningScenario(t *testing.T) {
	tbl := New(
		Record{Name: "Mail", URL: "mail.com", Username: "a", Password: "p1"},
		Record{Name: "Mail", URL: "mail.com", Username: "a", Password: "p1"},
		Record{Name: "Bank", URL: "bank.com", Username: "b", Password: ""},
	)

	tbl.DropDuplicates()
	tbl.DropEmptyPasswords()
	want := []Record{{Name: "Mail", URL: "mail.com", Username: "a", Password: "p1"}}
	assert.Equal(t, want, tbl.Rows())

	tbl.SortByName()
	assert.Equal(t, want, tbl.Rows())
}

func TestSortByNameIsStable(t *testing.T) {
	tbl := New(
		Record{Name: "b", Username: "1"},
		Record{Name: "a", Username: "1"},
		Record{Name: "b", Username: "2"},
		Record{Name: "a", Username: "2"},
	)

	tbl.SortByName()

	assert.Equal(t, []Record{
		{Name: "a", Username: "1"},
		{Name: "a", Username: "2"},
		{Name: "b", Username: "1"},
		{Name: "b", Username: "2"},
	}, tbl.Rows())
}

func TestSortByNameEmptyLast(t *testing.T) {
	tbl := New(
		Record{Name: "", Username: "1"},
		Record{Name: "b"},
		Record{Name: "", Username: "2"},
		Record{Name: "a"},
	)

	tbl.SortByName()

	assert.Equal(t, []Record{
		{Name: "a"},
		{Name: "b"},
		{Name: "", Username: "1"},
		{Name: "", Username: "2"},
	}, tbl.Rows())
}

func TestRowsReturnsCopy(t *testing.T) {
	tbl := New(Record{Name: "a"})
	rows := tbl.Rows()
	rows[0].Name = "changed"

	assert.Equal(t, "a", tbl.Rows()[0].Name)
}

func TestMaskedHidesPassword(t *testing.T) {
	assert.Equal(t, "********", Record{Password: "secret"}.Masked().Password)
	assert.Equal(t, "", Record{}.Masked().Password)
}
