package table

import "strings"

// Column names in canonical order. Every CSV written by pswdb has exactly
// these columns and every CSV read must contain them.
const (
	ColumnName     = "name"
	ColumnURL      = "url"
	ColumnUsername = "username"
	ColumnPassword = "password"
)

// Columns lists the recognised columns in export order.
var Columns = []string{ColumnName, ColumnURL, ColumnUsername, ColumnPassword}

// Record is one password entry. An empty Password is the "missing" state.
type Record struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// HasPassword reports whether the record carries a password value.
func (r Record) HasPassword() bool {
	return r.Password != ""
}

// Fields returns the record values in Columns order.
func (r Record) Fields() []string {
	return []string{r.Name, r.URL, r.Username, r.Password}
}

// identity is the duplicate-detection key. URL is deliberately not part of it.
type identity struct {
	name, username, password string
}

func (r Record) identity() identity {
	return identity{name: r.Name, username: r.Username, password: r.Password}
}

// Masked returns a copy of the record with the password replaced by asterisks,
// for on-screen display.
func (r Record) Masked() Record {
	if r.Password != "" {
		r.Password = strings.Repeat("*", 8)
	}
	return r
}
