// Package diff compares two password lists line by line using their CSV
// rendering.
package diff

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/illarion/pswdb/internal/table"
)

// Op is the kind of a diff line.
type Op int

const (
	Equal Op = iota
	Delete
	Insert
)

// Line is one CSV line of the comparison.
type Line struct {
	Op   Op
	Text string
}

// Result is the outcome of Tables.
type Result struct {
	Lines     []Line
	Added     int
	Removed   int
	Unchanged int
}

// Changed reports whether the two lists differ.
func (r *Result) Changed() bool {
	return r.Added > 0 || r.Removed > 0
}

// Tables compares from against to. Passwords are masked unless reveal is set,
// so a changed password alone does not show up as a difference.
func Tables(from, to *table.Table, reveal bool) (*Result, error) {
	a, err := render(from, reveal)
	if err != nil {
		return nil, err
	}
	b, err := render(to, reveal)
	if err != nil {
		return nil, err
	}
	return Lines(a, b), nil
}

// Lines compares two texts line by line.
func Lines(from, to string) *Result {
	dmp := diffmatchpatch.New()

	// Line-mode diff
	a, b, lineArray := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	res := &Result{}
	for _, d := range diffs {
		op := Equal
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = Delete
		case diffmatchpatch.DiffInsert:
			op = Insert
		}
		for _, text := range splitLines(d.Text) {
			res.Lines = append(res.Lines, Line{Op: op, Text: text})
			switch op {
			case Delete:
				res.Removed++
			case Insert:
				res.Added++
			default:
				res.Unchanged++
			}
		}
	}
	return res
}

// Format renders the result with a unified-diff style header. Only changed
// lines are written unless full is set.
func Format(res *Result, fromName, toName string, full bool) string {
	if !res.Changed() {
		return ""
	}

	var out strings.Builder
	fmt.Fprintf(&out, "--- %s\n", fromName)
	fmt.Fprintf(&out, "+++ %s\n", toName)
	for _, l := range res.Lines {
		switch l.Op {
		case Delete:
			out.WriteString("-" + l.Text + "\n")
		case Insert:
			out.WriteString("+" + l.Text + "\n")
		default:
			if full {
				out.WriteString(" " + l.Text + "\n")
			}
		}
	}
	fmt.Fprintf(&out, "%d added, %d removed\n", res.Added, res.Removed)
	return out.String()
}

func render(t *table.Table, reveal bool) (string, error) {
	if t == nil {
		t = table.New()
	}
	if !reveal {
		rows := t.Rows()
		for i := range rows {
			rows[i] = rows[i].Masked()
		}
		t = table.New(rows...)
	}

	var buf bytes.Buffer
	if err := t.WriteCSV(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
