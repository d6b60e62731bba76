package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/illarion/pswdb/internal/session"
)

const (
	optReadCSV = iota + 1
	optExportCSV
	optRemoveEmpty
	optRemoveDuplicates
	optSort
	optAddEntry
	optOpenStore
	optWriteStore
	optReadStore
	optEncrypt
	optDecrypt
	optView
	optCSVToDatabase
	optExit
)

var menuItems = []string{
	optReadCSV:          "Read CSV password file",
	optExportCSV:        "Export password list to a CSV file",
	optRemoveEmpty:      "Remove empty passwords",
	optRemoveDuplicates: "Remove duplicated entries",
	optSort:             "Sort by name",
	optAddEntry:         "Add new entry",
	optOpenStore:        "Open/Create database",
	optWriteStore:       "Write to the database",
	optReadStore:        "Read from the database",
	optEncrypt:          "Encrypt database",
	optDecrypt:          "Decrypt database",
	optView:             "View loaded password list",
	optCSVToDatabase:    "Read CSV then write to a database",
	optExit:             "Exit",
}

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Border(lipgloss.RoundedBorder()).
	Padding(0, 2)

// menu is the interactive loop over a session.
type menu struct {
	cmd *cobra.Command
	s   *session.Session
	pr  session.Prompter
	out io.Writer
	tty bool
}

func runMenu(ctx context.Context, cmd *cobra.Command, s *session.Session) error {
	m := &menu{
		cmd: cmd,
		s:   s,
		pr:  s.Prompter(),
		out: cmd.OutOrStdout(),
		tty: isTerminal(cmd.OutOrStdout()),
	}
	m.header()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		answer, err := m.pr.ReadLine("Type the number option: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		op, err := strconv.Atoi(strings.TrimSpace(answer))
		if err != nil || op < optReadCSV || op > optExit {
			m.header()
			color.New(color.FgRed).Fprintln(m.out, "Invalid option.")
			continue
		}
		if op == optExit {
			m.clear()
			return nil
		}

		if op != optView {
			m.header()
		}
		if err := m.run(op); err != nil {
			if !session.IsRecoverable(err) {
				return err
			}
			log.Debug("menu operation failed", "option", op, "error", err)
			color.New(color.FgRed).Fprintln(m.out, describe(err))
		}
	}
}

func (m *menu) run(op int) error {
	s := m.s
	switch op {
	case optReadCSV:
		path, err := m.path("CSV file name", cfg.CSV)
		if err != nil {
			return err
		}
		return s.ImportCSV(path)

	case optExportCSV:
		path, err := m.path("CSV file name", cfg.CSV)
		if err != nil {
			return err
		}
		return s.ExportCSV(path)

	case optRemoveEmpty:
		_, err := s.RemoveEmpty(!cfg.NoAsk)
		return err

	case optRemoveDuplicates:
		_, err := s.RemoveDuplicates(!cfg.NoAsk)
		return err

	case optSort:
		return s.Sort(!cfg.NoAsk)

	case optAddEntry:
		return s.AddEntry()

	case optOpenStore:
		path, err := m.path("Database name", cfg.DB)
		if err != nil {
			return err
		}
		// Release the file lock so the keyring lookup can read the store ID.
		if err := s.Close(); err != nil {
			return err
		}
		return s.OpenStore(path, passphraseFor(m.cmd, path))

	case optWriteStore:
		return s.WriteStore()

	case optReadStore:
		return s.ReadStore()

	case optEncrypt:
		path, err := s.Encrypt(newPassphraseFor(m.cmd))
		if err != nil {
			return err
		}
		fmt.Fprintf(m.out, "Encrypted copy written to %s\n", path)
		return nil

	case optDecrypt:
		path, err := s.Decrypt()
		if err != nil {
			return err
		}
		fmt.Fprintf(m.out, "Unencrypted copy written to %s\n", path)
		return nil

	case optView:
		m.clear()
		fmt.Fprint(m.out, renderTable(s.Table(), false))
		return nil

	case optCSVToDatabase:
		csvPath, err := m.path("CSV file name", cfg.CSV)
		if err != nil {
			return err
		}
		dbPath, err := m.path("Database name", cfg.DB)
		if err != nil {
			return err
		}
		if err := s.Close(); err != nil {
			return err
		}
		return s.CSVToDatabase(csvPath, dbPath, passphraseFor(m.cmd, dbPath))
	}
	return nil
}

// path asks for a file name, offering def when it is set.
func (m *menu) path(label, def string) (string, error) {
	prompt := label + ": "
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]: ", label, def)
	}
	answer, err := m.pr.ReadLine(prompt)
	if err != nil {
		return "", err
	}
	if answer = strings.TrimSpace(answer); answer == "" {
		answer = def
	}
	if answer == "" {
		return "", errors.New("no file name given")
	}
	return answer, nil
}

func (m *menu) header() {
	m.clear()
	fmt.Fprintln(m.out, titleStyle.Render(Version))
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, "What to do?")
	for op := optReadCSV; op <= optExit; op++ {
		fmt.Fprintf(m.out, "%2d- %s\n", op, menuItems[op])
	}
	fmt.Fprintln(m.out)
}

func (m *menu) clear() {
	if m.tty {
		fmt.Fprint(m.out, "\033[H\033[2J")
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
