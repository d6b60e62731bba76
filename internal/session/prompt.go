package session

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter reads answers from the user.
type Prompter interface {
	// ReadPassword reads a secret without echo.
	ReadPassword(prompt string) ([]byte, error)
	// ReadLine reads one line of visible input, without the line ending.
	ReadLine(prompt string) (string, error)
}

// Terminal prompts on stdout and reads stdin. Passwords are read without echo
// when stdin is a terminal.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

// NewTerminal creates a prompter bound to the process stdin/stdout.
func NewTerminal() *Terminal {
	return NewPrompter(os.Stdin, os.Stdout)
}

// NewPrompter creates a prompter reading in and writing prompts to out.
// Passwords are echoed unless in is a terminal.
func NewPrompter(in io.Reader, out io.Writer) *Terminal {
	fd := -1
	if f, ok := in.(*os.File); ok {
		fd = int(f.Fd())
	}
	return &Terminal{in: bufio.NewReader(in), out: out, fd: fd}
}

func (t *Terminal) ReadPassword(prompt string) ([]byte, error) {
	fmt.Fprint(t.out, prompt)

	if !term.IsTerminal(t.fd) {
		line, err := t.readLine()
		return []byte(line), err
	}

	// Read password without echo
	password, err := term.ReadPassword(t.fd)
	fmt.Fprintln(t.out) // New line after password
	if err != nil {
		return nil, err
	}
	return password, nil
}

func (t *Terminal) ReadLine(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	return t.readLine()
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// confirmed asks a [Y/n] question. Only an explicit "n" or "no" declines.
func confirmed(pr Prompter, question string) (bool, error) {
	answer, err := pr.ReadLine(question + "\n[Y/n]: ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer != "n" && answer != "no", nil
}
