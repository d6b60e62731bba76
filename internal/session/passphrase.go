package session

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/illarion/pswdb/internal/crypto"
	"github.com/illarion/pswdb/internal/vault"
)

// Origin tells where a passphrase came from.
type Origin int

const (
	OriginPrompt Origin = iota
	OriginFlag
	OriginEnv
	OriginKeyring
)

func (o Origin) String() string {
	switch o {
	case OriginPrompt:
		return "prompt"
	case OriginFlag:
		return "flag"
	case OriginEnv:
		return "env"
	case OriginKeyring:
		return "keyring"
	default:
		return fmt.Sprintf("origin(%d)", int(o))
	}
}

// Passphrase is either "ask the user" or a value supplied up front.
type Passphrase struct {
	value  []byte
	origin Origin
}

// Prompt returns a passphrase that is read interactively when needed.
func Prompt() Passphrase {
	return Passphrase{origin: OriginPrompt}
}

// Supplied returns a passphrase known in advance. An empty value means "no
// encryption". The value is copied.
func Supplied(value []byte, origin Origin) Passphrase {
	if origin == OriginPrompt {
		origin = OriginFlag
	}
	return Passphrase{value: bytes.Clone(value), origin: origin}
}

// Origin returns where the passphrase came from.
func (p Passphrase) Origin() Origin { return p.origin }

// Interactive reports whether the passphrase is read from the prompter.
func (p Passphrase) Interactive() bool { return p.origin == OriginPrompt }

// Clear zeroes a supplied value.
func (p Passphrase) Clear() { crypto.ClearBytes(p.value) }

// read returns a fresh copy of the key: the supplied value, or one read from
// the prompter. The caller clears it.
func (p Passphrase) read(pr Prompter, prompt string) ([]byte, error) {
	if !p.Interactive() {
		if p.value == nil {
			return []byte{}, nil
		}
		return bytes.Clone(p.value), nil
	}
	key, err := pr.ReadPassword(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return key, nil
}

// confirm reads a new passphrase twice. It returns ErrConfirmationMismatch
// when the entries differ and vault.ErrEmptyKey when an empty passphrase is
// not allowed.
func confirm(pr Prompter, first, second string, allowEmpty bool) ([]byte, error) {
	p1, err := pr.ReadPassword(first)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	p2, err := pr.ReadPassword(second)
	if err != nil {
		crypto.ClearBytes(p1)
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	defer crypto.ClearBytes(p2)

	if !crypto.ConstantTimeCompare(p1, p2) {
		crypto.ClearBytes(p1)
		return nil, ErrConfirmationMismatch
	}
	if !allowEmpty && len(p1) == 0 {
		return nil, vault.ErrEmptyKey
	}
	return p1, nil
}

// newPassphrase returns the key for a store about to be written. Supplied
// passphrases are used as is; prompted ones are confirmed until both entries
// match.
func (s *Session) newPassphrase(p Passphrase, first string, allowEmpty bool) ([]byte, error) {
	if !p.Interactive() {
		if !allowEmpty && len(p.value) == 0 {
			return nil, vault.ErrEmptyKey
		}
		return p.read(s.prompter, "")
	}

	for {
		key, err := confirm(s.prompter, first, "Type the new password again: ", allowEmpty)
		switch {
		case err == nil:
			return key, nil
		case errors.Is(err, ErrConfirmationMismatch):
			s.fail("Passwords don't match.")
		case errors.Is(err, vault.ErrEmptyKey):
			s.fail("Password cannot be empty.")
		default:
			return nil, err
		}
	}
}
