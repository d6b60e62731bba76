package security

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestSiblingPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		prefix  string
		want    string
		wantErr error
	}{
		{"plain file", "passwords.db", "encrypted_", "encrypted_passwords.db", nil},
		{"nested file", filepath.Join("data", "pw.db"), "decrypted_", filepath.Join("data", "decrypted_pw.db"), nil},
		{"absolute file", filepath.Join(string(filepath.Separator), "tmp", "pw.db"), "encrypted_", filepath.Join(string(filepath.Separator), "tmp", "encrypted_pw.db"), nil},
		{"empty path", "", "encrypted_", "", ErrEmptyPath},
		{"escaping prefix", "pw.db", "../", "", ErrPathEscapes},
		{"separator prefix", "pw.db", "sub/", "", ErrPathEscapes},
		{"empty prefix", "pw.db", "", "", ErrSamePath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SiblingPath(tt.path, tt.prefix)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("SiblingPath(%q, %q) error = %v, want %v", tt.path, tt.prefix, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SiblingPath(%q, %q) unexpected error: %v", tt.path, tt.prefix, err)
			}
			if got != tt.want {
				t.Errorf("SiblingPath(%q, %q) = %q, want %q", tt.path, tt.prefix, got, tt.want)
			}
		})
	}
}

func TestContained(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		target string
		want   bool
	}{
		{"inside", filepath.Join(dir, "a.csv"), true},
		{"nested", filepath.Join(dir, "sub", "a.csv"), true},
		{"dotdot name inside", filepath.Join(dir, "..a.csv"), true},
		{"outside", filepath.Join(dir, "..", "a.csv"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Contained(dir, tt.target)
			if err != nil {
				t.Fatalf("Contained error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Contained(%q) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}
