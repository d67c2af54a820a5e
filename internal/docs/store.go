package docs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Documento is one entry of the in-memory upload log. The log is ephemeral:
// a restart loses it while the files stay on disk.
type Documento struct {
	Arquivo    string
	Usuario    string
	Data       string
	Observacao string
}

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".xlsx": true,
}

// Store holds the upload directory and the ordered document log. Appends
// are serialized so concurrent uploads cannot lose entries.
type Store struct {
	dir string

	mu   sync.Mutex
	docs []Documento
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Append(doc Documento) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, doc)
}

// List returns a copy of the log in upload order.
func (s *Store) List() []Documento {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Documento, len(s.docs))
	copy(out, s.docs)
	return out
}

// Path returns the on-disk location for a stored filename. Names that do
// not survive sanitization unchanged are refused, which keeps downloads
// inside the upload directory.
func (s *Store) Path(name string) (string, error) {
	if name == "" || SanitizeFilename(name) != name {
		return "", fmt.Errorf("invalid file name")
	}
	full := filepath.Join(s.dir, name)
	if _, err := os.Stat(full); err != nil {
		return "", fmt.Errorf("file not found")
	}
	return full, nil
}

// AllowedExtension reports whether the filename carries one of the accepted
// document extensions (case-insensitive).
func AllowedExtension(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// SanitizeFilename strips directory components and replaces anything
// outside [A-Za-z0-9._-] with an underscore. Returns "" when nothing
// usable remains.
func SanitizeFilename(name string) string {
	// Normalize Windows separators before taking the base name.
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	cleaned := strings.TrimLeft(b.String(), ".")
	if strings.Trim(cleaned, "._-") == "" {
		return ""
	}
	return cleaned
}
