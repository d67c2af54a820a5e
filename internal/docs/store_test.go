package docs

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "report.pdf", want: "report.pdf"},
		{input: "relatório final.docx", want: "relat_rio_final.docx"},
		{input: "../../etc/passwd", want: "passwd"},
		{input: `..\..\windows\system.xlsx`, want: "system.xlsx"},
		{input: ".hidden.pdf", want: "hidden.pdf"},
		{input: "...", want: ""},
		{input: "___", want: ""},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.input); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestAllowedExtension(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "report.pdf", want: true},
		{input: "report.PDF", want: true},
		{input: "planilha.xlsx", want: true},
		{input: "contrato.docx", want: true},
		{input: "malware.exe", want: false},
		{input: "script.pdf.sh", want: false},
		{input: "noextension", want: false},
		{input: "", want: false},
	}

	for _, tt := range tests {
		if got := AllowedExtension(tt.input); got != tt.want {
			t.Errorf("AllowedExtension(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestAppendAndListCopy(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	store.Append(Documento{Arquivo: "a.pdf", Usuario: "jorge"})
	store.Append(Documento{Arquivo: "b.pdf", Usuario: "jorge"})

	list := store.List()
	if len(list) != 2 || list[0].Arquivo != "a.pdf" || list[1].Arquivo != "b.pdf" {
		t.Fatalf("unexpected list: %+v", list)
	}

	// Mutating the returned slice must not affect the store.
	list[0].Arquivo = "mutated"
	if store.List()[0].Arquivo != "a.pdf" {
		t.Error("List returned a live reference to internal state")
	}
}

func TestConcurrentAppends(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			store.Append(Documento{Arquivo: "doc.pdf", Usuario: "jorge"})
		}()
	}
	wg.Wait()

	if got := len(store.List()); got != goroutines {
		t.Errorf("len(List()) = %d, want %d (lost appends)", got, goroutines)
	}
}

func TestPath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "report.pdf"), []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	full, err := store.Path("report.pdf")
	if err != nil {
		t.Fatalf("Path failed for stored file: %v", err)
	}
	if full != filepath.Join(dir, "report.pdf") {
		t.Errorf("Path = %q", full)
	}

	for _, bad := range []string{"../secret.pdf", "missing.pdf", "", "a/b.pdf"} {
		if _, err := store.Path(bad); err == nil {
			t.Errorf("Path(%q) succeeded, want error", bad)
		}
	}
}

func TestNewStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	if _, err := NewStore(dir); err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("upload directory not created: %v", err)
	}
}
