// Package content stores document files on local disk and turns them back
// into text for the assistant.
package content

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	keyAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	keyLen      = 10

	PreviewRunes = 500
)

var (
	ErrUnsupported = errors.New("unsupported content type")
	ErrInvalidRef  = errors.New("content ref outside the store")
)

// Info describes a file as seen on disk.
type Info struct {
	Name     string
	Size     int64
	MimeType string
}

type FileStore struct {
	basePath string
}

func New(basePath string) (*FileStore, error) {
	if basePath == "" {
		return nil, fmt.Errorf("content store path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create content dir: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// Resolve turns a content ref into a path under the store directory. Refs
// are the keys Import hands out; absolute paths and refs climbing out of
// the directory are rejected.
func (s *FileStore) Resolve(ref string) (string, error) {
	if ref == "" || filepath.IsAbs(ref) || !filepath.IsLocal(ref) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	return filepath.Join(s.basePath, ref), nil
}

func (s *FileStore) Stat(path string) (Info, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return Info{}, fmt.Errorf("%s is a directory", path)
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("detect type of %s: %w", path, err)
	}
	return Info{Name: fi.Name(), Size: fi.Size(), MimeType: mt.String()}, nil
}

// Import copies src into the store and returns the ref of the copy.
func (s *FileStore) Import(src string) (string, Info, error) {
	info, err := s.Stat(src)
	if err != nil {
		return "", Info{}, err
	}
	key, err := gonanoid.Generate(keyAlphabet, keyLen)
	if err != nil {
		return "", Info{}, fmt.Errorf("generate content key: %w", err)
	}
	ref := key + "-" + info.Name

	in, err := os.Open(src)
	if err != nil {
		return "", Info{}, fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	if err := writeFile(filepath.Join(s.basePath, ref), in); err != nil {
		return "", Info{}, err
	}
	return ref, info, nil
}

// writeFile copies r to dst. On any failure dst is removed.
func writeFile(dst string, r io.Reader) error {
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	_, err = io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Remove deletes the stored copy behind ref. A missing file is not an
// error.
func (s *FileStore) Remove(ref string) error {
	path, err := s.Resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", ref, err)
	}
	return nil
}

// Text returns the textual content behind ref. Plain UTF-8 files are read
// directly and PDFs go through the text extractor; anything else is
// ErrUnsupported.
func (s *FileStore) Text(ref string) (string, error) {
	path, err := s.Resolve(ref)
	if err != nil {
		return "", err
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("open source document: %w", err)
	}
	if mt.Is("application/pdf") {
		return pdfText(path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read source document: %w", err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, mt.String())
	}
	return strings.TrimSpace(string(raw)), nil
}

func pdfText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// Preview cuts text to PreviewRunes runes, marking the cut with "...".
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= PreviewRunes {
		return text
	}
	return string([]rune(text)[:PreviewRunes]) + "..."
}
