package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage persists downloaded attachments and exports on disk under a
// base directory. Names are flattened so server-supplied filenames cannot
// escape it.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./downloads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create download directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Save writes data under a sanitised form of filename. An existing file is
// never overwritten; " (n)" is appended before the extension instead. It
// returns the name actually used.
func (s *LocalStorage) Save(filename string, data []byte) (string, error) {
	name := SanitizeName(filename)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for i := 0; ; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		file, err := os.OpenFile(s.resolve(candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create file: %w", err)
		}
		if _, err := file.Write(data); err != nil {
			file.Close() //nolint:errcheck
			return "", fmt.Errorf("write file: %w", err)
		}
		if err := file.Close(); err != nil {
			return "", fmt.Errorf("close file: %w", err)
		}
		return candidate, nil
	}
}

// Open returns a read-only handle for the stored file.
func (s *LocalStorage) Open(filename string) (*os.File, error) {
	file, err := os.Open(s.resolve(SanitizeName(filename)))
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return file, nil
}

// Delete removes a stored file if present.
func (s *LocalStorage) Delete(filename string) error {
	if err := os.Remove(s.resolve(SanitizeName(filename))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// Path exposes the on-disk location of a stored name.
func (s *LocalStorage) Path(filename string) string {
	return s.resolve(SanitizeName(filename))
}

func (s *LocalStorage) resolve(name string) string {
	return filepath.Join(s.baseDir, name)
}

// SanitizeName reduces filename to a single safe path element.
func SanitizeName(filename string) string {
	name := strings.ReplaceAll(filename, "\\", "/")
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(`<>:"|?*`, r) {
			return '_'
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || name == "/" {
		return "download"
	}
	return name
}
