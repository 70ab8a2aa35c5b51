package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes objects below baseDir and serves them under urlBase.
type LocalStorage struct {
	baseDir string
	urlBase string
}

func NewLocalStorage(baseDir, urlBase string) *LocalStorage {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if urlBase == "" {
		urlBase = "/static/uploads"
	}
	return &LocalStorage{baseDir: baseDir, urlBase: strings.TrimRight(urlBase, "/")}
}

func (s *LocalStorage) BaseDir() string { return s.baseDir }

func (s *LocalStorage) Put(_ context.Context, key, _ string, body io.Reader) (string, error) {
	absPath := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, body); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("write file: %w", err)
	}

	return s.urlBase + "/" + key, nil
}

func (s *LocalStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *LocalStorage) KeyFromURL(url string) string {
	return keyFromURL(s.urlBase, url)
}
