package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CachePath returns the content-addressed path for an image payload:
// <uppercase-hex-SHA256>.png under dir. The naming is a persisted contract —
// thumbnail and lookup consumers key on it.
func CachePath(dir string, data []byte) string {
	sum := sha256.Sum256(data)
	name := strings.ToUpper(hex.EncodeToString(sum[:])) + ".png"
	return filepath.Join(dir, name)
}

// cacheImage writes data to its content-addressed path unless a file is
// already there, deduplicating identical images across time. Returns the
// cache path either way.
func cacheImage(dir string, data []byte) (string, error) {
	path := CachePath(dir, data)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write cache file: %w", err)
	}
	return path, nil
}
