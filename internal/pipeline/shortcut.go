package pipeline

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// isShortcut reports whether path names an internet-shortcut file.
func isShortcut(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".url")
}

// shortcutURL extracts the embedded target from a .url shortcut by scanning
// its lines for a case-insensitive "URL=" prefix. An unreadable or URL-less
// file is simply not a link — the caller falls through to generic file
// classification.
func shortcutURL(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if len(line) > 4 && strings.EqualFold(line[:4], "URL=") {
			if target := strings.TrimSpace(line[4:]); target != "" {
				return target, true
			}
		}
	}
	return "", false
}

// displayName is the shortcut's human-readable name: the base filename
// without its extension.
func displayName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
