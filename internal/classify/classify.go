// Package classify resolves clipboard content into a coarse clip kind.
//
// Text is classified by cheap structural checks (URL, color literal, code
// heuristics); paths are classified by extension. The heuristics are
// deliberately shallow — the capture pipeline only needs a category tag, not
// semantic understanding.
package classify

import (
	"log/slog"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Kind is the coarse category tag attached to a stored clip.
type Kind string

const (
	KindText      Kind = "text"
	KindLink      Kind = "link"
	KindColor     Kind = "color"
	KindCode      Kind = "code"
	KindRTF       Kind = "rtf"
	KindImage     Kind = "image"
	KindFile      Kind = "file"
	KindFileImage Kind = "file_image"
	KindDocument  Kind = "document"
	KindArchive   Kind = "archive"
	KindMedia     Kind = "media"
	KindFileCode  Kind = "file_code"
	KindDangerous Kind = "dangerous"
)

// TextResult is the outcome of classifying a text payload.
type TextResult struct {
	Content string
	Kind    Kind
	// Trimmed reports that surrounding whitespace was removed from the
	// original payload.
	Trimmed bool
}

var (
	hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	fnColorRe  = regexp.MustCompile(`^(?:rgb|rgba|hsl|hsla)\(\s*[\d.,%\s/]+\)$`)
)

// codeSignals are substrings whose presence marks text as code-ish. Two or
// more distinct hits are required, so prose mentioning a keyword once stays
// plain text.
var codeSignals = []string{
	"func ", "def ", "class ", "#include", "import ", "return ",
	"=>", "){", ") {", "};", "&&", "||", "!=", "==", "</", "/>",
	"public ", "private ", "SELECT ", "fn ",
}

// Classifier resolves text and path payloads into Kinds. The dangerous
// extension set can be replaced at runtime; replacing it fires the
// definitions-changed hook so the owner can reclassify stored clips.
type Classifier struct {
	mu        sync.RWMutex
	dangerous map[string]struct{}
	onChange  func()
}

// New returns a Classifier with the default extension definitions.
func New() *Classifier {
	c := &Classifier{dangerous: make(map[string]struct{})}
	for _, ext := range defaultDangerous {
		c.dangerous[ext] = struct{}{}
	}
	return c
}

// OnChange registers the definitions-changed hook. Only one hook is
// supported; calling again replaces it.
func (c *Classifier) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// SetDangerousExts replaces the dangerous-extension set and fires the
// definitions-changed hook.
func (c *Classifier) SetDangerousExts(exts []string) {
	c.mu.Lock()
	c.dangerous = make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		c.dangerous[strings.ToLower(ext)] = struct{}{}
	}
	fn := c.onChange
	c.mu.Unlock()

	slog.Info("classifier definitions updated", "dangerous_exts", len(exts))
	if fn != nil {
		fn()
	}
}

// Text classifies a text payload as link, color, code, or plain text.
// Surrounding whitespace is trimmed and reported via the Trimmed flag.
func (c *Classifier) Text(s string) TextResult {
	trimmed := strings.TrimSpace(s)
	res := TextResult{
		Content: trimmed,
		Kind:    KindText,
		Trimmed: trimmed != s,
	}

	switch {
	case isLink(trimmed):
		res.Kind = KindLink
	case isColor(trimmed):
		res.Kind = KindColor
	case looksLikeCode(trimmed):
		res.Kind = KindCode
	}
	return res
}

// Path classifies a single dropped file path by extension.
func (c *Classifier) Path(p string) Kind {
	ext := strings.ToLower(filepath.Ext(p))

	c.mu.RLock()
	_, dangerous := c.dangerous[ext]
	c.mu.RUnlock()
	if dangerous {
		return KindDangerous
	}
	if k, ok := extKinds[ext]; ok {
		return k
	}
	return KindFile
}

func isLink(s string) bool {
	if strings.ContainsAny(s, " \t\n") {
		return false
	}
	if strings.HasPrefix(s, "www.") && strings.Count(s, ".") >= 2 {
		return true
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return false
	}
	switch u.Scheme {
	case "http", "https", "ftp", "ftps", "file":
		return true
	}
	return false
}

func isColor(s string) bool {
	if len(s) > 64 || strings.Contains(s, "\n") {
		return false
	}
	return hexColorRe.MatchString(s) || fnColorRe.MatchString(strings.ToLower(s))
}

func looksLikeCode(s string) bool {
	hits := 0
	for _, sig := range codeSignals {
		if strings.Contains(s, sig) {
			hits++
			if hits >= 2 {
				return true
			}
		}
	}
	return false
}

var defaultDangerous = []string{
	".exe", ".bat", ".cmd", ".com", ".msi", ".scr", ".ps1", ".vbs", ".js",
}

var extKinds = map[string]Kind{
	".png": KindFileImage, ".jpg": KindFileImage, ".jpeg": KindFileImage,
	".gif": KindFileImage, ".bmp": KindFileImage, ".webp": KindFileImage,
	".svg": KindFileImage, ".ico": KindFileImage,

	".pdf": KindDocument, ".doc": KindDocument, ".docx": KindDocument,
	".xls": KindDocument, ".xlsx": KindDocument, ".ppt": KindDocument,
	".pptx": KindDocument, ".odt": KindDocument, ".txt": KindDocument,
	".md": KindDocument, ".rtf": KindDocument,

	".zip": KindArchive, ".tar": KindArchive, ".gz": KindArchive,
	".bz2": KindArchive, ".xz": KindArchive, ".7z": KindArchive,
	".rar": KindArchive,

	".mp3": KindMedia, ".wav": KindMedia, ".flac": KindMedia,
	".mp4": KindMedia, ".mkv": KindMedia, ".avi": KindMedia,
	".mov": KindMedia, ".webm": KindMedia, ".ogg": KindMedia,

	".go": KindFileCode, ".py": KindFileCode, ".rs": KindFileCode,
	".c": KindFileCode, ".h": KindFileCode, ".cpp": KindFileCode,
	".cs": KindFileCode, ".java": KindFileCode, ".ts": KindFileCode,
	".rb": KindFileCode, ".sh": KindFileCode, ".sql": KindFileCode,
	".json": KindFileCode, ".yaml": KindFileCode, ".yml": KindFileCode,
	".toml": KindFileCode,
}
