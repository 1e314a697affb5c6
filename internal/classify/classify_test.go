package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText_Kinds(t *testing.T) {
	c := New()

	tests := []struct {
		name string
		in   string
		want Kind
	}{
		{"https link", "https://example.com/page?q=1", KindLink},
		{"http link", "http://example.com", KindLink},
		{"www link", "www.example.co.uk", KindLink},
		{"link with spaces is text", "visit https://example.com today", KindText},
		{"hex color short", "#fff", KindColor},
		{"hex color long", "#A1B2C3", KindColor},
		{"rgb color", "rgb(255, 0, 128)", KindColor},
		{"hsl color", "hsl(120, 50%, 50%)", KindColor},
		{"go code", "func main() {\n\treturn x != nil\n}", KindCode},
		{"python code", "def foo():\n    return bar == baz", KindCode},
		{"single keyword is prose", "I need to return the book", KindText},
		{"plain text", "just an ordinary sentence", KindText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Text(tt.in).Kind)
		})
	}
}

func TestText_TrimsWhitespace(t *testing.T) {
	c := New()

	res := c.Text("  padded  \n")
	assert.Equal(t, "padded", res.Content)
	assert.True(t, res.Trimmed)

	res = c.Text("clean")
	assert.False(t, res.Trimmed)
}

func TestPath_Kinds(t *testing.T) {
	c := New()

	tests := []struct {
		path string
		want Kind
	}{
		{"/home/me/photo.JPG", KindFileImage},
		{"/tmp/report.pdf", KindDocument},
		{"/srv/backup.tar", KindArchive},
		{"/music/song.flac", KindMedia},
		{"/src/main.go", KindFileCode},
		{"C:\\apps\\setup.exe", KindDangerous},
		{"/opt/unknown.xyz", KindFile},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Path(tt.path))
		})
	}
}

func TestSetDangerousExts_FiresChangeHook(t *testing.T) {
	c := New()

	fired := 0
	c.OnChange(func() { fired++ })

	c.SetDangerousExts([]string{".APPIMAGE"})
	assert.Equal(t, 1, fired)

	assert.Equal(t, KindDangerous, c.Path("/tmp/tool.appimage"),
		"extension matching is case-insensitive")
	assert.NotEqual(t, KindDangerous, c.Path("/tmp/setup.exe"),
		"replaced definitions drop the defaults")
}
