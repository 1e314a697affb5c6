package main

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dcog989/cliptoo/internal/ipc"
	"github.com/dcog989/cliptoo/internal/message"
	"github.com/dcog989/cliptoo/internal/wire"
)

const previewRunes = 120

// preview flattens a clip's content to a single short line.
func preview(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(content) <= previewRunes {
		return content
	}
	runes := []rune(content)
	return string(runes[:previewRunes]) + "…"
}

// request dials the daemon, sends one message, and returns the response.
func request(msg *message.Message) (*message.Message, error) {
	conn, err := ipc.Dial()
	if err != nil {
		return nil, fmt.Errorf("no running cliptoo daemon (is \"cliptoo watch\" running?): %w", err)
	}
	wc := wire.New(conn)
	defer wc.Close()

	if err := wc.WriteMsg(msg); err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}
	resp, err := wc.ReadMsg()
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.Type == message.TypeError {
		return nil, fmt.Errorf("daemon: %s", resp.Error)
	}
	return resp, nil
}

func fmtAge(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	age := time.Since(t).Round(time.Second)
	switch {
	case age < time.Minute:
		return fmt.Sprintf("%ds ago", int(age.Seconds()))
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 48*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	}
	return t.Format("2006-01-02")
}
