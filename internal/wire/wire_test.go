package wire

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcog989/cliptoo/internal/message"
)

func TestConn_RequestResponse(t *testing.T) {
	client, server := net.Pipe()
	cw, sw := New(client), New(server)
	defer cw.Close()
	defer sw.Close()

	done := make(chan error, 1)
	go func() {
		msg, err := sw.ReadMsg()
		if err != nil {
			done <- err
			return
		}
		if msg.Type != message.TypeRecent || msg.Limit != 5 {
			done <- assert.AnError
			return
		}
		done <- sw.WriteMsg(&message.Message{
			Type:  message.TypeRecentResponse,
			Clips: []message.ClipSummary{{ID: 1, Kind: "text", Preview: "hi"}},
		})
	}()

	require.NoError(t, cw.WriteMsg(&message.Message{Type: message.TypeRecent, Limit: 5}))

	resp, err := cw.ReadMsg()
	require.NoError(t, err)
	require.NoError(t, <-done)

	assert.Equal(t, message.TypeRecentResponse, resp.Type)
	require.Len(t, resp.Clips, 1)
	assert.Equal(t, "hi", resp.Clips[0].Preview)
}

func TestDecode_RejectsUntypedMessage(t *testing.T) {
	_, err := message.Decode([]byte(`{"limit": 3}`))
	assert.Error(t, err)
}
