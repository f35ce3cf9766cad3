package publish

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/specialistvlad/pulsegrid/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zishang520/socket.io/v2/socket"
)

// newBridge starts a socket.io server that forwards every payload of the
// given event to the returned channel.
func newBridge(t *testing.T, event string) (string, <-chan any) {
	t.Helper()
	received := make(chan any, 4)

	io := socket.NewServer(nil, nil)
	io.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		client.On(event, func(args ...any) {
			if len(args) > 0 {
				received <- args[0]
			}
		})
	})
	srv := httptest.NewServer(io.ServeHandler(nil))
	t.Cleanup(func() {
		io.Close(nil)
		srv.Close()
	})
	return srv.URL, received
}

func TestSocketIO_Publish(t *testing.T) {
	// --- Arrange ---
	url, received := newBridge(t, "qm-config")
	doc := document.New()
	doc.Controller("con1").Type = "opx1"

	p, err := Dial(context.Background(), Options{URL: url, Event: "qm-config", Timeout: 5 * time.Second})
	require.NoError(t, err)
	defer p.Close()

	// --- Act ---
	err = p.Publish(context.Background(), doc)

	// --- Assert ---
	require.NoError(t, err)
	select {
	case got := <-received:
		payload, ok := got.(map[string]any)
		require.True(t, ok, "payload is a JSON object, got %T", got)
		assert.Contains(t, payload, "controllers")
	case <-time.After(5 * time.Second):
		t.Fatal("the bridge never received the document")
	}
}

func TestDial_Errors(t *testing.T) {
	testCases := []struct {
		name string
		url  string
	}{
		{name: "no scheme", url: "localhost:1"},
		{name: "unparsable", url: "http://[::1"},
		{name: "nobody listening", url: "http://127.0.0.1:1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Dial(context.Background(), Options{URL: tc.url, Timeout: 500 * time.Millisecond})
			assert.Error(t, err)
		})
	}
}
