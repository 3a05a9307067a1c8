package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridgeEchoesThroughCommand(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}

	srv := httptest.NewServer(newMux(t, []string{"cat"}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`say "hi"`)))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var got frame
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, frame{Type: "stdout", Data: `say "hi"`}, got)
}

func TestBridgeLogsFailedUpgrade(t *testing.T) {
	var logs bytes.Buffer
	logger.SetOutput(&logs)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })

	srv := httptest.NewServer(newMux(t, []string{"cat"}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, logs.String(), "websocket upgrade failed")
	assert.Contains(t, logs.String(), "level=warning")
}

func newMux(t *testing.T, args []string) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handleWS(args))
	return mux
}
