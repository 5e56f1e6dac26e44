package net

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"MyLocalPaint/internal/board"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	opts := board.DefaultOptions()
	opts.Width, opts.Height = 64, 48
	srv := httptest.NewServer(NewServer(board.New(opts)).Handler())
	t.Cleanup(srv.Close)
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg Message) State {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
	var st State
	require.NoError(t, conn.ReadJSON(&st))
	require.Equal(t, "state", st.Type)
	return st
}

func TestSessionCommands(t *testing.T) {
	_, url := newTestServer(t)
	conn := dial(t, url)

	st := send(t, conn, Message{Type: "tool", Tool: "fill"})
	assert.Equal(t, "fill", st.Tool)
	assert.Equal(t, 1, st.HistoryLen)
	assert.False(t, st.CanUndo)

	st = send(t, conn, Message{Type: "color", Color: "#00ff00"})
	assert.Equal(t, "#00ff00", st.Color)
	st = send(t, conn, Message{Type: "color", Color: "green"})
	assert.Equal(t, "#00ff00", st.Color, "bad colors are ignored")

	st = send(t, conn, Message{Type: "down", X: 5, Y: 5})
	assert.Equal(t, 2, st.HistoryLen)
	assert.True(t, st.CanUndo)
	st = send(t, conn, Message{Type: "up", X: 5, Y: 5})
	assert.Equal(t, "idle", st.Mode)

	st = send(t, conn, Message{Type: "undo"})
	assert.Equal(t, 0, st.HistoryCursor)
	assert.True(t, st.CanRedo)

	st = send(t, conn, Message{Type: "addLayer"})
	require.Len(t, st.Layers, 2)
	assert.True(t, st.Layers[1].Current)

	st = send(t, conn, Message{Type: "zoom", Value: 20})
	assert.Equal(t, 500, st.Zoom)

	st = send(t, conn, Message{Type: "laser"})
	assert.Equal(t, 500, st.Zoom, "unknown types change nothing")
}

func TestSessionStroke(t *testing.T) {
	_, url := newTestServer(t)
	conn := dial(t, url)

	send(t, conn, Message{Type: "width", Value: 4})
	st := send(t, conn, Message{Type: "down", X: 10, Y: 10})
	assert.Equal(t, "drawing", st.Mode)
	send(t, conn, Message{Type: "move", X: 30, Y: 10})
	st = send(t, conn, Message{Type: "leave", X: 30, Y: 10})
	assert.Equal(t, "idle", st.Mode)
	assert.Equal(t, 2, st.HistoryLen)
}

func TestSessionOrigin(t *testing.T) {
	srv, url := newTestServer(t)
	conn := dial(t, url)

	send(t, conn, Message{Type: "origin", X: 20, Y: 10})
	send(t, conn, Message{Type: "width", Value: 4})
	send(t, conn, Message{Type: "down", X: 30, Y: 20})
	send(t, conn, Message{Type: "move", X: 40, Y: 20})
	send(t, conn, Message{Type: "up", X: 40, Y: 20})

	resp, err := http.Get(srv.URL + "/surface.png")
	require.NoError(t, err)
	defer resp.Body.Close()
	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	_, _, _, a := img.At(15, 10).RGBA()
	require.Equal(t, uint32(0xffff), a)
	r, _, _, _ := img.At(15, 10).RGBA()
	assert.Less(t, r, uint32(0x1000), "stroke drawn at device minus origin")
	r, _, _, _ = img.At(35, 20).RGBA()
	assert.Equal(t, uint32(0xffff), r, "nothing at the raw device position")
}

func TestFrame(t *testing.T) {
	_, url := newTestServer(t)
	conn := dial(t, url)

	send(t, conn, Message{Type: "frame", X: 32, Y: 16})
	kind, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, kind)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 16), img.Bounds())
}

func TestSecondSessionRejected(t *testing.T) {
	_, url := newTestServer(t)
	first := dial(t, url)
	send(t, first, Message{Type: "grid"})

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	first.Close()
	assert.Eventually(t, func() bool {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 2*time.Second, 20*time.Millisecond, "slot frees once the session ends")
}

func TestSurfacePNG(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/surface.png")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())
}
