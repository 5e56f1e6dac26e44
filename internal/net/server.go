// Package net is the headless browser shell: a WebSocket server that drives
// a board from a single browser session, plus LAN discovery helpers.
package net

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"MyLocalPaint/internal/board"
	"MyLocalPaint/internal/export"
	"MyLocalPaint/internal/raster"

	"github.com/gorilla/websocket"
)

// ErrBusy is reported when a second browser tries to connect while a
// session is open.
var ErrBusy = errors.New("a drawing session is already open")

const (
	maxFrameSide   = 4096
	maxMessageSize = 32 << 20 // room for an imported image
	writeWait      = 10 * time.Second
)

// Message is one command from the browser. Which fields matter depends on
// Type; pointer messages use X, Y and Pan in device pixels, frame uses X and
// Y as the viewport size.
type Message struct {
	Type  string  `json:"type"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	Pan   bool    `json:"pan,omitempty"`
	Tool  string  `json:"tool,omitempty"`
	Color string  `json:"color,omitempty"`
	Value float64 `json:"value,omitempty"`
	ID    string  `json:"id,omitempty"`
	Data  []byte  `json:"data,omitempty"` // encoded image for "import"
}

// State is sent back after every message.
type State struct {
	Type          string            `json:"type"`
	Tool          string            `json:"tool"`
	Mode          string            `json:"mode"`
	Color         string            `json:"color"`
	Width         int               `json:"width"`
	Opacity       float64           `json:"opacity"`
	Zoom          int               `json:"zoom"`
	PanX          float64           `json:"panX"`
	PanY          float64           `json:"panY"`
	Grid          bool              `json:"grid"`
	Layers        []board.LayerInfo `json:"layers"`
	HistoryLen    int               `json:"historyLen"`
	HistoryCursor int               `json:"historyCursor"`
	CanUndo       bool              `json:"canUndo"`
	CanRedo       bool              `json:"canRedo"`
}

// Server serves one board to one browser session at a time.
type Server struct {
	mu       sync.Mutex // guards board
	board    *board.Board
	busy     atomic.Bool
	upgrader websocket.Upgrader
}

// NewServer wraps b. The server is the only user of b afterwards.
func NewServer(b *board.Board) *Server {
	return &Server{
		board: b,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The page may be opened from any LAN address.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler routes /ws to the session and /surface.png to a flattened export.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/surface.png", s.serveSurface)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	log.Printf("[NET] listening on %s", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", addr, err)
	}
	return nil
}

func (s *Server) serveSurface(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	img := s.board.Flatten()
	s.mu.Unlock()
	w.Header().Set("Content-Type", "image/png")
	if err := export.WritePNG(w, img); err != nil {
		log.Printf("[NET] surface: %v", err)
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	if !s.busy.CompareAndSwap(false, true) {
		log.Printf("[NET] rejected %s: %v", r.RemoteAddr, ErrBusy)
		http.Error(w, ErrBusy.Error(), http.StatusConflict)
		return
	}
	defer s.busy.Store(false)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[NET] upgrade %s: %v", r.RemoteAddr, err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)
	log.Printf("[NET] session opened from %s", r.RemoteAddr)

	// A dropped connection must not leave a drag open.
	defer func() {
		s.mu.Lock()
		s.board.EndGesture()
		s.mu.Unlock()
		log.Printf("[NET] session from %s closed", r.RemoteAddr)
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[NET] read: %v", err)
			}
			return
		}
		st, frame := s.handle(msg)
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(st); err != nil {
			log.Printf("[NET] write state: %v", err)
			return
		}
		if frame != nil {
			if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				log.Printf("[NET] write frame: %v", err)
				return
			}
		}
	}
}

// handle applies msg and returns the resulting state, plus an encoded view
// for frame requests.
func (s *Server) handle(msg Message) (State, []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.board
	p := board.Pointer{X: msg.X, Y: msg.Y, Pan: msg.Pan}

	var frame []byte
	switch msg.Type {
	case "down":
		b.PointerDown(p)
	case "move":
		b.PointerMove(p)
	case "up":
		b.PointerUp(p)
	case "leave":
		b.PointerLeave(p)
	case "tool":
		b.SelectTool(msg.Tool)
	case "color":
		b.SetColor(msg.Color)
	case "width":
		b.SetWidth(int(msg.Value))
	case "opacity":
		b.SetOpacity(msg.Value)
	case "filled":
		b.SetFilled(msg.Value != 0)
	case "zoom":
		b.SetZoom(msg.Value)
	case "zoomBy":
		b.ZoomAt(msg.Value, msg.X, msg.Y)
	case "pan":
		b.SetPan(msg.X, msg.Y)
	case "origin":
		b.SetOrigin(msg.X, msg.Y)
	case "resetView":
		b.ResetView()
	case "grid":
		b.ToggleGrid()
	case "addLayer":
		b.AddLayer()
	case "deleteLayer":
		b.DeleteLayer(msg.ID)
	case "duplicateLayer":
		b.DuplicateLayer(msg.ID)
	case "layerOpacity":
		b.SetLayerOpacity(msg.ID, msg.Value)
	case "layerVisibility":
		b.ToggleLayerVisibility(msg.ID)
	case "selectLayer":
		b.SetCurrentLayer(msg.ID)
	case "moveLayer":
		b.MoveLayer(msg.ID, int(msg.Value))
	case "clear":
		b.ClearLayer()
	case "import":
		img, _, err := export.DecodeImage(bytes.NewReader(msg.Data))
		if err != nil {
			log.Printf("[NET] import: %v", err)
			break
		}
		b.ImportImage(img)
	case "undo":
		b.Undo()
	case "redo":
		b.Redo()
	case "frame":
		frame = s.renderFrame(int(msg.X), int(msg.Y))
	default:
		log.Printf("[NET] ignoring message type %q", msg.Type)
	}
	return s.state(), frame
}

func (s *Server) renderFrame(w, h int) []byte {
	w = min(max(w, 1), maxFrameSide)
	h = min(max(h, 1), maxFrameSide)
	var buf bytes.Buffer
	if err := export.WritePNG(&buf, s.board.RenderView(w, h)); err != nil {
		log.Printf("[NET] frame: %v", err)
		return nil
	}
	return buf.Bytes()
}

func (s *Server) state() State {
	b := s.board
	vp := b.Viewport()
	st := b.Style()
	return State{
		Type:          "state",
		Tool:          b.Tool().String(),
		Mode:          b.Mode().String(),
		Color:         raster.Hex(st.Color),
		Width:         st.Width,
		Opacity:       st.Opacity,
		Zoom:          b.ZoomPercent(),
		PanX:          vp.Pan.X,
		PanY:          vp.Pan.Y,
		Grid:          b.GridVisible(),
		Layers:        b.Layers(),
		HistoryLen:    b.HistoryLen(),
		HistoryCursor: b.HistoryCursor(),
		CanUndo:       b.CanUndo(),
		CanRedo:       b.CanRedo(),
	}
}
