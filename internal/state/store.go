package state

import (
	"fmt"
	"image"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// Store holds the ordered layer stack (bottom first), the current layer and
// the undo history. It is owned by a single writer and is not safe for
// concurrent use.
type Store struct {
	width, height int
	layers        []Layer
	current       string
	history       *History
	clock         Clock
}

// NewStore creates a store with one empty, transparent layer of the given
// size. It does not push a history entry.
func NewStore(width, height, historyLimit int) *Store {
	s := &Store{
		width:   width,
		height:  height,
		history: NewHistory(historyLimit),
	}
	l := s.newLayer("Layer 1")
	s.layers = []Layer{l}
	s.current = l.ID
	return s
}

func (s *Store) newLayer(name string) Layer {
	return Layer{
		ID:      uuid.NewString(),
		Name:    name,
		Visible: true,
		Opacity: 1,
		Pixels:  image.NewRGBA(image.Rect(0, 0, s.width, s.height)),
	}
}

// Size returns the surface size in pixels.
func (s *Store) Size() (width, height int) {
	return s.width, s.height
}

// Layers returns the live layer stack, bottom first. The slice is a copy but
// the pixel buffers are shared with the store.
func (s *Store) Layers() []Layer {
	out := make([]Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

func (s *Store) index(id string) int {
	for i := range s.layers {
		if s.layers[i].ID == id {
			return i
		}
	}
	return -1
}

// Layer looks up a layer by id.
func (s *Store) Layer(id string) (Layer, bool) {
	if i := s.index(id); i >= 0 {
		return s.layers[i], true
	}
	return Layer{}, false
}

// CurrentID returns the id of the layer being drawn on.
func (s *Store) CurrentID() string {
	return s.current
}

// Current returns the layer being drawn on.
func (s *Store) Current() *Layer {
	if i := s.index(s.current); i >= 0 {
		return &s.layers[i]
	}
	return nil
}

// AddLayer appends a new transparent layer on top of the stack and makes it
// current.
func (s *Store) AddLayer() string {
	l := s.newLayer(fmt.Sprintf("Layer %d", len(s.layers)+1))
	s.layers = append(s.layers, l)
	s.current = l.ID
	Logger().Debug("layer added", "id", l.ID, "name", l.Name)
	return l.ID
}

// DuplicateLayer inserts a copy of the layer directly above it and makes the
// copy current. It returns the new id, or "" for an unknown id.
func (s *Store) DuplicateLayer(id string) string {
	i := s.index(id)
	if i < 0 {
		return ""
	}
	dup := s.layers[i].Clone()
	dup.ID = uuid.NewString()
	dup.Name = s.layers[i].Name + " copy"
	s.layers = append(s.layers, Layer{})
	copy(s.layers[i+2:], s.layers[i+1:])
	s.layers[i+1] = dup
	s.current = dup.ID
	return dup.ID
}

// DeleteLayer removes a layer. Deleting the only layer is rejected. When
// the current layer is removed the bottom-most remaining layer becomes
// current.
func (s *Store) DeleteLayer(id string) bool {
	if len(s.layers) <= 1 {
		Logger().Debug("delete rejected: last layer", "id", id)
		return false
	}
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	if s.current == id {
		s.current = s.layers[0].ID
	}
	return true
}

// SetLayerOpacity sets a layer's opacity, clamped to [0,1]. NaN is ignored.
func (s *Store) SetLayerOpacity(id string, v float64) {
	i := s.index(id)
	if i < 0 || v != v {
		return
	}
	s.layers[i].Opacity = Clamp01(v)
}

// ToggleLayerVisibility flips a layer's visibility.
func (s *Store) ToggleLayerVisibility(id string) {
	if i := s.index(id); i >= 0 {
		s.layers[i].Visible = !s.layers[i].Visible
	}
}

// SetCurrentLayer selects the layer drawn on. Unknown ids are ignored.
func (s *Store) SetCurrentLayer(id string) {
	if s.index(id) >= 0 {
		s.current = id
	}
}

// RenameLayer renames a layer. Empty names are ignored.
func (s *Store) RenameLayer(id, name string) {
	if i := s.index(id); i >= 0 && name != "" {
		s.layers[i].Name = name
	}
}

// MoveLayer moves a layer delta positions up (positive) or down the stack,
// stopping at either end.
func (s *Store) MoveLayer(id string, delta int) {
	i := s.index(id)
	if i < 0 {
		return
	}
	j := i + delta
	if j < 0 {
		j = 0
	}
	if j > len(s.layers)-1 {
		j = len(s.layers) - 1
	}
	l := s.layers[i]
	if j > i {
		copy(s.layers[i:j], s.layers[i+1:j+1])
	} else {
		copy(s.layers[j+1:i+1], s.layers[j:i])
	}
	s.layers[j] = l
}

// Load replaces the live layers with a deep copy of layers, sized to the
// store, and pushes a history entry. An empty slice is ignored.
func (s *Store) Load(layers []Layer, current string) {
	if len(layers) == 0 {
		return
	}
	seen := make(map[string]bool, len(layers))
	loaded := make([]Layer, 0, len(layers))
	for _, l := range layers {
		l.Pixels = s.fit(l.Pixels)
		if l.ID == "" || seen[l.ID] {
			l.ID = uuid.NewString()
		}
		seen[l.ID] = true
		l.Opacity = Clamp01(l.Opacity)
		loaded = append(loaded, l)
	}
	s.layers = loaded
	s.current = current
	if s.index(current) < 0 {
		s.current = s.layers[0].ID
	}
	s.PushHistory()
}

// fit returns a fresh buffer of the store's size holding img, scaled when
// its size differs.
func (s *Store) fit(img *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	if img == nil {
		return dst
	}
	if img.Bounds().Size() == dst.Bounds().Size() {
		draw.Copy(dst, image.Point{}, img, img.Bounds(), draw.Src, nil)
		return dst
	}
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// PushHistory records a snapshot of the live layers.
func (s *Store) PushHistory() {
	s.history.Push(HistoryEntry{
		Layers:    cloneLayers(s.layers),
		Current:   s.current,
		Timestamp: s.clock.Tick(),
	})
}

// Undo restores the previous snapshot. It reports whether anything changed.
func (s *Store) Undo() bool {
	e, ok := s.history.Undo()
	if ok {
		s.restore(e)
	}
	return ok
}

// Redo restores the next snapshot. It reports whether anything changed.
func (s *Store) Redo() bool {
	e, ok := s.history.Redo()
	if ok {
		s.restore(e)
	}
	return ok
}

func (s *Store) restore(e HistoryEntry) {
	s.layers = cloneLayers(e.Layers)
	s.current = e.Current
	if s.index(s.current) < 0 {
		s.current = s.layers[0].ID
	}
}

// HistoryLen returns the number of history entries.
func (s *Store) HistoryLen() int { return s.history.Len() }

// HistoryCursor returns the history cursor, -1 when empty.
func (s *Store) HistoryCursor() int { return s.history.Cursor() }

// CanUndo reports whether Undo would change anything.
func (s *Store) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would change anything.
func (s *Store) CanRedo() bool { return s.history.CanRedo() }

// Clamp01 clamps v to [0,1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
