package editor

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/ironsheep/image-editor-mcp/internal/raster"
)

// DefaultMaxLoadDimension is the largest width or height kept by Load.
const DefaultMaxLoadDimension = 500

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	// MaxLoadDimension bounds both dimensions of a loaded image; larger
	// images are downsized preserving the aspect ratio. Default 500.
	MaxLoadDimension int

	// HistoryLimit caps the undo depth, dropping the oldest snapshot when
	// exceeded. 0 keeps the history unbounded.
	HistoryLimit int

	// Background fills the corners uncovered by Rotate. Default black.
	Background color.Color
}

func (o *Options) setDefaults() {
	if o.MaxLoadDimension <= 0 {
		o.MaxLoadDimension = DefaultMaxLoadDimension
	}
	if o.HistoryLimit < 0 {
		o.HistoryLimit = 0
	}
	if o.Background == nil {
		o.Background = color.Black
	}
}

// Engine holds the image being edited and its undo history.
//
// The engine starts empty. Load sets the current image and clears the
// history; each successful Apply pushes a copy of the current image before
// replacing it; Undo restores the most recent copy.
//
// Engine is safe for concurrent use. A single mutex covers the current
// image and the history, so Apply, Undo and Load never interleave.
type Engine struct {
	mu      sync.Mutex
	opts    Options
	current *raster.Image
	history *History
}

// New creates an empty engine.
func New(opts Options) *Engine {
	opts.setDefaults()
	return &Engine{
		opts:    opts,
		history: NewHistory(opts.HistoryLimit),
	}
}

// Options returns the engine configuration with defaults applied.
func (e *Engine) Options() Options {
	return e.opts
}

// Load decodes data (PNG, JPEG or BMP), downsizes it to fit within
// MaxLoadDimension, makes it the current image and clears the history.
//
// On failure a *DecodeError is returned and the previous image and history
// are kept.
func (e *Engine) Load(data []byte) (*raster.Image, error) {
	img, _, err := raster.Decode(data)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	img = raster.Thumbnail(img, e.opts.MaxLoadDimension)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.current = img
	e.history.Clear()
	return img, nil
}

// Save writes the current image to path as PNG.
func (e *Engine) Save(path string) error {
	e.mu.Lock()
	cur := e.current
	e.mu.Unlock()

	if cur == nil {
		return ErrNoImage
	}
	if err := raster.WriteFile(path, cur); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// Apply validates op against the current image, then records a snapshot
// and replaces the current image with the result.
//
// Returns ErrNoImage when nothing is loaded and a *ValidationError for
// out-of-range or malformed parameters. On any error the current image and
// history are unchanged.
func (e *Engine) Apply(op Op) (*raster.Image, error) {
	if isNilOp(op) {
		return nil, &ValidationError{Reason: "no operation given"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current == nil {
		return nil, ErrNoImage
	}
	if err := op.validate(e.current); err != nil {
		return nil, err
	}

	next, err := op.apply(e.current, &e.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to apply %s: %w", op.Kind(), err)
	}

	e.history.Push(e.current.Clone())
	e.current = next
	return next, nil
}

// Undo restores the most recent snapshot. With an empty history, including
// when no image is loaded, it returns ErrEmptyHistory together with the
// unchanged current image.
func (e *Engine) Undo() (*raster.Image, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev, ok := e.history.Pop()
	if !ok {
		return e.current, ErrEmptyHistory
	}
	e.current = prev
	return prev, nil
}

// Current returns the current image, or nil when none is loaded.
// The returned image must not be modified.
func (e *Engine) Current() *raster.Image {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// HistoryLen returns the number of undoable steps.
func (e *Engine) HistoryLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Len()
}

// Status describes the engine state for display.
type Status struct {
	Loaded       bool `json:"loaded"`
	Width        int  `json:"width,omitempty"`
	Height       int  `json:"height,omitempty"`
	Channels     int  `json:"channels,omitempty"`
	HistoryDepth int  `json:"history_depth"`
	HistoryLimit int  `json:"history_limit"`
}

// Status returns a snapshot of the engine state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Status{
		HistoryDepth: e.history.Len(),
		HistoryLimit: e.history.Limit(),
	}
	if e.current != nil {
		s.Loaded = true
		s.Width = e.current.Width
		s.Height = e.current.Height
		s.Channels = raster.Channels
	}
	return s
}
