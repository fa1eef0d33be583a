package editor

import "github.com/ironsheep/image-editor-mcp/internal/raster"

// History is a LIFO stack of image snapshots, most recent last.
//
// With a positive limit, pushing onto a full stack drops the oldest
// snapshot. A limit of 0 keeps every snapshot.
//
// History is not safe for concurrent use; Engine serializes access.
type History struct {
	snapshots []*raster.Image
	limit     int
}

// NewHistory creates an empty history holding at most limit snapshots.
func NewHistory(limit int) *History {
	if limit < 0 {
		limit = 0
	}
	return &History{limit: limit}
}

// Push appends a snapshot. The caller hands over ownership of img.
func (h *History) Push(img *raster.Image) {
	if h.limit > 0 && len(h.snapshots) >= h.limit {
		h.snapshots[0] = nil
		h.snapshots = h.snapshots[1:]
	}
	h.snapshots = append(h.snapshots, img)
}

// Pop removes and returns the most recent snapshot.
// The second result is false when the history is empty.
func (h *History) Pop() (*raster.Image, bool) {
	n := len(h.snapshots)
	if n == 0 {
		return nil, false
	}
	img := h.snapshots[n-1]
	h.snapshots[n-1] = nil
	h.snapshots = h.snapshots[:n-1]
	return img, true
}

// Len returns the number of snapshots.
func (h *History) Len() int { return len(h.snapshots) }

// Limit returns the maximum depth, 0 meaning unbounded.
func (h *History) Limit() int { return h.limit }

// Clear drops every snapshot.
func (h *History) Clear() {
	h.snapshots = nil
}
