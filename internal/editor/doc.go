// Package editor implements the transformation engine: the current image,
// its linear undo history, and validated application of operations.
//
// # States
//
// An Engine is either empty (no image) or loaded. Load moves it to loaded
// from any state and clears the history. Apply keeps it loaded and grows
// the history by one. Undo shrinks the history by one, or reports
// ErrEmptyHistory and does nothing.
//
// # Operations
//
// Operations are values of the closed Op interface, one struct per kind,
// carrying only that kind's parameters:
//
//	eng := editor.New(editor.Options{})
//	if _, err := eng.Load(data); err != nil {
//	    return err
//	}
//	if _, err := eng.Apply(editor.Rotate{Angle: 90}); err != nil {
//	    return err
//	}
//	eng.Undo()
//
// Parameter ranges are checked centrally by Apply:
//   - Translate: DX, DY in [-500, 500]
//   - Rotate: Angle in [-360, 360]
//   - Resize: Width, Height >= 1
//   - Crop: coordinates within the current image, positive area
//   - Smooth: Average, Gaussian, Median or Bilateral
//
// # Error Handling
//
// Errors never change engine state:
//   - *DecodeError: Load input is not a PNG, JPEG or BMP image
//   - ErrNoImage: the operation needs a loaded image
//   - *ValidationError: a parameter is out of range or unknown
//   - ErrEmptyHistory: Undo had nothing to undo
package editor
