//go:build !ebiten

package ui

import "image/color"

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(any, color.Color) *Overlay { return &Overlay{} }

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// Mask always returns nil in headless builds.
func (o *Overlay) Mask() []bool { return nil }

// Color returns transparent black.
func (o *Overlay) Color() color.Color { return color.Transparent }
