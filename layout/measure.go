package layout

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Measurer reports the rendered width of a label.
type Measurer interface {
	Width(label string) float64
}

// FaceMeasurer measures labels with a font face scaled to a font size.
type FaceMeasurer struct {
	Face     font.Face
	FaceSize float64 // pixel height the face is drawn at
	FontSize float64 // pixel height labels are rendered at
}

// NewFaceMeasurer measures with the 7x13 bitmap face scaled to fontSize.
func NewFaceMeasurer(fontSize float64) *FaceMeasurer {
	return &FaceMeasurer{
		Face:     basicfont.Face7x13,
		FaceSize: 13,
		FontSize: fontSize,
	}
}

// Width implements Measurer.
func (m *FaceMeasurer) Width(label string) float64 {
	if label == "" {
		return 0
	}
	w := float64(font.MeasureString(m.Face, label)) / 64
	return w * m.FontSize / m.FaceSize
}

// FixedMeasurer gives every rune the same advance.
type FixedMeasurer float64

// Width implements Measurer.
func (m FixedMeasurer) Width(label string) float64 {
	return float64(len([]rune(label))) * float64(m)
}
