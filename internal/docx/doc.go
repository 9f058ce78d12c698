// Package docx models a WordprocessingML document and serializes it to a
// .docx container.
//
// The object graph is deliberately small: a Document holds an ordered body
// of Nodes (paragraphs and tables); paragraphs hold Inlines (runs, images,
// fields). Write packs the graph together with styles, numbering, settings
// and core properties into a zip archive.
//
// All physical lengths are integers in the unit Word uses for that
// attribute: twips (1/20 pt) for page and paragraph geometry, eighths of a
// point for borders, half-points for font sizes and EMU for drawings. Use
// the conversion helpers in this package instead of literal arithmetic.
package docx

import "math"

// Unit conversion constants.
const (
	TwipsPerCm    = 567
	EMUPerPixel   = 9525
	EMUPerCm      = 360000
	PixelsPerCm   = 37.8
	FullWidthPct  = 5000 // table width in fiftieths of a percent
	DefaultMargin = 1440 // one inch, in twips
)

// CmToTwips converts centimeters to twips.
func CmToTwips(cm float64) int {
	return int(math.Round(cm * TwipsPerCm))
}

// TwipsToCm converts twips to centimeters.
func TwipsToCm(twips int) float64 {
	return float64(twips) / TwipsPerCm
}

// PixelsToEMU converts 96 dpi pixels to EMU.
func PixelsToEMU(px int) int64 {
	return int64(px) * EMUPerPixel
}

// CmToPixels converts centimeters to 96 dpi pixels, rounded down.
func CmToPixels(cm float64) int {
	return int(cm * PixelsPerCm)
}
