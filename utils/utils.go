package utils

import (
	"image"
)

// ClampToFrame clips rect to the image bounds
func ClampToFrame(rect image.Rectangle, imgWidth, imgHeight int) image.Rectangle {
	return rect.Intersect(image.Rect(0, 0, imgWidth, imgHeight))
}

// IsSelected reports whether an ROI returned by the selector was confirmed.
// A cancelled selection comes back as the zero rectangle.
func IsSelected(rect image.Rectangle) bool {
	return rect.Dx() > 0 && rect.Dy() > 0
}
