package inpaint

import (
	"image"

	"gocv.io/x/gocv"
)

// BuildMask rasterizes rect into a w×h single-channel mask: 255 inside the
// rectangle, 0 elsewhere. An empty rect gives an all-zero mask.
func BuildMask(w, h int, rect image.Rectangle) gocv.Mat {
	mask := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC1)
	mask.SetTo(gocv.Scalar{Val1: 0})

	rect = rect.Intersect(image.Rect(0, 0, w, h))
	if rect.Empty() {
		return mask
	}

	roi := mask.Region(rect)
	defer roi.Close()
	roi.SetTo(gocv.Scalar{Val1: 255})

	return mask
}
