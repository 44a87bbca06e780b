package inpaint

import (
	"fmt"
	"image"
)

const (
	// WatermarkSize is the side of the corner watermark footprint.
	WatermarkSize = 60

	// RefineThreshold is the largest region side treated as already tight.
	RefineThreshold = 80
)

// Corner names the image corner a refined region is anchored to.
type Corner string

const (
	BottomRight Corner = "bottom-right"
	BottomLeft  Corner = "bottom-left"
	TopRight    Corner = "top-right"
	TopLeft     Corner = "top-left"
)

// Rect returns an image.Rectangle from x, y, width and height.
func Rect(x, y, w, h int) image.Rectangle {
	return image.Rect(x, y, x+w, y+h)
}

// NewRegion validates x, y, w, h and returns the region rectangle. A zero
// width or height is allowed and denotes the degenerate empty region.
func NewRegion(x, y, w, h int) (image.Rectangle, error) {
	if x < 0 || y < 0 || w < 0 || h < 0 {
		return image.Rectangle{}, fmt.Errorf("%w: (%d,%d) %dx%d", ErrInvalidRegion, x, y, w, h)
	}
	return Rect(x, y, w, h), nil
}

// RefineRegion narrows an oversized detection box to the watermark footprint
// anchored at the image corner it touches. Regions whose sides are both
// within RefineThreshold, or that touch no corner, are returned unchanged.
//
// Candidates are enumerated bottom-right, bottom-left, top-right, top-left and
// the one whose center is nearest the region center wins; on equal distance
// the earlier candidate is kept. Footprints are clipped to images smaller
// than WatermarkSize.
func RefineRegion(imgW, imgH int, region image.Rectangle) (image.Rectangle, Corner) {
	w, h := region.Dx(), region.Dy()
	if w <= RefineThreshold && h <= RefineThreshold {
		return region, ""
	}

	wm := WatermarkSize
	x, y := region.Min.X, region.Min.Y
	x2, y2 := region.Max.X, region.Max.Y

	type candidate struct {
		corner Corner
		rect   image.Rectangle
	}
	var corners []candidate

	if x2 >= imgW-wm && y2 >= imgH-wm {
		corners = append(corners, candidate{BottomRight, Rect(imgW-wm, imgH-wm, wm, wm)})
	}
	if x <= wm && y2 >= imgH-wm {
		corners = append(corners, candidate{BottomLeft, Rect(0, imgH-wm, wm, wm)})
	}
	if x2 >= imgW-wm && y <= wm {
		corners = append(corners, candidate{TopRight, Rect(imgW-wm, 0, wm, wm)})
	}
	if x <= wm && y <= wm {
		corners = append(corners, candidate{TopLeft, Rect(0, 0, wm, wm)})
	}

	if len(corners) == 0 {
		return region, ""
	}

	bounds := image.Rect(0, 0, imgW, imgH)
	for i := range corners {
		corners[i].rect = corners[i].rect.Intersect(bounds)
	}

	// doubled centers keep the distance integral
	rcx, rcy := x+x2, y+y2
	best := corners[0]
	bestDist := centerDist2(best.rect, rcx, rcy)
	for _, c := range corners[1:] {
		if d := centerDist2(c.rect, rcx, rcy); d < bestDist {
			best, bestDist = c, d
		}
	}

	return best.rect, best.corner
}

func centerDist2(r image.Rectangle, cx2, cy2 int) int {
	dx := r.Min.X + r.Max.X - cx2
	dy := r.Min.Y + r.Max.Y - cy2
	return dx*dx + dy*dy
}

// RegionWithGravity anchors a w×h region to the named side or corner of a
// imgW×imgH image. Edge gravities center the region along the free axis.
// The region is clipped to the image.
func RegionWithGravity(imgW, imgH, w, h int, gravity string) (image.Rectangle, error) {
	if w <= 0 {
		w = WatermarkSize
	}
	if h <= 0 {
		h = WatermarkSize
	}

	startX, startY := (imgW-w)/2, (imgH-h)/2
	switch gravity {
	case "north":
		startY = 0
	case "north-west":
		startX, startY = 0, 0
	case "north-east":
		startX, startY = imgW-w, 0
	case "west":
		startX = 0
	case "east":
		startX = imgW - w
	case "south":
		startY = imgH - h
	case "south-west":
		startX, startY = 0, imgH-h
	case "south-east":
		startX, startY = imgW-w, imgH-h
	default:
		return image.Rectangle{}, fmt.Errorf("%w: unknown gravity %q", ErrInvalidRegion, gravity)
	}

	r := Rect(startX, startY, w, h).Intersect(image.Rect(0, 0, imgW, imgH))
	if r.Empty() {
		return image.Rectangle{}, fmt.Errorf("%w: %dx%d at %s does not fit %dx%d", ErrInvalidRegion, w, h, gravity, imgW, imgH)
	}
	return r, nil
}
