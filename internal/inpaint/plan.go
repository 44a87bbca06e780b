package inpaint

import (
	"fmt"
	"image"
)

const (
	// MinCropSide is the smallest context window side, image permitting.
	MinCropSide = 200

	// ContextFactor scales the mask size into the context window side.
	ContextFactor = 4
)

// CropPlan holds the context window and mask rectangle derived from a refined
// region. Crop and Mask are in full-image coordinates, LocalMask is Mask
// relative to Crop.
type CropPlan struct {
	Crop      image.Rectangle
	Mask      image.Rectangle
	LocalMask image.Rectangle
}

// PlanCrop pads the region, clamps it to the image and centers a square
// context window on it. The window is slid, never shrunk, to stay inside the
// image; its side is max(4·maskW, 4·maskH, MinCropSide) capped at the shorter
// image side. A mask longer than that cap stretches the window on its axis.
//
// A region with zero width or height yields an empty mask.
func PlanCrop(imgW, imgH int, region image.Rectangle, padding int) (CropPlan, error) {
	if imgW <= 0 || imgH <= 0 {
		return CropPlan{}, fmt.Errorf("%w: image is %dx%d", ErrInvalidRegion, imgW, imgH)
	}
	if padding < 0 {
		return CropPlan{}, fmt.Errorf("%w: negative padding %d", ErrInvalidRegion, padding)
	}
	if region.Min.X < 0 || region.Min.Y < 0 {
		return CropPlan{}, fmt.Errorf("%w: region %v has a negative origin", ErrInvalidRegion, region)
	}

	bounds := image.Rect(0, 0, imgW, imgH)

	var mask image.Rectangle
	if region.Empty() {
		p := image.Pt(min(region.Min.X, imgW), min(region.Min.Y, imgH))
		mask = image.Rectangle{Min: p, Max: p}
	} else {
		if !region.Overlaps(bounds) {
			return CropPlan{}, fmt.Errorf("%w: region %v lies outside %v", ErrInvalidRegion, region, bounds)
		}
		mask = region.Inset(-padding).Intersect(bounds)
	}

	side := max(ContextFactor*mask.Dx(), ContextFactor*mask.Dy(), MinCropSide)
	side = min(side, imgW, imgH)

	x1, x2 := placeWindow(mask.Min.X, mask.Max.X, max(side, mask.Dx()), imgW)
	y1, y2 := placeWindow(mask.Min.Y, mask.Max.Y, max(side, mask.Dy()), imgH)
	crop := image.Rect(x1, y1, x2, y2)

	return CropPlan{
		Crop:      crop,
		Mask:      mask,
		LocalMask: mask.Sub(crop.Min),
	}, nil
}

// placeWindow centers a window of the given length on [lo, hi) and slides it
// into [0, limit). length must not exceed limit.
func placeWindow(lo, hi, length, limit int) (int, int) {
	start := (lo+hi)/2 - length/2
	start = max(0, min(start, limit-length))
	return start, start + length
}
