package inpaint

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
)

// FeatherSigma is the Gaussian sigma used to soften the mask edge.
func FeatherSigma(padding int) float64 {
	return float64(max(1, min(padding, 3)))
}

// FeatherReach is the distance in pixels beyond which the feathered mask is
// zero and the original image is left untouched.
func FeatherReach(padding int) int {
	return int(math.Ceil(3 * FeatherSigma(padding)))
}

// Feather blurs a binary crop mask into an 8-bit alpha ramp.
func Feather(mask gocv.Mat, padding int) gocv.Mat {
	k := 2*FeatherReach(padding) + 1
	sigma := FeatherSigma(padding)

	alpha := gocv.NewMat()
	gocv.GaussianBlur(mask, &alpha, image.Pt(k, k), sigma, sigma, gocv.BorderReflect101)
	return alpha
}

// Composition is the outcome of pasting a model result into an image.
// Image is the full-resolution output; ResultCrop and Blended are kept for
// diagnostics. Close releases all three.
type Composition struct {
	Image      gocv.Mat
	ResultCrop gocv.Mat
	Blended    gocv.Mat
}

// Close releases the Mats held by c.
func (c *Composition) Close() {
	c.Image.Close()
	c.ResultCrop.Close()
	c.Blended.Close()
}

// Composite scales the working-resolution result back to the crop, blends it
// over the original crop through the feathered mask and pastes the blend into
// a copy of original. Pixels outside crop are never written.
func Composite(original gocv.Mat, crop image.Rectangle, result, mask gocv.Mat, padding int) (*Composition, error) {
	w, h := crop.Dx(), crop.Dy()
	if mask.Cols() != w || mask.Rows() != h {
		return nil, fmt.Errorf("mask is %dx%d, crop is %dx%d", mask.Cols(), mask.Rows(), w, h)
	}
	if !crop.In(image.Rect(0, 0, original.Cols(), original.Rows())) {
		return nil, fmt.Errorf("crop %v outside %dx%d image", crop, original.Cols(), original.Rows())
	}

	resized := ResizeMat(result, w, h, gocv.InterpolationLanczos4)

	alpha := Feather(mask, padding)
	defer alpha.Close()

	orig := CropMat(original, crop)
	defer orig.Close()

	buf, err := BlendBytes(orig.ToBytes(), resized.ToBytes(), alpha.ToBytes())
	if err != nil {
		resized.Close()
		return nil, err
	}
	blended, err := matFromBytes(h, w, gocv.MatTypeCV8UC3, buf)
	if err != nil {
		resized.Close()
		return nil, err
	}

	out := original.Clone()
	PasteMat(&out, blended, crop.Min)

	return &Composition{Image: out, ResultCrop: resized, Blended: blended}, nil
}

// BlendBytes mixes two interleaved 3-channel buffers with a per-pixel 8-bit
// alpha: out = orig·(1-a) + result·a, a = alpha/255.
func BlendBytes(orig, result, alpha []byte) ([]byte, error) {
	if len(orig) != len(result) || len(orig) != 3*len(alpha) {
		return nil, fmt.Errorf("blend buffers disagree: %d, %d, %d alpha", len(orig), len(result), len(alpha))
	}

	out := make([]byte, len(orig))
	for i, av := range alpha {
		a := float32(av) / 255
		for c := 3 * i; c < 3*i+3; c++ {
			out[c] = clip8(float32(orig[c])*(1-a) + float32(result[c])*a)
		}
	}
	return out, nil
}
