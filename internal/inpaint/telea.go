package inpaint

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"
)

// DefaultTeleaRadius is the neighbourhood OpenCV considers around each
// inpainted pixel.
const DefaultTeleaRadius = 3

// TeleaModel fills the mask with OpenCV's Telea inpainting. It needs no
// model artifact and is far weaker on textured backgrounds than LaMa.
type TeleaModel struct {
	Radius float32
}

// Inpaint implements Model.
func (m TeleaModel) Inpaint(ctx context.Context, img, mask Tensor) (Tensor, error) {
	if err := ctx.Err(); err != nil {
		return Tensor{}, err
	}
	if len(img.Shape) != 4 || img.Shape[2] != img.Shape[3] {
		return Tensor{}, fmt.Errorf("telea: unsupported image shape %v", img.Shape)
	}
	size := int(img.Shape[2])

	bgr, err := DecodeOutput(img, size)
	if err != nil {
		return Tensor{}, fmt.Errorf("telea: %w", err)
	}
	src, err := matFromBytes(size, size, gocv.MatTypeCV8UC3, bgr)
	if err != nil {
		return Tensor{}, err
	}
	defer src.Close()

	msk, err := maskTensorMat(mask, size)
	if err != nil {
		return Tensor{}, err
	}
	defer msk.Close()

	radius := m.Radius
	if radius <= 0 {
		radius = DefaultTeleaRadius
	}
	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Inpaint(src, msk, &dst, radius, gocv.Telea)

	return bgrTensor(dst.ToBytes(), size), nil
}

// bgrTensor converts an interleaved BGR buffer to a [1,3,S,S] RGB tensor in
// [0,1].
func bgrTensor(bgr []byte, size int) Tensor {
	plane := size * size
	t := Tensor{Shape: []int64{1, 3, int64(size), int64(size)}, Data: make([]float32, 3*plane)}
	for i := 0; i < plane; i++ {
		for c := 0; c < 3; c++ {
			t.Data[c*plane+i] = float32(bgr[3*i+2-c]) / 255
		}
	}
	return t
}
