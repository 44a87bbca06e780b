package inpaint

import (
	"fmt"

	"gocv.io/x/gocv"
)

// WorkingSize is the square resolution the inpainting model runs at.
const WorkingSize = 512

// Tensor is a dense float32 buffer and its shape.
type Tensor struct {
	Shape []int64
	Data  []float32
}

// WorkingInput holds the model inputs for one crop.
type WorkingInput struct {
	// Image is [1,3,S,S] RGB in [0,1], zeroed where Mask is set.
	Image Tensor
	// Mask is [1,1,S,S] with values in {0,1}.
	Mask Tensor
	// MaskPixels counts the set pixels in Mask.
	MaskPixels int
}

// Empty reports whether the working mask has no set pixels.
func (in WorkingInput) Empty() bool {
	return in.MaskPixels == 0
}

// ToWorkingSpace resizes a BGR crop (Lanczos) and its mask (nearest
// neighbor) to WorkingSize and builds the model tensors.
func ToWorkingSpace(crop, mask gocv.Mat) (WorkingInput, error) {
	if crop.Rows() != mask.Rows() || crop.Cols() != mask.Cols() {
		return WorkingInput{}, fmt.Errorf("crop is %dx%d but mask is %dx%d",
			crop.Cols(), crop.Rows(), mask.Cols(), mask.Rows())
	}

	img := ResizeMat(crop, WorkingSize, WorkingSize, gocv.InterpolationLanczos4)
	defer img.Close()
	m := ResizeMat(mask, WorkingSize, WorkingSize, gocv.InterpolationNearestNeighbor)
	defer m.Close()

	return PrepareTensors(img.ToBytes(), m.ToBytes(), WorkingSize)
}

// PrepareTensors builds the model tensors from a size×size BGR buffer and a
// size×size 8-bit mask. The mask is thresholded at 0.5 first; every color
// channel is then multiplied by (1 - mask) so the model regenerates the
// masked pixels instead of preserving them.
func PrepareTensors(bgr, mask []byte, size int) (WorkingInput, error) {
	plane := size * size
	if len(bgr) != 3*plane {
		return WorkingInput{}, fmt.Errorf("image buffer has %d bytes, want %d", len(bgr), 3*plane)
	}
	if len(mask) != plane {
		return WorkingInput{}, fmt.Errorf("mask buffer has %d bytes, want %d", len(mask), plane)
	}

	in := WorkingInput{
		Mask: Tensor{Shape: []int64{1, 1, int64(size), int64(size)}, Data: make([]float32, plane)},
	}

	for i, v := range mask {
		if float32(v)/255 > 0.5 {
			in.Mask.Data[i] = 1
			in.MaskPixels++
		}
	}

	in.Image = bgrTensor(bgr, size)

	for c := 0; c < 3; c++ {
		ch := in.Image.Data[c*plane : (c+1)*plane]
		for i, m := range in.Mask.Data {
			ch[i] *= 1 - m
		}
	}

	return in, nil
}

// DecodeOutput turns a model result into a size×size interleaved BGR buffer.
// Channel-first ([1,]3,S,S) and channel-last ([1,]S,S,3) layouts are
// accepted. A maximum value of at most 1.5 marks the LaMa export's unit
// range and is scaled by 255; anything larger is taken as byte range.
func DecodeOutput(t Tensor, size int) ([]byte, error) {
	dims := t.Shape
	if len(dims) == 4 && dims[0] == 1 {
		dims = dims[1:]
	}
	plane := size * size
	if len(dims) != 3 || len(t.Data) != 3*plane {
		return nil, fmt.Errorf("%w: shape %v with %d values, want %dx%d RGB", ErrModelOutput, t.Shape, len(t.Data), size, size)
	}

	s := int64(size)
	var channelFirst bool
	switch {
	case dims[0] == 3 && dims[1] == s && dims[2] == s:
		channelFirst = true
	case dims[0] == s && dims[1] == s && dims[2] == 3:
	default:
		return nil, fmt.Errorf("%w: unsupported shape %v", ErrModelOutput, t.Shape)
	}

	var peak float32
	for _, v := range t.Data {
		if v > peak {
			peak = v
		}
	}
	scale := float32(1)
	if peak <= 1.5 {
		scale = 255
	}

	out := make([]byte, 3*plane)
	for i := 0; i < plane; i++ {
		for c := 0; c < 3; c++ {
			var v float32
			if channelFirst {
				v = t.Data[c*plane+i]
			} else {
				v = t.Data[3*i+c]
			}
			out[3*i+2-c] = clip8(v * scale)
		}
	}
	return out, nil
}

// DecodeOutputMat is DecodeOutput into a size×size BGR Mat.
func DecodeOutputMat(t Tensor, size int) (gocv.Mat, error) {
	buf, err := DecodeOutput(t, size)
	if err != nil {
		return gocv.NewMat(), err
	}
	return matFromBytes(size, size, gocv.MatTypeCV8UC3, buf)
}

// clip8 clips v to [0,255] and truncates. NaN maps to 0.
func clip8(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
