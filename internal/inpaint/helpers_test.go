package inpaint

import (
	"context"
	"image"
	"testing"

	"gocv.io/x/gocv"
)

// gradientMat returns a w×h BGR image where every pixel differs from its
// neighbours, so unintended writes are visible.
func gradientMat(t *testing.T, w, h int) gocv.Mat {
	t.Helper()
	buf := make([]byte, 3*w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := 3 * (y*w + x)
			buf[i] = byte(x)
			buf[i+1] = byte(y)
			buf[i+2] = byte(x*7 + y*3)
		}
	}
	m, err := matFromBytes(h, w, gocv.MatTypeCV8UC3, buf)
	if err != nil {
		t.Fatalf("matFromBytes: %v", err)
	}
	return m
}

func solidMat(w, h int, b, g, r float64) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(b, g, r, 0), h, w, gocv.MatTypeCV8UC3)
}

// pixelAt returns the BGR triple of a continuous 3-channel buffer.
func pixelAt(buf []byte, w, x, y int) [3]byte {
	i := 3 * (y*w + x)
	return [3]byte{buf[i], buf[i+1], buf[i+2]}
}

func absDiff(a, b byte) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// solidModel answers every request with a constant RGB color in unit range
// and records what it was given.
type solidModel struct {
	rgb   [3]float32
	calls int
	image Tensor
	mask  Tensor
	err   error
	shape []int64
}

func (m *solidModel) Inpaint(_ context.Context, img, mask Tensor) (Tensor, error) {
	m.calls++
	m.image, m.mask = img, mask
	if m.err != nil {
		return Tensor{}, m.err
	}

	plane := WorkingSize * WorkingSize
	out := Tensor{Shape: []int64{1, 3, WorkingSize, WorkingSize}, Data: make([]float32, 3*plane)}
	if m.shape != nil {
		out.Shape = m.shape
	}
	for c := 0; c < 3; c++ {
		for i := 0; i < plane; i++ {
			out.Data[c*plane+i] = m.rgb[c]
		}
	}
	return out, nil
}

// recordingDiagnostics keeps the size of every saved stage.
type recordingDiagnostics struct {
	stages map[string]image.Point
}

func (d *recordingDiagnostics) Save(stage string, img gocv.Mat) {
	if d.stages == nil {
		d.stages = make(map[string]image.Point)
	}
	d.stages[stage] = image.Pt(img.Cols(), img.Rows())
}
