package inpaint

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"
)

// PngCompression is the zlib level used when writing PNG outputs.
const PngCompression = 1

// ReadImage decodes the image at path as 3-channel 8-bit BGR.
func ReadImage(path string) (gocv.Mat, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		img.Close()
		return gocv.NewMat(), fmt.Errorf("%w: cannot decode %s", ErrInput, path)
	}
	return img, nil
}

// WriteImage encodes img to path, picking the format from the extension.
func WriteImage(path string, img gocv.Mat) error {
	var ok bool
	if strings.EqualFold(filepath.Ext(path), ".png") {
		ok = gocv.IMWriteWithParams(path, img, []int{gocv.IMWritePngCompression, PngCompression})
	} else {
		ok = gocv.IMWrite(path, img)
	}
	if !ok {
		return fmt.Errorf("error writing image to %s", path)
	}
	return nil
}

// CropMat copies the rect region of img into a new continuous Mat.
func CropMat(img gocv.Mat, rect image.Rectangle) gocv.Mat {
	roi := img.Region(rect)
	defer roi.Close()
	return roi.Clone()
}

// PasteMat copies src into dst with its top-left corner at pt. src must fit.
func PasteMat(dst *gocv.Mat, src gocv.Mat, pt image.Point) {
	roi := dst.Region(image.Rectangle{Min: pt, Max: pt.Add(image.Pt(src.Cols(), src.Rows()))})
	defer roi.Close()
	src.CopyTo(&roi)
}

// ResizeMat scales img to w×h with the given interpolation.
func ResizeMat(img gocv.Mat, w, h int, interp gocv.InterpolationFlags) gocv.Mat {
	out := gocv.NewMat()
	gocv.Resize(img, &out, image.Pt(w, h), 0, 0, interp)
	return out
}

// matFromBytes builds a Mat that owns a copy of data.
func matFromBytes(rows, cols int, mt gocv.MatType, data []byte) (gocv.Mat, error) {
	view, err := gocv.NewMatFromBytes(rows, cols, mt, data)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer view.Close()
	return view.Clone(), nil
}
