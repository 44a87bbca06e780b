package inpaint

import (
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"
)

// Diagnostic stage names, in pipeline order.
const (
	StageCrop         = "01_crop"
	StageMask         = "02_mask"
	StageInputBlanked = "03_input_blanked"
	StageWorkingMask  = "04_working_mask"
	StageModelOutput  = "05_model_output"
	StageResultCrop   = "06_result_crop"
	StageBlended      = "07_blended"
)

// Diagnostics receives intermediate images. Implementations must not retain
// img after Save returns.
type Diagnostics interface {
	Save(stage string, img gocv.Mat)
}

// DirDiagnostics writes each stage as <Dir>/<Prefix>_<stage>.png.
type DirDiagnostics struct {
	Dir    string
	Prefix string
}

// Save writes img. Failures are logged and otherwise ignored.
func (d DirDiagnostics) Save(stage string, img gocv.Mat) {
	path := filepath.Join(d.Dir, d.Prefix+"_"+stage+".png")
	if err := WriteImage(path, img); err != nil {
		log.Warn().Err(err).Str("stage", stage).Msg("diagnostics")
		return
	}
	log.Debug().Str("stage", stage).Str("path", path).Msg("diagnostics")
}

// maskTensorMat renders a {0,1} mask tensor as an 8-bit size×size image.
func maskTensorMat(t Tensor, size int) (gocv.Mat, error) {
	buf := make([]byte, size*size)
	for i := range buf {
		if i < len(t.Data) && t.Data[i] > 0 {
			buf[i] = 255
		}
	}
	return matFromBytes(size, size, gocv.MatTypeCV8UC1, buf)
}
