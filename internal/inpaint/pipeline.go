// Package inpaint removes a rectangular watermark from an image by handing a
// square crop around it to an inpainting model and blending the synthesized
// patch back in.
//
// The pipeline is:
// Refine the detected region to the corner watermark footprint.
// Plan a square context window around the padded mask.
// Rasterize the mask at crop resolution.
// Resize crop and mask to the model's working resolution and blank the mask.
// Run the model.
// Resize the result back, feather-blend it over the crop and paste it in.
package inpaint

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"
)

// DefaultPadding is the margin added around the refined region.
const DefaultPadding = 5

// Model synthesizes the masked pixels of a working-resolution image.
// image is [1,3,S,S] in [0,1] and mask [1,1,S,S] in {0,1}. Implementations
// must be safe for concurrent use.
type Model interface {
	Inpaint(ctx context.Context, image, mask Tensor) (Tensor, error)
}

// Pipeline holds the collaborators shared by every run. It carries no
// per-run state.
type Pipeline struct {
	Model Model

	// Diagnostics, when set, receives the intermediate images of each run.
	Diagnostics Diagnostics
}

// Result is the output of a pipeline run.
type Result struct {
	// Image is the full-resolution output. The caller owns it.
	Image gocv.Mat

	Refined    image.Rectangle
	Corner     Corner
	Plan       CropPlan
	MaskPixels int

	// Inpainted is false when the working mask was empty and Image is a
	// copy of the input.
	Inpainted bool
}

// Run removes the watermark in region from img. img is not modified.
// The logger is taken from ctx.
func (p *Pipeline) Run(ctx context.Context, img gocv.Mat, region image.Rectangle, padding int) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	if img.Empty() || img.Channels() != 3 {
		return nil, fmt.Errorf("%w: want a 3-channel image", ErrInput)
	}
	if p.Model == nil {
		return nil, fmt.Errorf("%w: no inpainting model", ErrConfiguration)
	}
	imgW, imgH := img.Cols(), img.Rows()

	refined, corner := RefineRegion(imgW, imgH, region)
	plan, err := PlanCrop(imgW, imgH, refined, padding)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Int("width", imgW).
		Int("height", imgH).
		Str("region", region.String()).
		Str("refined", refined.String()).
		Str("corner", string(corner)).
		Str("mask", plan.Mask.String()).
		Str("crop", plan.Crop.String()).
		Msg("plan")

	res := &Result{Refined: refined, Corner: corner, Plan: plan}

	crop := CropMat(img, plan.Crop)
	defer crop.Close()
	mask := BuildMask(plan.Crop.Dx(), plan.Crop.Dy(), plan.LocalMask)
	defer mask.Close()
	p.save(StageCrop, crop)
	p.save(StageMask, mask)

	in, err := ToWorkingSpace(crop, mask)
	if err != nil {
		return nil, err
	}
	res.MaskPixels = in.MaskPixels

	if in.Empty() {
		logger.Warn().Str("region", region.String()).Msg("empty mask, copying original")
		res.Image = img.Clone()
		return res, nil
	}
	logger.Debug().Int("pixels", in.MaskPixels).Msg("working mask")
	p.saveTensors(in)

	perf := time.Now()
	out, err := p.Model.Inpaint(ctx, in.Image, in.Mask)
	if err != nil {
		return nil, fmt.Errorf("inpainting: %w", err)
	}
	logger.Debug().
		Int64("duration(ms)", time.Since(perf).Milliseconds()).
		Ints64("shape", out.Shape).
		Msg("inference")

	result, err := DecodeOutputMat(out, WorkingSize)
	if err != nil {
		return nil, err
	}
	defer result.Close()
	p.save(StageModelOutput, result)

	comp, err := Composite(img, plan.Crop, result, mask, padding)
	if err != nil {
		return nil, err
	}
	p.save(StageResultCrop, comp.ResultCrop)
	p.save(StageBlended, comp.Blended)
	comp.ResultCrop.Close()
	comp.Blended.Close()

	res.Image = comp.Image
	res.Inpainted = true

	logger.Debug().Int64("duration(ms)", time.Since(start).Milliseconds()).Msg("pipeline")
	return res, nil
}

func (p *Pipeline) save(stage string, img gocv.Mat) {
	if p.Diagnostics != nil {
		p.Diagnostics.Save(stage, img)
	}
}

func (p *Pipeline) saveTensors(in WorkingInput) {
	if p.Diagnostics == nil {
		return
	}
	if blanked, err := DecodeOutputMat(in.Image, WorkingSize); err == nil {
		p.Diagnostics.Save(StageInputBlanked, blanked)
		blanked.Close()
	}
	if m, err := maskTensorMat(in.Mask, WorkingSize); err == nil {
		p.Diagnostics.Save(StageWorkingMask, m)
		m.Close()
	}
}
