package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cyber-nic/rm-watermarks-lama/internal/inpaint"
)

func errUnknownEngine(name string) error {
	return fmt.Errorf("%w: unknown engine %q", inpaint.ErrConfiguration, name)
}

// RunJobs processes every configured job on cfg.Workers goroutines sharing
// model, and returns how many failed. Failures are logged per job.
func RunJobs(ctx context.Context, model inpaint.Model, cfg AppConfig) int {
	jobs := make(chan Job)
	var failed atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < max(1, cfg.Workers); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if err := RunJob(ctx, model, cfg, job); err != nil {
					failed.Add(1)
					log.Error().Err(err).Str("src", job.Src).Msg(filepath.Base(job.Src))
				}
			}
		}()
	}

	for _, job := range cfg.Jobs {
		jobs <- job
	}
	close(jobs)
	wg.Wait()

	return int(failed.Load())
}

// RunJob removes the watermark from one image and writes the result. Nothing
// is written when the pipeline fails.
func RunJob(ctx context.Context, model inpaint.Model, cfg AppConfig, job Job) error {
	start := time.Now()
	base := filepath.Base(job.Src)
	logger := log.With().Str("image", base).Logger()
	ctx = logger.WithContext(ctx)

	// Read image
	src, err := inpaint.ReadImage(job.Src)
	if err != nil {
		return err
	}
	defer src.Close()

	region, err := job.Region(src.Cols(), src.Rows())
	if err != nil {
		return err
	}

	pipeline := inpaint.Pipeline{Model: model}
	if cfg.Diagnostics {
		pipeline.Diagnostics = inpaint.DirDiagnostics{
			Dir:    filepath.Dir(job.Dst),
			Prefix: strings.TrimSuffix(filepath.Base(job.Dst), filepath.Ext(job.Dst)),
		}
	}

	padding := job.PaddingOr(cfg.Padding)
	res, err := pipeline.Run(ctx, src, region, padding)
	if err != nil {
		return err
	}
	defer res.Image.Close()

	// Write file
	if err := inpaint.WriteImage(job.Dst, res.Image); err != nil {
		return err
	}

	// Done
	logger.Info().
		Int64("duration(ms)", time.Since(start).Milliseconds()).
		Str("region", region.String()).
		Str("refined", res.Refined.String()).
		Str("crop", res.Plan.Crop.String()).
		Int("padding", padding).
		Int("mask_pixels", res.MaskPixels).
		Bool("inpainted", res.Inpainted).
		Str("dst", job.Dst).
		Msg(base)

	return nil
}
