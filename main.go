// Package main implements a watermark removal tool built on neural inpainting.
// The watermark region is given as a rectangle (or a gravity) in image
// coordinates. An oversized detection box is narrowed to the corner
// watermark, a square crop around it is handed to the LaMa model at 512x512
// with the watermark blanked out, and the synthesized patch is feathered back
// into the original. Pixels away from the watermark are left untouched.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cyber-nic/rm-watermarks-lama/internal/inpaint"
	"github.com/cyber-nic/rm-watermarks-lama/internal/lama"
)

const (
	EngineLama  = "lama"
	EngineTelea = "telea"
)

func main() {
	// Read flags
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	srcPath := flag.String("src", "", "sets input image path")
	dstPath := flag.String("dst", "", "sets destination image path")
	x := flag.Int("x", 0, "watermark region left edge")
	y := flag.Int("y", 0, "watermark region top edge")
	w := flag.Int("w", 0, "watermark region width")
	h := flag.Int("h", 0, "watermark region height")
	gravity := flag.String("gravity", "", "anchor the region to a side or corner instead of x/y (e.g. south-east)")
	padding := flag.Int("padding", -1, "mask padding in pixels (default from config)")
	modelPath := flag.String("model", "", "LaMa ONNX model path")
	ortPath := flag.String("ort", "", "onnxruntime shared library path")
	engine := flag.String("engine", "", "inpainting engine: lama or telea")
	diagFlag := flag.Bool("diag", false, "write intermediate images next to the output")
	debugFlag := flag.Bool("debug", false, "Debug logging level")
	checkFlag := flag.Bool("check", false, "verify the model loads and exit")
	configFilename := flag.String("config", "local.env.yaml", "Config File")
	flag.Parse()

	// Read config file
	cfg, err := LoadConfig(*configFilename)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configFilename).Msg("config")
	}

	// Flags win over the config file
	if *debugFlag {
		cfg.Debug = true
	}
	if *diagFlag {
		cfg.Diagnostics = true
	}
	if *modelPath != "" {
		cfg.Model = *modelPath
	}
	if *ortPath != "" {
		cfg.OnnxRuntime = *ortPath
	}
	if *engine != "" {
		cfg.Engine = *engine
	}
	if *padding >= 0 {
		cfg.Padding = *padding
	}
	if *srcPath != "" || *dstPath != "" {
		cfg.Jobs = []Job{{Src: *srcPath, Dst: *dstPath, X: *x, Y: *y, W: *w, H: *h, Gravity: *gravity}}
	}

	setupLogging(cfg)

	model, closeModel, err := loadModel(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("engine", cfg.Engine).Str("model", cfg.Model).Msg("model")
	}

	if *checkFlag {
		closeModel()
		log.Info().Str("engine", cfg.Engine).Str("model", cfg.Model).Msg("model ready")
		return
	}

	// Perform input validation
	if len(cfg.Jobs) == 0 {
		closeModel()
		log.Fatal().Msg("src and dst are required")
	}
	for i, job := range cfg.Jobs {
		if err := job.validate(); err != nil {
			closeModel()
			log.Fatal().Err(err).Int("job", i).Msg("config")
		}
	}

	failed := RunJobs(context.Background(), model, cfg)
	closeModel()

	if failed > 0 {
		log.Error().Int("failed", failed).Int("jobs", len(cfg.Jobs)).Msg("done")
		os.Exit(1)
	}
}

func setupLogging(cfg AppConfig) {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	if cfg.Info {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if cfg.Human {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// loadModel opens the configured engine. The returned func releases it.
func loadModel(cfg AppConfig) (inpaint.Model, func(), error) {
	switch cfg.Engine {
	case EngineTelea:
		return inpaint.TeleaModel{}, func() {}, nil
	case EngineLama, "":
		m, err := lama.Load(lama.Config{
			ModelPath:   cfg.Model,
			LibraryPath: cfg.OnnxRuntime,
			Threads:     cfg.Threads,
		})
		if err != nil {
			return nil, nil, err
		}
		return m, func() { m.Close() }, nil
	default:
		return nil, nil, errUnknownEngine(cfg.Engine)
	}
}
