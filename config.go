package main

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cyber-nic/rm-watermarks-lama/internal/inpaint"
)

// Job is one image to clean. The region is either X/Y/W/H or a gravity
// with an optional W/H footprint.
type Job struct {
	Src     string `yaml:"src"`
	Dst     string `yaml:"dst"`
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	W       int    `yaml:"w"`
	H       int    `yaml:"h"`
	Gravity string `yaml:"gravity"`
	Padding *int   `yaml:"padding"`
}

type AppConfig struct {
	Debug       bool
	Info        bool
	Human       bool
	Diagnostics bool
	Engine      string
	Model       string
	OnnxRuntime string `yaml:"onnxruntime"`
	Threads     int
	Padding     int
	Workers     int
	Jobs        []Job
}

// DefaultConfig returns the settings used when the config file omits them.
func DefaultConfig() AppConfig {
	return AppConfig{
		Engine:  EngineLama,
		Model:   "models/lama_fp32.onnx",
		Padding: inpaint.DefaultPadding,
		Workers: 1,
	}
}

// LoadConfig reads a YAML config over the defaults. A missing file yields the
// defaults.
func LoadConfig(path string) (AppConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, nil
}

// Region resolves the job's region against a imgW×imgH image.
func (j Job) Region(imgW, imgH int) (image.Rectangle, error) {
	if j.Gravity != "" {
		return inpaint.RegionWithGravity(imgW, imgH, j.W, j.H, j.Gravity)
	}
	return inpaint.NewRegion(j.X, j.Y, j.W, j.H)
}

// PaddingOr returns the job padding, or def when the job leaves it unset.
func (j Job) PaddingOr(def int) int {
	if j.Padding != nil {
		return *j.Padding
	}
	return def
}

func (j Job) validate() error {
	if j.Src == "" || j.Dst == "" {
		return errors.New("src and dst are both required")
	}
	return nil
}
