package main

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/cyber-nic/rm-watermarks-lama/internal/inpaint"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Padding != inpaint.DefaultPadding || cfg.Workers != 1 || cfg.Engine != EngineLama {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.env.yaml")
	data := `
debug: true
human: true
diagnostics: true
model: /opt/models/lama_fp32.onnx
onnxruntime: /usr/lib/libonnxruntime.so
threads: 4
workers: 0
jobs:
  - src: in/a.jpg
    dst: out/a.png
    x: 900
    y: 0
    w: 100
    h: 100
  - src: in/b.jpg
    dst: out/b.png
    gravity: south-east
    padding: 0
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.Debug || !cfg.Human || !cfg.Diagnostics || cfg.Info {
		t.Errorf("flags = %+v", cfg)
	}
	if cfg.Model != "/opt/models/lama_fp32.onnx" || cfg.OnnxRuntime != "/usr/lib/libonnxruntime.so" || cfg.Threads != 4 {
		t.Errorf("model settings = %q %q %d", cfg.Model, cfg.OnnxRuntime, cfg.Threads)
	}
	if cfg.Padding != inpaint.DefaultPadding {
		t.Errorf("padding = %d, want default", cfg.Padding)
	}
	if cfg.Workers != 1 {
		t.Errorf("workers = %d, want 1", cfg.Workers)
	}
	if len(cfg.Jobs) != 2 {
		t.Fatalf("jobs = %d, want 2", len(cfg.Jobs))
	}

	r, err := cfg.Jobs[0].Region(1000, 800)
	if err != nil || r != image.Rect(900, 0, 1000, 100) {
		t.Errorf("job 0 region = %v, %v", r, err)
	}
	if p := cfg.Jobs[0].PaddingOr(cfg.Padding); p != inpaint.DefaultPadding {
		t.Errorf("job 0 padding = %d", p)
	}

	r, err = cfg.Jobs[1].Region(1000, 800)
	if err != nil || r != image.Rect(940, 740, 1000, 800) {
		t.Errorf("job 1 region = %v, %v", r, err)
	}
	if p := cfg.Jobs[1].PaddingOr(cfg.Padding); p != 0 {
		t.Errorf("job 1 padding = %d, want 0", p)
	}
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("jobs: [src: {"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("malformed YAML accepted")
	}
}

func TestJobValidateAndRegion(t *testing.T) {
	if err := (Job{Src: "a.png"}).validate(); err == nil {
		t.Error("job without dst accepted")
	}
	if err := (Job{Src: "a.png", Dst: "b.png"}).validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
	if _, err := (Job{X: -3, W: 10, H: 10}).Region(100, 100); !errors.Is(err, inpaint.ErrInvalidRegion) {
		t.Errorf("negative x: %v, want ErrInvalidRegion", err)
	}
	if _, err := (Job{Gravity: "up"}).Region(100, 100); !errors.Is(err, inpaint.ErrInvalidRegion) {
		t.Errorf("bad gravity: %v, want ErrInvalidRegion", err)
	}
}

func TestLoadModelEngines(t *testing.T) {
	cfg := DefaultConfig()

	cfg.Engine = EngineTelea
	m, closeModel, err := loadModel(cfg)
	if err != nil {
		t.Fatalf("telea: %v", err)
	}
	closeModel()
	if _, ok := m.(inpaint.TeleaModel); !ok {
		t.Fatalf("telea engine returned %T", m)
	}

	cfg.Engine = EngineLama
	cfg.Model = filepath.Join(t.TempDir(), "missing.onnx")
	if _, _, err := loadModel(cfg); !errors.Is(err, inpaint.ErrConfiguration) {
		t.Fatalf("missing model: %v, want ErrConfiguration", err)
	}

	cfg.Engine = "dall-e"
	if _, _, err := loadModel(cfg); !errors.Is(err, inpaint.ErrConfiguration) {
		t.Fatalf("unknown engine: %v, want ErrConfiguration", err)
	}
}
