// Package lama runs the LaMa inpainting network exported to ONNX.
package lama

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/cyber-nic/rm-watermarks-lama/internal/inpaint"
)

// Config locates the model artifact and the ONNX Runtime shared library.
type Config struct {
	ModelPath   string
	LibraryPath string
	// Threads bounds intra-op parallelism. Zero keeps the runtime default.
	Threads int
}

var (
	initOnce sync.Once
	initErr  error
)

// The ONNX Runtime environment is process-wide; it is created once and
// shared by every session.
func initRuntime(libraryPath string) error {
	initOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		initErr = ort.InitializeEnvironment()
	})
	return initErr
}

// Model is a loaded LaMa session. It is read-only after Load and safe for
// concurrent use.
type Model struct {
	path    string
	inputs  []string
	outputs []string
	session *ort.DynamicAdvancedSession
	options *ort.SessionOptions
}

var _ inpaint.Model = (*Model)(nil)

// Check reports whether the model artifact exists and is a readable file.
func Check(modelPath string) error {
	if modelPath == "" {
		return fmt.Errorf("%w: no model path configured", inpaint.ErrConfiguration)
	}
	fi, err := os.Stat(modelPath)
	if err != nil {
		return fmt.Errorf("%w: %v", inpaint.ErrConfiguration, err)
	}
	if fi.IsDir() {
		return fmt.Errorf("%w: %s is a directory", inpaint.ErrConfiguration, modelPath)
	}
	f, err := os.Open(modelPath)
	if err != nil {
		return fmt.Errorf("%w: %v", inpaint.ErrConfiguration, err)
	}
	return f.Close()
}

// Load opens the model artifact and creates an inference session. The model
// must take an image and a mask input and produce at least one output.
func Load(cfg Config) (*Model, error) {
	if err := Check(cfg.ModelPath); err != nil {
		return nil, err
	}
	if err := initRuntime(cfg.LibraryPath); err != nil {
		return nil, fmt.Errorf("%w: onnxruntime: %v", inpaint.ErrConfiguration, err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", inpaint.ErrConfiguration, cfg.ModelPath, err)
	}
	if len(inputs) < 2 || len(outputs) < 1 {
		return nil, fmt.Errorf("%w: %s has %d inputs and %d outputs, want image+mask -> image",
			inpaint.ErrConfiguration, cfg.ModelPath, len(inputs), len(outputs))
	}

	m := &Model{
		path:    cfg.ModelPath,
		inputs:  []string{inputs[0].Name, inputs[1].Name},
		outputs: []string{outputs[0].Name},
	}

	m.options, err = ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("%w: session options: %v", inpaint.ErrConfiguration, err)
	}
	if cfg.Threads > 0 {
		_ = m.options.SetIntraOpNumThreads(cfg.Threads)
	}
	_ = m.options.SetGraphOptimizationLevel(ort.GraphOptimizationLevel(99))

	m.session, err = ort.NewDynamicAdvancedSession(cfg.ModelPath, m.inputs, m.outputs, m.options)
	if err != nil {
		m.options.Destroy()
		return nil, fmt.Errorf("%w: creating session: %v", inpaint.ErrConfiguration, err)
	}

	log.Debug().
		Str("model", cfg.ModelPath).
		Strs("inputs", m.inputs).
		Strs("outputs", m.outputs).
		Msg("lama session")

	return m, nil
}

// Inpaint runs one inference. The context is checked before and after the
// run; the run itself cannot be interrupted.
func (m *Model) Inpaint(ctx context.Context, image, mask inpaint.Tensor) (inpaint.Tensor, error) {
	if err := ctx.Err(); err != nil {
		return inpaint.Tensor{}, err
	}

	imgT, err := ort.NewTensor(ort.NewShape(image.Shape...), image.Data)
	if err != nil {
		return inpaint.Tensor{}, fmt.Errorf("image tensor: %w", err)
	}
	defer imgT.Destroy()

	maskT, err := ort.NewTensor(ort.NewShape(mask.Shape...), mask.Data)
	if err != nil {
		return inpaint.Tensor{}, fmt.Errorf("mask tensor: %w", err)
	}
	defer maskT.Destroy()

	outputs := []ort.Value{nil}
	if err := m.session.Run([]ort.Value{imgT, maskT}, outputs); err != nil {
		return inpaint.Tensor{}, fmt.Errorf("run %s: %w", m.path, err)
	}
	if outputs[0] == nil {
		return inpaint.Tensor{}, fmt.Errorf("%w: no output", inpaint.ErrModelOutput)
	}
	defer outputs[0].Destroy()

	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return inpaint.Tensor{}, fmt.Errorf("%w: output is not float32", inpaint.ErrModelOutput)
	}

	// output memory belongs to the runtime and is released with the value
	res := inpaint.Tensor{
		Shape: append([]int64(nil), out.GetShape()...),
		Data:  append([]float32(nil), out.GetData()...),
	}

	if err := ctx.Err(); err != nil {
		return inpaint.Tensor{}, err
	}
	return res, nil
}

// Close releases the session.
func (m *Model) Close() error {
	if m.session != nil {
		m.session.Destroy()
	}
	if m.options != nil {
		m.options.Destroy()
	}
	return nil
}
