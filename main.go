// Command go-pest counts pests in one image and prints the per-label result
// as JSON on stdout.
//
//	go-pest [-c config.yaml] [-m best.onnx] [--confidence 0.25] [--iou 0.7] [--log-level warn] <image>
//
// The process always exits 0. Failures are printed as {"error": "..."}.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/akamensky/argparse"
	"github.com/google/uuid"
	"github.com/nvr-ai/go-pest/config"
	"github.com/nvr-ai/go-pest/detector"
	"github.com/nvr-ai/go-pest/logger"
	"go.uber.org/zap"
)

var errMissingImage = errors.New("usage: go-pest [options] <image_path>")

// flags holds the parsed command line.
type flags struct {
	image      *string
	config     *string
	model      *string
	confidence *float64
	iou        *float64
	logLevel   *string
}

func main() {
	run(os.Args, os.Stdout, os.Stderr)
}

// run executes one detection and writes exactly one JSON value to stdout.
func run(args []string, stdout, stderr io.Writer) {
	counts, err := capture(func() ([]detector.PestCount, error) {
		return execute(args, stderr)
	})
	if err != nil {
		_ = detector.WriteError(stdout, err)
		return
	}
	_ = detector.WriteReport(stdout, counts)
}

// capture turns a panic in fn into an error.
func capture(fn func() ([]detector.PestCount, error)) (counts []detector.PestCount, err error) {
	defer func() {
		if r := recover(); r != nil {
			counts = nil
			err = fmt.Errorf("%v", r)
		}
	}()
	return fn()
}

func newParser() (*argparse.Parser, *flags) {
	parser := argparse.NewParser("go-pest", "Count pests in an image")
	parser.DisableHelp()

	f := &flags{
		image:      parser.StringPositional(&argparse.Options{Help: "Image to analyze"}),
		config:     parser.String("c", "config", &argparse.Options{Help: "YAML configuration file"}),
		model:      parser.String("m", "model", &argparse.Options{Help: "Path to the ONNX model"}),
		confidence: parser.Float("", "confidence", &argparse.Options{Help: "Minimum detection confidence", Default: 0.0}),
		iou:        parser.Float("", "iou", &argparse.Options{Help: "NMS IoU threshold", Default: 0.0}),
		logLevel:   parser.String("", "log-level", &argparse.Options{Help: "debug, info, warn or error"}),
	}
	return parser, f
}

func execute(args []string, stderr io.Writer) ([]detector.PestCount, error) {
	parser, f := newParser()
	if err := parser.Parse(args); err != nil {
		return nil, err
	}
	if *f.image == "" {
		return nil, errMissingImage
	}

	if exe, err := os.Executable(); err == nil {
		if err := config.LoadEnvFile(filepath.Dir(exe)); err != nil {
			return nil, err
		}
	}

	cfg := config.Default()
	if *f.config != "" {
		loaded, err := config.Load(*f.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	applyFlags(&cfg, f)

	log, err := logger.New(cfg.Log, stderr)
	if err != nil {
		return nil, err
	}
	defer func() { _ = log.Sync() }()
	log = log.With(zap.String("run_id", uuid.NewString()))

	d, err := detector.New(cfg.Detector, detector.WithLogger(log))
	if err != nil {
		return nil, err
	}

	counts, err := d.Detect(context.Background(), *f.image)
	if err != nil {
		log.Error("detection failed", zap.String("image", *f.image), zap.Error(err))
		return nil, err
	}
	return counts, nil
}

// applyFlags gives command line values precedence over file and environment.
func applyFlags(cfg *config.Config, f *flags) {
	if *f.model != "" {
		cfg.Detector.ModelPath = *f.model
	}
	if *f.confidence > 0 {
		cfg.Detector.ConfidenceThreshold = float32(*f.confidence)
	}
	if *f.iou > 0 {
		cfg.Detector.IoUThreshold = float32(*f.iou)
	}
	if *f.logLevel != "" {
		cfg.Log.Level = *f.logLevel
	}
}
