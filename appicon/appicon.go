// Package appicon generates Apple-style rounded-rectangle application icons.
//
// A source image is resized to each requested square size with a cover fit,
// clipped to a rounded rectangle (radius = round(size × 0.2237)), optionally
// flattened over a solid background, and written as a PNG named
// {input basename}-{size}.png.
package appicon

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/nvr-ai/appicon/images"
	"github.com/nvr-ai/appicon/internal/ctxlog"
	"github.com/nvr-ai/appicon/mask"
	"github.com/nvr-ai/appicon/profiler"
)

// Request describes one icon generation run.
type Request struct {
	// InputPath is the source image. PNG, JPEG, GIF, WebP, BMP and TIFF are
	// accepted.
	InputPath string
	// OutputDir receives the icons. It is created if missing.
	OutputDir string
	// Size is "all" (or empty) for every canonical size, or a positive
	// integer such as "512".
	Size string
	// Background is composited under the masked icon. Nil keeps the corners
	// transparent.
	Background color.Color
}

// Result is returned once every requested size has been written.
type Result struct {
	Success   bool     `json:"success"`
	OutputDir string   `json:"output_dir"`
	Files     []string `json:"files"`
}

// Generator runs the icon pipeline.
type Generator struct {
	filter    images.ResampleFilter
	tracker   *profiler.Tracker
	debugMode bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithFilter selects the resampling filter used to scale the source image.
func WithFilter(filter images.ResampleFilter) Option {
	return func(g *Generator) {
		g.filter = filter
	}
}

// WithTracker adds the stage timings of every call to tracker instead of a
// private one. Several generators may share one tracker.
func WithTracker(tracker *profiler.Tracker) Option {
	return func(g *Generator) {
		if tracker != nil {
			g.tracker = tracker
		}
	}
}

// NewGenerator creates a generator. Without options it resamples with
// images.DefaultFilter.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		filter:  images.DefaultFilter,
		tracker: profiler.NewTracker(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetDebugMode enables or disables per-stage timing logs.
func (g *Generator) SetDebugMode(enabled bool) {
	g.debugMode = enabled
}

// Tracker returns the tracker holding the generator's stage timings.
func (g *Generator) Tracker() *profiler.Tracker {
	return g.tracker
}

// Generate runs req with a default Generator.
func Generate(ctx context.Context, req *Request) (*Result, error) {
	return NewGenerator().Generate(ctx, req)
}

// Generate produces one icon per size selected by req.
//
// Arguments:
// - ctx: Carries the logger (see ctxlog) and is checked between sizes.
// - req: The request to run.
//
// Returns:
// - The result, after every size has been written.
// - error if validation, preflight or any size fails. Validation errors are
// returned before the filesystem is touched. Later errors are prefixed with
// "operation failed" and abort the remaining sizes; icons already written
// stay on disk.
//
// @example
//
//	res, err := appicon.NewGenerator().Generate(ctx, &appicon.Request{
//	    InputPath: "logo.png",
//	    OutputDir: "build/icons",
//	    Size:      appicon.SizeAll,
//	})
func (g *Generator) Generate(ctx context.Context, req *Request) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	sizes, err := validate(req)
	if err != nil {
		logger.Error("failed to create app icon", "error", err)
		return nil, err
	}

	files, err := g.run(ctx, req, sizes)
	if err != nil {
		err = errors.Wrap(err, "operation failed")
		logger.Error("failed to create app icon", "input", req.InputPath, "error", err)
		return nil, err
	}

	return &Result{
		Success:   true,
		OutputDir: req.OutputDir,
		Files:     files,
	}, nil
}

// validate checks req without touching the filesystem and resolves its sizes.
func validate(req *Request) ([]int, error) {
	if req == nil {
		return nil, invalidArgument("request is nil")
	}
	if req.InputPath == "" || req.OutputDir == "" {
		return nil, invalidArgument("input path and output dir must be provided")
	}
	return ParseSizes(req.Size)
}

func (g *Generator) run(ctx context.Context, req *Request, sizes []int) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	if err := checkReadable(req.InputPath); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return nil, newError(ErrIO, "create output directory", err)
	}

	calls := profiler.NewTracker()
	defer g.tracker.Merge(calls)

	done := calls.StartOperation("decode")
	src, err := images.DecodeFile(req.InputPath)
	done()
	if err != nil {
		return nil, newError(ErrProcessing, "decode input", err)
	}

	base := strings.TrimSuffix(filepath.Base(req.InputPath), filepath.Ext(req.InputPath))

	files := make([]string, 0, len(sizes))
	for _, size := range sizes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		icon, err := g.render(calls, src, size, req.Background)
		if err != nil {
			return nil, err
		}

		path := filepath.Join(req.OutputDir, OutputName(base, size))
		if err := write(calls, path, icon); err != nil {
			return nil, err
		}

		logger.Info("app icon created", "path", path, "size", size)
		files = append(files, path)
	}

	if g.debugMode {
		for _, stat := range calls.Snapshot() {
			logger.Debug("stage timing",
				"input", req.InputPath,
				"stage", stat.Name,
				"count", stat.Count,
				"avg", stat.Average(),
				"min", stat.MinTime,
				"max", stat.MaxTime)
		}
	}

	return files, nil
}

// render builds the icon of one size: cover-fit resize, rounded-rectangle
// mask, optional background. Stage timings go to tr.
func (g *Generator) render(tr *profiler.Tracker, src image.Image, size int, background color.Color) (image.Image, error) {
	done := tr.StartOperation("resize")
	resized, err := images.ResizeCover(src, size, g.filter)
	done()
	if err != nil {
		return nil, newError(ErrProcessing, "resize", err)
	}

	done = tr.StartOperation("mask")
	m, err := mask.Render(size)
	done()
	if err != nil {
		return nil, newError(ErrProcessing, "render mask", err)
	}

	done = tr.StartOperation("composite")
	defer done()

	masked, err := images.DestinationIn(resized, m)
	if err != nil {
		return nil, newError(ErrProcessing, "apply mask", err)
	}
	if background == nil {
		return masked, nil
	}
	return images.Flatten(masked, background), nil
}

// write encodes icon in memory, then writes it to path.
func write(tr *profiler.Tracker, path string, icon image.Image) error {
	done := tr.StartOperation("encode")
	var buf bytes.Buffer
	err := images.EncodePNG(&buf, icon)
	done()
	if err != nil {
		return newError(ErrProcessing, "encode png", err)
	}

	done = tr.StartOperation("write")
	defer done()
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return newError(ErrIO, "write icon", err)
	}
	return nil
}

// checkReadable confirms path exists, is a regular file and can be opened
// for reading.
func checkReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return classifyFSError("access input", err)
	}
	if info.IsDir() {
		return invalidArgument("input path %s is a directory", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return classifyFSError("open input", err)
	}
	return f.Close()
}
