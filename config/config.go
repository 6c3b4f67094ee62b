// Package config loads icon generation settings from YAML manifests and the
// environment.
package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/appicon/appicon"
	"github.com/nvr-ai/appicon/images"
)

// Environment variables read by FromEnv.
const (
	EnvOutputDir  = "APPICON_OUTPUT_DIR"
	EnvSize       = "APPICON_SIZE"
	EnvBackground = "APPICON_BACKGROUND"
	EnvFilter     = "APPICON_FILTER"
)

// Defaults holds the settings applied to jobs that leave them unset. Every
// field is a string as written by the user; empty means unset.
type Defaults struct {
	// OutputDir receives the generated icons.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
	// Size is "all" or a pixel count.
	Size string `json:"size" yaml:"size"`
	// Background is a CSS color, or "none" for transparent corners.
	Background string `json:"background" yaml:"background"`
	// Filter names the resampling filter.
	Filter string `json:"filter" yaml:"filter"`
}

// Builtin returns the defaults used when nothing else is configured.
func Builtin() Defaults {
	return Defaults{
		OutputDir:  "icons",
		Size:       appicon.SizeAll,
		Background: appicon.DefaultBackground,
		Filter:     images.DefaultFilter.String(),
	}
}

// FromEnv reads defaults from the APPICON_* environment variables.
func FromEnv() Defaults {
	return Defaults{
		OutputDir:  os.Getenv(EnvOutputDir),
		Size:       os.Getenv(EnvSize),
		Background: os.Getenv(EnvBackground),
		Filter:     os.Getenv(EnvFilter),
	}
}

// LoadEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. With no
// files it loads ./.env if it exists.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		return errors.Wrap(err, "load env file")
	}
	return nil
}

// Merge returns d with every unset field taken from fallback.
func (d Defaults) Merge(fallback Defaults) Defaults {
	if d.OutputDir == "" {
		d.OutputDir = fallback.OutputDir
	}
	if d.Size == "" {
		d.Size = fallback.Size
	}
	if d.Background == "" {
		d.Background = fallback.Background
	}
	if d.Filter == "" {
		d.Filter = fallback.Filter
	}
	return d
}

// Task is a fully resolved unit of work: a request and the filter to run it
// with.
type Task struct {
	Request *appicon.Request
	Filter  images.ResampleFilter
}

// Task resolves the settings in d into a task for the given input image.
//
// Arguments:
// - input: Path of the source image.
//
// Returns:
// - The resolved task.
// - error if the background or filter cannot be parsed.
func (d Defaults) Task(input string) (Task, error) {
	bg, err := appicon.ParseBackground(d.Background)
	if err != nil {
		return Task{}, err
	}
	filter, err := images.ParseFilter(d.Filter)
	if err != nil {
		return Task{}, errors.Wrap(err, "invalid filter")
	}

	return Task{
		Request: &appicon.Request{
			InputPath:  input,
			OutputDir:  d.OutputDir,
			Size:       d.Size,
			Background: bg,
		},
		Filter: filter,
	}, nil
}

// Job is one entry of a manifest.
type Job struct {
	// Input is the source image.
	Input string `json:"input" yaml:"input"`
	// Defaults overrides the manifest defaults for this job.
	Defaults `yaml:",inline"`
}

// Manifest describes a batch of icon jobs sharing a set of defaults.
//
// @example
//
//	output_dir: build/icons
//	background: "#FFF"
//	jobs:
//	  - input: assets/logo.png
//	  - input: assets/beta.png
//	    size: "512"
//	    background: none
type Manifest struct {
	Defaults `yaml:",inline"`
	// Jobs lists the images to process.
	Jobs []Job `json:"jobs" yaml:"jobs"`
}

// Load reads a manifest from path. Relative input and output paths in the
// file are resolved against the directory that contains it.
//
// Arguments:
// - path: The YAML manifest file.
//
// Returns:
// - The parsed manifest.
// - error if the file cannot be read, has unknown fields or lists no jobs.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}

	m, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse manifest %s", path)
	}

	m.resolvePaths(filepath.Dir(path))
	return m, nil
}

// Parse decodes a manifest from YAML.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	if len(m.Jobs) == 0 {
		return nil, errors.New("manifest has no jobs")
	}
	for i, job := range m.Jobs {
		if job.Input == "" {
			return nil, errors.Errorf("job %d has no input", i)
		}
	}
	return &m, nil
}

// Tasks resolves every job against the manifest defaults, which in turn fall
// back to fallback.
func (m *Manifest) Tasks(fallback Defaults) ([]Task, error) {
	defaults := m.Defaults.Merge(fallback)

	tasks := make([]Task, 0, len(m.Jobs))
	for i, job := range m.Jobs {
		task, err := job.Defaults.Merge(defaults).Task(job.Input)
		if err != nil {
			return nil, errors.Wrapf(err, "job %d (%s)", i, job.Input)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (m *Manifest) resolvePaths(dir string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}

	m.OutputDir = resolve(m.OutputDir)
	for i := range m.Jobs {
		m.Jobs[i].Input = resolve(m.Jobs[i].Input)
		m.Jobs[i].OutputDir = resolve(m.Jobs[i].OutputDir)
	}
}
