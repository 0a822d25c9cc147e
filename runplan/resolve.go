package runplan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/sgacorrect/errors"
	"github.com/kbukum/sgacorrect/validation"
)

// FileSystem is the read-only filesystem view used by Resolve.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	// CheckReadable returns an error if name cannot be opened for reading.
	CheckReadable(name string) error
	Getwd() (string, error)
}

// OSFileSystem implements FileSystem on the local filesystem.
type OSFileSystem struct{}

func (OSFileSystem) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

func (OSFileSystem) CheckReadable(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	return f.Close()
}

func (OSFileSystem) Getwd() (string, error) { return os.Getwd() }

type options struct {
	fs         FileSystem
	executable string
	newID      func() string
}

// Option customizes Resolve.
type Option func(*options)

// WithFileSystem replaces the local filesystem.
func WithFileSystem(fsys FileSystem) Option {
	return func(o *options) { o.fs = fsys }
}

// WithDefaultExecutable sets the engine path used when none is configured.
func WithDefaultExecutable(path string) Option {
	return func(o *options) { o.executable = path }
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(o *options) { o.newID = func() string { return id } }
}

// Resolve turns raw configuration into a validated RunPlan.
//
// Read files are checked first: an absent, nonexistent, directory or
// unreadable read file fails with MISSING_INPUT. Every other problem is
// reported together as one INVALID_PARAMETER error. Resolve never modifies
// the filesystem.
func Resolve(raw RawConfig, opts ...Option) (RunPlan, error) {
	o := options{
		fs:         OSFileSystem{},
		executable: DefaultExecutable,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}

	wd, err := o.fs.Getwd()
	if err != nil {
		return RunPlan{}, errors.Internal("cannot determine working directory", err)
	}

	forward, err := resolveReads(o.fs, wd, "forward", raw.ForwardReads)
	if err != nil {
		return RunPlan{}, err
	}
	reverse, err := resolveReads(o.fs, wd, "reverse", raw.ReverseReads)
	if err != nil {
		return RunPlan{}, err
	}

	v := validation.New()
	plan := RunPlan{
		RunID:          o.newID(),
		ForwardReads:   forward,
		ReverseReads:   reverse,
		Executable:     firstNonEmpty(raw.Executable, o.executable),
		MinLength:      v.Int("min_length", raw.MinLength, DefaultMinLength),
		QualityTrim:    v.Int("quality_trim", raw.QualityTrim, DefaultQualityTrim),
		QualityFilter:  v.Int("quality_filter", raw.QualityFilter, DefaultQualityFilter),
		Algorithm:      DefaultAlgorithm,
		Threads:        v.Int("threads", raw.Threads, DefaultThreads),
		DiskBatchSize:  v.Int("disk", raw.DiskBatchSize, DefaultDiskBatchSize),
		KmerThreshold:  v.Int("kmer_threshold", raw.KmerThreshold, DefaultKmerThreshold),
		KmerLength:     v.Int("kmer_size", raw.KmerLength, DefaultKmerLength),
		OutputDir:      absPath(wd, raw.OutputDir),
		OutputFilename: firstNonEmpty(raw.OutputFilename, DefaultOutputFilename),
		StageTimeout:   v.Duration("stage_timeout", raw.StageTimeout, 0),
		Debug:          raw.Debug,
	}
	plan.KeepIntermediates = !v.Bool("cleanup", raw.Cleanup, false)

	if strings.TrimSpace(raw.Algorithm) != "" {
		algo, ok := ParseAlgorithm(raw.Algorithm)
		if !ok {
			v.AddError("algorithm", fmt.Sprintf("must be one of: %s (got %q)", strings.Join(Algorithms, ", "), raw.Algorithm))
		}
		plan.Algorithm = algo
	}
	if plan.ForwardReads == plan.ReverseReads {
		v.AddError("reverse", "must differ from forward")
	}
	if name := plan.OutputFilename; name == "." || name == ".." || filepath.Base(name) != name {
		v.AddError("output_name", "must be a bare file name")
	}
	if appErr := v.Validate(); appErr != nil {
		return RunPlan{}, appErr
	}

	if err := validation.Validate(plan); err != nil {
		return RunPlan{}, err
	}
	return plan, nil
}

// resolveReads makes path absolute and checks it names a readable regular file.
func resolveReads(fsys FileSystem, wd, field, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.MissingInput(field, "")
	}
	abs := absPath(wd, path)

	info, err := fsys.Stat(abs)
	if err != nil {
		return "", errors.MissingInput(field, abs).WithCause(err)
	}
	if info.IsDir() {
		return "", errors.MissingInput(field, abs).WithDetail("reason", "is a directory")
	}
	if err := fsys.CheckReadable(abs); err != nil {
		return "", errors.MissingInput(field, abs).WithCause(err)
	}
	return abs, nil
}

// absPath resolves p against wd; an empty p yields wd itself.
func absPath(wd, p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return filepath.Clean(wd)
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(wd, p)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
