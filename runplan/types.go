package runplan

import (
	"strings"
	"time"
)

// Algorithm selects the BWT construction algorithm of the index stage.
type Algorithm string

const (
	// AlgorithmRopeBWT is fast and memory efficient for short reads.
	AlgorithmRopeBWT Algorithm = "ropebwt"
	// AlgorithmSAIS is the induced-sort algorithm; it supports disk-based
	// construction in bounded read batches.
	AlgorithmSAIS Algorithm = "sais"
)

// Algorithms lists the recognized algorithm tokens.
var Algorithms = []string{string(AlgorithmRopeBWT), string(AlgorithmSAIS)}

// DiskBased reports whether index construction with a runs in read batches
// and therefore takes the disk batch size.
func (a Algorithm) DiskBased() bool {
	return a == AlgorithmSAIS
}

// ParseAlgorithm matches s case-insensitively against the recognized tokens.
func ParseAlgorithm(s string) (Algorithm, bool) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case AlgorithmRopeBWT:
		return AlgorithmRopeBWT, true
	case AlgorithmSAIS:
		return AlgorithmSAIS, true
	}
	return "", false
}

// Defaults applied by Resolve.
const (
	DefaultExecutable     = "sga"
	DefaultMinLength      = 51
	DefaultQualityTrim    = 3
	DefaultQualityFilter  = 3
	DefaultAlgorithm      = AlgorithmSAIS
	DefaultThreads        = 1
	DefaultDiskBatchSize  = 28000000
	DefaultKmerThreshold  = 5
	DefaultKmerLength     = 41
	DefaultOutputFilename = "_sga_error_corrected.fastq"
)

// RawConfig is user intent as gathered from config file, environment and
// flags. Every knob is optional text; empty means "not provided".
type RawConfig struct {
	ForwardReads   string `yaml:"forward" mapstructure:"forward"`
	ReverseReads   string `yaml:"reverse" mapstructure:"reverse"`
	Executable     string `yaml:"sga" mapstructure:"sga"`
	MinLength      string `yaml:"min_length" mapstructure:"min_length"`
	QualityTrim    string `yaml:"quality_trim" mapstructure:"quality_trim"`
	QualityFilter  string `yaml:"quality_filter" mapstructure:"quality_filter"`
	Algorithm      string `yaml:"algorithm" mapstructure:"algorithm"`
	Threads        string `yaml:"threads" mapstructure:"threads"`
	DiskBatchSize  string `yaml:"disk" mapstructure:"disk"`
	KmerThreshold  string `yaml:"kmer_threshold" mapstructure:"kmer_threshold"`
	KmerLength     string `yaml:"kmer_size" mapstructure:"kmer_size"`
	OutputDir      string `yaml:"output_dir" mapstructure:"output_dir"`
	OutputFilename string `yaml:"output_name" mapstructure:"output_name"`
	StageTimeout   string `yaml:"stage_timeout" mapstructure:"stage_timeout"`
	Cleanup        string `yaml:"cleanup" mapstructure:"cleanup"`
	// Debug is copied from the service configuration by the command.
	Debug bool `yaml:"-" mapstructure:"-"`
}

// RunPlan is the fully resolved configuration of one pipeline execution.
// It is produced by Resolve and treated as read-only afterwards.
type RunPlan struct {
	RunID          string        `json:"run_id" validate:"required"`
	ForwardReads   string        `json:"forward" validate:"required"`
	ReverseReads   string        `json:"reverse" validate:"required,nefield=ForwardReads"`
	Executable     string        `json:"sga" validate:"required"`
	MinLength      int           `json:"min_length" validate:"gte=0"`
	QualityTrim    int           `json:"quality_trim" validate:"gte=0"`
	QualityFilter  int           `json:"quality_filter" validate:"gte=0"`
	Algorithm      Algorithm     `json:"algorithm" validate:"oneof=ropebwt sais"`
	Threads        int           `json:"threads" validate:"gte=1"`
	DiskBatchSize  int           `json:"disk" validate:"gte=1"`
	KmerThreshold  int           `json:"kmer_threshold" validate:"gte=0"`
	KmerLength     int           `json:"kmer_size" validate:"gte=1"`
	OutputDir      string        `json:"output_dir" validate:"required"`
	OutputFilename string        `json:"output_name" validate:"required,excludes=/"`
	StageTimeout   time.Duration `json:"stage_timeout" validate:"gte=0"`
	// KeepIntermediates leaves per-stage artifacts in OutputDir after success.
	KeepIntermediates bool `json:"keep_intermediates"`
	Debug             bool `json:"debug"`
}

// Fields returns the plan as structured log fields.
func (p RunPlan) Fields() map[string]interface{} {
	return map[string]interface{}{
		"run_id":         p.RunID,
		"forward":        p.ForwardReads,
		"reverse":        p.ReverseReads,
		"sga":            p.Executable,
		"min_length":     p.MinLength,
		"quality_trim":   p.QualityTrim,
		"quality_filter": p.QualityFilter,
		"algorithm":      string(p.Algorithm),
		"threads":        p.Threads,
		"disk":           p.DiskBatchSize,
		"kmer_threshold": p.KmerThreshold,
		"kmer_size":      p.KmerLength,
		"output_dir":     p.OutputDir,
		"output_name":    p.OutputFilename,
		"stage_timeout":  p.StageTimeout.String(),
	}
}
