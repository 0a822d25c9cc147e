package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kbukum/sgacorrect/runplan"
)

const usageHeader = `sgacorrect - correct paired-end reads with SGA

Usage:
  sgacorrect --forward <reads_1.fastq> --reverse <reads_2.fastq> [options]

Runs sga preprocess, sga index and sga correct in order and writes the
corrected reads to <output-dir>/<output-name>.

Options:
`

// newFlagSet declares the command-line surface. Pipeline knobs are plain
// strings so that malformed values reach the resolver and are reported
// with the field name and expected domain.
func newFlagSet(out io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("sgacorrect", pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.SortFlags = false

	fs.StringP("forward", "1", "", "forward reads file (required)")
	fs.StringP("reverse", "2", "", "reverse reads file (required)")
	fs.String("sga", "", fmt.Sprintf("path to the sga executable (default %q)", runplan.DefaultExecutable))
	fs.StringP("min-length", "m", "", fmt.Sprintf("discard reads shorter than this after trimming (default %d)", runplan.DefaultMinLength))
	fs.StringP("quality-trim", "q", "", fmt.Sprintf("quality trim threshold (default %d)", runplan.DefaultQualityTrim))
	fs.StringP("quality-filter", "f", "", fmt.Sprintf("discard reads with more low-quality bases than this (default %d)", runplan.DefaultQualityFilter))
	fs.StringP("algorithm", "a", "", fmt.Sprintf("BWT construction algorithm: %s (default %q)", strings.Join(runplan.Algorithms, " or "), runplan.DefaultAlgorithm))
	fs.StringP("threads", "t", "", fmt.Sprintf("threads for index and correct (default %d)", runplan.DefaultThreads))
	fs.StringP("disk", "d", "", fmt.Sprintf("reads per batch for disk-based sais indexing (default %d)", runplan.DefaultDiskBatchSize))
	fs.StringP("kmer-threshold", "x", "", fmt.Sprintf("minimum k-mer count considered correct (default %d)", runplan.DefaultKmerThreshold))
	fs.StringP("kmer-size", "k", "", fmt.Sprintf("k-mer length used for correction (default %d)", runplan.DefaultKmerLength))
	fs.StringP("output-dir", "o", "", "directory for intermediate and final files (default current directory)")
	fs.StringP("output-name", "n", "", fmt.Sprintf("file name of the corrected reads (default %q)", runplan.DefaultOutputFilename))
	fs.String("stage-timeout", "", "abort a stage running longer than this, e.g. 6h (default no limit)")
	fs.String("cleanup", "", "remove intermediate files after a successful run (--cleanup=false keeps them)")
	fs.Lookup("cleanup").NoOptDefVal = "true"
	fs.StringP("config", "c", "", "YAML configuration file")
	fs.Bool("debug", false, "log debug messages and stream sga output")
	fs.Bool("version", false, "print version and exit")
	fs.BoolP("help", "h", false, "show this help")

	fs.Usage = func() {
		fmt.Fprint(out, usageHeader)
		fs.PrintDefaults()
	}
	return fs
}
