package stage

import (
	"path/filepath"
	"strings"
)

// Intermediate file suffixes written by the engine.
const (
	PreprocessSuffix = ".pp.fastq"
	BWTSuffix        = ".bwt"
	SASuffix         = ".sai"
	ReverseBWTSuffix = ".rbwt"
	ReverseSASuffix  = ".rsai"
	CorrectSuffix    = ".ec.fa"
)

var compressionExts = []string{".gz", ".bz2"}

// Prefix returns the base name of path without directory, compression
// suffix and file extension: "/data/a_1.fastq.gz" yields "a_1".
func Prefix(path string) string {
	base := filepath.Base(path)
	for _, ext := range compressionExts {
		if strings.HasSuffix(base, ext) && len(base) > len(ext) {
			base = strings.TrimSuffix(base, ext)
			break
		}
	}
	if ext := filepath.Ext(base); ext != "" && len(ext) < len(base) {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// PreprocessOutput is the merged, filtered reads file produced from the
// forward reads inside dir.
func PreprocessOutput(dir, forward string) string {
	return filepath.Join(dir, Prefix(forward)+PreprocessSuffix)
}

// IndexOutput is the BWT the index stage writes beside reads.
func IndexOutput(reads string) string {
	return indexFile(reads, BWTSuffix)
}

// IndexArtifacts lists every file the index stage may write for reads.
func IndexArtifacts(reads string) []string {
	return []string{
		indexFile(reads, BWTSuffix),
		indexFile(reads, SASuffix),
		indexFile(reads, ReverseBWTSuffix),
		indexFile(reads, ReverseSASuffix),
	}
}

// CorrectOutput is the corrected reads file derived from reads.
func CorrectOutput(reads string) string {
	return indexFile(reads, CorrectSuffix)
}

// indexFile swaps the extension of reads for suffix, keeping the directory.
func indexFile(reads, suffix string) string {
	return filepath.Join(filepath.Dir(reads), Prefix(reads)+suffix)
}
