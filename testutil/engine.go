package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CallLog is the file, beside the fake engine, that records invocations.
const CallLog = "calls.log"

// FakeSGA is the fake engine script.
const FakeSGA = `#!/bin/sh
dir=$(dirname "$0")
echo "$@" >> "$dir/calls.log"
sub=$1
shift
if [ -n "$SGA_FAIL_STAGE" ] && [ "$sub" = "$SGA_FAIL_STAGE" ]; then
	echo "${SGA_FAIL_MESSAGE:-$sub failed}" >&2
	exit "${SGA_FAIL_STATUS:-1}"
fi
case "$sub" in
preprocess)
	for a in "$@"; do case "$a" in --out=*) out="${a#--out=}";; esac; done
	echo reads > "$out"
	;;
index)
	for a in "$@"; do last=$a; done
	base="${last%.*}"
	echo bwt > "$base.bwt"
	echo sai > "$base.sai"
	;;
correct)
	for a in "$@"; do case "$a" in --outfile=*) out="${a#--outfile=}";; esac; done
	echo corrected > "$out"
	;;
*)
	echo "unknown command: $sub" >&2
	exit 9
	;;
esac
`

// CorrectedContent is what the fake engine writes as corrected reads.
const CorrectedContent = "corrected\n"

// WriteFakeSGA installs the fake engine in a fresh temp dir and returns its
// path.
func WriteFakeSGA(t testing.TB) string {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "sga")
	if err := os.WriteFile(bin, []byte(FakeSGA), 0o755); err != nil {
		t.Fatalf("write fake sga: %v", err)
	}
	return bin
}

// Calls returns the recorded invocations of the fake engine at bin, one
// argument line per call.
func Calls(t testing.TB, bin string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(filepath.Dir(bin), CallLog))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read call log: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

// FailStage makes the fake engine exit with status and print message on
// stderr when sub-command stage runs, for the rest of the test.
func FailStage(t *testing.T, stage string, status, message string) {
	t.Helper()
	t.Setenv("SGA_FAIL_STAGE", stage)
	t.Setenv("SGA_FAIL_STATUS", status)
	t.Setenv("SGA_FAIL_MESSAGE", message)
}

// WriteReads writes a small FASTQ file per name into dir and returns their
// paths.
func WriteReads(t testing.TB, dir string, names ...string) []string {
	t.Helper()
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
		if err := os.WriteFile(paths[i], []byte("@r1\nACGTACGT\n+\nIIIIIIII\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", n, err)
		}
	}
	return paths
}
