package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"testing"

	"github.com/kbukum/sgacorrect/errors"
	"github.com/kbukum/sgacorrect/logger"
	"github.com/kbukum/sgacorrect/process"
	"github.com/kbukum/sgacorrect/runplan"
	"github.com/kbukum/sgacorrect/stage"
	"github.com/kbukum/sgacorrect/testutil"
)

// cwdFS is the local filesystem with a fixed working directory.
type cwdFS struct {
	runplan.OSFileSystem
	wd string
}

func (f cwdFS) Getwd() (string, error) { return f.wd, nil }

// fakeRunner records invocations and writes the files a real engine would.
type fakeRunner struct {
	t        *testing.T
	calls    []stage.Name
	outcomes map[stage.Name]process.Outcome
	// skip lists stages that exit zero without writing their output.
	skip map[stage.Name]bool
}

func newFakeRunner(t *testing.T) *fakeRunner {
	return &fakeRunner{t: t, outcomes: map[stage.Name]process.Outcome{}, skip: map[stage.Name]bool{}}
}

func (f *fakeRunner) Run(_ context.Context, cmd process.Command) process.Outcome {
	name := stage.Name(cmd.Args[0])
	f.calls = append(f.calls, name)
	if out, ok := f.outcomes[name]; ok {
		return out
	}
	if !f.skip[name] {
		for _, p := range producedBy(name, cmd.Args) {
			if err := os.WriteFile(p, []byte(string(name)+"\n"), 0o644); err != nil {
				f.t.Fatalf("fake %s: %v", name, err)
			}
		}
	}
	return process.Outcome{Kind: process.OutcomeSuccess}
}

func producedBy(name stage.Name, args []string) []string {
	switch name {
	case stage.Preprocess:
		return []string{flagValue(args, "--out=")}
	case stage.Index:
		return stage.IndexArtifacts(args[len(args)-1])[:2]
	case stage.Correct:
		return []string{flagValue(args, "--outfile=")}
	}
	return nil
}

func flagValue(args []string, prefix string) string {
	for _, a := range args {
		if v, ok := strings.CutPrefix(a, prefix); ok {
			return v
		}
	}
	return ""
}

func testLogger() *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", io.Discard)
}

// testPlan writes a_1.fastq and a_2.fastq into dir and resolves a plan with
// dir as the working directory.
func testPlan(t *testing.T, dir string, raw runplan.RawConfig) runplan.RunPlan {
	t.Helper()
	testutil.WriteReads(t, dir, "a_1.fastq", "a_2.fastq")
	raw.ForwardReads, raw.ReverseReads = "a_1.fastq", "a_2.fastq"
	plan, err := runplan.Resolve(raw, runplan.WithFileSystem(cwdFS{wd: dir}), runplan.WithRunID("test-run"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return plan
}

func TestExecute_AllStagesInOrder(t *testing.T) {
	dir := t.TempDir()
	plan := testPlan(t, dir, runplan.RawConfig{})
	runner := newFakeRunner(t)

	res := NewDriver(runner, WithLogger(testLogger())).Execute(context.Background(), plan)
	if !res.Succeeded {
		t.Fatalf("expected success, got %+v", res)
	}
	if !slices.Equal(runner.calls, stage.Order) {
		t.Errorf("calls = %v, want %v", runner.calls, stage.Order)
	}
	if want := filepath.Join(dir, "_sga_error_corrected.fastq"); res.FinalOutputPath != want {
		t.Errorf("FinalOutputPath = %s, want %s", res.FinalOutputPath, want)
	}
	if res.FailedStage != "" || res.Err != nil {
		t.Errorf("success result carries failure: %+v", res)
	}
	if res.ExitCode != 0 || res.State != StateCompleted {
		t.Errorf("ExitCode = %d, State = %s", res.ExitCode, res.State)
	}
	if len(res.Reports) != 3 {
		t.Errorf("reports = %d, want 3", len(res.Reports))
	}
	if _, err := os.Stat(filepath.Join(dir, "a_1.pp.fastq")); err != nil {
		t.Errorf("intermediate removed without cleanup: %v", err)
	}
}

func TestExecute_PreprocessToolFailureHalts(t *testing.T) {
	dir := t.TempDir()
	plan := testPlan(t, dir, runplan.RawConfig{})
	runner := newFakeRunner(t)
	runner.outcomes[stage.Preprocess] = process.Outcome{
		Kind: process.OutcomeToolFailure, ExitCode: 2, StderrTail: "invalid quality string",
	}

	res := NewDriver(runner, WithLogger(testLogger())).Execute(context.Background(), plan)
	if res.Succeeded || res.FailedStage != stage.Preprocess {
		t.Fatalf("expected failure at preprocess, got %+v", res)
	}
	if !slices.Equal(runner.calls, []stage.Name{stage.Preprocess}) {
		t.Errorf("later stages invoked: %v", runner.calls)
	}
	if res.FinalOutputPath != "" {
		t.Errorf("FinalOutputPath set on failure: %s", res.FinalOutputPath)
	}
	if res.ExitCode != 2 {
		t.Errorf("ExitCode = %d, want the tool's 2", res.ExitCode)
	}
	if !errors.HasCode(res.Err, errors.ErrCodeToolFailure) {
		t.Errorf("Err = %v, want TOOL_FAILURE", res.Err)
	}
	if !strings.Contains(res.Message, "preprocess") || !strings.Contains(res.Message, "invalid quality string") {
		t.Errorf("diagnostic lacks stage or stderr: %q", res.Message)
	}
}

func TestExecute_MissingOutputAfterZeroExit(t *testing.T) {
	dir := t.TempDir()
	plan := testPlan(t, dir, runplan.RawConfig{})
	runner := newFakeRunner(t)
	runner.skip[stage.Index] = true

	res := NewDriver(runner, WithLogger(testLogger())).Execute(context.Background(), plan)
	if res.FailedStage != stage.Index {
		t.Fatalf("FailedStage = %q, want index", res.FailedStage)
	}
	if !errors.HasCode(res.Err, errors.ErrCodeMissingStageOutput) {
		t.Errorf("Err = %v, want MISSING_STAGE_OUTPUT", res.Err)
	}
	if res.ExitCode != errors.ExitMissingStageOutput {
		t.Errorf("ExitCode = %d", res.ExitCode)
	}
	if slices.Contains(runner.calls, stage.Correct) {
		t.Error("correct ran without an index")
	}
}

func TestExecute_MissingInputBeforeLaunch(t *testing.T) {
	dir := t.TempDir()
	plan := testPlan(t, dir, runplan.RawConfig{})
	if err := os.Remove(plan.ReverseReads); err != nil {
		t.Fatal(err)
	}
	runner := newFakeRunner(t)

	res := NewDriver(runner, WithLogger(testLogger())).Execute(context.Background(), plan)
	if res.FailedStage != stage.Preprocess {
		t.Fatalf("FailedStage = %q, want preprocess", res.FailedStage)
	}
	if len(runner.calls) != 0 {
		t.Errorf("stage launched with missing input: %v", runner.calls)
	}
}

func TestExecute_Canceled(t *testing.T) {
	dir := t.TempDir()
	plan := testPlan(t, dir, runplan.RawConfig{})
	runner := newFakeRunner(t)
	runner.outcomes[stage.Index] = process.Outcome{Kind: process.OutcomeCanceled, ExitCode: -1, Err: context.Canceled}

	res := NewDriver(runner, WithLogger(testLogger())).Execute(context.Background(), plan)
	if res.FailedStage != stage.Index || res.ExitCode != errors.ExitCanceled {
		t.Fatalf("got stage %q exit %d, want index/%d", res.FailedStage, res.ExitCode, errors.ExitCanceled)
	}
	if !errors.HasCode(res.Err, errors.ErrCodeCanceled) {
		t.Errorf("Err = %v, want CANCELED", res.Err)
	}
}

func TestExecute_CleanupRemovesIntermediates(t *testing.T) {
	dir := t.TempDir()
	plan := testPlan(t, dir, runplan.RawConfig{Cleanup: "true"})

	res := NewDriver(newFakeRunner(t), WithLogger(testLogger())).Execute(context.Background(), plan)
	if !res.Succeeded {
		t.Fatalf("expected success, got %+v", res)
	}
	for _, f := range stage.Intermediates(plan) {
		if _, err := os.Stat(f); !os.IsNotExist(err) {
			t.Errorf("intermediate %s still present (err=%v)", f, err)
		}
	}
	data, err := os.ReadFile(res.FinalOutputPath)
	if err != nil || string(data) != "correct\n" {
		t.Errorf("final output = %q, %v", data, err)
	}
	for _, n := range []string{"a_1.fastq", "a_2.fastq"} {
		if _, err := os.Stat(filepath.Join(dir, n)); err != nil {
			t.Errorf("input %s removed: %v", n, err)
		}
	}
}

func TestExecute_MoveAcrossFilesystems(t *testing.T) {
	dir := t.TempDir()
	plan := testPlan(t, dir, runplan.RawConfig{OutputFilename: "out.fastq"})

	d := NewDriver(newFakeRunner(t), WithLogger(testLogger()))
	d.rename = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}

	res := d.Execute(context.Background(), plan)
	if !res.Succeeded {
		t.Fatalf("expected success, got %+v", res)
	}
	if data, err := os.ReadFile(filepath.Join(dir, "out.fastq")); err != nil || string(data) != "correct\n" {
		t.Errorf("final output = %q, %v", data, err)
	}
	if _, err := os.Stat(stage.CorrectOutput(stage.PreprocessOutput(dir, plan.ForwardReads))); !os.IsNotExist(err) {
		t.Errorf("source not removed after copy: %v", err)
	}
}

func TestExecute_CreatesOutputDir(t *testing.T) {
	dir := t.TempDir()
	plan := testPlan(t, dir, runplan.RawConfig{OutputDir: "results/run1"})

	res := NewDriver(newFakeRunner(t), WithLogger(testLogger())).Execute(context.Background(), plan)
	if !res.Succeeded {
		t.Fatalf("expected success, got %+v", res)
	}
	if want := filepath.Join(dir, "results", "run1", runplan.DefaultOutputFilename); res.FinalOutputPath != want {
		t.Errorf("FinalOutputPath = %s, want %s", res.FinalOutputPath, want)
	}
}

func TestResultSummary(t *testing.T) {
	res := Result{
		FailedStage: stage.Index,
		ExitCode:    3,
		State:       StateFailed,
		Reports:     []StageReport{{Name: stage.Preprocess, Outcome: "success"}, {Name: stage.Index, Outcome: "tool_failure", ExitCode: 3}},
	}
	s := res.Summary()
	if s["failed_stage"] != "index" || s["state"] != "failed" {
		t.Errorf("summary = %v", s)
	}
	if _, ok := s["output"]; ok {
		t.Error("failed summary reports an output")
	}
	if got := len(s["stages"].([]map[string]interface{})); got != 2 {
		t.Errorf("stages = %d, want 2", got)
	}
	if !StateFailed.Terminal() || StateRunning.Terminal() {
		t.Error("Terminal misclassifies states")
	}
}
