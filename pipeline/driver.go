package pipeline

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/sgacorrect/errors"
	"github.com/kbukum/sgacorrect/logger"
	"github.com/kbukum/sgacorrect/observability"
	"github.com/kbukum/sgacorrect/process"
	"github.com/kbukum/sgacorrect/runplan"
	"github.com/kbukum/sgacorrect/stage"
)

// StageRunner executes one command and classifies the outcome.
// *process.Runner implements it.
type StageRunner interface {
	Run(ctx context.Context, cmd process.Command) process.Outcome
}

// Driver executes the stages of a RunPlan in order.
type Driver struct {
	runner  StageRunner
	log     *logger.Logger
	metrics *observability.StageMetrics

	stat     func(name string) (os.FileInfo, error)
	rename   func(oldpath, newpath string) error
	remove   func(name string) error
	mkdirAll func(path string, perm os.FileMode) error
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the driver logger. Defaults to the global logger.
func WithLogger(log *logger.Logger) Option {
	return func(d *Driver) { d.log = log }
}

// WithMetrics records stage and run metrics on m.
func WithMetrics(m *observability.StageMetrics) Option {
	return func(d *Driver) { d.metrics = m }
}

// NewDriver constructs a driver with OS dependencies.
func NewDriver(runner StageRunner, opts ...Option) *Driver {
	d := &Driver{
		runner:   runner,
		stat:     os.Stat,
		rename:   os.Rename,
		remove:   os.Remove,
		mkdirAll: os.MkdirAll,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = logger.GetGlobalLogger()
	}
	d.log = d.log.WithComponent("pipeline")
	return d
}

// Execute runs plan to completion or first failure. It never returns a
// partially filled Result: exactly one of FinalOutputPath and FailedStage
// is set.
func (d *Driver) Execute(ctx context.Context, plan runplan.RunPlan) (res Result) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, observability.SpanRun,
		attribute.String(observability.AttrRunID, plan.RunID),
	)
	log := d.log.WithContext(ctx).WithFields(logger.Fields(logger.FieldRunID, plan.RunID))

	defer func() {
		res.Duration = time.Since(start)
		d.metrics.RecordPipeline(ctx, string(res.State))
		observability.EndSpan(span, res.Err)
	}()

	stages := stage.Plan(plan)
	log.Info("pipeline starting", logger.Fields("stages", len(stages), "output_dir", plan.OutputDir))

	if err := d.mkdirAll(plan.OutputDir, 0o755); err != nil {
		return failed(stages[0].Name, nil,
			errors.Internal("cannot create output directory "+plan.OutputDir, err).WithStage(string(stages[0].Name)))
	}

	var reports []StageReport
	for _, st := range stages {
		report, appErr := d.runStage(ctx, log, st)
		reports = append(reports, report)
		if appErr != nil {
			log.Error("pipeline failed", logger.Fields(
				logger.FieldStage, string(st.Name),
				logger.FieldExitCode, appErr.ExitCode,
				logger.FieldError, appErr.Error(),
			))
			return failed(st.Name, reports, appErr)
		}
	}

	last := stages[len(stages)-1]
	final := stage.FinalOutput(plan)
	if err := d.moveFile(last.ExpectedOutput, final); err != nil {
		return failed(last.Name, reports,
			errors.Internal("cannot move corrected reads to "+final, err).WithStage(string(last.Name)))
	}

	if !plan.KeepIntermediates {
		d.cleanup(log, stage.Intermediates(plan), final)
	}

	log.Info("pipeline completed", logger.Fields(logger.FieldPath, final))
	return Result{
		Succeeded:       true,
		FinalOutputPath: final,
		Message:         "corrected reads written to " + final,
		ExitCode:        errors.ExitOK,
		State:           StateCompleted,
		Reports:         reports,
	}
}

// runStage verifies inputs, runs st and verifies its output.
func (d *Driver) runStage(ctx context.Context, log *logger.Logger, st stage.Stage) (StageReport, *errors.AppError) {
	name := string(st.Name)
	report := StageReport{Name: st.Name, ExitCode: -1}

	ctx, span := observability.StartSpan(ctx, observability.SpanStagePref+name,
		attribute.String(observability.AttrStage, name),
		attribute.String(observability.AttrCommand, commandLine(st)),
	)
	log = log.WithFields(logger.Fields(logger.FieldStage, name))

	appErr := d.execStage(ctx, log, st, &report)

	span.SetAttributes(
		attribute.String(observability.AttrOutcome, report.Outcome),
		attribute.Int(observability.AttrExitCode, report.ExitCode),
	)
	if appErr != nil {
		observability.EndSpan(span, appErr)
	} else {
		observability.EndSpan(span, nil)
	}
	d.metrics.RecordStage(ctx, name, report.Outcome, report.Duration)
	return report, appErr
}

func (d *Driver) execStage(ctx context.Context, log *logger.Logger, st stage.Stage, report *StageReport) *errors.AppError {
	name := string(st.Name)
	for _, in := range st.Inputs {
		if err := d.requireFile(in); err != nil {
			report.Outcome = "missing_input"
			return errors.MissingStageOutput(name, in).WithCause(err).WithDetail("role", "input")
		}
	}

	log.Info("stage starting", logger.Fields(logger.FieldCommand, commandLine(st)))
	out := d.runner.Run(ctx, st.Command())
	report.Outcome = out.Kind.String()
	report.ExitCode = out.ExitCode
	report.Duration = out.Duration

	switch out.Kind {
	case process.OutcomeSuccess:
	case process.OutcomeToolFailure:
		return errors.ToolFailure(name, out.ExitCode, out.StderrTail)
	case process.OutcomeLaunchFailure:
		return errors.LaunchFailure(name, st.Executable, out.Err)
	case process.OutcomeCanceled:
		return errors.Canceled(name, out.Err)
	default:
		return errors.Internal("unclassified stage outcome "+out.Kind.String(), out.Err).WithStage(name)
	}

	if err := d.requireFile(st.ExpectedOutput); err != nil {
		report.Outcome = "missing_output"
		return errors.MissingStageOutput(name, st.ExpectedOutput).WithCause(err)
	}

	log.Info("stage completed", logger.MergeWithDuration(
		logger.Fields(logger.FieldExitCode, out.ExitCode, logger.FieldPath, st.ExpectedOutput),
		out.Duration,
	))
	return nil
}

// cleanup removes intermediates, never touching keep.
func (d *Driver) cleanup(log *logger.Logger, files []string, keep string) {
	for _, f := range files {
		if f == keep {
			continue
		}
		if err := d.remove(f); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			log.Warn("cannot remove intermediate file", logger.MergeWithError(logger.Fields(logger.FieldPath, f), err))
		}
	}
}

func failed(name stage.Name, reports []StageReport, appErr *errors.AppError) Result {
	return Result{
		FailedStage: name,
		Message:     appErr.Error(),
		ExitCode:    appErr.ExitCode,
		Err:         appErr,
		State:       StateFailed,
		Reports:     reports,
	}
}

func commandLine(st stage.Stage) string {
	return strings.Join(append([]string{st.Executable}, st.Args...), " ")
}
