package stage

import (
	"path/filepath"
	"strconv"

	"github.com/kbukum/sgacorrect/process"
	"github.com/kbukum/sgacorrect/runplan"
)

// Name identifies a pipeline stage. The value is also the engine sub-command.
type Name string

const (
	Preprocess Name = "preprocess"
	Index      Name = "index"
	Correct    Name = "correct"
)

// Order is the only valid stage order.
var Order = []Name{Preprocess, Index, Correct}

func (n Name) String() string { return string(n) }

// Stage is one planned invocation of the engine.
type Stage struct {
	Name       Name
	Executable string
	Args       []string
	// Inputs must all exist before the stage is launched.
	Inputs []string
	// ExpectedOutput must exist after a zero exit for the run to continue.
	ExpectedOutput string
	Dir            string
}

// Command returns the process command for s.
func (s Stage) Command() process.Command {
	args := make([]string, len(s.Args))
	copy(args, s.Args)
	return process.Command{
		Binary: s.Executable,
		Args:   args,
		Dir:    s.Dir,
	}
}

// Plan returns the three stages of plan in execution order.
func Plan(plan runplan.RunPlan) []Stage {
	dir := plan.OutputDir
	reads := PreprocessOutput(dir, plan.ForwardReads)
	index := IndexOutput(reads)

	return []Stage{
		{
			Name:       Preprocess,
			Executable: plan.Executable,
			Args: []string{
				string(Preprocess),
				"--pe-mode=1",
				flag("min-length", plan.MinLength),
				flag("quality-trim", plan.QualityTrim),
				flag("quality-filter", plan.QualityFilter),
				"--out=" + reads,
				plan.ForwardReads,
				plan.ReverseReads,
			},
			Inputs:         []string{plan.ForwardReads, plan.ReverseReads},
			ExpectedOutput: reads,
			Dir:            dir,
		},
		{
			Name:           Index,
			Executable:     plan.Executable,
			Args:           indexArgs(plan, reads),
			Inputs:         []string{reads},
			ExpectedOutput: index,
			Dir:            dir,
		},
		{
			Name:       Correct,
			Executable: plan.Executable,
			Args: []string{
				string(Correct),
				flag("kmer-size", plan.KmerLength),
				flag("kmer-threshold", plan.KmerThreshold),
				flag("threads", plan.Threads),
				"--outfile=" + CorrectOutput(reads),
				reads,
			},
			Inputs:         []string{reads, index},
			ExpectedOutput: CorrectOutput(reads),
			Dir:            dir,
		},
	}
}

func indexArgs(plan runplan.RunPlan, reads string) []string {
	args := []string{
		string(Index),
		"--algorithm=" + string(plan.Algorithm),
		flag("threads", plan.Threads),
	}
	if plan.Algorithm.DiskBased() {
		args = append(args, flag("disk", plan.DiskBatchSize))
	}
	return append(args, reads)
}

// Intermediates lists the transient files a run of plan leaves in the
// output directory, excluding the final output.
func Intermediates(plan runplan.RunPlan) []string {
	reads := PreprocessOutput(plan.OutputDir, plan.ForwardReads)
	files := append([]string{reads}, IndexArtifacts(reads)...)
	return append(files, CorrectOutput(reads))
}

// FinalOutput is where the corrected reads are delivered.
func FinalOutput(plan runplan.RunPlan) string {
	return filepath.Join(plan.OutputDir, plan.OutputFilename)
}

func flag(name string, value int) string {
	return "--" + name + "=" + strconv.Itoa(value)
}
