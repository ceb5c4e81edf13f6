package usecase

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/simstack-go/dftvasp/pkg/domain/interfaces"
	"github.com/simstack-go/dftvasp/pkg/domain/types"
	"github.com/simstack-go/dftvasp/pkg/infra/launcher"
)

type runUseCase struct {
	workDir    string
	scriptName string
	stdout     io.Writer
	stderr     io.Writer
}

// RunOption configures the run stage
type RunOption func(*runUseCase)

// WithOutput redirects the launcher script's output streams
func WithOutput(stdout, stderr io.Writer) RunOption {
	return func(uc *runUseCase) {
		uc.stdout = stdout
		uc.stderr = stderr
	}
}

// WithRunScriptName overrides the launcher script file name
func WithRunScriptName(name string) RunOption {
	return func(uc *runUseCase) { uc.scriptName = name }
}

// NewRun creates the execution use case working in workDir
func NewRun(workDir string, opts ...RunOption) interfaces.RunUseCase {
	uc := &runUseCase{
		workDir:    workDir,
		scriptName: types.FileRunScript,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Run executes the launcher script as one synchronous process. Any failure
// is fatal and carries the child's exit status.
func (uc *runUseCase) Run(ctx context.Context) error {
	logger := ctxlog.From(ctx)

	script := filepath.Join(uc.workDir, uc.scriptName)
	if _, err := os.Stat(script); err != nil {
		return goerr.Wrap(err, "launcher script not found, run prepare first",
			goerr.V("script", script))
	}

	start := time.Now()
	if err := launcher.Execute(ctx, uc.workDir, uc.scriptName, uc.stdout, uc.stderr); err != nil {
		return err
	}
	logger.Info("run complete", "elapsed", time.Since(start).String())
	return nil
}
