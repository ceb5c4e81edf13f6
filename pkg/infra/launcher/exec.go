package launcher

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Execute runs the launcher script synchronously in dir, streaming its
// output to the given writers. The child's exit status is propagated as an
// error; context cancellation kills the child. There is no retry: module
// load failures, launcher failures, and VASP failures are all fatal.
func Execute(ctx context.Context, dir, script string, stdout, stderr io.Writer) error {
	logger := ctxlog.From(ctx)

	path := filepath.Join(dir, script)
	cmd := exec.CommandContext(ctx, "/bin/bash", path)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	logger.Info("launching VASP", "script", path, "dir", dir)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return goerr.Wrap(err, "VASP run failed",
				goerr.V("script", path), goerr.V("exit_code", exitErr.ExitCode()))
		}
		return goerr.Wrap(err, "failed to start launcher script", goerr.V("script", path))
	}

	logger.Info("VASP run finished", "script", path)
	return nil
}
