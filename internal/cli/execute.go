package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Execute runs the CLI with args and returns the process exit code.
// Errors are reported on stdout as a JSON envelope with --format json,
// otherwise as text on stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return execute(ctx, &RootOptions{}, args, stdout, stderr)
}

func execute(ctx context.Context, opts *RootOptions, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	// Anything not already classified comes from flag and argument parsing.
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		err = &ExitError{Code: ExitCommandError, ErrCode: ErrCodeUsage, Message: "usage", Err: err}
	}

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  stderr,
		Verbose: opts.Verbose,
	}
	if opts.Format == "json" {
		formatter.Writer = stdout
		formatter.TraceID = opts.traceID()
	}
	if werr := formatter.Error(getErrCode(err), err.Error(), nil); werr != nil {
		fmt.Fprintf(stderr, "Error: %v (failed to write response: %v)\n", err, werr)
	}

	return GetExitCode(err)
}
