package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// reportedError is a failure the user has already seen on stderr, either as
// a notice or through writeErr.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func errReported(msg string) error {
	return reportedError{err: errors.New(msg)}
}

func isReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// Execute runs cmd and prints any error that has not been shown yet, such
// as cobra's unknown flag or missing required flag errors.
func Execute(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	if err != nil && !isReported(err) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	}
	return err
}
