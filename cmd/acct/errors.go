package main

import (
	"errors"
	"fmt"

	"github.com/matsen/acctbook/internal/account"
	"github.com/matsen/acctbook/internal/storage"
	"github.com/spf13/cobra"
)

// exitError attaches an exit code to an error returned from a command.
type exitError struct {
	code  int
	usage bool
	err   error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// usageError marks err as a command-line usage mistake.
func usageError(err error) error {
	return &exitError{code: ExitUsage, usage: true, err: err}
}

// exitCodeFor maps an error returned by Execute to a process exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	var perr *storage.ParseError
	switch {
	case errors.As(err, &perr), errors.Is(err, storage.ErrDuplicate):
		return ExitDataError
	case errors.Is(err, account.ErrInvalidService):
		return ExitUsage
	}
	return ExitError
}

func isUsageError(err error) bool {
	var ee *exitError
	return errors.As(err, &ee) && ee.usage
}

// reportError prints err in the selected output format and returns its exit code.
func reportError(root *cobra.Command, err error) int {
	code := exitCodeFor(err)

	if jsonOutput {
		outputJSON(root.OutOrStdout(), ErrorResponse{Error: err.Error(), Code: code})
		return code
	}

	fmt.Fprintf(root.ErrOrStderr(), "error: %s\n", err)
	if isUsageError(err) {
		fmt.Fprintln(root.ErrOrStderr(), "Run 'acct --help' for usage.")
	}
	return code
}

// serviceArgs requires exactly n positional args and validates args[0] as a service.
func serviceArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		if _, err := account.ParseService(args[0]); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// usageArgs marks errors from a cobra positional-args validator as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}
