package cmdutil

import (
	"errors"

	oerrors "github.com/opmodel/pybake/internal/errors"
	"github.com/opmodel/pybake/internal/output"
)

// PrintError reports err to stderr and returns an *ExitError carrying the
// exit code for err, marked as printed. A DetailError is printed as a short
// summary line followed by its structured details.
func PrintError(msg string, err error) error {
	if err == nil {
		return nil
	}

	var exitErr *oerrors.ExitError
	if errors.As(err, &exitErr) && exitErr.Printed {
		return exitErr
	}

	var detail *oerrors.DetailError
	if errors.As(err, &detail) {
		output.Error(msg)
		output.Details(detail.Error())
	} else {
		output.Error(msg, "error", err)
	}

	return &oerrors.ExitError{Code: oerrors.ExitCodeFromError(err), Err: err, Printed: true}
}
