package bench

import (
	"fmt"
	"strings"

	"github.com/cwbudde/clbench/internal/accel"
)

// BuildProgram compiles source for the context's device. Empty source fails
// before the driver is touched; any build status other than success fails
// with the compiler's log attached as diagnostics.
func BuildProgram(ctx accel.Context, source string) (accel.Program, error) {
	if strings.TrimSpace(source) == "" {
		return nil, newError(BuildError, "build program", ErrEmptyKernelSource)
	}

	program, err := ctx.BuildProgram(source)
	if err != nil {
		return nil, newError(BuildError, "build program", fmt.Errorf("%w: %v", ErrKernelBuildFailed, err))
	}

	if status := program.Status(); status != accel.BuildSuccess {
		diag := "Build Status: " + status.String()
		if log := program.Log(); log != "" {
			diag += "\nBuild Log:\n" + log
		}
		_ = program.Release()
		return nil, &Error{
			Class:       BuildError,
			Op:          "build program",
			Err:         ErrKernelBuildFailed,
			Diagnostics: diag,
		}
	}

	return program, nil
}
