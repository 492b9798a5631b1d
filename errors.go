package warpgrid

import (
	"errors"
	"fmt"
)

var (
	// ErrNoGraphicsContext is returned when a GPU resource is requested
	// before a graphics context exists.
	ErrNoGraphicsContext = errors.New("warpgrid: no graphics context")

	// ErrProgramNotLinked is returned by uniform lookups on a program that
	// has not been linked successfully.
	ErrProgramNotLinked = errors.New("warpgrid: shader program not linked")

	// ErrProgramNotActive is returned when drawing with a program that has
	// not been made active.
	ErrProgramNotActive = errors.New("warpgrid: shader program not active")

	// ErrProgramCompiled is returned when Compile is called a second time.
	// A program is compiled once for the process lifetime.
	ErrProgramCompiled = errors.New("warpgrid: shader program already compiled")

	// ErrUniformNotFound is returned when a uniform name is not declared by
	// the linked program.
	ErrUniformNotFound = errors.New("warpgrid: uniform not found")

	// ErrUniformType is returned when a uniform the render loop sets is
	// declared with a different type.
	ErrUniformType = errors.New("warpgrid: uniform has the wrong type")
)

// CompileError carries the diagnostic of a shader stage that failed to compile.
type CompileError struct {
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("warpgrid: %s shader: %s", e.Stage, e.Log)
}

// LinkError carries the diagnostic produced when the compiled stages could
// not be linked into a program.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return "warpgrid: link shader program: " + e.Log
}
