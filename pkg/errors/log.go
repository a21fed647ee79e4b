package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
)

// LogHandler is an ErrorHandler that writes errors to Out (stderr by default).
type LogHandler struct {
	// Out receives the messages. Nil means os.Stderr.
	Out io.Writer
	// Verbose enables detailed output including stack traces and cause chains.
	Verbose bool
}

func (h *LogHandler) out() io.Writer {
	if h.Out == nil {
		return os.Stderr
	}
	return h.Out
}

// HandleError logs a ScaffoldError.
func (h *LogHandler) HandleError(err *ScaffoldError) {
	if err == nil {
		return
	}
	w := h.out()
	if !h.Verbose {
		fmt.Fprintf(w, "[ngapp error] %s: %v\n", err.Op, err.Err)
		return
	}
	fmt.Fprintf(w, "[ngapp error] %s [%s]: %v\n", err.Op, err.Kind, err.Err)
	for cause := stderrors.Unwrap(err.Err); cause != nil; cause = stderrors.Unwrap(cause) {
		fmt.Fprintf(w, "  caused by: %v\n", cause)
	}
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	w := h.out()
	if err.Op != "" {
		fmt.Fprintf(w, "[ngapp panic] %s: %v\n", err.Op, err.Value)
	} else {
		fmt.Fprintf(w, "[ngapp panic] %v\n", err.Value)
	}
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(w, "Stack trace:\n%s\n", err.StackTrace)
	}
}
