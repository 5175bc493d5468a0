// Package report turns uncaught failures into a user-facing notification and
// a diagnostic log entry.
//
// Scan and activation recover from panics with Recover, so a failure in one
// element never takes down triggers that were already built. The outermost
// caller hands the resulting error to Notify.
package report

import (
	stderrors "errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/tesh254/tabdown/internal/logger"
)

// Fielder is implemented by errors that carry ancillary fields worth showing
// alongside the message.
type Fielder interface {
	Fields() map[string]any
}

type namer interface {
	Name() string
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// PanicError is a recovered panic value.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Name reports panics under a fixed name.
func (e *PanicError) Name() string {
	return "panic"
}

// Unwrap exposes a panicked error value.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Recover converts a panic into an error stored in *errp. It must be deferred
// directly:
//
//	defer report.Recover(&err)
func Recover(errp *error) {
	if r := recover(); r != nil {
		*errp = errors.WithStack(&PanicError{Value: r})
	}
}

// Failure is the content of a notification.
type Failure struct {
	Name    string
	Message string
	Stack   string
	Fields  map[string]any
}

// FromError collects the message, stack, name and fields of err and of every
// error it wraps.
func FromError(err error) Failure {
	f := Failure{Message: err.Error(), Fields: map[string]any{}}

	var tracer stackTracer
	for e := err; e != nil; e = stderrors.Unwrap(e) {
		if st, ok := e.(stackTracer); ok {
			// the innermost stack is closest to where things went wrong
			tracer = st
		}
		if fe, ok := e.(Fielder); ok {
			for k, v := range fe.Fields() {
				if _, seen := f.Fields[k]; !seen {
					f.Fields[k] = v
				}
			}
		}
		if n, ok := e.(namer); ok && f.Name == "" {
			f.Name = n.Name()
		}
		if stderrors.Unwrap(e) == nil && f.Name == "" {
			f.Name = fmt.Sprintf("%T", e)
		}
	}
	if tracer != nil {
		f.Stack = strings.TrimPrefix(fmt.Sprintf("%+v", tracer.StackTrace()), "\n")
	}
	return f
}

// String renders the failure the way Notify prints it, without colour.
func (f Failure) String() string {
	var b strings.Builder
	b.WriteString(f.Message)
	if f.Stack != "" {
		b.WriteString("\n\n")
		b.WriteString(f.Stack)
	}
	b.WriteString("\n\n")
	b.WriteString(f.Name)
	for _, k := range slices.Sorted(maps.Keys(f.Fields)) {
		fmt.Fprintf(&b, "\n%s: %v", k, f.Fields[k])
	}
	return b.String()
}

// Notify prints a blocking error notification for err to w and reports it on
// the diagnostic logger. It returns the failure that was shown.
func Notify(w io.Writer, l *logger.Logger, err error) Failure {
	f := FromError(err)

	red := color.New(color.FgRed).SprintFunc()
	box := "┌────── " + red("⚠ Error") + " ──────┐\n"
	box += f.String() + "\n"
	box += "└─────────────────────┘"
	fmt.Fprintln(w, box)

	if l != nil {
		l.Failure(f.Name, f.Message, f.Fields)
	}
	return f
}
