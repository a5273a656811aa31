package report

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
)

// Code is the report-protocol retcode taxonomy, the first byte of every
// response frame.
type Code uint8

const (
	Ok Code = iota
	BusyError
	LenError
	MaxLenError
	ComError
	InvalidArgsError
	NoReportError
	GenError
)

func (c Code) String() string {
	switch c {
	case Ok:
		return "ok"
	case BusyError:
		return "busy"
	case LenError:
		return "len"
	case MaxLenError:
		return "max_len"
	case ComError:
		return "com"
	case InvalidArgsError:
		return "invalid_args"
	case NoReportError:
		return "no_report"
	case GenError:
		return "gen"
	default:
		return fmt.Sprintf("code(%d)", uint8(c))
	}
}

// Error is a structured error carrying the retcode that would be put on
// the wire for the failed operation, plus optional report and errno
// context.
type Error struct {
	Op       string
	ReportID int // -1 if not applicable
	Code     Code
	Errno    syscall.Errno
	Msg      string
	Inner    error
}

func (e *Error) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.ReportID >= 0 {
		parts = append(parts, fmt.Sprintf("report=0x%02x", e.ReportID))
	}
	if e.Errno != 0 {
		parts = append(parts, fmt.Sprintf("errno=%d", e.Errno))
	}

	msg := e.Msg
	if msg == "" {
		msg = e.Code.String()
	}
	if len(parts) > 0 {
		return fmt.Sprintf("pensel: %s (%s)", msg, strings.Join(parts, " "))
	}
	return fmt.Sprintf("pensel: %s", msg)
}

func (e *Error) Unwrap() error { return e.Inner }

func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if te, ok := target.(*Error); ok {
		return e.Code == te.Code
	}
	return false
}

// NewError creates a structured error not scoped to a specific report.
func NewError(op string, code Code, msg string) *Error {
	return &Error{Op: op, ReportID: -1, Code: code, Msg: msg}
}

// NewReportError creates a structured error scoped to a report ID.
func NewReportError(op string, reportID uint8, code Code, msg string) *Error {
	return &Error{Op: op, ReportID: int(reportID), Code: code, Msg: msg}
}

// NewTransportError wraps a transport-level errno as a ComError.
func NewTransportError(op string, errno syscall.Errno) *Error {
	return &Error{Op: op, ReportID: -1, Code: ComError, Errno: errno, Msg: errno.Error()}
}

// WrapError wraps an existing error with Pensel context, preserving the
// inner *Error's Code when present.
func WrapError(op string, inner error) *Error {
	if inner == nil {
		return nil
	}

	var pe *Error
	if errors.As(inner, &pe) {
		return &Error{
			Op:       op,
			ReportID: pe.ReportID,
			Code:     pe.Code,
			Errno:    pe.Errno,
			Msg:      pe.Msg,
			Inner:    pe.Inner,
		}
	}

	if errno, ok := inner.(syscall.Errno); ok {
		return &Error{Op: op, ReportID: -1, Code: ComError, Errno: errno, Msg: errno.Error(), Inner: inner}
	}

	return &Error{Op: op, ReportID: -1, Code: GenError, Msg: inner.Error(), Inner: inner}
}

// CodeOf extracts the retcode carried by err: a *Error's Code, Ok for
// nil, GenError for anything unstructured. Handlers use it to forward a
// collaborator's retcode verbatim instead of collapsing every failure to
// GenError.
func CodeOf(err error) Code {
	if err == nil {
		return Ok
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return GenError
}

// IsCode reports whether err is a structured *Error with the given Code.
func IsCode(err error, code Code) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}
