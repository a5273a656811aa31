package pensel

import "github.com/holmestyler/pensel/internal/report"

// Code and Error are re-exported from internal/report so callers of the
// public API never need to import the internal package directly.
type (
	Code  = report.Code
	Error = report.Error
)

const (
	Ok                = report.Ok
	BusyError         = report.BusyError
	LenError          = report.LenError
	MaxLenError       = report.MaxLenError
	ComError          = report.ComError
	InvalidArgsError  = report.InvalidArgsError
	NoReportError     = report.NoReportError
	GenError          = report.GenError
)

var (
	NewError          = report.NewError
	NewReportError    = report.NewReportError
	NewTransportError = report.NewTransportError
	WrapError         = report.WrapError
	CodeOf            = report.CodeOf
	IsCode            = report.IsCode
)
