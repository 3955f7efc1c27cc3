package compiler

import "fmt"

// Diagnostic severities used by solc.
const (
	// SeverityError marks a diagnostic that failed the compilation.
	SeverityError = "error"

	// SeverityWarning marks a diagnostic that did not fail the compilation.
	SeverityWarning = "warning"
)

// Error is one diagnostic message of the compilation report, in solc's standard-json error shape. Despite the name
// it covers warnings as well; Severity distinguishes the two.
type Error struct {
	// Component is the compiler component that produced the message.
	Component string `json:"component,omitempty"`

	// ErrorCode is the solc error code, when one exists.
	ErrorCode string `json:"errorCode,omitempty"`

	// FormattedMessage is the human-readable message with source context.
	FormattedMessage string `json:"formattedMessage,omitempty"`

	// Message is the bare message text.
	Message string `json:"message,omitempty"`

	// Severity is one of the severity constants above.
	Severity string `json:"severity,omitempty"`

	// SourceLocation points at the source construct the message refers to, when known.
	SourceLocation *SourceLocation `json:"sourceLocation,omitempty"`

	// Type is solc's error type tag, e.g. "Warning" or "TypeError".
	Type string `json:"type,omitempty"`
}

// SourceLocation identifies a byte range within a source file.
type SourceLocation struct {
	// File is the source file path.
	File string `json:"file"`

	// Start is the byte offset where the range begins, or -1 when unknown.
	Start int `json:"start"`

	// End is the byte offset where the range ends, or -1 when unknown.
	End int `json:"end"`
}

// NewWarning returns a general warning diagnostic with the given message text.
func NewWarning(message string) *Error {
	return &Error{
		Component:        "general",
		FormattedMessage: fmt.Sprintf("Warning: %v\n", message),
		Message:          message,
		Severity:         SeverityWarning,
		Type:             "Warning",
	}
}

// PushContractPath tags the diagnostic with the file path it originates from. The path is recorded in the source
// location (when one is not set already) and appended to the formatted message so renderers without source-location
// support still surface it.
func (e *Error) PushContractPath(path string) {
	if e.SourceLocation == nil {
		e.SourceLocation = &SourceLocation{File: path, Start: -1, End: -1}
	} else if e.SourceLocation.File == "" {
		e.SourceLocation.File = path
	}
	e.FormattedMessage += fmt.Sprintf("--> %v\n", path)
}
