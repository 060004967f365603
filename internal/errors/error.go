package errors

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"os"
)

// Category represents the type of error.
type Category string

const (
	CategoryDescription Category = "description"
	CategoryComponent   Category = "component"
	CategoryHost        Category = "host"
	CategoryScheduler   Category = "scheduler"
	CategoryConfig      Category = "config"
	CategoryProtocol    Category = "protocol"
)

// Location represents a position in a configuration or description file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// ArborError is a structured error with a registered code.
type ArborError struct {
	// Code is a unique error identifier (e.g., "A001").
	Code string

	// Category is the error class.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail describes this particular occurrence.
	Detail string

	// Location points into the file that caused the error, if any.
	Location *Location

	// Context contains the surrounding file lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ArborError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Code != "" {
		return e.Code + ": " + msg
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *ArborError) Unwrap() error {
	return e.Wrapped
}

// WithDetail describes this occurrence of the error.
func (e *ArborError) WithDetail(d string) *ArborError {
	e.Detail = d
	return e
}

// WithDetailf is WithDetail with a format string.
func (e *ArborError) WithDetailf(format string, args ...any) *ArborError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *ArborError) WithSuggestion(s string) *ArborError {
	e.Suggestion = s
	return e
}

// WithLocation records the file position and reads the lines around it.
func (e *ArborError) WithLocation(file string, line, column int) *ArborError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// Wrap wraps another error.
func (e *ArborError) Wrap(err error) *ArborError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	if filename == "" || targetLine <= 0 {
		return nil
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates an ArborError from a registered error code.
func New(code string) *ArborError {
	template, ok := registry[code]
	if !ok {
		return &ArborError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &ArborError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
	}
}

// Newf creates an uncoded ArborError with a formatted message.
func Newf(category Category, format string, args ...any) *ArborError {
	return &ArborError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps err in an ArborError with the given code.
// Errors that already carry an ArborError are returned unchanged.
func FromError(err error, code string) *ArborError {
	if err == nil {
		return nil
	}
	var ae *ArborError
	if stderrors.As(err, &ae) {
		return ae
	}
	return New(code).Wrap(err)
}

// CodeOf returns the code of the first ArborError in err's chain, or "".
func CodeOf(err error) string {
	var ae *ArborError
	if stderrors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
