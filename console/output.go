package console

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/TELY01-DEV/evep-admin/client"
	"github.com/TELY01-DEV/evep-admin/geo"
	"github.com/TELY01-DEV/evep-admin/listing"
)

// Exit codes for console commands.
const (
	ExitSuccess  = 0
	ExitFailure  = 1 // backend or transport failure
	ExitUsage    = 2 // bad flags, arguments or config
	ExitAuth     = 3 // missing, expired or insufficient token
	ExitNotFound = 4
)

// ExitError carries a specific exit code out of a command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

func usageError(err error) *ExitError { return WrapExitError(ExitUsage, "usage", err) }

// GetExitCode maps err to the process exit code.
func GetExitCode(err error) int {
	var exitErr *ExitError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, client.ErrNoSession),
		errors.Is(err, client.ErrUnauthorized),
		errors.Is(err, client.ErrForbidden):
		return ExitAuth
	case errors.Is(err, client.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, listing.ErrInvalidPage),
		errors.Is(err, listing.ErrUnknownFilter),
		errors.Is(err, geo.ErrUnknownOption),
		errors.Is(err, geo.ErrNoParent):
		return ExitUsage
	}
	return ExitFailure
}

// describe flattens err to the code and message shown to the operator.
func describe(err error) (code, message string) {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrNoSession):
		return "NO_SESSION", "not logged in: run `evep login` and export EVEP_TOKEN"
	case errors.As(err, &apiErr):
		code = apiErr.Code
		if code == "" {
			code = fmt.Sprintf("HTTP_%d", apiErr.Status)
		}
		message = err.Error()
		fields := make([]string, 0, len(apiErr.Fields))
		for f := range apiErr.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			message += fmt.Sprintf("; %s: %s", f, apiErr.Fields[f])
		}
		return code, message
	}
	switch GetExitCode(err) {
	case ExitUsage:
		return "USAGE", err.Error()
	case ExitAuth:
		return "UNAUTHORIZED", err.Error()
	}
	return "ERROR", err.Error()
}

// Response is the JSON envelope of every command.
type Response struct {
	Status string     `json:"status"` // "ok" or "error"
	Data   any        `json:"data,omitempty"`
	Error  *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OutputFormatter handles JSON vs text output.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Success writes data as the JSON envelope, or calls text for the human form.
func (f *OutputFormatter) Success(data any, text func(w io.Writer) error) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(Response{Status: "ok", Data: data})
	}
	return text(f.Writer)
}

func (f *OutputFormatter) Error(code, message string) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(Response{Status: "error", Error: &ErrorBody{Code: code, Message: message}})
	}
	_, err := fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	return err
}

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
