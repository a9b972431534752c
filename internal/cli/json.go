package cli

import (
	"encoding/json"
	"io"

	"github.com/atxtechbro/mcpdash/internal/errors"
)

// JSONEnvelope wraps --json output in a consistent structure for scripts.
type JSONEnvelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *JSONError `json:"error,omitempty"`
}

// JSONError is the machine-readable form of a failure.
type JSONError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Cause      string `json:"cause,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ErrCodeUnknown marks errors that carry no structured code.
const ErrCodeUnknown = "UNKNOWN"

// WriteJSONSuccess writes a successful response with data to w.
func WriteJSONSuccess(w io.Writer, data any) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: true, Data: data})
}

// WriteJSONFromError converts err to a failed response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{Error: ErrorToJSON(err)})
}

func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON maps err onto a JSONError, keeping the structured code when
// there is one.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}
	var dashErr *errors.Error
	if errors.As(err, &dashErr) {
		je := &JSONError{
			Code:       dashErr.Code,
			Message:    dashErr.Message,
			Suggestion: dashErr.Suggestion,
		}
		if dashErr.Cause != nil {
			je.Cause = dashErr.Cause.Error()
		}
		return je
	}
	return &JSONError{Code: ErrCodeUnknown, Message: err.Error()}
}
