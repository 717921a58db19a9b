package detector

import (
	"encoding/json"
	"io"
)

// ErrorReport is written instead of the counts when the run fails.
type ErrorReport struct {
	Error string `json:"error"`
}

// WriteReport writes the counts as one JSON array followed by a newline. A nil
// slice is written as [].
func WriteReport(w io.Writer, counts []PestCount) error {
	if counts == nil {
		counts = []PestCount{}
	}
	return encode(w, counts)
}

// WriteError writes {"error": "<message>"} followed by a newline.
func WriteError(w io.Writer, err error) error {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return encode(w, ErrorReport{Error: msg})
}

func encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
