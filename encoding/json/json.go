// Package json wraps encoding/json and annotates decoding errors with
// the line and character they occurred at.
package json

import (
	"encoding/json"
	"fmt"
)

// Marshal is a wrapper for json.Marshal.
func Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal is a wrapper for json.Unmarshal.
func Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// FormatError takes the data given to Unmarshal and the error it returned
// and rewrites the error such that it points at the offending location.
func FormatError(input []byte, err error) error {
	var offset int64 = -1

	if serr, ok := err.(*json.SyntaxError); ok {
		offset = serr.Offset
	} else if terr, ok := err.(*json.UnmarshalTypeError); ok {
		offset = terr.Offset
	}

	if offset < 0 {
		return err
	}

	line, character, ok := locate(input, int(offset))
	if !ok {
		return err
	}

	return fmt.Errorf("at line %d, character %d: %w", line, character, err)
}

func locate(input []byte, offset int) (int, int, bool) {
	if offset < 0 || offset > len(input) {
		return 0, 0, false
	}

	// Humans count lines from 1.
	line, character := 1, 0

	for i, b := range input {
		if b == '\n' {
			line++
			character = 0
		}
		character++
		if i == offset {
			break
		}
	}

	return line, character, true
}
