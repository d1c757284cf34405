package json

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnmarshal(t *testing.T) {
	var v map[string]interface{}

	err := Unmarshal([]byte(`{"foo": "bar"}`), &v)
	require.NoError(t, err)
	require.Equal(t, "bar", v["foo"])
}

func TestFormatErrorSyntax(t *testing.T) {
	data := []byte("{\n\"foo\": bar\n}")

	var v map[string]interface{}

	err := Unmarshal(data, &v)
	require.Error(t, err)

	err = FormatError(data, err)
	require.ErrorContains(t, err, "line 2")
}

func TestFormatErrorType(t *testing.T) {
	data := []byte(`{"foo": "bar"}`)

	var v struct {
		Foo int `json:"foo"`
	}

	err := Unmarshal(data, &v)
	require.Error(t, err)

	err = FormatError(data, err)
	require.ErrorContains(t, err, "line 1")
}

func TestFormatErrorPassthrough(t *testing.T) {
	err := FormatError([]byte("{}"), nil)
	require.NoError(t, err)
}
