package trigger

import (
	"bytes"
	"testing"

	"github.com/alerthub/core/encoding/stream"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"
)

func TestParseAction(t *testing.T) {
	v := fastjson.MustParse(`{
		"id": "action-1",
		"name": "notify-ops",
		"destination_id": "dest-1",
		"subject_template": {"script": {"source": "Alert", "lang": "mustache"}},
		"message_template": {"script": {"source": "{{ctx.trigger.name}} fired", "lang": "mustache"}},
		"throttle_enabled": true
	}`)

	action, err := ParseAction(v)
	require.NoError(t, err)
	require.Equal(t, "action-1", action.ID)
	require.Equal(t, "notify-ops", action.Name)
	require.Equal(t, "dest-1", action.DestinationID)
	require.NotNil(t, action.SubjectTemplate)
	require.Equal(t, "Alert", action.SubjectTemplate.Source)
	require.Equal(t, "{{ctx.trigger.name}} fired", action.MessageTemplate.Source)
	require.True(t, action.ThrottleEnabled)
}

func TestParseActionGeneratesID(t *testing.T) {
	v := fastjson.MustParse(`{
		"name": "notify-ops",
		"destination_id": "dest-1",
		"message_template": {"script": {"source": "fired", "lang": "mustache"}}
	}`)

	action, err := ParseAction(v)
	require.NoError(t, err)
	require.NotEmpty(t, action.ID)
}

func TestParseActionMissingFields(t *testing.T) {
	_, err := ParseAction(fastjson.MustParse(`{"destination_id": "dest-1", "message_template": {"script": {"source": "x"}}}`))
	require.ErrorContains(t, err, "name")

	_, err = ParseAction(fastjson.MustParse(`{"name": "a", "message_template": {"script": {"source": "x"}}}`))
	require.ErrorContains(t, err, "destination_id")

	_, err = ParseAction(fastjson.MustParse(`{"name": "a", "destination_id": "dest-1"}`))
	require.ErrorContains(t, err, "message_template")
}

func TestParseActionSkipsUnknownFields(t *testing.T) {
	v := fastjson.MustParse(`{
		"name": "notify-ops",
		"destination_id": "dest-1",
		"message_template": {"script": {"source": "fired", "lang": "mustache"}},
		"some_future_field": {"a": [1, 2, 3]}
	}`)

	_, err := ParseAction(v)
	require.NoError(t, err)
}

func TestActionStreamRoundtrip(t *testing.T) {
	subject := Script{Lang: "mustache", Source: "Alert"}

	action := Action{
		ID:              "action-1",
		Name:            "notify-ops",
		DestinationID:   "dest-1",
		SubjectTemplate: &subject,
		MessageTemplate: Script{Lang: "mustache", Source: "fired"},
		ThrottleEnabled: true,
	}

	buf := &bytes.Buffer{}

	w := stream.NewWriter(buf)
	require.NoError(t, action.WriteTo(w))

	decoded, err := ReadActionFrom(stream.NewReader(buf))
	require.NoError(t, err)
	require.Equal(t, action, decoded)
}

func TestActionStreamRoundtripNoSubject(t *testing.T) {
	action := Action{
		ID:              "action-1",
		Name:            "notify-ops",
		DestinationID:   "dest-1",
		MessageTemplate: Script{Lang: "mustache", Source: "fired"},
	}

	buf := &bytes.Buffer{}

	w := stream.NewWriter(buf)
	require.NoError(t, action.WriteTo(w))

	decoded, err := ReadActionFrom(stream.NewReader(buf))
	require.NoError(t, err)
	require.Nil(t, decoded.SubjectTemplate)
	require.Equal(t, action, decoded)
}

func TestActionTemplateArgs(t *testing.T) {
	action := Action{ID: "action-1", Name: "notify-ops", DestinationID: "dest-1"}

	args := action.TemplateArgs()
	require.Equal(t, "action-1", args["id"])
	require.Equal(t, "notify-ops", args["name"])
	require.Equal(t, "dest-1", args["destination_id"])
}
