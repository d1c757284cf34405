package trigger

import (
	"bytes"
	"testing"

	"github.com/alerthub/core/encoding/json"
	"github.com/alerthub/core/encoding/stream"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"
)

func testTrigger(t *testing.T) *QueryLevelTrigger {
	condition := Script{
		Lang:   ScriptLangPainless,
		Source: "ctx.results[0].hits.total.value > 0",
	}

	actions := []Action{
		{
			ID:              "action-1",
			Name:            "notify-ops",
			DestinationID:   "dest-1",
			MessageTemplate: Script{Lang: "mustache", Source: "{{ctx.trigger.name}} fired"},
		},
	}

	tr, err := NewQueryLevelTrigger("trigger-1", "errors-present", "1", condition, actions)
	require.NoError(t, err)

	return tr
}

func TestNewQueryLevelTrigger(t *testing.T) {
	tr := testTrigger(t)

	require.Equal(t, KindQueryLevel, tr.Kind())
	require.Equal(t, "trigger-1", tr.TriggerID())
	require.Equal(t, "errors-present", tr.TriggerName())
	require.Equal(t, "1", tr.TriggerSeverity())
	require.Len(t, tr.TriggerActions(), 1)
}

func TestNewQueryLevelTriggerGeneratesID(t *testing.T) {
	condition := Script{Lang: ScriptLangPainless, Source: "1 == 1"}

	tr, err := NewQueryLevelTrigger("", "errors-present", "1", condition, nil)
	require.NoError(t, err)
	require.NotEmpty(t, tr.ID)
	require.Equal(t, []Action{}, tr.Actions)
}

func TestNewQueryLevelTriggerRejectsLang(t *testing.T) {
	condition := Script{Lang: "mustache", Source: "1 == 1"}

	_, err := NewQueryLevelTrigger("", "errors-present", "1", condition, nil)
	require.ErrorContains(t, err, ScriptLangPainless)
}

func TestNewQueryLevelTriggerRequiresFields(t *testing.T) {
	condition := Script{Lang: ScriptLangPainless, Source: "1 == 1"}

	_, err := NewQueryLevelTrigger("", "", "1", condition, nil)
	require.Error(t, err)

	_, err = NewQueryLevelTrigger("", "errors-present", "", condition, nil)
	require.Error(t, err)
}

func TestDocumentRoundtrip(t *testing.T) {
	tr := testTrigger(t)

	data, err := json.Marshal(tr)
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, tr, parsed)
}

func TestParseNamedAndLegacy(t *testing.T) {
	inner := `{
		"id": "trigger-1",
		"name": "errors-present",
		"severity": "1",
		"condition": {"script": {"source": "1 == 1", "lang": "painless"}},
		"actions": []
	}`

	named, err := ParseQueryLevelTrigger(fastjson.MustParse(inner))
	require.NoError(t, err)

	legacy, err := ParseQueryLevelTriggerLegacy(fastjson.MustParse(inner))
	require.NoError(t, err)

	require.Equal(t, named, legacy)
}

func TestParseGeneratesID(t *testing.T) {
	inner := `{
		"name": "errors-present",
		"severity": "1",
		"condition": {"script": {"source": "1 == 1", "lang": "painless"}}
	}`

	tr, err := ParseQueryLevelTrigger(fastjson.MustParse(inner))
	require.NoError(t, err)
	require.NotEmpty(t, tr.ID)
	require.Equal(t, []Action{}, tr.Actions, "actions should default to empty")
}

func TestParseMissingFields(t *testing.T) {
	condition := `{"script": {"source": "1 == 1", "lang": "painless"}}`

	_, err := ParseQueryLevelTrigger(fastjson.MustParse(`{"severity": "1", "condition": ` + condition + `}`))
	require.ErrorContains(t, err, "name")

	_, err = ParseQueryLevelTrigger(fastjson.MustParse(`{"name": "a", "condition": ` + condition + `}`))
	require.ErrorContains(t, err, "severity")

	_, err = ParseQueryLevelTrigger(fastjson.MustParse(`{"name": "a", "severity": "1"}`))
	require.ErrorContains(t, err, "condition")
}

func TestParseEmptyObject(t *testing.T) {
	_, err := ParseQueryLevelTrigger(fastjson.MustParse(`{}`))
	require.Error(t, err)
}

func TestParseRejectsLang(t *testing.T) {
	inner := `{
		"name": "errors-present",
		"severity": "1",
		"condition": {"script": {"source": "1 == 1", "lang": "mustache"}}
	}`

	_, err := ParseQueryLevelTrigger(fastjson.MustParse(inner))
	require.ErrorContains(t, err, ScriptLangPainless)
}

func TestParseSkipsUnknownFields(t *testing.T) {
	inner := `{
		"name": "errors-present",
		"severity": "1",
		"condition": {"script": {"source": "1 == 1", "lang": "painless"}},
		"some_future_field": {"a": [1, 2, 3]}
	}`

	_, err := ParseQueryLevelTrigger(fastjson.MustParse(inner))
	require.NoError(t, err)
}

func TestStreamRoundtrip(t *testing.T) {
	tr := testTrigger(t)

	buf := &bytes.Buffer{}

	w := stream.NewWriter(buf)
	require.NoError(t, tr.WriteTo(w))

	decoded, err := ReadQueryLevelTriggerFrom(stream.NewReader(buf))
	require.NoError(t, err)
	require.Equal(t, tr, decoded)
}

func TestTemplateArgs(t *testing.T) {
	tr := testTrigger(t)

	args := tr.TemplateArgs()
	require.Equal(t, "trigger-1", args["id"])
	require.Equal(t, "errors-present", args["name"])
	require.Equal(t, "1", args["severity"])
	require.NotContains(t, args, "condition")

	actions, ok := args["actions"].([]interface{})
	require.True(t, ok)
	require.Len(t, actions, 1)
}

func TestDispatcherUnknownKind(t *testing.T) {
	_, err := Parse([]byte(`{"document_level_trigger": {}}`))
	require.ErrorContains(t, err, "document_level_trigger")
}

func TestDispatcherInvalidDocuments(t *testing.T) {
	_, err := Parse([]byte(`42`))
	require.Error(t, err)

	_, err = Parse([]byte(`{`))
	require.Error(t, err)

	_, err = Parse([]byte(`{"query_level_trigger": {}, "foo": {}}`))
	require.ErrorContains(t, err, "single")
}
