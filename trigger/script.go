package trigger

import (
	"fmt"

	"github.com/alerthub/core/encoding/json"
	"github.com/alerthub/core/encoding/stream"

	"github.com/valyala/fastjson"
)

// ScriptLangPainless is the only scripting language trigger conditions
// may be written in.
const ScriptLangPainless = "painless"

// Script is an inline script with its language tag and parameters.
type Script struct {
	Lang   string                 `json:"lang"`
	Source string                 `json:"source"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// SourceDoc returns the document fragment of the script, keyed by
// "script".
func (s *Script) SourceDoc() map[string]interface{} {
	doc := map[string]interface{}{
		"source": s.Source,
		"lang":   s.Lang,
	}

	if len(s.Params) != 0 {
		doc["params"] = s.Params
	}

	return map[string]interface{}{"script": doc}
}

// ParseScript reads a script from a document value of the form
// {"script": {"source": ..., "lang": ..., "params": ...}}. A bare
// script object without the "script" wrapper is accepted as well.
func ParseScript(v *fastjson.Value) (Script, error) {
	if v == nil || v.Type() != fastjson.TypeObject {
		return Script{}, fmt.Errorf("expected a script object")
	}

	if inner := v.Get("script"); inner != nil {
		v = inner
	}

	script := Script{
		Lang: ScriptLangPainless,
	}

	source := v.Get("source")
	if source == nil {
		return Script{}, fmt.Errorf("script source is missing")
	}

	b, err := source.StringBytes()
	if err != nil {
		return Script{}, fmt.Errorf("script source: %w", err)
	}
	script.Source = string(b)

	if lang := v.Get("lang"); lang != nil {
		b, err := lang.StringBytes()
		if err != nil {
			return Script{}, fmt.Errorf("script lang: %w", err)
		}
		script.Lang = string(b)
	}

	if params := v.Get("params"); params != nil {
		data := params.MarshalTo(nil)

		var p map[string]interface{}
		if err := json.Unmarshal(data, &p); err != nil {
			return Script{}, fmt.Errorf("script params: %w", json.FormatError(data, err))
		}
		script.Params = p
	}

	return script, nil
}

// WriteTo writes the script to a stream writer. The parameters travel
// as a JSON document since their values are free-form.
func (s *Script) WriteTo(w *stream.Writer) error {
	w.WriteString(s.Lang)
	w.WriteString(s.Source)

	params, err := json.Marshal(s.Params)
	if err != nil {
		return err
	}
	w.WriteString(string(params))

	return w.Err()
}

// ReadScriptFrom reads a script from a stream reader.
func ReadScriptFrom(r *stream.Reader) (Script, error) {
	script := Script{}

	var err error
	if script.Lang, err = r.ReadString(); err != nil {
		return Script{}, err
	}
	if script.Source, err = r.ReadString(); err != nil {
		return Script{}, err
	}

	params, err := r.ReadString()
	if err != nil {
		return Script{}, err
	}

	if err := json.Unmarshal([]byte(params), &script.Params); err != nil {
		return Script{}, json.FormatError([]byte(params), err)
	}

	return script, nil
}
