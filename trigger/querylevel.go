package trigger

import (
	"fmt"

	"github.com/alerthub/core/encoding/json"
	"github.com/alerthub/core/encoding/stream"

	"github.com/go-playground/validator/v10"
	"github.com/lithammer/shortuuid/v4"
	"github.com/valyala/fastjson"
)

// KindQueryLevel is the document key of query-level triggers.
const KindQueryLevel = "query_level_trigger"

func init() {
	RegisterKind(KindQueryLevel, func(v *fastjson.Value) (Trigger, error) {
		return ParseQueryLevelTrigger(v)
	})
}

var validate = validator.New()

// QueryLevelTrigger evaluates a condition script against the results of
// a monitor's input query. It is immutable once constructed.
type QueryLevelTrigger struct {
	ID        string   `json:"id"`
	Name      string   `json:"name" validate:"required"`
	Severity  string   `json:"severity" validate:"required"`
	Condition Script   `json:"condition"`
	Actions   []Action `json:"actions"`
}

// NewQueryLevelTrigger constructs a query-level trigger. The condition
// has to be a painless script, anything else is rejected. A blank id is
// replaced with a freshly generated one.
func NewQueryLevelTrigger(id, name, severity string, condition Script, actions []Action) (*QueryLevelTrigger, error) {
	if condition.Lang != ScriptLangPainless {
		return nil, fmt.Errorf("invalid script language '%s', trigger conditions must be written in %s", condition.Lang, ScriptLangPainless)
	}

	if len(id) == 0 {
		id = shortuuid.New()
	}

	if actions == nil {
		actions = []Action{}
	}

	t := &QueryLevelTrigger{
		ID:        id,
		Name:      name,
		Severity:  severity,
		Condition: condition,
		Actions:   actions,
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// Validate checks the constraints on the trigger fields.
func (t *QueryLevelTrigger) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("invalid trigger: %w", err)
	}

	return nil
}

func (t *QueryLevelTrigger) Kind() string {
	return KindQueryLevel
}

func (t *QueryLevelTrigger) TriggerID() string {
	return t.ID
}

func (t *QueryLevelTrigger) TriggerName() string {
	return t.Name
}

func (t *QueryLevelTrigger) TriggerSeverity() string {
	return t.Severity
}

func (t *QueryLevelTrigger) TriggerActions() []Action {
	return t.Actions
}

// SourceDoc returns the document form of the trigger:
//
//	{"query_level_trigger": {"id": ..., "name": ..., "severity": ...,
//	 "condition": {"script": ...}, "actions": [...]}}
func (t *QueryLevelTrigger) SourceDoc() map[string]interface{} {
	actions := make([]interface{}, 0, len(t.Actions))
	for i := range t.Actions {
		actions = append(actions, t.Actions[i].SourceDoc())
	}

	return map[string]interface{}{
		KindQueryLevel: map[string]interface{}{
			"id":        t.ID,
			"name":      t.Name,
			"severity":  t.Severity,
			"condition": t.Condition.SourceDoc(),
			"actions":   actions,
		},
	}
}

func (t *QueryLevelTrigger) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.SourceDoc())
}

// TemplateArgs returns the trigger's projection for variable
// substitution. The condition is not part of it.
func (t *QueryLevelTrigger) TemplateArgs() map[string]interface{} {
	actions := make([]interface{}, 0, len(t.Actions))
	for i := range t.Actions {
		actions = append(actions, t.Actions[i].TemplateArgs())
	}

	return map[string]interface{}{
		"id":       t.ID,
		"name":     t.Name,
		"severity": t.Severity,
		"actions":  actions,
	}
}

// ParseQueryLevelTrigger parses the current document form. The value is
// the inner object of the "query_level_trigger" key.
func ParseQueryLevelTrigger(v *fastjson.Value) (*QueryLevelTrigger, error) {
	return parseQueryLevelFields(v)
}

// ParseQueryLevelTriggerLegacy parses the legacy document form where
// the trigger fields appear directly in an unwrapped object.
func ParseQueryLevelTriggerLegacy(v *fastjson.Value) (*QueryLevelTrigger, error) {
	return parseQueryLevelFields(v)
}

// parseQueryLevelFields is the shared field loop of both document
// forms. Unknown fields are skipped for forward compatibility.
func parseQueryLevelFields(v *fastjson.Value) (*QueryLevelTrigger, error) {
	if v == nil || v.Type() != fastjson.TypeObject {
		return nil, fmt.Errorf("expected a trigger object")
	}

	var (
		id        string
		name      *string
		severity  *string
		condition *Script
		actions   = []Action{}
		parseErr  error
	)

	v.GetObject().Visit(func(key []byte, value *fastjson.Value) {
		if parseErr != nil {
			return
		}

		switch string(key) {
		case "id":
			id = string(value.GetStringBytes())
		case "name":
			s := string(value.GetStringBytes())
			name = &s
		case "severity":
			s := string(value.GetStringBytes())
			severity = &s
		case "condition":
			script, err := ParseScript(value)
			if err != nil {
				parseErr = fmt.Errorf("trigger condition: %w", err)
				return
			}
			if script.Lang != ScriptLangPainless {
				parseErr = fmt.Errorf("invalid script language '%s', trigger conditions must be written in %s", script.Lang, ScriptLangPainless)
				return
			}
			condition = &script
		case "actions":
			values, err := value.Array()
			if err != nil {
				parseErr = fmt.Errorf("trigger actions: %w", err)
				return
			}
			for _, av := range values {
				action, err := ParseAction(av)
				if err != nil {
					parseErr = fmt.Errorf("trigger actions: %w", err)
					return
				}
				actions = append(actions, action)
			}
		default:
			// Unknown fields from newer writers are skipped.
		}
	})

	if parseErr != nil {
		return nil, parseErr
	}

	if name == nil {
		return nil, fmt.Errorf("trigger name is missing")
	}

	if severity == nil {
		return nil, fmt.Errorf("trigger severity is missing")
	}

	if condition == nil {
		return nil, fmt.Errorf("trigger condition is missing")
	}

	return NewQueryLevelTrigger(id, *name, *severity, *condition, actions)
}

// WriteTo writes the trigger to a stream writer. The field order is a
// strict contract with ReadQueryLevelTriggerFrom.
func (t *QueryLevelTrigger) WriteTo(w *stream.Writer) error {
	w.WriteString(t.ID)
	w.WriteString(t.Name)
	w.WriteString(t.Severity)

	if err := stream.WriteList(w, actionWritables(t.Actions)); err != nil {
		return err
	}

	return t.Condition.WriteTo(w)
}

// ReadQueryLevelTriggerFrom reads a trigger from a stream reader.
func ReadQueryLevelTriggerFrom(r *stream.Reader) (*QueryLevelTrigger, error) {
	id, err := r.ReadString()
	if err != nil {
		return nil, err
	}

	name, err := r.ReadString()
	if err != nil {
		return nil, err
	}

	severity, err := r.ReadString()
	if err != nil {
		return nil, err
	}

	actions, err := stream.ReadList(r, ReadActionFrom)
	if err != nil {
		return nil, err
	}

	condition, err := ReadScriptFrom(r)
	if err != nil {
		return nil, err
	}

	return NewQueryLevelTrigger(id, name, severity, condition, actions)
}

func actionWritables(actions []Action) []*Action {
	w := make([]*Action, 0, len(actions))
	for i := range actions {
		w = append(w, &actions[i])
	}

	return w
}
