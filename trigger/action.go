package trigger

import (
	"fmt"

	"github.com/alerthub/core/encoding/stream"

	"github.com/lithammer/shortuuid/v4"
	"github.com/valyala/fastjson"
)

// Action describes a response to a firing trigger, typically a message
// sent to a destination.
type Action struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	DestinationID   string  `json:"destination_id"`
	SubjectTemplate *Script `json:"subject_template,omitempty"`
	MessageTemplate Script  `json:"message_template"`
	ThrottleEnabled bool    `json:"throttle_enabled"`
}

// SourceDoc returns the document form of the action.
func (a *Action) SourceDoc() map[string]interface{} {
	doc := map[string]interface{}{
		"id":               a.ID,
		"name":             a.Name,
		"destination_id":   a.DestinationID,
		"message_template": a.MessageTemplate.SourceDoc()["script"],
		"throttle_enabled": a.ThrottleEnabled,
	}

	if a.SubjectTemplate != nil {
		doc["subject_template"] = a.SubjectTemplate.SourceDoc()["script"]
	}

	return doc
}

// TemplateArgs returns the action's projection for variable
// substitution in message templates.
func (a *Action) TemplateArgs() map[string]interface{} {
	return map[string]interface{}{
		"id":             a.ID,
		"name":           a.Name,
		"destination_id": a.DestinationID,
	}
}

// ParseAction reads an action from a document value. A missing id is
// replaced with a freshly generated one.
func ParseAction(v *fastjson.Value) (Action, error) {
	if v == nil || v.Type() != fastjson.TypeObject {
		return Action{}, fmt.Errorf("expected an action object")
	}

	action := Action{}

	var messageSeen bool
	var parseErr error

	v.GetObject().Visit(func(key []byte, value *fastjson.Value) {
		if parseErr != nil {
			return
		}

		switch string(key) {
		case "id":
			action.ID = string(value.GetStringBytes())
		case "name":
			action.Name = string(value.GetStringBytes())
		case "destination_id":
			action.DestinationID = string(value.GetStringBytes())
		case "subject_template":
			script, err := ParseScript(value)
			if err != nil {
				parseErr = fmt.Errorf("subject_template: %w", err)
				return
			}
			action.SubjectTemplate = &script
		case "message_template":
			script, err := ParseScript(value)
			if err != nil {
				parseErr = fmt.Errorf("message_template: %w", err)
				return
			}
			action.MessageTemplate = script
			messageSeen = true
		case "throttle_enabled":
			action.ThrottleEnabled = value.GetBool()
		default:
			// Unknown fields from newer writers are skipped.
		}
	})

	if parseErr != nil {
		return Action{}, parseErr
	}

	if len(action.Name) == 0 {
		return Action{}, fmt.Errorf("action name is missing")
	}

	if len(action.DestinationID) == 0 {
		return Action{}, fmt.Errorf("action destination_id is missing")
	}

	if !messageSeen {
		return Action{}, fmt.Errorf("action message_template is missing")
	}

	if len(action.ID) == 0 {
		action.ID = shortuuid.New()
	}

	return action, nil
}

// WriteTo writes the action to a stream writer.
func (a *Action) WriteTo(w *stream.Writer) error {
	w.WriteString(a.ID)
	w.WriteString(a.Name)
	w.WriteString(a.DestinationID)

	if a.SubjectTemplate != nil {
		w.WriteBool(true)
		if err := a.SubjectTemplate.WriteTo(w); err != nil {
			return err
		}
	} else {
		w.WriteBool(false)
	}

	if err := a.MessageTemplate.WriteTo(w); err != nil {
		return err
	}

	w.WriteBool(a.ThrottleEnabled)

	return w.Err()
}

// ReadActionFrom reads an action from a stream reader.
func ReadActionFrom(r *stream.Reader) (Action, error) {
	action := Action{}

	var err error
	if action.ID, err = r.ReadString(); err != nil {
		return Action{}, err
	}
	if action.Name, err = r.ReadString(); err != nil {
		return Action{}, err
	}
	if action.DestinationID, err = r.ReadString(); err != nil {
		return Action{}, err
	}

	hasSubject, err := r.ReadBool()
	if err != nil {
		return Action{}, err
	}

	if hasSubject {
		script, err := ReadScriptFrom(r)
		if err != nil {
			return Action{}, err
		}
		action.SubjectTemplate = &script
	}

	if action.MessageTemplate, err = ReadScriptFrom(r); err != nil {
		return Action{}, err
	}

	if action.ThrottleEnabled, err = r.ReadBool(); err != nil {
		return Action{}, err
	}

	return action, nil
}
