// Package trigger implements the alerting trigger model: the named
// condition a monitor evaluates its input results against, together
// with the actions that run when it fires.
//
// Trigger variants are registered by their document kind. The document
// form of a trigger is a single-key object whose key names the variant,
// e.g. {"query_level_trigger": {...}}.
package trigger

import (
	"fmt"
	"sync"

	"github.com/alerthub/core/encoding/stream"

	"github.com/valyala/fastjson"
)

// Trigger is the common capability of all trigger variants.
type Trigger interface {
	// Kind returns the document key of the trigger variant.
	Kind() string

	TriggerID() string
	TriggerName() string
	TriggerSeverity() string
	TriggerActions() []Action

	// SourceDoc returns the document form of the trigger, wrapped in
	// its kind key.
	SourceDoc() map[string]interface{}

	// WriteTo writes the trigger to a stream writer. The kind is not
	// part of the encoding, readers have to know what they expect.
	WriteTo(w *stream.Writer) error

	// TemplateArgs returns the trigger's projection for variable
	// substitution in message templates.
	TemplateArgs() map[string]interface{}
}

// ParseFunc parses a trigger variant from the inner document value,
// i.e. the value of the kind key.
type ParseFunc func(v *fastjson.Value) (Trigger, error)

var (
	kindsLock sync.RWMutex
	kinds     = map[string]ParseFunc{}
)

// RegisterKind registers a parser for a trigger kind. Registering the
// same kind twice panics, that's a programming error.
func RegisterKind(kind string, fn ParseFunc) {
	kindsLock.Lock()
	defer kindsLock.Unlock()

	if _, ok := kinds[kind]; ok {
		panic(fmt.Sprintf("trigger kind '%s' is already registered", kind))
	}

	kinds[kind] = fn
}

var parserPool fastjson.ParserPool

// Parse parses a trigger document. The single key of the object decides
// which registered variant parser is consulted.
func Parse(data []byte) (Trigger, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("invalid trigger document: %w", err)
	}

	obj, err := v.Object()
	if err != nil {
		return nil, fmt.Errorf("invalid trigger document: %w", err)
	}

	if obj.Len() != 1 {
		return nil, fmt.Errorf("expected a single trigger kind, got %d keys", obj.Len())
	}

	var kind string
	var inner *fastjson.Value

	obj.Visit(func(key []byte, value *fastjson.Value) {
		kind = string(key)
		inner = value
	})

	kindsLock.RLock()
	fn, ok := kinds[kind]
	kindsLock.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown trigger kind '%s'", kind)
	}

	return fn(inner)
}
