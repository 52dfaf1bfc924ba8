package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a closed variant type for concept and relationship properties.
// The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	list []Value
	m    *Properties
}

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric Value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// List returns a list Value holding the given items.
func List(items ...Value) Value { return Value{kind: KindList, list: items} }

// Map returns a map Value wrapping the given properties.
func Map(p *Properties) Value { return Value{kind: KindMap, m: p} }

// Strings returns a list Value of string items.
func Strings(items ...string) Value {
	vs := make([]Value, len(items))
	for i, s := range items {
		vs[i] = String(s)
	}
	return List(vs...)
}

// Kind reports which variant the Value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the Value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string variant.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Num returns the numeric variant.
func (v Value) Num() (float64, bool) { return v.num, v.kind == KindNumber }

// Boolean returns the boolean variant.
func (v Value) Boolean() (bool, bool) { return v.b, v.kind == KindBool }

// Items returns the list variant.
func (v Value) Items() ([]Value, bool) { return v.list, v.kind == KindList }

// Mapping returns the map variant.
func (v Value) Mapping() (*Properties, bool) { return v.m, v.kind == KindMap }

// Interface converts the Value to a plain Go representation, suitable
// for logging or loose comparisons.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, v.m.Len())
		for _, key := range v.m.Keys() {
			item, _ := v.m.Get(key)
			out[key] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindList:
		return json.Marshal(v.list)
	case KindMap:
		return json.Marshal(v.m)
	default:
		return nil, fmt.Errorf("cannot marshal value of kind %s", v.kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler, inferring the variant from
// the JSON token.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty value")
	}

	switch data[0] {
	case 'n':
		*v = Value{}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
		return nil
	case '[':
		var items []Value
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*v = Value{kind: KindList, list: items}
		return nil
	case '{':
		p := NewProperties()
		if err := json.Unmarshal(data, p); err != nil {
			return err
		}
		*v = Map(p)
		return nil
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("invalid property value %q: %w", data, err)
		}
		*v = Number(n)
		return nil
	}
}

// UnmarshalYAML implements yaml.Unmarshaler for seed files.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!null":
			*v = Value{}
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return err
			}
			*v = Bool(b)
		case "!!int", "!!float":
			var n float64
			if err := node.Decode(&n); err != nil {
				return err
			}
			*v = Number(n)
		default:
			*v = String(node.Value)
		}
		return nil
	case yaml.SequenceNode:
		items := make([]Value, len(node.Content))
		for i, child := range node.Content {
			if err := items[i].UnmarshalYAML(child); err != nil {
				return err
			}
		}
		*v = Value{kind: KindList, list: items}
		return nil
	case yaml.MappingNode:
		p := NewProperties()
		if err := p.UnmarshalYAML(node); err != nil {
			return err
		}
		*v = Map(p)
		return nil
	default:
		return fmt.Errorf("unsupported YAML node kind %d for property value", node.Kind)
	}
}

// Properties is an ordered string-to-Value mapping. Key order is the
// insertion order and survives JSON and YAML round trips.
type Properties struct {
	om *orderedmap.OrderedMap[string, Value]
}

// NewProperties returns an empty property map.
func NewProperties() *Properties {
	return &Properties{om: orderedmap.New[string, Value]()}
}

// Set stores the value under key, appending the key on first insert.
// It returns the receiver so seed data can be built fluently.
func (p *Properties) Set(key string, v Value) *Properties {
	if p.om == nil {
		p.om = orderedmap.New[string, Value]()
	}
	p.om.Set(key, v)
	return p
}

// Get returns the value stored under key.
func (p *Properties) Get(key string) (Value, bool) {
	if p == nil || p.om == nil {
		return Value{}, false
	}
	return p.om.Get(key)
}

// Len returns the number of keys.
func (p *Properties) Len() int {
	if p == nil || p.om == nil {
		return 0
	}
	return p.om.Len()
}

// Keys returns the keys in insertion order.
func (p *Properties) Keys() []string {
	if p == nil || p.om == nil {
		return nil
	}
	keys := make([]string, 0, p.om.Len())
	for pair := p.om.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// MarshalJSON implements json.Marshaler.
func (p *Properties) MarshalJSON() ([]byte, error) {
	if p == nil || p.om == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p.om)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Properties) UnmarshalJSON(data []byte) error {
	p.om = orderedmap.New[string, Value]()
	return json.Unmarshal(data, p.om)
}

// UnmarshalYAML implements yaml.Unmarshaler, preserving mapping order.
func (p *Properties) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("properties must be a mapping, got YAML node kind %d", node.Kind)
	}
	p.om = orderedmap.New[string, Value]()
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key string
		if err := node.Content[i].Decode(&key); err != nil {
			return err
		}
		var v Value
		if err := v.UnmarshalYAML(node.Content[i+1]); err != nil {
			return fmt.Errorf("property %q: %w", key, err)
		}
		p.om.Set(key, v)
	}
	return nil
}
