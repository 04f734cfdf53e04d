package unreal

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const jsonIndent = "    "

// Object is a JSON object that keeps its keys in file order, so that
// editing one field of a .uproject or .uplugin leaves the rest of the
// document recognisable.
type Object struct {
	keys   []string
	values map[string]json.RawMessage
}

// NewObject returns an empty object
func NewObject() *Object {
	return &Object{values: map[string]json.RawMessage{}}
}

// ParseObject decodes a top-level JSON object
func ParseObject(data []byte) (*Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object")
	}

	obj := NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected an object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("value of %q: %w", key, err)
		}
		if _, dup := obj.values[key]; !dup {
			obj.keys = append(obj.keys, key)
		}
		obj.values[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

// Keys returns the keys in order
func (o *Object) Keys() []string {
	return o.keys
}

// Has reports whether key is present
func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Get decodes the value of key into v. It returns false if key is absent.
func (o *Object) Get(key string, v interface{}) (bool, error) {
	raw, ok := o.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

// Set stores v under key, keeping the key's position if it already exists
func (o *Object) Set(key string, v interface{}) error {
	raw, err := marshal(v)
	if err != nil {
		return err
	}
	o.SetRaw(key, raw)
	return nil
}

// SetRaw stores an already encoded value
func (o *Object) SetRaw(key string, raw json.RawMessage) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = raw
}

// Delete removes key and reports whether it was present
func (o *Object) Delete(key string) bool {
	if _, ok := o.values[key]; !ok {
		return false
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// MarshalJSON renders the object with four-space indentation
func (o *Object) MarshalJSON() ([]byte, error) {
	if len(o.keys) == 0 {
		return []byte("{}"), nil
	}
	var b bytes.Buffer
	b.WriteString("{\n")
	for i, key := range o.keys {
		k, err := marshal(key)
		if err != nil {
			return nil, err
		}
		b.WriteString(jsonIndent)
		b.Write(k)
		b.WriteString(": ")
		if err := json.Indent(&b, o.values[key], jsonIndent, jsonIndent); err != nil {
			return nil, fmt.Errorf("value of %q: %w", key, err)
		}
		if i < len(o.keys)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.Bytes(), nil
}

func marshal(v interface{}) ([]byte, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(b.Bytes(), "\n"), nil
}

func marshalIndent(v interface{}) ([]byte, error) {
	raw, err := marshal(v)
	if err != nil {
		return nil, err
	}
	var b bytes.Buffer
	if err := json.Indent(&b, raw, "", jsonIndent); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
