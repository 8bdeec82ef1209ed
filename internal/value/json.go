package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// MarshalJSON implements json.Marshaler so a *Value can be serialized with
// the standard library directly, preserving object key insertion order
// (encoding/json.Marshal on a plain map would sort keys alphabetically).
func (v *Value) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		if v.boolVal {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		return json.Marshal(v.b)
	case KindString:
		return json.Marshal(v.s)
	case KindArray:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, e := range v.a {
			if i > 0 {
				buf.WriteByte(',')
			}
			eb, err := e.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(eb)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindObject:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range v.objKeys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			vb, err := v.objEntries[k].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(vb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case KindLambda:
		return nil, fmt.Errorf("cannot serialize a lambda value to JSON")
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler, decoding through json.Number so
// that whole numbers stay integers and fractional numbers become floats,
// via decoder.UseNumber().
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected trailing data after JSON value")
	}
	parsed := FromGo(raw)
	*v = *parsed
	return nil
}

// FromGo converts a decoded encoding/json value (as produced by a decoder
// with UseNumber enabled) into a Value tree.
func FromGo(data interface{}) *Value {
	switch v := data.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return Int(i)
		}
		f, _ := v.Float64()
		return Float(f)
	case float64:
		return Float(v)
	case string:
		return String(v)
	case []interface{}:
		elems := make([]*Value, len(v))
		for i, e := range v {
			elems[i] = FromGo(e)
		}
		return NewArray(elems)
	case map[string]interface{}:
		obj := NewObject()
		for k, val := range v {
			obj.ObjectSet(k, FromGo(val))
		}
		return obj
	default:
		return Null()
	}
}

// ParseJSON decodes a JSON document into a Value, preserving int/float
// distinction via json.Number.
func ParseJSON(data []byte) (*Value, error) {
	v := &Value{}
	if err := v.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return v, nil
}

// MarshalWrapped renders v as JSON the way a Computo result is published on
// the wire: every array, at any nesting depth, is written as
// {"<arrayKey>": [...]} rather than a bare JSON array. A bare array in
// script position is ambiguous with a call form (its first element might be
// a string), so any value that could legally be fed back in as a script
// must always carry the disambiguating wrapper. This is an output-encoding
// step only; the in-memory Value tree (and MarshalJSON, used for $input
// documents and other plain-JSON concerns) keeps arrays bare.
func MarshalWrapped(v *Value, arrayKey string) ([]byte, error) {
	if arrayKey == "" {
		arrayKey = "array"
	}
	var buf bytes.Buffer
	if err := writeWrapped(&buf, v, arrayKey); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeWrapped(buf *bytes.Buffer, v *Value, arrayKey string) error {
	if v == nil {
		buf.WriteString("null")
		return nil
	}
	switch v.kind {
	case KindArray:
		buf.WriteByte('{')
		kb, err := json.Marshal(arrayKey)
		if err != nil {
			return err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.WriteByte('[')
		for i, e := range v.a {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeWrapped(buf, e, arrayKey); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		buf.WriteByte('}')
		return nil
	case KindObject:
		buf.WriteByte('{')
		for i, k := range v.objKeys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := writeWrapped(buf, v.objEntries[k], arrayKey); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		b, err := v.MarshalJSON()
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
}
