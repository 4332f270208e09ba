// Package schema declares the shape of every API resource and validates
// raw response payloads against those shapes before they are decoded into
// typed entities. Validation operates on the raw JSON directly so the
// original payload can be kept verbatim on each entity.
package schema

import (
	"strconv"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
)

type FieldType int

const (
	String FieldType = iota
	Int
	Bool
	List
)

func (t FieldType) String() string {
	switch t {
	case String:
		return "string"
	case Int:
		return "integer"
	case Bool:
		return "boolean"
	case List:
		return "list"
	}
	return "unknown"
}

// Field declares one payload field. List fields validate every element
// against Elem.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
	Elem     *Definition
}

// Definition is the declared shape of one resource. Normalize, when set,
// rewrites the wire payload before validation; it also runs for every
// element when the definition is used as a list element shape.
type Definition struct {
	Model     string
	Fields    []Field
	Normalize func([]byte) []byte
}

// Validate checks raw against the definition. Strict mode (lenient=false)
// rejects payload fields that are not declared; lenient mode ignores them.
// A missing required field or a type mismatch is an error naming the model
// and the field.
func (d *Definition) Validate(raw []byte, lenient bool) error {
	if d.Normalize != nil {
		raw = d.Normalize(raw)
	}
	declared := make(map[string]*Field, len(d.Fields))
	for i := range d.Fields {
		declared[d.Fields[i].Name] = &d.Fields[i]
	}

	seen := make(map[string]bool, len(d.Fields))
	err := jsonparser.ObjectEach(raw, func(key, value []byte, vt jsonparser.ValueType, _ int) error {
		name := string(key)
		f, ok := declared[name]
		if !ok {
			if lenient {
				return nil
			}
			return errors.Errorf("%v: unknown field %q", d.Model, name)
		}
		if vt == jsonparser.Null {
			return nil
		}
		seen[name] = true
		return f.check(d.Model, value, vt, lenient)
	})
	if err != nil {
		return err
	}

	for i := range d.Fields {
		f := &d.Fields[i]
		if f.Required && !seen[f.Name] {
			return errors.Errorf("%v: field %q is required", d.Model, f.Name)
		}
	}
	return nil
}

func (f *Field) check(model string, value []byte, vt jsonparser.ValueType, lenient bool) error {
	switch f.Type {
	case String:
		if vt != jsonparser.String {
			return f.mismatch(model, vt)
		}
	case Int:
		if vt != jsonparser.Number {
			return f.mismatch(model, vt)
		}
		if _, err := strconv.ParseInt(string(value), 10, 64); err != nil {
			return f.mismatch(model, vt)
		}
	case Bool:
		if vt != jsonparser.Boolean {
			return f.mismatch(model, vt)
		}
	case List:
		if vt != jsonparser.Array {
			return f.mismatch(model, vt)
		}
		var elemErr error
		if _, err := jsonparser.ArrayEach(value, func(item []byte, ivt jsonparser.ValueType, _ int, _ error) {
			if elemErr != nil {
				return
			}
			if ivt != jsonparser.Object {
				elemErr = errors.Errorf("%v: field %q elements must be objects, got %v", model, f.Name, ivt)
				return
			}
			elemErr = f.Elem.Validate(item, lenient)
		}); err != nil {
			return errors.Wrapf(err, "%v: field %q", model, f.Name)
		}
		return elemErr
	}
	return nil
}

func (f *Field) mismatch(model string, got jsonparser.ValueType) error {
	return errors.Errorf("%v: field %q must be %v, got %v", model, f.Name, f.Type, got)
}
