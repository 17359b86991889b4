package schema

import (
	"encoding/json"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// valueKind classifies a runtime value into the categories schemas talk about.
type valueKind int

const (
	valueNull valueKind = iota
	valueNumber
	valueString
	valueBoolean
	valueSequence
	valueRecord
	valueOther
)

var jsonNumberType = reflect.TypeOf(json.Number(""))

// inspect resolves pointers and interfaces and reports the kind of v along
// with the underlying reflect.Value.
func inspect(v any) (valueKind, reflect.Value) {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return valueNull, reflect.Value{}
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return valueNull, rv
	}
	if rv.Type() == jsonNumberType {
		return valueNumber, rv
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return valueNumber, rv
	case reflect.String:
		return valueString, rv
	case reflect.Bool:
		return valueBoolean, rv
	case reflect.Slice, reflect.Array:
		return valueSequence, rv
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return valueOther, rv
		}
		if rv.IsNil() {
			return valueNull, reflect.Value{}
		}
		return valueRecord, rv
	case reflect.Struct:
		return valueRecord, rv
	default:
		return valueOther, rv
	}
}

// record is a read-only view over a map or struct value.
type record interface {
	lookup(name string) (any, bool)
}

type mapRecord struct {
	rv reflect.Value
}

func (m mapRecord) lookup(name string) (any, bool) {
	key := reflect.ValueOf(name).Convert(m.rv.Type().Key())
	v := m.rv.MapIndex(key)
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}

type fieldsRecord map[string]any

func (f fieldsRecord) lookup(name string) (any, bool) {
	v, ok := f[name]
	return v, ok
}

// asRecord builds a record view. Structs are projected through their json
// tags, and the fields of embedded structs are promoted to the top level as
// encoding/json does.
func asRecord(rv reflect.Value) (record, bool) {
	if rv.Kind() == reflect.Map {
		return mapRecord{rv: rv}, true
	}

	fields := make(map[string]any, rv.NumField())
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Squash:  true,
		Result:  &fields,
	})
	if err != nil {
		return nil, false
	}
	if err := dec.Decode(rv.Interface()); err != nil {
		return nil, false
	}
	return fieldsRecord(fields), true
}
