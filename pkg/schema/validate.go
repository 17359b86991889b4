package schema

import (
	"fmt"
	"reflect"
)

// Result is the outcome of a single validation.
type Result struct {
	err ValidationError
}

// Success reports whether the value matched the schema.
func (r Result) Success() bool { return r.err == nil }

// Err returns the failure detail, or nil on success.
func (r Result) Err() ValidationError { return r.err }

// Description returns the flattened failure message, or "" on success.
func (r Result) Description() string {
	if r.err == nil {
		return ""
	}
	return r.err.Error()
}

// Validate checks value against s.
//
// It never mutates either argument and always returns the same Result for the
// same inputs. Objects report every failing property; arrays and unions
// report a single message describing the expected shape.
func Validate(s Schema, value any) Result {
	return Result{err: validate(s, value)}
}

// Check is Validate in error form: nil when value matches, otherwise the
// ValidationError.
func Check(s Schema, value any) error {
	if err := validate(s, value); err != nil {
		return err
	}
	return nil
}

func validate(s Schema, value any) ValidationError {
	kind, rv := inspect(value)

	switch t := s.(type) {
	case *NumberType:
		return expectKind(kind, valueNumber, t)
	case *StringType:
		return expectKind(kind, valueString, t)
	case *BooleanType:
		return expectKind(kind, valueBoolean, t)
	case *EnumType:
		if kind == valueString && t.contains(rv.String()) {
			return nil
		}
		return &Leaf{Description: "should be one of " + quoteJoin(t.values)}
	case *ArrayType:
		if kind == valueSequence && allElementsMatch(t.elem, rv) {
			return nil
		}
		return shouldBe(t)
	case *UnionType:
		for _, m := range t.members {
			if validate(m, value) == nil {
				return nil
			}
		}
		return shouldBe(t)
	case *ObjectType:
		if kind != valueRecord {
			return shouldBe(t)
		}
		rec, ok := asRecord(rv)
		if !ok {
			return shouldBe(t)
		}
		return validateProperties(t, rec)
	default:
		panic(fmt.Sprintf("schema: unknown schema type %T", s))
	}
}

func expectKind(got, want valueKind, s Schema) ValidationError {
	if got == want {
		return nil
	}
	return shouldBe(s)
}

func shouldBe(s Schema) *Leaf {
	return &Leaf{Description: "should be " + Describe(s)}
}

func allElementsMatch(elem Schema, rv reflect.Value) bool {
	for i := 0; i < rv.Len(); i++ {
		if validate(elem, rv.Index(i).Interface()) != nil {
			return false
		}
	}
	return true
}

func validateProperties(t *ObjectType, rec record) ValidationError {
	var errs PropertyErrors
	for _, p := range t.props {
		v, present := rec.lookup(p.Name)
		if !present {
			if !p.Optional {
				errs = append(errs, PropertyError{Name: p.Name, Err: &Leaf{Description: "should be provided"}})
			}
			continue
		}
		if err := validate(p.Schema, v); err != nil {
			errs = append(errs, PropertyError{Name: p.Name, Err: err})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
