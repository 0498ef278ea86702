package interpolation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

const tagName = "env_interpolation"

// InterpolateStruct expands environment references in fields tagged `env_interpolation:"yes"`.
// The struct is modified in place. Tagged fields may be strings, string slices, maps with string
// values, or structs (and maps, slices, or pointers of structs) whose own tagged fields are expanded.
func InterpolateStruct(v any) error {
	if v == nil {
		return nil
	}

	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr {
		return fmt.Errorf("expected pointer to struct, got %T", v)
	}
	if val.IsNil() {
		return nil
	}
	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("expected pointer to struct, got %T", v)
	}

	return interpolateFields(val)
}

func interpolateFields(val reflect.Value) error {
	typ := val.Type()
	var errs []error

	for i := range val.NumField() {
		field := val.Field(i)
		fieldType := typ.Field(i)
		if !field.CanSet() || !strings.EqualFold(fieldType.Tag.Get(tagName), "yes") {
			continue
		}
		if err := interpolateValue(field); err != nil {
			errs = append(errs, fmt.Errorf("field %s%w", fieldType.Name, err))
		}
	}

	return errors.Join(errs...)
}

// interpolateValue walks one tagged value. Errors are prefixed with the
// index path so the caller can complete "field Name[...]: cause".
func interpolateValue(v reflect.Value) error {
	switch v.Kind() {
	case reflect.String:
		if v.String() == "" {
			return nil
		}
		out, err := ExpandEnvVars(v.String())
		if err != nil {
			return fmt.Errorf(": %w", err)
		}
		v.SetString(out)

	case reflect.Struct:
		if err := interpolateFields(v); err != nil {
			return fmt.Errorf(": %w", err)
		}

	case reflect.Ptr:
		if v.IsNil() || v.Elem().Kind() != reflect.Struct {
			return nil
		}
		return interpolateValue(v.Elem())

	case reflect.Slice:
		var errs []error
		for j := range v.Len() {
			if err := interpolateValue(v.Index(j)); err != nil {
				errs = append(errs, fmt.Errorf("[%d]%w", j, err))
			}
		}
		return joinPrefixed(errs)

	case reflect.Map:
		if v.IsNil() || v.Type().Key().Kind() != reflect.String {
			return nil
		}
		var errs []error
		iter := v.MapRange()
		for iter.Next() {
			// map elements are not addressable; work on a copy
			elem := reflect.New(iter.Value().Type()).Elem()
			elem.Set(iter.Value())
			if err := interpolateValue(elem); err != nil {
				errs = append(errs, fmt.Errorf("[%s]%w", iter.Key().String(), err))
				continue
			}
			v.SetMapIndex(iter.Key(), elem)
		}
		return joinPrefixed(errs)
	}
	return nil
}

// joinPrefixed keeps each element error attached to the field name by the caller.
func joinPrefixed(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return fmt.Errorf(": %w", errors.Join(errs...))
}
