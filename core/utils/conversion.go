package utils

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// ErrUnrenderable is returned by SQLText for values with no textual form.
var ErrUnrenderable = errors.New("value has no textual form")

// ToString converts various types to string.
func ToString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// SQLText casts val to the string that is written into a SQL literal.
// The boolean result reports SQL NULL: nil, nil pointers, NaN and
// driver.Valuer values resolving to nil are all null.
func SQLText(val any) (string, bool, error) {
	if val == nil {
		return "", true, nil
	}

	if valuer, ok := val.(driver.Valuer); ok {
		rv := reflect.ValueOf(val)
		if rv.Kind() == reflect.Ptr && rv.IsNil() {
			return "", true, nil
		}
		inner, err := valuer.Value()
		if err != nil {
			return "", false, fmt.Errorf("%w: %v", ErrUnrenderable, err)
		}
		return SQLText(inner)
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return "", true, nil
		}
		return SQLText(rv.Elem().Interface())
	case reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Complex64, reflect.Complex128:
		switch v := val.(type) {
		case []byte:
			return string(v), false, nil
		case time.Time:
			return ToString(v), false, nil
		case fmt.Stringer:
			return v.String(), false, nil
		}
		return "", false, fmt.Errorf("%w: %T", ErrUnrenderable, val)
	case reflect.Float32, reflect.Float64:
		if math.IsNaN(rv.Float()) {
			return "", true, nil
		}
	}

	return ToString(val), false, nil
}
