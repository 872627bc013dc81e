package analytics

import (
	"math"
	"reflect"
)

// Sanitize walks a result structure and replaces every non-finite float
// (NaN, +Inf, -Inf) with zero. It runs once at the serialization boundary so
// individual computation sites never have to guard their own output.
func Sanitize(v interface{}) {
	sanitizeValue(reflect.ValueOf(v))
}

func sanitizeValue(v reflect.Value) {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if !v.IsNil() {
			sanitizeValue(v.Elem())
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			f := v.Field(i)
			if f.CanSet() {
				sanitizeValue(f)
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			sanitizeValue(v.Index(i))
		}
	case reflect.Map:
		for _, key := range v.MapKeys() {
			elem := v.MapIndex(key)
			if elem.Kind() == reflect.Float64 {
				if f := elem.Float(); math.IsNaN(f) || math.IsInf(f, 0) {
					v.SetMapIndex(key, reflect.ValueOf(0.0))
				}
			}
		}
	case reflect.Float32, reflect.Float64:
		if f := v.Float(); math.IsNaN(f) || math.IsInf(f, 0) {
			v.SetFloat(0)
		}
	}
}
