package utils

import (
	"reflect"
	"strings"
)

// NormalizeDTO trims strings and rounds float64 amounts to cents on a
// pointer-to-struct DTO. Pointer fields are followed when non-nil, so nil
// stays nil and partial updates keep their shape. A field tagged
// `normalize:"lower"` is also lowercased; `normalize:"-"` is left alone.
func NormalizeDTO(dto any) {
	v := reflect.ValueOf(dto)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return
	}
	s := v.Elem()
	if s.Kind() != reflect.Struct {
		return
	}
	t := s.Type()
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		tag := t.Field(i).Tag.Get("normalize")
		if !f.CanSet() || tag == "-" {
			continue
		}
		if f.Kind() == reflect.Ptr {
			if f.IsNil() {
				continue
			}
			f = f.Elem()
		}
		switch f.Kind() {
		case reflect.String:
			val := strings.TrimSpace(f.String())
			if tag == "lower" {
				val = strings.ToLower(val)
			}
			f.SetString(val)
		case reflect.Float64:
			f.SetFloat(Round2(f.Float()))
		}
	}
}
