package utils

import (
	"reflect"
	"strings"

	"gorm.io/gorm/schema"
)

var columnNamer = schema.NamingStrategy{}

// UpdatesFromPtrDTO builds a column->value map from the non-nil pointer
// fields of a DTO, suitable for gorm's Updates. Column names come from the
// json tag run through gorm's naming strategy ("contactNumber" becomes
// "contact_number"); renames overrides that per json name.
func UpdatesFromPtrDTO(dto any, renames map[string]string) map[string]any {
	res := make(map[string]any)
	v := reflect.ValueOf(dto)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return res
	}
	s := v.Elem()
	if s.Kind() != reflect.Struct {
		return res
	}
	t := s.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fv := s.Field(i)
		if fv.Kind() != reflect.Ptr || fv.IsNil() {
			continue
		}
		jsonTag := sf.Tag.Get("json")
		if jsonTag == "" || jsonTag == "-" {
			continue
		}
		name := strings.Split(jsonTag, ",")[0]
		column := columnNamer.ColumnName("", name)
		if alt, ok := renames[name]; ok && alt != "" {
			column = alt
		}
		res[column] = fv.Elem().Interface()
	}
	return res
}
