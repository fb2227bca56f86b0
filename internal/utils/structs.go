package utils

import (
	"fmt"
	"reflect"
)

// ColumnTag is the struct tag the store layer maps columns with.
var ColumnTag = "db"

// StructTagValues lists the column names of a row struct, skipping
// unexported and untagged fields.
func StructTagValues(input any) []string {
	value := structValue(input)
	valueType := value.Type()

	result := make([]string, 0, value.NumField())
	for i := 0; i < value.NumField(); i++ {
		column := columnName(valueType.Field(i))
		if column == "" {
			continue
		}

		result = append(result, column)
	}

	return result
}

// StructToMap flattens a row struct into a column-to-value map, shaped
// for squirrel's SetMap.
func StructToMap(input any) map[string]any {
	value := structValue(input)
	valueType := value.Type()

	result := make(map[string]any, value.NumField())
	for i := 0; i < value.NumField(); i++ {
		column := columnName(valueType.Field(i))
		if column == "" {
			continue
		}

		result[column] = value.Field(i).Interface()
	}

	return result
}

func structValue(input any) reflect.Value {
	value := reflect.ValueOf(input)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}

	if value.Kind() != reflect.Struct {
		panic("input must be a struct or a pointer to one")
	}

	return value
}

func columnName(field reflect.StructField) string {
	if field.PkgPath != "" {
		return ""
	}

	column := field.Tag.Get(ColumnTag)
	if column == "-" {
		return ""
	}

	return column
}

// ErrorWrapOrNil wraps err with msg, passing a nil error straight through
// so store calls can return it unconditionally.
func ErrorWrapOrNil(err error, msg string) error {
	if err == nil {
		return nil
	}

	if msg == "" {
		return err
	}

	return fmt.Errorf("%s: %w", msg, err)
}
