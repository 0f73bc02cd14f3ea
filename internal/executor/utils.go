package executor

import (
	"fmt"
	"reflect"
)

// formatValueForLogs renders a (possibly pointer-to-struct) value compactly
// for debug logging.
func formatValueForLogs(v any) string {
	if v == nil {
		return "<nil>"
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return "<nil>"
		}
		rv = rv.Elem()
	}
	return fmt.Sprintf("%+v", rv.Interface())
}
