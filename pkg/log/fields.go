package log

import "time"

// Field is one structured key/value pair.
type Field struct {
	Key   string
	Value interface{}
}

// F builds an arbitrary field.
func F(key string, value interface{}) Field { return Field{Key: key, Value: value} }

// Str builds a string field.
func Str(key, value string) Field { return Field{Key: key, Value: value} }

// Int builds an int field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Int64 builds an int64 field.
func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }

// Uint64 builds a uint64 field.
func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }

// Bool builds a bool field.
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Duration records d in its String form.
func Duration(key string, d time.Duration) Field { return Field{Key: key, Value: d.String()} }

// Err records err.Error() under the "error" key; nil errors are recorded as
// an empty string.
func Err(err error) Field {
	if err == nil {
		return Field{Key: ErrorKey, Value: ""}
	}
	return Field{Key: ErrorKey, Value: err.Error()}
}

// Component tags the emitting component.
func Component(name string) Field { return Field{Key: ComponentKey, Value: name} }
