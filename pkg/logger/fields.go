package logger

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Field attaches one typed key/value pair to a log event.
type Field interface {
	AddTo(event *zerolog.Event)
}

type fieldFunc func(event *zerolog.Event)

func (f fieldFunc) AddTo(event *zerolog.Event) { f(event) }

// String adds a string field.
func String(key, value string) Field {
	return fieldFunc(func(e *zerolog.Event) { e.Str(key, value) })
}

// Int adds an int field.
func Int(key string, value int) Field {
	return fieldFunc(func(e *zerolog.Event) { e.Int(key, value) })
}

// Float64 adds a float field.
func Float64(key string, value float64) Field {
	return fieldFunc(func(e *zerolog.Event) { e.Float64(key, value) })
}

// Bool adds a bool field.
func Bool(key string, value bool) Field {
	return fieldFunc(func(e *zerolog.Event) { e.Bool(key, value) })
}

// Error adds the error under the "error" key.
func Error(err error) Field {
	return fieldFunc(func(e *zerolog.Event) { e.Err(err) })
}

// Any adds an arbitrarily-typed field.
func Any(key string, value any) Field {
	return fieldFunc(func(e *zerolog.Event) { e.Interface(key, value) })
}

// Duration adds a duration field in zerolog's duration unit (milliseconds).
func Duration(key string, value time.Duration) Field {
	return fieldFunc(func(e *zerolog.Event) { e.Dur(key, value) })
}

// Strings adds a slice as a single comma-separated field.
func Strings(key string, value []string) Field {
	return String(key, strings.Join(value, ", "))
}
