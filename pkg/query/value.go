package query

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind int

// Supported value kinds.
const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
)

// String returns the type tag reported for named parameters.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// TimeLayout is the text form used for time.Time values.
const TimeLayout = "2006-01-02 15:04:05.999999"

// Value is a condition value. The zero Value is NULL.
type Value struct {
	kind  Kind
	str   string
	num   float64
	isInt bool
	i     int64
	b     bool
	list  []Value
}

// Null returns the NULL value.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int returns an integral number value.
func Int(i int64) Value { return Value{kind: KindNumber, isInt: true, i: i} }

// Float returns a floating point number value.
func Float(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// List returns a list value. Lists are only accepted by IN and NOT IN.
func List(vs ...Value) Value {
	return Value{kind: KindList, list: append([]Value(nil), vs...)}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// TypeName returns the runtime type tag of v.
func (v Value) TypeName() string { return v.kind.String() }

// IsNull reports whether v is NULL.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Elems returns the elements of a list value, or nil.
func (v Value) Elems() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// Native returns the Go value handed to database drivers.
func (v Value) Native() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		if v.isInt {
			return v.i
		}
		return v.num
	case KindBool:
		return v.b
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.Native()
		}
		return out
	default:
		return nil
	}
}

// Literal renders v as SQL literal text.
//
// Strings are single-quoted with embedded quotes and backslashes doubled, the
// form MySQL reads back unchanged.
func (v Value) Literal() (string, error) {
	return v.literal(mysqlEscaper)
}

// StandardLiteral is Literal with standard SQL string escaping: only quotes
// are doubled and backslashes are kept as-is.
func (v Value) StandardLiteral() (string, error) {
	return v.literal(standardEscaper)
}

func (v Value) literal(esc *strings.Replacer) (string, error) {
	switch v.kind {
	case KindNull:
		return "NULL", nil
	case KindString:
		return "'" + esc.Replace(v.str) + "'", nil
	case KindNumber:
		if v.isInt {
			return strconv.FormatInt(v.i, 10), nil
		}
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return "", &ValueError{Reason: "non-finite number"}
		}
		return strconv.FormatFloat(v.num, 'g', -1, 64), nil
	case KindBool:
		if v.b {
			return "TRUE", nil
		}
		return "FALSE", nil
	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			lit, err := e.literal(esc)
			if err != nil {
				return "", err
			}
			parts[i] = lit
		}
		return "(" + strings.Join(parts, ", ") + ")", nil
	default:
		return "", &ValueError{Reason: fmt.Sprintf("unknown kind %d", int(v.kind))}
	}
}

var (
	mysqlEscaper    = strings.NewReplacer(`'`, `''`, `\`, `\\`)
	standardEscaper = strings.NewReplacer(`'`, `''`)
)

// ValueOf converts a Go value into a Value.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case []byte:
		return String(string(t)), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case float32:
		return finite(float64(t))
	case float64:
		return finite(t)
	case time.Time:
		return String(t.UTC().Format(TimeLayout)), nil
	}
	return valueOfReflect(reflect.ValueOf(x), true)
}

func finite(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, &ValueError{Reason: "non-finite number"}
	}
	return Float(f), nil
}

func valueOfReflect(rv reflect.Value, allowList bool) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return ValueOf(rv.Elem().Interface())
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Value{}, &ValueError{Reason: fmt.Sprintf("%d overflows int64", u)}
		}
		return Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return finite(rv.Float())
	case reflect.Slice, reflect.Array:
		if !allowList {
			return Value{}, &ValueError{Reason: "nested lists are not supported"}
		}
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null(), nil
		}
		elems := make([]Value, rv.Len())
		for i := range elems {
			ev := rv.Index(i)
			if ev.Kind() == reflect.Interface && !ev.IsNil() {
				ev = ev.Elem()
			}
			if ev.Kind() == reflect.Slice || ev.Kind() == reflect.Array {
				if _, isBytes := ev.Interface().([]byte); !isBytes {
					return Value{}, &ValueError{Reason: "nested lists are not supported"}
				}
			}
			if t, ok := ev.Interface().(time.Time); ok {
				elems[i] = String(t.UTC().Format(TimeLayout))
				continue
			}
			e, err := ValueOf(ev.Interface())
			if err != nil {
				return Value{}, err
			}
			elems[i] = e
		}
		return Value{kind: KindList, list: elems}, nil
	default:
		if !rv.IsValid() {
			return Null(), nil
		}
		return Value{}, &ValueError{Reason: fmt.Sprintf("type %s has no SQL representation", rv.Type())}
	}
}
