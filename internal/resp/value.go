// Package resp implements the Redis Serialization Protocol: a tagged
// variant wire value, a zero-copy parser, and an io.Writer-based encoder.
package resp

import "fmt"

// Kind discriminates the cases of Value, playing the role of the tagged
// union the wire format describes.
type Kind int

const (
	KindSimpleString Kind = iota
	KindSimpleError
	KindInteger
	KindBulkString
	KindNullBulkString
	KindArray
	KindNullArray
)

// Value is a single RESP wire value. Only the fields relevant to Kind are
// meaningful; the zero Value is a SimpleString with an empty payload, which
// is legitimate but usually not what callers intend, so prefer the
// constructors below.
//
// Str aliases the parser input when Value was produced by Parse (Array is a
// fresh slice whose elements alias it likewise): callers that retain a Value
// past the lifetime of the buffer handed to Parse must copy out what they
// need first (see Parse).
type Value struct {
	Kind  Kind
	Str   []byte  // SimpleString / SimpleError / BulkString payload
	Int   int64   // Integer payload
	Array []Value // Array elements, in order
}

func SimpleString(b []byte) Value { return Value{Kind: KindSimpleString, Str: b} }
func SimpleError(b []byte) Value  { return Value{Kind: KindSimpleError, Str: b} }
func Integer(n int64) Value       { return Value{Kind: KindInteger, Int: n} }
func BulkString(b []byte) Value   { return Value{Kind: KindBulkString, Str: b} }
func Array(vals []Value) Value    { return Value{Kind: KindArray, Array: vals} }

var (
	NullBulkString = Value{Kind: KindNullBulkString}
	NullArray      = Value{Kind: KindNullArray}
)

// TypeName returns a diagnostic type name for v's Kind, not the wire
// representation.
func (v Value) TypeName() string {
	switch v.Kind {
	case KindSimpleString:
		return "SimpleString"
	case KindSimpleError:
		return "SimpleError"
	case KindInteger:
		return "Integer"
	case KindBulkString:
		return "BulkString"
	case KindNullBulkString:
		return "NullBulkString"
	case KindArray:
		return "Array"
	case KindNullArray:
		return "NullArray"
	default:
		return fmt.Sprintf("Unknown(%d)", v.Kind)
	}
}

// Equal reports whether v and other represent the same RESP value,
// including the distinction between null sentinels and empty composites.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindSimpleString, KindSimpleError, KindBulkString:
		return string(v.Str) == string(other.Str)
	case KindInteger:
		return v.Int == other.Int
	case KindArray:
		if len(v.Array) != len(other.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(other.Array[i]) {
				return false
			}
		}
		return true
	default: // NullBulkString, NullArray
		return true
	}
}
