package resp

import (
	"bytes"
	"strconv"
)

var separator = []byte("\r\n")

// Parse extracts the ordered sequence of top-level Values contained in
// input. Returned Values alias input: callers must not mutate or discard
// input while any Value (or a Request built from one) derived from this
// call is still in use. Empty input yields an empty, non-error result.
func Parse(input []byte) ([]Value, error) {
	if len(input) == 0 {
		return nil, nil
	}
	var values []Value
	remainder := input
	for len(remainder) > 0 {
		v, rest, err := nextValue(remainder)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		remainder = rest
	}
	return values, nil
}

// nextValue extracts the next Value from input, returning it along with the
// slice of input following it.
func nextValue(input []byte) (Value, []byte, error) {
	word, remainder, err := nextWord(input)
	if err != nil {
		return Value{}, nil, err
	}
	if len(word) == 0 {
		return Value{}, nil, errUnexpectedEnd()
	}
	switch word[0] {
	case '+':
		return SimpleString(word[1:]), remainder, nil
	case '-':
		return SimpleError(word[1:]), remainder, nil
	case ':':
		n, err := parseInteger(word[1:])
		if err != nil {
			return Value{}, nil, err
		}
		return Integer(n), remainder, nil
	case '$':
		return parseBulkString(word[1:], remainder)
	case '*':
		return parseArray(word[1:], remainder)
	default:
		return Value{}, nil, errUnknownStartingByte(word[0])
	}
}

// nextWord returns the slice of input up to (but not including) the next
// CRLF, and the remainder of input after that CRLF.
func nextWord(input []byte) (word, remainder []byte, err error) {
	pos := bytes.Index(input, separator)
	if pos < 0 {
		return nil, nil, errUnexpectedEnd()
	}
	return input[:pos], input[pos+2:], nil
}

func parseInteger(b []byte) (int64, error) {
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, errIntParseFailure(err)
	}
	return n, nil
}

func parseBulkString(sizeWord, remainder []byte) (Value, []byte, error) {
	size, err := parseInteger(sizeWord)
	if err != nil {
		return Value{}, nil, err
	}
	switch {
	case size < -1:
		return Value{}, nil, errBadBulkStringSize(size)
	case size == -1:
		return NullBulkString, remainder, nil
	}
	n := int(size)
	if n > len(remainder)-2 {
		return Value{}, nil, errUnexpectedEnd()
	}
	if !bytes.Equal(remainder[n:n+2], separator) {
		return Value{}, nil, errBadBulkStringSize(size)
	}
	return BulkString(remainder[:n]), remainder[n+2:], nil
}

func parseArray(sizeWord, remainder []byte) (Value, []byte, error) {
	size, err := parseInteger(sizeWord)
	if err != nil {
		return Value{}, nil, err
	}
	switch {
	case size < -1:
		return Value{}, nil, errBadArraySize(size)
	case size == -1:
		return NullArray, remainder, nil
	}
	vals := make([]Value, 0, size)
	curr := remainder
	for i := int64(0); i < size; i++ {
		v, rest, err := nextValue(curr)
		if err != nil {
			return Value{}, nil, err
		}
		vals = append(vals, v)
		curr = rest
	}
	return Array(vals), curr, nil
}
