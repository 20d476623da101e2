package resp

import (
	"io"
	"strconv"
)

// WriteTo encodes v in canonical RESP wire form to w, satisfying
// io.WriterTo. The same method backs both the buffered sink (a
// *bytes.Buffer assembled before a single socket write) and the streaming
// sink (a *bufio.Writer wrapping the connection directly) — byte output is
// identical either way, since both are just io.Writer.
func (v Value) WriteTo(w io.Writer) (int64, error) {
	var total int64
	var writeErr error
	write := func(b []byte) bool {
		n, err := w.Write(b)
		total += int64(n)
		if err != nil {
			writeErr = err
			return false
		}
		return true
	}

	switch v.Kind {
	case KindSimpleString:
		write([]byte{'+'}) && write(v.Str) && write(separator)
	case KindSimpleError:
		write([]byte{'-'}) && write(v.Str) && write(separator)
	case KindInteger:
		write([]byte{':'}) && write([]byte(strconv.FormatInt(v.Int, 10))) && write(separator)
	case KindBulkString:
		write([]byte{'$'}) && write([]byte(strconv.Itoa(len(v.Str)))) && write(separator) &&
			write(v.Str) && write(separator)
	case KindNullBulkString:
		write([]byte("$-1\r\n"))
	case KindArray:
		if write([]byte{'*'}) && write([]byte(strconv.Itoa(len(v.Array)))) && write(separator) {
			for _, item := range v.Array {
				n, err := item.WriteTo(w)
				total += n
				if err != nil {
					return total, err
				}
			}
		}
	case KindNullArray:
		write([]byte("*-1\r\n"))
	}
	return total, writeErr
}
