package slp

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// UBJSON type markers
const (
	markerNull      = 'Z'
	markerNoOp      = 'N'
	markerTrue      = 'T'
	markerFalse     = 'F'
	markerInt8      = 'i'
	markerUint8     = 'U'
	markerInt16     = 'I'
	markerInt32     = 'l'
	markerInt64     = 'L'
	markerFloat32   = 'd'
	markerFloat64   = 'D'
	markerHighPrec  = 'H'
	markerChar      = 'C'
	markerString    = 'S'
	markerArrayOpen = '['
	markerArrayEnd  = ']'
	markerObjOpen   = '{'
	markerObjEnd    = '}'
	markerType      = '$'
	markerCount     = '#'
)

// Limits on untrusted input. A corrupt length must not trigger a huge
// allocation and deeply nested containers must not exhaust the stack.
const (
	maxContainerLen = 1 << 20
	maxStringLen    = 1 << 20
	maxDepth        = 64
)

type ubjsonReader struct {
	r     *bufio.Reader
	depth int
}

func newUBJSONReader(r io.Reader) *ubjsonReader {
	if br, ok := r.(*bufio.Reader); ok {
		return &ubjsonReader{r: br}
	}
	return &ubjsonReader{r: bufio.NewReader(r)}
}

// readMarker returns the next type marker, skipping no-op markers
func (u *ubjsonReader) readMarker() (byte, error) {
	for {
		m, err := u.r.ReadByte()
		if err != nil {
			return 0, err
		}
		if m != markerNoOp {
			return m, nil
		}
	}
}

func (u *ubjsonReader) peekMarker() (byte, error) {
	for {
		b, err := u.r.Peek(1)
		if err != nil {
			return 0, err
		}
		if b[0] != markerNoOp {
			return b[0], nil
		}
		_, _ = u.r.ReadByte()
	}
}

func (u *ubjsonReader) expect(want byte) error {
	m, err := u.readMarker()
	if err != nil {
		return err
	}
	if m != want {
		return fmt.Errorf("%w: expected %q, got %q", ErrUBJSON, want, m)
	}
	return nil
}

func (u *ubjsonReader) readFull(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(u.r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// readInt reads an integer whose marker has already been consumed
func (u *ubjsonReader) readInt(marker byte) (int64, error) {
	switch marker {
	case markerInt8:
		b, err := u.r.ReadByte()
		return int64(int8(b)), err
	case markerUint8:
		b, err := u.r.ReadByte()
		return int64(b), err
	case markerInt16:
		b, err := u.readFull(2)
		if err != nil {
			return 0, err
		}
		return int64(int16(binary.BigEndian.Uint16(b))), nil
	case markerInt32:
		b, err := u.readFull(4)
		if err != nil {
			return 0, err
		}
		return int64(int32(binary.BigEndian.Uint32(b))), nil
	case markerInt64:
		b, err := u.readFull(8)
		if err != nil {
			return 0, err
		}
		return int64(binary.BigEndian.Uint64(b)), nil
	}
	return 0, fmt.Errorf("%w: %q is not an integer marker", ErrUBJSON, marker)
}

// readLength reads a marker-prefixed, non-negative length
func (u *ubjsonReader) readLength() (int, error) {
	m, err := u.readMarker()
	if err != nil {
		return 0, err
	}
	n, err := u.readInt(m)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: invalid length %d", ErrUBJSON, n)
	}
	return int(n), nil
}

// readKey reads an object key (a string without the S marker)
func (u *ubjsonReader) readKey() (string, error) {
	n, err := u.readLength()
	if err != nil {
		return "", err
	}
	if n > maxStringLen {
		return "", fmt.Errorf("%w: string of %d bytes", ErrUBJSON, n)
	}
	b, err := u.readFull(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// enter tracks container nesting; every successful call must be paired with leave
func (u *ubjsonReader) enter() error {
	if u.depth >= maxDepth {
		return fmt.Errorf("%w: nesting deeper than %d", ErrUBJSON, maxDepth)
	}
	u.depth++
	return nil
}

func (u *ubjsonReader) leave() {
	u.depth--
}

func (u *ubjsonReader) readValue() (any, error) {
	m, err := u.readMarker()
	if err != nil {
		return nil, err
	}
	return u.readValueOf(m)
}

func (u *ubjsonReader) readValueOf(marker byte) (any, error) {
	switch marker {
	case markerNull:
		return nil, nil
	case markerTrue:
		return true, nil
	case markerFalse:
		return false, nil
	case markerInt8, markerUint8, markerInt16, markerInt32, markerInt64:
		return u.readInt(marker)
	case markerFloat32:
		b, err := u.readFull(4)
		if err != nil {
			return nil, err
		}
		return float64(math.Float32frombits(binary.BigEndian.Uint32(b))), nil
	case markerFloat64:
		b, err := u.readFull(8)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
	case markerChar:
		b, err := u.r.ReadByte()
		return string(rune(b)), err
	case markerString, markerHighPrec:
		return u.readKey()
	case markerArrayOpen:
		return u.readArray()
	case markerObjOpen:
		return u.readObject()
	}
	return nil, fmt.Errorf("%w: unknown marker %q", ErrUBJSON, marker)
}

// readContainerHeader consumes the optional $type and #count of an optimized container.
// count is -1 when the container is terminated by an end marker.
func (u *ubjsonReader) readContainerHeader() (elemType byte, count int, err error) {
	count = -1
	m, err := u.peekMarker()
	if err != nil {
		return 0, 0, err
	}
	if m == markerType {
		_, _ = u.r.ReadByte()
		if elemType, err = u.r.ReadByte(); err != nil {
			return 0, 0, err
		}
		m, err = u.peekMarker()
		if err != nil {
			return 0, 0, err
		}
		if m != markerCount {
			return 0, 0, fmt.Errorf("%w: typed container without count", ErrUBJSON)
		}
	}
	if m == markerCount {
		_, _ = u.r.ReadByte()
		if count, err = u.readLength(); err != nil {
			return 0, 0, err
		}
		if count > maxContainerLen {
			return 0, 0, fmt.Errorf("%w: container of %d elements", ErrUBJSON, count)
		}
	}
	return elemType, count, nil
}

func (u *ubjsonReader) readElement(elemType byte) (any, error) {
	if elemType != 0 {
		return u.readValueOf(elemType)
	}
	return u.readValue()
}

func (u *ubjsonReader) readArray() ([]any, error) {
	if err := u.enter(); err != nil {
		return nil, err
	}
	defer u.leave()

	elemType, count, err := u.readContainerHeader()
	if err != nil {
		return nil, err
	}

	if count >= 0 {
		out := make([]any, 0, min(count, 1024))
		for i := 0; i < count; i++ {
			v, err := u.readElement(elemType)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}

	var out []any
	for {
		m, err := u.readMarker()
		if err != nil {
			return nil, err
		}
		if m == markerArrayEnd {
			return out, nil
		}
		v, err := u.readValueOf(m)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

func (u *ubjsonReader) readObject() (map[string]any, error) {
	if err := u.enter(); err != nil {
		return nil, err
	}
	defer u.leave()

	elemType, count, err := u.readContainerHeader()
	if err != nil {
		return nil, err
	}

	out := make(map[string]any)
	if count >= 0 {
		for i := 0; i < count; i++ {
			k, err := u.readKey()
			if err != nil {
				return nil, err
			}
			v, err := u.readElement(elemType)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	}

	for {
		m, err := u.peekMarker()
		if err != nil {
			return nil, err
		}
		if m == markerObjEnd {
			_, _ = u.r.ReadByte()
			return out, nil
		}
		k, err := u.readKey()
		if err != nil {
			return nil, err
		}
		v, err := u.readValue()
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
}
