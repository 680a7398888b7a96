package slp

import (
	"bytes"
	"errors"
	"testing"

	"github.com/slpkit/ripped/internal/slp/slptest"
)

// withMetadata wraps raw events in the replay envelope followed by a metadata value
func withMetadata(raw, metadata []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{'{', 'U', 3, 'r', 'a', 'w', '[', '$', 'U', '#', 'l'})
	n := len(raw)
	buf.Write([]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
	buf.Write(raw)
	buf.Write([]byte{'U', 8})
	buf.WriteString("metadata")
	buf.Write(metadata)
	buf.WriteByte('}')
	return buf.Bytes()
}

func TestUBJSON_Values(t *testing.T) {
	data := []byte{
		'{', '#', 'U', 3,
		'U', 1, 'a', 'i', 0xFF,
		'U', 1, 'b', '[', '$', 'U', '#', 'U', 2, 7, 8,
		'U', 1, 'c', 'S', 'U', 2, 'h', 'i',
	}

	v, err := newUBJSONReader(bytes.NewReader(data)).readValue()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("Expected object, got %T", v)
	}
	if obj["a"] != int64(-1) {
		t.Errorf("Expected a = -1, got %v", obj["a"])
	}
	if arr, ok := obj["b"].([]any); !ok || len(arr) != 2 || arr[1] != int64(8) {
		t.Errorf("Unexpected array %v", obj["b"])
	}
	if obj["c"] != "hi" {
		t.Errorf("Expected c = 'hi', got %v", obj["c"])
	}
}

func TestUBJSON_Limits(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"huge string", []byte{'S', 'l', 0x7F, 0xFF, 0xFF, 0xFF, 'a'}},
		{"huge key", []byte{'{', 'l', 0x7F, 0xFF, 0xFF, 0xFF}},
		{"huge container", []byte{'[', '#', 'l', 0x7F, 0xFF, 0xFF, 0xFF}},
		{"negative length", []byte{'S', 'i', 0xFF}},
		{"deep nesting", bytes.Repeat([]byte{'['}, 100_000)},
		{"unknown marker", []byte{'?'}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := newUBJSONReader(bytes.NewReader(test.data)).readValue()
			if !errors.Is(err, ErrUBJSON) {
				t.Errorf("Expected %v, got %v", ErrUBJSON, err)
			}
		})
	}
}

func TestUBJSON_DepthIsPerPath(t *testing.T) {
	// Siblings at the limit must not accumulate depth
	var data []byte
	data = append(data, '[')
	for i := 0; i < 3; i++ {
		data = append(data, bytes.Repeat([]byte{'['}, maxDepth-1)...)
		data = append(data, bytes.Repeat([]byte{']'}, maxDepth-1)...)
	}
	data = append(data, ']')

	if _, err := newUBJSONReader(bytes.NewReader(data)).readValue(); err != nil {
		t.Errorf("Expected nesting at the limit to decode, got %v", err)
	}
}

func TestParse_HostileMetadata(t *testing.T) {
	raw := slptest.Default().Raw()

	tests := []struct {
		name     string
		metadata []byte
	}{
		{"oversized string", []byte{'{', 'U', 1, 'x', 'S', 'l', 0x7F, 0xFF, 0xFF, 0xFF, '}'}},
		{"nested arrays", bytes.Repeat([]byte{'['}, 1 << 20)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(bytes.NewReader(withMetadata(raw, test.metadata)), Options{})
			if !errors.Is(err, ErrUBJSON) {
				t.Errorf("Expected %v, got %v", ErrUBJSON, err)
			}
		})
	}
}
