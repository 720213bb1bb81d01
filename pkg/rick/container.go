package rick

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/smallo-lang/morty/pkg/types"
)

// Artifact file layout:
//
//   "Rick" 0x00                 watermark
//   [v0, v1, ...] 0x00          memory segment, a JSON array
//   op op op ... END            instruction segment
//
// The memory segment can hold null, integers and strings. A raw NUL never
// occurs inside it because JSON escapes control characters.

// Sep terminates the watermark and the memory segment
const Sep = 0x00

// Watermark identifies a Rick artifact
var Watermark = []byte{'R', 'i', 'c', 'k', Sep}

var (
	ErrBadWatermark = errors.New("not a rick artifact")
	ErrBadMemory    = errors.New("malformed memory segment")
)

// Artifact is a decoded Rick file
type Artifact struct {
	Memory []types.Value
	Code   []byte
}

// IsArtifact reports whether data starts with the Rick watermark
func IsArtifact(data []byte) bool {
	return bytes.HasPrefix(data, Watermark)
}

// Encode writes the watermark, memory segment and code to w
func Encode(w io.Writer, memory []types.Value, code []byte) error {
	mem, err := encodeMemory(memory)
	if err != nil {
		return err
	}

	for _, part := range [][]byte{Watermark, mem, {Sep}, code} {
		if _, err := w.Write(part); err != nil {
			return err
		}
	}
	return nil
}

// Marshal returns the encoded artifact
func Marshal(memory []types.Value, code []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, memory, code); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeMemory renders the pool the way the Rick loader expects it:
// a JSON array with ", " between elements.
func encodeMemory(memory []types.Value) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')

	for i, v := range memory {
		if i > 0 {
			buf.WriteString(", ")
		}

		switch v := v.(type) {
		case types.Null:
			buf.WriteString("null")
		case types.Integer:
			buf.WriteString(strconv.FormatInt(int64(v), 10))
		case types.String:
			s, err := marshalString(string(v))
			if err != nil {
				return nil, err
			}
			buf.Write(s)
		default:
			return nil, fmt.Errorf("memory slot %d: cannot encode %s value %v", i, v.Type(), v)
		}
	}

	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Unmarshal splits an artifact into its memory pool and code
func Unmarshal(data []byte) (*Artifact, error) {
	if !IsArtifact(data) {
		return nil, ErrBadWatermark
	}
	rest := data[len(Watermark):]

	end := bytes.IndexByte(rest, Sep)
	if end < 0 {
		return nil, fmt.Errorf("%w: missing terminator", ErrBadMemory)
	}

	memory, err := decodeMemory(rest[:end])
	if err != nil {
		return nil, err
	}

	return &Artifact{Memory: memory, Code: rest[end+1:]}, nil
}

func decodeMemory(segment []byte) ([]types.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(segment))
	dec.UseNumber()

	var raw []interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMemory, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: expected an array", ErrBadMemory)
	}

	memory := make([]types.Value, len(raw))
	for i, item := range raw {
		switch v := item.(type) {
		case nil:
			memory[i] = types.Null{}
		case json.Number:
			n, err := v.Int64()
			if err != nil {
				return nil, fmt.Errorf("%w: slot %d: %v", ErrBadMemory, i, err)
			}
			memory[i] = types.Integer(n)
		case string:
			memory[i] = types.String(v)
		default:
			return nil, fmt.Errorf("%w: slot %d has unsupported value %v", ErrBadMemory, i, v)
		}
	}
	return memory, nil
}
