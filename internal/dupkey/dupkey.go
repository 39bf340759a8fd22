package dupkey

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"
)

// Error reports an object key that appears twice in the same JSON object.
type Error struct {
	// Pointer is the JSON Pointer of the object holding the key ("" is the root).
	Pointer string
	Key     string
}

func (e *Error) Error() string {
	at := e.Pointer
	if at == "" {
		at = "/"
	}
	return fmt.Sprintf("duplicate key %q in object at %s", e.Key, at)
}

// Check scans a JSON document and returns an *Error for the first duplicate
// object key. Syntax errors are returned as reported by the tokenizer.
func Check(data []byte) error {
	return CheckReader(bytes.NewReader(data))
}

// CheckReader is Check over a stream. It consumes r fully.
func CheckReader(r io.Reader) error {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return scan(dec)
}

type frame struct {
	object       bool
	keys         map[string]struct{}
	expectingKey bool
	key          string
	index        int
}

func scan(dec *j.Decoder) error {
	var stack []frame

	valueDone := func() {
		if len(stack) == 0 {
			return
		}
		top := &stack[len(stack)-1]
		if top.object {
			top.expectingKey = true
		} else {
			top.index++
		}
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if len(stack) > 0 {
				return io.ErrUnexpectedEOF
			}
			return nil
		}
		if err != nil {
			return err
		}

		switch v := tok.(type) {
		case j.Delim:
			switch v {
			case '{':
				stack = append(stack, frame{object: true, keys: make(map[string]struct{}), expectingKey: true})
			case '[':
				stack = append(stack, frame{})
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				valueDone()
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].expectingKey {
				top := &stack[n-1]
				if _, dup := top.keys[v]; dup {
					return &Error{Pointer: pointer(stack[:n-1]), Key: v}
				}
				top.keys[v] = struct{}{}
				top.key = v
				top.expectingKey = false
				continue
			}
			valueDone()
		default:
			valueDone()
		}
	}
}

// pointer renders the position each enclosing frame is at.
func pointer(frames []frame) string {
	if len(frames) == 0 {
		return ""
	}
	var b strings.Builder
	for _, f := range frames {
		b.WriteByte('/')
		if f.object {
			b.WriteString(escape(f.key))
		} else {
			b.WriteString(strconv.Itoa(f.index))
		}
	}
	return b.String()
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}
