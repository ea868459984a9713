// Package strictjson decodes JSON documents whose numbers are all unsigned
// 64-bit integers, rejecting anything the target types could not hold
// exactly.
package strictjson

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
)

// ErrTrailingData is returned when another value follows the document.
var ErrTrailingData = stderrors.New("trailing data after JSON value")

// NumberError reports a number that does not fit in a uint64.
type NumberError struct {
	Path  string
	Value string
}

func (e *NumberError) Error() string {
	return fmt.Sprintf("%s: %s is not an unsigned 64-bit integer", e.Path, e.Value)
}

// Unmarshal decodes exactly one JSON value into v. Unknown object fields,
// trailing data and any number outside [0, 2^64) are errors.
func Unmarshal(data []byte, v any) error {
	var tree any
	if err := decodeOne(data, &tree, true); err != nil {
		return err
	}
	if err := checkNumbers(tree, "$"); err != nil {
		return err
	}
	return decodeOne(data, v, false)
}

func decodeOne(data []byte, v any, useNumber bool) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if useNumber {
		dec.UseNumber()
	} else {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return err
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return ErrTrailingData
	}
	return nil
}

// checkNumbers walks a UseNumber tree. goccy wraps out-of-range integers
// when decoding straight into uint64 fields.
func checkNumbers(node any, path string) error {
	switch n := node.(type) {
	case json.Number:
		if _, err := strconv.ParseUint(string(n), 10, 64); err != nil {
			return &NumberError{Path: path, Value: string(n)}
		}
	case map[string]any:
		for k, child := range n {
			if err := checkNumbers(child, path+"."+k); err != nil {
				return err
			}
		}
	case []any:
		for i, child := range n {
			if err := checkNumbers(child, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}
