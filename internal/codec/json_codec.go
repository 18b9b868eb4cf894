// Package codec decodes portal API payloads, recovering what it can from
// truncated chunked responses.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
	"github.com/noah-isme/intranet-portal-client/pkg/logger"
)

// Codec serializes request bodies and decodes responses.
type Codec struct {
	logger *zap.Logger
}

// New constructs a codec.
func New(l *zap.Logger) *Codec {
	return &Codec{logger: logger.OrNop(l)}
}

// Encode marshals v as JSON.
func (c *Codec) Encode(v interface{}) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "could not encode request body")
	}
	return payload, nil
}

// Decode unmarshals data into dest. When data is not valid JSON for dest it
// is repaired with TryRepair and decoded again; if that also fails the
// original parse error is returned with code MALFORMED_RESPONSE. dest is left
// untouched on failure.
func (c *Codec) Decode(data []byte, dest interface{}) error {
	trimmed := bytes.TrimSpace(data)
	origErr := unmarshalFresh(trimmed, dest)
	if origErr == nil {
		return nil
	}
	if errors.Is(origErr, errBadDestination) {
		return appErrors.Wrap(origErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invalid decode destination")
	}

	repaired := TryRepair(string(trimmed))
	if repaired != string(trimmed) && c.decodeRepaired([]byte(repaired), dest) {
		c.logger.Warn("decoded repaired response",
			zap.Int("original_bytes", len(trimmed)),
			zap.Int("repaired_bytes", len(repaired)),
			zap.NamedError("parse_error", origErr),
		)
		return nil
	}

	return appErrors.Wrap(origErr, appErrors.ErrMalformedResponse.Code, appErrors.ErrMalformedResponse.Status, appErrors.ErrMalformedResponse.Message)
}

// decodeRepaired decodes a repaired document. Repair always yields an array;
// a non-slice destination accepts it only when it holds exactly one element.
func (c *Codec) decodeRepaired(repaired []byte, dest interface{}) bool {
	if isSliceDestination(dest) {
		return unmarshalFresh(repaired, dest) == nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(repaired, &items); err != nil || len(items) != 1 {
		return false
	}
	return unmarshalFresh(items[0], dest) == nil
}

// TryRepair applies, in order: blank input becomes "[]"; a bare object is
// wrapped in an array; an array missing its closing bracket is cut after its
// last complete top-level object and closed; unbalanced braces are padded.
// Each step is best effort and the result may still be invalid JSON.
func TryRepair(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return "[]"
	}
	if !strings.HasPrefix(s, "[") && strings.HasPrefix(s, "{") {
		s = "[" + s + "]"
	}
	if strings.HasPrefix(s, "[") && !strings.HasSuffix(s, "]") {
		if end := lastCompleteElement(s); end > 0 {
			s = s[:end+1] + "]"
		}
	}
	opens, closes := countBraces(s)
	switch {
	case opens > closes:
		s += strings.Repeat("}", opens-closes)
	case closes > opens:
		s = strings.Repeat("{", closes-opens) + s
	}
	return s
}

// lastCompleteElement returns the index of the '}' closing the last complete
// object directly inside the outer array, or -1.
func lastCompleteElement(s string) int {
	last := -1
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']':
			depth--
		case '}':
			depth--
			if depth == 1 {
				last = i
			}
		}
	}
	return last
}

func countBraces(s string) (opens, closes int) {
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			opens++
		case '}':
			closes++
		}
	}
	return opens, closes
}

var errBadDestination = errors.New("codec: destination must be a non-nil pointer")

func unmarshalFresh(data []byte, dest interface{}) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errBadDestination
	}
	fresh := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal(data, fresh.Interface()); err != nil {
		return err
	}
	rv.Elem().Set(fresh.Elem())
	return nil
}

func isSliceDestination(dest interface{}) bool {
	t := reflect.TypeOf(dest)
	return t != nil && t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Slice
}
