package client

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
)

// envelopePeek picks out the keys that decide how a body is unwrapped.
// Fields are raw so a malformed value never hides the others.
type envelopePeek struct {
	fields map[string]json.RawMessage
}

func peekEnvelope(body []byte) (envelopePeek, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return envelopePeek{}, false
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return envelopePeek{}, false
	}
	return envelopePeek{fields: fields}, true
}

func (p envelopePeek) data() (json.RawMessage, bool) {
	raw, ok := p.fields["data"]
	return raw, ok
}

// message returns the server-supplied text: "message", or "error" as a
// string or as an object with a "message" key.
func (p envelopePeek) message() string {
	if raw, ok := p.fields["message"]; ok {
		var s string
		if json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) != "" {
			return s
		}
	}
	if raw, ok := p.fields["error"]; ok {
		var s string
		if json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) != "" {
			return s
		}
		var obj struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &obj) == nil && obj.Message != "" {
			return obj.Message
		}
	}
	return ""
}

// rejected reports a domain-level rejection inside a 2xx response.
func (p envelopePeek) rejected() bool {
	if raw, ok := p.fields["success"]; ok {
		var success bool
		if json.Unmarshal(raw, &success) == nil && !success {
			return true
		}
	}
	if raw, ok := p.fields["error"]; ok {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) && !bytes.Equal(trimmed, []byte("false")) {
			return true
		}
	}
	return false
}

// CheckResponse classifies resp without decoding a payload.
func CheckResponse(resp *Response) error {
	if resp == nil {
		return appErrors.Clone(appErrors.ErrNetwork, "")
	}
	peek, isObject := peekEnvelope(resp.Body)
	if !resp.OK() {
		return classifyStatus(resp.StatusCode, peek.message())
	}
	if isObject && peek.rejected() {
		msg := peek.message()
		if msg == "" {
			msg = appErrors.ErrBusiness.Message
		}
		return appErrors.WithStatus(appErrors.Clone(appErrors.ErrBusiness, msg), resp.StatusCode)
	}
	return nil
}

func classifyStatus(status int, serverMessage string) *appErrors.Error {
	switch {
	case status == http.StatusUnauthorized:
		err := appErrors.WithStatus(appErrors.ErrAuth, status)
		if serverMessage != "" {
			err.Err = &serverText{serverMessage}
		}
		return err
	case status >= http.StatusInternalServerError:
		msg := serverMessage
		if msg == "" {
			msg = appErrors.ErrUpstream.Message
		}
		return appErrors.WithStatus(appErrors.Clone(appErrors.ErrUpstream, msg), status)
	default:
		msg := serverMessage
		if msg == "" {
			msg = http.StatusText(status)
		}
		if msg == "" {
			msg = appErrors.ErrValidation.Message
		}
		return appErrors.WithStatus(appErrors.Clone(appErrors.ErrValidation, msg), status)
	}
}

type serverText struct{ msg string }

func (s *serverText) Error() string { return s.msg }

// Unwrap decodes the payload of resp as T. It returns (nil, nil) for an empty
// body or an envelope whose data is null, and a classified error for failure
// statuses and rejections. Order: envelope "data" first, then the raw body.
func Unwrap[T any](c *APIClient, resp *Response) (*T, error) {
	if err := CheckResponse(resp); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil, nil
	}

	if peek, ok := peekEnvelope(resp.Body); ok {
		if raw, hasData := peek.data(); hasData {
			if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
				return nil, nil
			}
			var out T
			if err := c.codec.Decode(raw, &out); err != nil {
				return nil, err
			}
			return &out, nil
		}
	}

	body := resp.Body
	if tail, cut := truncatedData(resp.Body); cut {
		body = tail
	}
	var out T
	if err := c.codec.Decode(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// truncatedData finds the array value of the top-level "data" key in an
// object body that did not parse, the shape left by an envelope cut off
// mid-stream. The array is returned as far as it goes so the codec can
// repair it.
func truncatedData(body []byte) ([]byte, bool) {
	s := bytes.TrimSpace(body)
	if len(s) == 0 || s[0] != '{' {
		return nil, false
	}
	depth := 0
	inString, escaped := false, false
	keyStart := -1
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
				if depth == 1 && string(s[keyStart:i]) == "data" {
					if value, ok := arrayValue(s[i+1:]); ok {
						return value, true
					}
				}
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
			keyStart = i + 1
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		}
	}
	return nil, false
}

// arrayValue expects rest to start with ':' and an array. It returns the
// array up to its closing bracket, or everything when it never closes.
func arrayValue(rest []byte) ([]byte, bool) {
	rest = bytes.TrimLeft(rest, " \t\r\n")
	if len(rest) == 0 || rest[0] != ':' {
		return nil, false
	}
	value := bytes.TrimLeft(rest[1:], " \t\r\n")
	if len(value) == 0 || value[0] != '[' {
		return nil, false
	}
	depth := 0
	inString, escaped := false, false
	for i := 0; i < len(value); i++ {
		ch := value[i]
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
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return value[:i+1], true
			}
		}
	}
	return value, true
}
