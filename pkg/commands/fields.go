package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/GoPolymarket/walletgate/pkg/apperrors"
)

var (
	errNotObject    = errors.New("not a JSON object")
	errDuplicateKey = errors.New("duplicate key")
)

// readObject returns the members of a JSON object in document order.
// encoding/json lets a repeated key overwrite the earlier one; here it is
// an errDuplicateKey.
func readObject(data []byte) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, errNotObject
	}

	var keys []string
	fields := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, errNotObject
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		if _, dup := fields[key]; dup {
			return nil, nil, fmt.Errorf("%w %q", errDuplicateKey, key)
		}
		keys = append(keys, key)
		fields[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, nil, errors.New("trailing data after object")
	}
	return keys, fields, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// checkFields validates the shape of a payload object before it is decoded
// into a struct. Every required key must be present and not null. A key
// that matches a required or optional key only case-insensitively is
// rejected, since encoding/json would bind it anyway. Other keys are ignored.
func checkFields(name string, data []byte, required []string, optional ...string) (map[string]json.RawMessage, error) {
	keys, fields, err := readObject(data)
	if err != nil {
		return nil, apperrors.NewDecode(name+": payload must be a JSON object", err)
	}

	known := append(append([]string{}, required...), optional...)
	for _, key := range keys {
		for _, k := range known {
			if key != k && strings.EqualFold(key, k) {
				return nil, apperrors.NewDecode(fmt.Sprintf("%s: field %q must be spelled %q", name, key, k), nil)
			}
		}
	}
	for _, k := range required {
		raw, ok := fields[k]
		if !ok {
			return nil, apperrors.NewDecode(fmt.Sprintf("%s: missing field %q", name, k), nil)
		}
		if isNull(raw) {
			return nil, apperrors.NewDecode(fmt.Sprintf("%s: field %q must not be null", name, k), nil)
		}
	}
	return fields, nil
}
