// pkg/codec/jsoncodec.go
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	ContentType() string
}

type jsonStrict struct{}

// JSONStrict rejects unknown fields and trailing content.
var JSONStrict Codec = jsonStrict{}

func (jsonStrict) Marshal(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (jsonStrict) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	// Probe for trailing data (must be EOF)
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return fmt.Errorf("json trailing content")
	}
	return nil
}

func (jsonStrict) ContentType() string { return "application/json" }

type jsonLenient struct{}

// JSONLenient ignores unknown fields.
var JSONLenient Codec = jsonLenient{}

func (jsonLenient) Marshal(v any) ([]byte, error) { return JSONStrict.Marshal(v) }

func (jsonLenient) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	return nil
}

func (jsonLenient) ContentType() string { return "application/json" }

// FromMap decodes a generic payload map into dst using c.
func FromMap(c Codec, payload map[string]any, dst any) error {
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("payload encode: %w", err)
	}
	return c.Unmarshal(raw, dst)
}

// ByName resolves a codec from a manifest-style name. Empty means strict.
func ByName(name string) (Codec, error) {
	switch name {
	case "", "json", "json-strict":
		return JSONStrict, nil
	case "json-lenient":
		return JSONLenient, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}
