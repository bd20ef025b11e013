package primitives

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/nodekeys/internal/errors"
)

const (
	attributesMagic = "MEGA"
	nameAttribute   = "n"
)

// Attributes is the decoded metadata record of a node. The name is mandatory;
// every other key is kept as raw JSON in its original order so records
// written by other clients survive a round trip.
type Attributes struct {
	Name string

	extra []attributeField
	err   error
}

type attributeField struct {
	key   string
	value json.RawMessage
}

// NewAttributes returns a record holding only a name.
func NewAttributes(name string) Attributes {
	return Attributes{Name: name}
}

// Err returns a wrapped ErrCorruptedAttributes when the record is a
// placeholder produced by a failed decode.
func (a Attributes) Err() error {
	return a.err
}

// Get returns the raw JSON value of an extra key.
func (a Attributes) Get(key string) (json.RawMessage, bool) {
	for _, f := range a.extra {
		if f.key == key {
			return f.value, true
		}
	}
	return nil, false
}

// Set stores an extra key. Setting "n" replaces the name.
func (a *Attributes) Set(key string, value json.RawMessage) error {
	if !json.Valid(value) {
		return fmt.Errorf("attribute %q is not valid JSON", key)
	}

	if key == nameAttribute {
		return json.Unmarshal(value, &a.Name)
	}

	for i := range a.extra {
		if a.extra[i].key == key {
			a.extra[i].value = append(json.RawMessage(nil), value...)
			return nil
		}
	}
	a.extra = append(a.extra, attributeField{key: key, value: append(json.RawMessage(nil), value...)})
	return nil
}

// Keys lists the extra keys in record order.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a.extra))
	for _, f := range a.extra {
		keys = append(keys, f.key)
	}
	return keys
}

// MarshalJSON writes the compact record with the name first.
func (a Attributes) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')

	if err := writeJSONString(&b, nameAttribute); err != nil {
		return nil, err
	}
	b.WriteByte(':')
	if err := writeJSONString(&b, a.Name); err != nil {
		return nil, err
	}

	for _, f := range a.extra {
		b.WriteByte(',')
		if err := writeJSONString(&b, f.key); err != nil {
			return nil, err
		}
		b.WriteByte(':')
		if err := json.Compact(&b, f.value); err != nil {
			return nil, fmt.Errorf("attribute %q: %w", f.key, err)
		}
	}

	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON reads a record, requiring the name key.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected an object, got %v", tok)
	}

	decoded := Attributes{}
	hasName := false
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected an object key, got %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("attribute %q: %w", key, err)
		}

		if key == nameAttribute {
			hasName = true
		}
		if err := decoded.Set(key, value); err != nil {
			return fmt.Errorf("attribute %q: %w", key, err)
		}
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected data after attribute record")
	}
	if !hasName {
		return fmt.Errorf("missing %q attribute", nameAttribute)
	}

	*a = decoded
	return nil
}

func writeJSONString(b *bytes.Buffer, s string) error {
	enc := json.NewEncoder(b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode always terminates the value with a newline.
	b.Truncate(b.Len() - 1)
	return nil
}

// EncryptAttributes serializes attrs behind the magic tag, zero pads the
// record to a block boundary and wraps it with key.
func EncryptAttributes(attrs Attributes, key []byte) ([]byte, error) {
	body, err := attrs.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize attributes: %w", err)
	}

	record := append([]byte(attributesMagic), body...)

	// At least one zero byte always follows the record.
	padded := make([]byte, len(record)+BlockSize-len(record)%BlockSize)
	copy(padded, record)

	return WrapKey(padded, key)
}

// DecryptAttributes unwraps and parses an attribute record. It never returns
// an error: a record that cannot be decoded yields a placeholder whose name
// carries the failure reason and whose Err wraps ErrCorruptedAttributes.
func DecryptAttributes(data, key []byte) Attributes {
	plain, err := UnwrapKey(data, key)
	if err != nil {
		return CorruptedAttributes(err)
	}

	if !bytes.HasPrefix(plain, []byte(attributesMagic)) {
		return CorruptedAttributes(fmt.Errorf("missing %q prefix", attributesMagic))
	}

	body := plain[len(attributesMagic):]
	if i := bytes.IndexByte(body, 0); i >= 0 {
		body = body[:i]
	}

	var attrs Attributes
	if err := attrs.UnmarshalJSON(body); err != nil {
		return CorruptedAttributes(err)
	}

	return attrs
}

// CorruptedAttributes returns the placeholder record for a decode failure.
func CorruptedAttributes(reason error) Attributes {
	return Attributes{
		Name: "Attribute deserialization failed: " + reason.Error(),
		err:  fmt.Errorf("%w: %v", kerrors.ErrCorruptedAttributes, reason),
	}
}
