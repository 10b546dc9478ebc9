package ensembl

import (
	"encoding/json"
	"fmt"
	"mime"
	"strings"
)

// Body is a response body.
// For JSON content types Value holds the decoded tree (map[string]any,
// []any, float64, string, bool or nil). Text always holds the raw body.
type Body struct {
	ContentType string
	Text        string
	Value       any
}

func newBody(contentType string, data []byte) (*Body, error) {
	b := &Body{ContentType: contentType, Text: string(data)}
	if !IsJSON(contentType) {
		return b, nil
	}
	if err := json.Unmarshal(data, &b.Value); err != nil {
		return nil, fmt.Errorf("decode JSON body: %w", err)
	}
	return b, nil
}

// IsJSON reports whether contentType denotes a JSON media type.
func IsJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// Object returns the body as a JSON object.
func (b *Body) Object() (map[string]any, error) {
	obj, ok := b.Value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("body is %T, not a JSON object", b.Value)
	}
	return obj, nil
}

// List returns the body as a JSON array.
func (b *Body) List() ([]any, error) {
	list, ok := b.Value.([]any)
	if !ok {
		return nil, fmt.Errorf("body is %T, not a JSON array", b.Value)
	}
	return list, nil
}

// Decode unmarshals the raw body into v.
func (b *Body) Decode(v any) error {
	if err := json.Unmarshal([]byte(b.Text), v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
