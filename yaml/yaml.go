// Package yaml provides a YAML codec for exporting and importing documents.
package yaml

import (
	"bytes"
	"errors"
	"io"

	"github.com/zoobzio/sexpr"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyDocument indicates input holding no YAML document.
	ErrEmptyDocument = errors.New("empty yaml document")

	// ErrMultipleDocuments indicates input holding more than one YAML document.
	ErrMultipleDocuments = errors.New("expected a single yaml document")
)

// yamlCodec implements sexpr.Codec for YAML.
type yamlCodec struct {
	indent int
}

// New returns a YAML codec that indents nested blocks by two spaces.
func New() sexpr.Codec {
	return &yamlCodec{indent: 2}
}

// NewIndent returns a YAML codec that indents nested blocks by spaces.
func NewIndent(spaces int) sexpr.Codec {
	return &yamlCodec{indent: spaces}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as a single YAML document.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(c.indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes YAML data into v. The data must hold exactly one document.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyDocument
		}
		return err
	}

	var extra yaml.Node
	switch err := dec.Decode(&extra); {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return err
	}
	return ErrMultipleDocuments
}
