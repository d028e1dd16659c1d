package schema

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/propkit/internal/spec"
)

// ParseYAML parses a YAML schema document. Unknown fields are rejected so
// typos like "propertes:" fail loudly.
func ParseYAML(data []byte) (*Schema, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, &Error{Code: ErrCodeParse, Message: fmt.Sprintf("parsing YAML: %v", err)}
	}
	for i := range doc.Classes {
		normalizeDef(&doc.Classes[i])
	}
	return Build(doc.Classes)
}

// MarshalYAML renders a schema back to its YAML document form.
func MarshalYAML(s *Schema) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Document{Classes: s.Defs()}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func normalizeDef(def *ClassDef) {
	def.Name = strings.TrimSpace(def.Name)
	def.Extends = strings.TrimSpace(def.Extends)
	for i := range def.Properties {
		def.Properties[i].Name = spec.NormalizeName(def.Properties[i].Name)
	}
}
