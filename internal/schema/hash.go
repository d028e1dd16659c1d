package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/propkit/internal/value"
)

// DomainClass prefixes class content hashes. The version suffix allows the
// hashed form to change later.
const DomainClass = "propkit/class/v1"

// Hash returns the content hash of a class definition: SHA-256 over the
// domain, a null separator and the canonical JSON of the definition.
// Source positions are not part of the hash.
func Hash(def ClassDef) (string, error) {
	props := make(value.List, 0, len(def.Properties))
	for _, p := range def.Properties {
		props = append(props, value.NewMap(
			value.P("name", value.String(p.Name)),
			value.P("access", value.String(p.Access)),
			value.P("type", value.String(p.Type)),
			value.P("description", value.String(p.Description)),
			value.P("lazy", value.Bool(p.Lazy)),
		))
	}
	obj := value.NewMap(
		value.P("name", value.String(def.Name)),
		value.P("extends", value.String(def.Extends)),
		value.P("properties", props),
	)

	canonical, err := value.MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("hash class %q: %w", def.Name, err)
	}

	h := sha256.New()
	h.Write([]byte(DomainClass))
	h.Write([]byte{0x00})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}
