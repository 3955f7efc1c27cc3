package evmla

import (
	"bytes"
	"encoding/json"
)

// Data is one entry of an assembly's data section. On the wire it is an untagged union: a JSON object is a nested
// Assembly (a sub-contract created by the owner, or the owner's own runtime code at the reserved slot), while a
// JSON string is either a 32-byte content hash of a dependency, a raw hex data blob, or a fully-qualified
// contract path once dependency resolution has run.
type Data struct {
	// Assembly is the nested assembly value, set when the entry is a JSON object.
	Assembly *Assembly

	// Value is the string value, set when the entry is a JSON string.
	Value string
}

// UnmarshalJSON decodes a data-section entry from either of its two wire forms.
func (d *Data) UnmarshalJSON(b []byte) error {
	if trimmed := bytes.TrimSpace(b); len(trimmed) > 0 && trimmed[0] == '{' {
		assembly := &Assembly{}
		if err := json.Unmarshal(b, assembly); err != nil {
			return err
		}
		d.Assembly = assembly
		d.Value = ""
		return nil
	}
	return json.Unmarshal(b, &d.Value)
}

// MarshalJSON encodes a data-section entry back into the wire form it was decoded from.
func (d *Data) MarshalJSON() ([]byte, error) {
	if d.Assembly != nil {
		return json.Marshal(d.Assembly)
	}
	return json.Marshal(d.Value)
}
