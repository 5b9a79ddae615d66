// File: api/schemas/preset.go
package schemas

import "fmt"

// PresetType enumerates the scripted operations a preset can describe.
type PresetType string

const (
	PresetNavigate    PresetType = "navigate"
	PresetClick       PresetType = "click"
	PresetTypeText    PresetType = "type"
	PresetExtractText PresetType = "extract_text"
)

// OperationPreset is a small scripted operation against the hosted page.
// Presets are created and persisted by an external collaborator; the core
// treats them as read-only value objects.
type OperationPreset struct {
	ID       string     `json:"id"`
	Label    string     `json:"label"`
	Type     PresetType `json:"type"`
	Selector string     `json:"selector,omitempty"`
	Value    string     `json:"value,omitempty"`
}

// Validate checks that the preset carries the fields its type requires.
func (p OperationPreset) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("preset is missing an id")
	}
	switch p.Type {
	case PresetNavigate:
		if p.Value == "" {
			return fmt.Errorf("preset %q: navigate requires a target url in value", p.ID)
		}
	case PresetClick, PresetExtractText:
		if p.Selector == "" {
			return fmt.Errorf("preset %q: %s requires a selector", p.ID, p.Type)
		}
	case PresetTypeText:
		if p.Selector == "" {
			return fmt.Errorf("preset %q: type requires a selector", p.ID)
		}
	default:
		return fmt.Errorf("preset %q: unknown type %q", p.ID, p.Type)
	}
	return nil
}
