package model

import "strings"

// InputKind identifies the control type of a form field.
type InputKind string

const (
	KindText     InputKind = "text"
	KindTextarea InputKind = "textarea"
	KindSelect   InputKind = "select"
	KindRadio    InputKind = "radio"
	KindCheckbox InputKind = "checkbox"
	KindFile     InputKind = "file"
)

// AllInputKinds returns all recognized input kinds.
func AllInputKinds() []InputKind {
	return []InputKind{
		KindText,
		KindTextarea,
		KindSelect,
		KindRadio,
		KindCheckbox,
		KindFile,
	}
}

// Valid reports whether k is a recognized input kind.
func (k InputKind) Valid() bool {
	for _, known := range AllInputKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Bounded reports whether the kind takes its value from a closed option set.
func (k InputKind) Bounded() bool {
	switch k {
	case KindSelect, KindRadio, KindCheckbox:
		return true
	}
	return false
}

// FieldDescriptor describes a single discovered form field. Descriptors are
// produced by the extraction layer and never modified afterward.
type FieldDescriptor struct {
	Selector    string    `json:"selector"`
	Label       string    `json:"label"`
	Kind        InputKind `json:"type"`
	Options     []string  `json:"options,omitempty"`
	Required    bool      `json:"required"`
	Section     string    `json:"section,omitempty"`
	Context     string    `json:"context,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	MaxLength   int       `json:"max_length,omitempty"`
}

// HasOptions reports whether the field carries a bounded option set.
func (f FieldDescriptor) HasOptions() bool {
	return len(f.Options) > 0
}

// DisplayName returns the label, falling back to the selector for
// unlabeled fields.
func (f FieldDescriptor) DisplayName() string {
	if name := strings.TrimSpace(f.Label); name != "" {
		return name
	}
	return f.Selector
}

// Form is one application form as discovered by the extraction layer:
// job metadata plus the field list in source layout order.
type Form struct {
	Company string            `json:"company,omitempty"`
	Role    string            `json:"role,omitempty"`
	URL     string            `json:"url,omitempty"`
	Fields  []FieldDescriptor `json:"fields"`
}
