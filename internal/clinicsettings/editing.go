package clinicsettings

import (
	"encoding/json"
	"strings"

	"github.com/shashank35i/DentraOS-sub001/platform/apperr"
)

// Editable sub-document names, used in validation error messages so the
// user knows which buffer failed.
const (
	SectionWorkingHours  = "working hours"
	SectionNoteTemplates = "note templates"
)

// EncodeForEditing renders a sub-document as pretty-printed JSON for a
// free-form text buffer.
func EncodeForEditing(value interface{}) string {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return ""
	}
	return string(encoded)
}

// DecodeWorkingHours parses an edited working-hours buffer.
func DecodeWorkingHours(text string) (WorkingHours, error) {
	var hours WorkingHours
	if err := decodeFromEditing(SectionWorkingHours, text, &hours); err != nil {
		return nil, err
	}
	if hours == nil {
		hours = WorkingHours{}
	}
	return hours, nil
}

// DecodeNoteTemplates parses an edited note-templates buffer. Placeholder
// tokens inside template strings are opaque and not validated.
func DecodeNoteTemplates(text string) (map[string]string, error) {
	var templates map[string]string
	if err := decodeFromEditing(SectionNoteTemplates, text, &templates); err != nil {
		return nil, err
	}
	if templates == nil {
		templates = map[string]string{}
	}
	return templates, nil
}

// SplitTreatmentBuffer derives the treatment catalog from its
// newline-delimited text buffer: trim, drop blank lines, dedupe keeping
// first-seen order.
func SplitTreatmentBuffer(text string) []string {
	return DedupeTreatments(strings.Split(text, "\n"))
}

func decodeFromEditing(section, text string, out interface{}) error {
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return apperr.Wrap(apperr.KindValidation, section+" is not valid JSON", err)
	}
	return nil
}
