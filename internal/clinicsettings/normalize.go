package clinicsettings

import (
	"encoding/json"
	"strings"
)

// Wire key aliases per canonical field, in probe order. The backend renamed
// fields more than once without a coordinated client release; the first
// alias present wins, and a missing field falls back to its default. Keeping
// this as one table makes the normalizer a pure, testable function instead
// of a pile of conditional lookups.
var (
	nameAliases     = []string{"name", "clinic_name", "clinicName"}
	addressAliases  = []string{"address", "clinic_address", "clinicAddress"}
	phoneAliases    = []string{"phone", "phone_number", "phoneNumber"}
	emailAliases    = []string{"email", "contact_email", "contactEmail"}
	timezoneAliases = []string{"timezone", "time_zone", "tz"}

	workingHoursAliases = []string{
		"working_hours", "workingHours", "working_hours_json", "workingHoursJson",
	}
	treatmentCatalogAliases = []string{
		"treatment_catalog", "treatmentCatalog", "treatments", "treatment_catalog_json",
	}
	noteTemplatesAliases = []string{
		"note_templates", "noteTemplates", "note_templates_json", "noteTemplatesJson",
	}
	aiPreferencesAliases = []string{
		"ai_preferences", "aiPreferences", "ai_preferences_json", "aiPreferencesJson",
	}
)

// NormalizeIncoming maps any historical wire shape onto the canonical
// record. It never fails: an absent field takes its default, and a
// sub-document that arrives as an unparseable string takes its default
// without blocking the rest of the record.
func NormalizeIncoming(wire map[string]interface{}) Settings {
	settings := Defaults()
	if wire == nil {
		return settings
	}

	settings.Name = stringField(wire, nameAliases, settings.Name)
	settings.Address = stringField(wire, addressAliases, settings.Address)
	settings.Phone = stringField(wire, phoneAliases, settings.Phone)
	settings.Email = stringField(wire, emailAliases, settings.Email)
	settings.Timezone = stringField(wire, timezoneAliases, settings.Timezone)

	if raw, ok := firstPresent(wire, workingHoursAliases); ok {
		var hours WorkingHours
		if decodeSubDocument(raw, &hours) && hours != nil {
			settings.WorkingHours = hours
		}
	}

	if raw, ok := firstPresent(wire, noteTemplatesAliases); ok {
		var templates map[string]string
		if decodeSubDocument(raw, &templates) && templates != nil {
			settings.NoteTemplates = templates
		}
	}

	if raw, ok := firstPresent(wire, aiPreferencesAliases); ok {
		var prefs AIPreferences
		if decodeSubDocument(raw, &prefs) {
			settings.AIPreferences = prefs
		}
	}

	if raw, ok := firstPresent(wire, treatmentCatalogAliases); ok {
		var catalog []string
		if decodeSubDocument(raw, &catalog) && catalog != nil {
			settings.TreatmentCatalog = DedupeTreatments(catalog)
		}
	}

	return settings
}

// DenormalizeOutgoing emits the single current wire shape. It is a one-way
// latest-version writer: legacy aliases are never populated.
func DenormalizeOutgoing(settings Settings) map[string]interface{} {
	return map[string]interface{}{
		"name":             settings.Name,
		"address":          settings.Address,
		"phone":            settings.Phone,
		"email":            settings.Email,
		"timezone":         settings.Timezone,
		"workingHours":     settings.WorkingHours,
		"treatmentCatalog": settings.TreatmentCatalog,
		"noteTemplates":    settings.NoteTemplates,
		"aiPreferences":    settings.AIPreferences,
	}
}

// DedupeTreatments trims entries, drops blanks and keeps the first
// occurrence of each code. Codes are case-sensitive; order is preserved for
// display even though the server does not care.
func DedupeTreatments(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

func firstPresent(wire map[string]interface{}, aliases []string) (interface{}, bool) {
	for _, alias := range aliases {
		if value, ok := wire[alias]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

func stringField(wire map[string]interface{}, aliases []string, fallback string) string {
	raw, ok := firstPresent(wire, aliases)
	if !ok {
		return fallback
	}
	text, ok := raw.(string)
	if !ok {
		return fallback
	}
	return text
}

// decodeSubDocument accepts a sub-document that is either already
// structured or a serialized JSON string, and decodes it into out. Returns
// false when the value cannot be interpreted, in which case the caller
// keeps the default.
func decodeSubDocument(raw interface{}, out interface{}) bool {
	switch value := raw.(type) {
	case string:
		return json.Unmarshal([]byte(value), out) == nil
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return false
		}
		return json.Unmarshal(encoded, out) == nil
	}
}
