// Package clinicsettings reconciles the clinic configuration record. The
// backend representation has drifted across several field-naming
// conventions; this package normalizes every historical shape into one
// canonical record, lets the sub-documents be edited as serialized text,
// and writes back the single current wire shape.
package clinicsettings

// TimeRange is one open/close interval inside a working day.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WorkingHours maps a weekday name to its ordered intervals. An empty slice
// means the clinic is closed that day.
type WorkingHours map[string][]TimeRange

// AIPreferences toggles the four automation agents independently.
type AIPreferences struct {
	AppointmentAgent  bool `json:"appointmentAgent"`
	CaseTrackingAgent bool `json:"caseTrackingAgent"`
	RevenueAgent      bool `json:"revenueAgent"`
	InventoryAgent    bool `json:"inventoryAgent"`
}

// Settings is the canonical clinic configuration. Every field has a
// documented default, so a normalized record is always fully populated
// regardless of how partial or how old the wire payload was.
type Settings struct {
	Name             string            `json:"name"`
	Address          string            `json:"address"`
	Phone            string            `json:"phone"`
	Email            string            `json:"email"`
	Timezone         string            `json:"timezone"`
	WorkingHours     WorkingHours      `json:"workingHours"`
	TreatmentCatalog []string          `json:"treatmentCatalog"`
	NoteTemplates    map[string]string `json:"noteTemplates"`
	AIPreferences    AIPreferences     `json:"aiPreferences"`
}

// Defaults returns the fully populated default record: open Monday through
// Saturday 09:00-18:00, closed Sunday, the standard procedure catalog, no
// note templates, and all agents off.
func Defaults() Settings {
	return Settings{
		Timezone:         "Asia/Kolkata",
		WorkingHours:     defaultWorkingHours(),
		TreatmentCatalog: defaultTreatmentCatalog(),
		NoteTemplates:    map[string]string{},
		AIPreferences:    AIPreferences{},
	}
}

func defaultWorkingHours() WorkingHours {
	open := func() []TimeRange {
		return []TimeRange{{Start: "09:00", End: "18:00"}}
	}
	return WorkingHours{
		"monday":    open(),
		"tuesday":   open(),
		"wednesday": open(),
		"thursday":  open(),
		"friday":    open(),
		"saturday":  open(),
		"sunday":    {},
	}
}

func defaultTreatmentCatalog() []string {
	return []string{
		"CONSULTATION",
		"CHECKUP",
		"SCALING",
		"FILLING",
		"EXTRACTION",
		"ROOT_CANAL",
		"IMPLANT",
	}
}
