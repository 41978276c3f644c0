package clinicsettings

import (
	"reflect"
	"testing"
)

func TestNormalizeIncomingEmptyWireReturnsDefaults(t *testing.T) {
	for _, wire := range []map[string]interface{}{nil, {}} {
		settings := NormalizeIncoming(wire)

		if !reflect.DeepEqual(settings, Defaults()) {
			t.Fatalf("expected defaults for wire %v, got %+v", wire, settings)
		}
		if settings.WorkingHours == nil || settings.NoteTemplates == nil || settings.TreatmentCatalog == nil {
			t.Fatal("no canonical field may be nil after normalization")
		}
	}
}

func TestNormalizeIncomingProbesAliasesInOrder(t *testing.T) {
	wire := map[string]interface{}{
		"clinic_name":  "Smile Dental",
		"phoneNumber":  "+919812345678",
		"time_zone":    "Asia/Dubai",
		"workingHours": map[string]interface{}{"monday": []interface{}{map[string]interface{}{"start": "10:00", "end": "14:00"}}},
	}

	settings := NormalizeIncoming(wire)

	if settings.Name != "Smile Dental" {
		t.Errorf("expected clinic_name alias to resolve, got %q", settings.Name)
	}
	if settings.Phone != "+919812345678" {
		t.Errorf("expected phoneNumber alias to resolve, got %q", settings.Phone)
	}
	if settings.Timezone != "Asia/Dubai" {
		t.Errorf("expected time_zone alias to resolve, got %q", settings.Timezone)
	}
	want := WorkingHours{"monday": {{Start: "10:00", End: "14:00"}}}
	if !reflect.DeepEqual(settings.WorkingHours, want) {
		t.Errorf("working hours = %+v, want %+v", settings.WorkingHours, want)
	}
}

func TestNormalizeIncomingFirstAliasWins(t *testing.T) {
	wire := map[string]interface{}{
		"name":        "Canonical",
		"clinic_name": "Legacy",
	}
	if got := NormalizeIncoming(wire).Name; got != "Canonical" {
		t.Fatalf("expected first alias to win, got %q", got)
	}
}

func TestNormalizeIncomingParsesSerializedSubDocuments(t *testing.T) {
	wire := map[string]interface{}{
		"working_hours_json":  `{"friday":[{"start":"08:00","end":"12:00"}]}`,
		"note_templates_json": `{"recall":"Hi {{patient}}, time for your {{procedure}}."}`,
		"ai_preferences_json": `{"appointmentAgent":true,"revenueAgent":true}`,
	}

	settings := NormalizeIncoming(wire)

	if got := settings.WorkingHours["friday"]; len(got) != 1 || got[0].Start != "08:00" {
		t.Errorf("unexpected working hours: %+v", settings.WorkingHours)
	}
	if settings.NoteTemplates["recall"] == "" {
		t.Error("expected recall template to survive normalization")
	}
	if !settings.AIPreferences.AppointmentAgent || !settings.AIPreferences.RevenueAgent {
		t.Errorf("unexpected AI preferences: %+v", settings.AIPreferences)
	}
	if settings.AIPreferences.CaseTrackingAgent || settings.AIPreferences.InventoryAgent {
		t.Errorf("agents not present in the payload must stay off: %+v", settings.AIPreferences)
	}
}

func TestNormalizeIncomingSubstitutesDefaultOnParseFailure(t *testing.T) {
	wire := map[string]interface{}{
		"name":               "Still Normalizes",
		"working_hours_json": `{"monday": not json`,
	}

	settings := NormalizeIncoming(wire)

	if settings.Name != "Still Normalizes" {
		t.Error("a broken sub-document must not block the rest of the record")
	}
	if !reflect.DeepEqual(settings.WorkingHours, Defaults().WorkingHours) {
		t.Errorf("expected default working hours, got %+v", settings.WorkingHours)
	}
}

func TestNormalizeIncomingDedupesTreatmentCatalog(t *testing.T) {
	wire := map[string]interface{}{
		"treatments": []interface{}{"FILLING", "CHECKUP", "FILLING", " "},
	}

	got := NormalizeIncoming(wire).TreatmentCatalog
	want := []string{"FILLING", "CHECKUP"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("catalog = %v, want %v", got, want)
	}
}

func TestDenormalizeOutgoingIsIdempotent(t *testing.T) {
	wire := map[string]interface{}{
		"clinic_name":         "Smile Dental",
		"address":             "12 Marine Drive",
		"working_hours_json":  `{"monday":[{"start":"09:30","end":"17:30"}]}`,
		"note_templates_json": `{"welcome":"Hello {{patient}}"}`,
		"treatments":          []interface{}{"CHECKUP", "SCALING"},
	}

	first := DenormalizeOutgoing(NormalizeIncoming(wire))
	second := DenormalizeOutgoing(NormalizeIncoming(wire))

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("denormalize(normalize(w)) not stable:\nfirst:  %+v\nsecond: %+v", first, second)
	}

	// Only the current wire shape is emitted, never legacy aliases.
	for _, legacy := range []string{"clinic_name", "working_hours_json", "note_templates_json", "treatments"} {
		if _, present := first[legacy]; present {
			t.Errorf("legacy alias %q must not be written back", legacy)
		}
	}
	if first["name"] != "Smile Dental" {
		t.Errorf("expected canonical name key, got %v", first["name"])
	}
}
