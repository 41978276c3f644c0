package clinicsettings

import (
	"reflect"
	"testing"

	"github.com/shashank35i/DentraOS-sub001/platform/apperr"
)

func TestWorkingHoursEditingRoundTrip(t *testing.T) {
	original := WorkingHours{
		"monday":  {{Start: "09:00", End: "13:00"}, {Start: "14:00", End: "18:00"}},
		"tuesday": {},
	}

	decoded, err := DecodeWorkingHours(EncodeForEditing(original))
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if !reflect.DeepEqual(decoded, original) {
		t.Fatalf("round trip changed value: %+v != %+v", decoded, original)
	}
}

func TestNoteTemplatesEditingRoundTrip(t *testing.T) {
	original := map[string]string{
		"recall":  "Dear {{patient}}, your {{procedure}} is due.",
		"welcome": "Welcome to {{clinic}}!",
	}

	decoded, err := DecodeNoteTemplates(EncodeForEditing(original))
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if !reflect.DeepEqual(decoded, original) {
		t.Fatalf("round trip changed value: %+v != %+v", decoded, original)
	}
}

func TestDecodeFailuresNameTheSubDocument(t *testing.T) {
	_, err := DecodeWorkingHours("{broken")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if msg := err.(*apperr.Error).Message; msg != SectionWorkingHours+" is not valid JSON" {
		t.Fatalf("unexpected message %q", msg)
	}

	_, err = DecodeNoteTemplates("[1,2]")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if msg := err.(*apperr.Error).Message; msg != SectionNoteTemplates+" is not valid JSON" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestSplitTreatmentBuffer(t *testing.T) {
	got := SplitTreatmentBuffer("FILLING\nCHECKUP\nFILLING\n \n")
	want := []string{"FILLING", "CHECKUP"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("catalog = %v, want %v", got, want)
	}
}
