package clinicsettings

import (
	"context"
	"testing"
	"time"

	"github.com/shashank35i/DentraOS-sub001/platform/apperr"
)

type fakeSettingsGateway struct {
	wire       map[string]interface{}
	fetchErr   error
	saveErr    error
	saveCalls  int
	savedWire  map[string]interface{}
	fetchCalls int
}

func (g *fakeSettingsGateway) FetchClinicSetup(ctx context.Context) (map[string]interface{}, error) {
	g.fetchCalls++
	return g.wire, g.fetchErr
}

func (g *fakeSettingsGateway) SaveClinicSetup(ctx context.Context, wire map[string]interface{}) error {
	g.saveCalls++
	g.savedWire = wire
	return g.saveErr
}

func newLoadedSession(t *testing.T, gateway *fakeSettingsGateway, now func() time.Time) *Session {
	t.Helper()
	session := NewSession(SessionConfig{Gateway: gateway, Now: now})
	if err := session.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if session.Phase() != PhaseReady {
		t.Fatalf("expected READY after load, got %s", session.Phase())
	}
	return session
}

func TestLoadPopulatesBuffersFromLegacyWire(t *testing.T) {
	gateway := &fakeSettingsGateway{wire: map[string]interface{}{
		"clinic_name":        "Smile Dental",
		"working_hours_json": `{"monday":[{"start":"10:00","end":"16:00"}]}`,
	}}
	session := newLoadedSession(t, gateway, nil)

	buffers := session.Buffers()
	if buffers.Name != "Smile Dental" {
		t.Errorf("name buffer = %q", buffers.Name)
	}
	decoded, err := DecodeWorkingHours(buffers.WorkingHoursText)
	if err != nil {
		t.Fatalf("working-hours buffer must round trip: %v", err)
	}
	if got := decoded["monday"]; len(got) != 1 || got[0].End != "16:00" {
		t.Errorf("unexpected decoded hours %+v", decoded)
	}
}

func TestSaveWithInvalidNoteTemplatesNeverHitsTheNetwork(t *testing.T) {
	gateway := &fakeSettingsGateway{wire: map[string]interface{}{}}
	session := newLoadedSession(t, gateway, nil)

	buffers := session.Buffers()
	buffers.NoteTemplatesText = "{oops"
	session.SetBuffers(buffers)

	err := session.Save(context.Background())
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gateway.saveCalls != 0 {
		t.Fatalf("validation failure must abort before the save call, got %d calls", gateway.saveCalls)
	}
	if session.Outcome() != SectionNoteTemplates+" is not valid JSON" {
		t.Fatalf("unexpected outcome %q", session.Outcome())
	}
	// The user's edits survive the failed save.
	if session.Buffers().NoteTemplatesText != "{oops" {
		t.Fatal("buffers must not roll back on a failed save")
	}
}

func TestSaveEmitsCurrentWireShape(t *testing.T) {
	gateway := &fakeSettingsGateway{wire: map[string]interface{}{}}
	session := newLoadedSession(t, gateway, nil)

	buffers := session.Buffers()
	buffers.TreatmentText = "FILLING\nCHECKUP\nFILLING\n \n"
	buffers.AIPreferences.AppointmentAgent = true
	session.SetBuffers(buffers)

	if err := session.Save(context.Background()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if gateway.saveCalls != 1 {
		t.Fatalf("expected one save call, got %d", gateway.saveCalls)
	}
	catalog, ok := gateway.savedWire["treatmentCatalog"].([]string)
	if !ok || len(catalog) != 2 || catalog[0] != "FILLING" || catalog[1] != "CHECKUP" {
		t.Fatalf("unexpected catalog in wire: %v", gateway.savedWire["treatmentCatalog"])
	}
	prefs, ok := gateway.savedWire["aiPreferences"].(AIPreferences)
	if !ok || !prefs.AppointmentAgent {
		t.Fatalf("unexpected aiPreferences in wire: %v", gateway.savedWire["aiPreferences"])
	}
	if session.Outcome() != "Settings saved" {
		t.Fatalf("unexpected outcome %q", session.Outcome())
	}
}

func TestFailedSaveSurfacesServerMessageAndKeepsEdits(t *testing.T) {
	gateway := &fakeSettingsGateway{
		wire:    map[string]interface{}{},
		saveErr: apperr.BadRequest("timezone is not recognized"),
	}
	session := newLoadedSession(t, gateway, nil)

	buffers := session.Buffers()
	buffers.Timezone = "Mars/Olympus"
	session.SetBuffers(buffers)

	if err := session.Save(context.Background()); err == nil {
		t.Fatal("expected save to fail")
	}
	if session.Outcome() != "timezone is not recognized" {
		t.Fatalf("expected server message to surface, got %q", session.Outcome())
	}
	if session.Buffers().Timezone != "Mars/Olympus" {
		t.Fatal("failed save must leave local edits intact")
	}
	if session.Phase() != PhaseReady {
		t.Fatalf("expected READY after failed save, got %s", session.Phase())
	}
}

func TestOutcomeMessageExpires(t *testing.T) {
	current := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	now := func() time.Time { return current }

	gateway := &fakeSettingsGateway{wire: map[string]interface{}{}}
	session := newLoadedSession(t, gateway, now)

	if err := session.Save(context.Background()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if session.Outcome() == "" {
		t.Fatal("expected outcome right after save")
	}

	current = current.Add(DefaultOutcomeTTL + time.Second)
	if got := session.Outcome(); got != "" {
		t.Fatalf("expected outcome to expire, still showing %q", got)
	}
}

func TestConcurrentSaveIsRejected(t *testing.T) {
	gateway := &fakeSettingsGateway{wire: map[string]interface{}{}}
	session := newLoadedSession(t, gateway, nil)

	blocker := make(chan struct{})
	release := make(chan struct{})
	gateway.saveErr = nil
	slowGateway := &blockingGateway{inner: gateway, entered: blocker, release: release}
	session.gateway = slowGateway

	done := make(chan error, 1)
	go func() { done <- session.Save(context.Background()) }()
	<-blocker

	if err := session.Save(context.Background()); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for overlapping save, got %v", err)
	}
	if err := session.Load(context.Background()); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for load during save, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if gateway.saveCalls != 1 {
		t.Fatalf("expected exactly one save call, got %d", gateway.saveCalls)
	}
}

type blockingGateway struct {
	inner   *fakeSettingsGateway
	entered chan struct{}
	release chan struct{}
}

func (g *blockingGateway) FetchClinicSetup(ctx context.Context) (map[string]interface{}, error) {
	return g.inner.FetchClinicSetup(ctx)
}

func (g *blockingGateway) SaveClinicSetup(ctx context.Context, wire map[string]interface{}) error {
	close(g.entered)
	<-g.release
	return g.inner.SaveClinicSetup(ctx, wire)
}
