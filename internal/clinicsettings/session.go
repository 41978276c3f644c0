package clinicsettings

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shashank35i/DentraOS-sub001/platform/apperr"
)

// Phase is the settings session's display state.
type Phase string

const (
	PhaseLoading Phase = "LOADING"
	PhaseReady   Phase = "READY"
	PhaseSaving  Phase = "SAVING"
)

// DefaultOutcomeTTL is how long the last save/load outcome message stays
// visible.
const DefaultOutcomeTTL = 4 * time.Second

// Gateway is the slice of the core API the settings session needs.
type Gateway interface {
	FetchClinicSetup(ctx context.Context) (map[string]interface{}, error)
	SaveClinicSetup(ctx context.Context, wire map[string]interface{}) error
}

// Buffers are the editable projection of the canonical record: plain fields
// verbatim, sub-documents as pretty-printed JSON text, the treatment
// catalog as newline-delimited codes.
type Buffers struct {
	Name              string        `json:"name"`
	Address           string        `json:"address"`
	Phone             string        `json:"phone"`
	Email             string        `json:"email"`
	Timezone          string        `json:"timezone"`
	WorkingHoursText  string        `json:"workingHoursText"`
	NoteTemplatesText string        `json:"noteTemplatesText"`
	TreatmentText     string        `json:"treatmentText"`
	AIPreferences     AIPreferences `json:"aiPreferences"`
}

// Session orchestrates load → edit → validate → save for the clinic
// configuration. Saves are serialized: a save in progress blocks both a
// second save and a concurrent load. A failed save never rolls back the
// buffers; in-progress edits are the user's and stay put.
type Session struct {
	gateway    Gateway
	now        func() time.Time
	outcomeTTL time.Duration

	mu        sync.Mutex
	phase     Phase
	buffers   Buffers
	saving    bool
	outcome   string
	outcomeAt time.Time
}

// SessionConfig configures a Session. Gateway is required.
type SessionConfig struct {
	Gateway    Gateway
	OutcomeTTL time.Duration
	Now        func() time.Time
}

// NewSession creates a settings session in the loading phase.
func NewSession(cfg SessionConfig) *Session {
	ttl := cfg.OutcomeTTL
	if ttl == 0 {
		ttl = DefaultOutcomeTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Session{
		gateway:    cfg.Gateway,
		now:        now,
		outcomeTTL: ttl,
		phase:      PhaseLoading,
	}
}

// Load fetches the wire record, normalizes it and fills the editable
// buffers. A nil clinic payload yields the defaults.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return apperr.Conflict("a save is in progress")
	}
	s.phase = PhaseLoading
	s.mu.Unlock()

	wire, err := s.gateway.FetchClinicSetup(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseReady
	if err != nil {
		s.setOutcomeLocked(outcomeMessage(err))
		return err
	}

	settings := NormalizeIncoming(wire)
	s.buffers = Buffers{
		Name:              settings.Name,
		Address:           settings.Address,
		Phone:             settings.Phone,
		Email:             settings.Email,
		Timezone:          settings.Timezone,
		WorkingHoursText:  EncodeForEditing(settings.WorkingHours),
		NoteTemplatesText: EncodeForEditing(settings.NoteTemplates),
		TreatmentText:     strings.Join(settings.TreatmentCatalog, "\n"),
		AIPreferences:     settings.AIPreferences,
	}
	return nil
}

// Buffers returns a copy of the current editable buffers.
func (s *Session) Buffers() Buffers {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffers
}

// SetBuffers replaces the editable buffers with the user's edits.
func (s *Session) SetBuffers(buffers Buffers) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffers = buffers
}

// Phase returns the current display phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Outcome returns the last save/load outcome message, or "" once the
// display window has passed.
func (s *Session) Outcome() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome == "" || s.now().After(s.outcomeAt.Add(s.outcomeTTL)) {
		return ""
	}
	return s.outcome
}

// Save validates every sub-document buffer, and only when all of them
// decode does it denormalize and issue the single overwrite request. The
// first validation failure aborts before any network call.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return apperr.Conflict("a save is already in progress")
	}
	s.saving = true
	s.phase = PhaseSaving
	buffers := s.buffers
	s.mu.Unlock()

	settings, err := s.decodeBuffers(buffers)
	if err != nil {
		s.finishSave(outcomeMessage(err))
		return err
	}

	if err := s.gateway.SaveClinicSetup(ctx, DenormalizeOutgoing(settings)); err != nil {
		s.finishSave(outcomeMessage(err))
		return err
	}

	s.finishSave("Settings saved")
	return nil
}

func (s *Session) decodeBuffers(buffers Buffers) (Settings, error) {
	hours, err := DecodeWorkingHours(buffers.WorkingHoursText)
	if err != nil {
		return Settings{}, err
	}
	templates, err := DecodeNoteTemplates(buffers.NoteTemplatesText)
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		Name:             buffers.Name,
		Address:          buffers.Address,
		Phone:            buffers.Phone,
		Email:            buffers.Email,
		Timezone:         buffers.Timezone,
		WorkingHours:     hours,
		TreatmentCatalog: SplitTreatmentBuffer(buffers.TreatmentText),
		NoteTemplates:    templates,
		AIPreferences:    buffers.AIPreferences,
	}, nil
}

func (s *Session) finishSave(outcome string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	s.phase = PhaseReady
	s.setOutcomeLocked(outcome)
}

func (s *Session) setOutcomeLocked(outcome string) {
	s.outcome = outcome
	s.outcomeAt = s.now()
}

// outcomeMessage prefers the typed error's human-readable message and falls
// back to the raw error text.
func outcomeMessage(err error) string {
	if typed, ok := err.(*apperr.Error); ok && typed.Message != "" {
		return typed.Message
	}
	return err.Error()
}
