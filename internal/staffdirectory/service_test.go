package staffdirectory

import (
	"context"
	"testing"

	"github.com/shashank35i/DentraOS-sub001/platform/apperr"
	"github.com/shashank35i/DentraOS-sub001/platform/validator"
)

type fakeCreator struct {
	calls int
	row   map[string]interface{}
}

func (f *fakeCreator) CreateStaffUser(ctx context.Context, req CreateStaffRequest) (map[string]interface{}, error) {
	f.calls++
	return f.row, nil
}

func newTestService(creator *fakeCreator) *Service {
	return NewService(NewAggregator(&fakeLister{}, nil), creator, validator.New())
}

func TestCreateStaffValidationNamesTheFields(t *testing.T) {
	creator := &fakeCreator{}
	svc := newTestService(creator)

	_, err := svc.CreateStaff(context.Background(), CreateStaffRequest{
		Role:  "DENTIST",
		Email: "not-an-email",
	})

	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := err.(*apperr.Error).Details.(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %#v", err.(*apperr.Error).Details)
	}
	for field, rule := range map[string]string{
		"Role":         "oneof",
		"Email":        "email",
		"FullName":     "required",
		"TempPassword": "required",
	} {
		if details[field] != rule {
			t.Errorf("expected %s to fail %q, got %q", field, rule, details[field])
		}
	}
	if creator.calls != 0 {
		t.Fatalf("invalid request must not reach the core API, got %d calls", creator.calls)
	}
}

func TestCreateStaffForwardsValidRequest(t *testing.T) {
	creator := &fakeCreator{row: map[string]interface{}{
		"id":       "d3",
		"fullName": "Anita Shah",
		"email":    "anita@clinic.example",
	}}
	svc := newTestService(creator)

	entry, err := svc.CreateStaff(context.Background(), CreateStaffRequest{
		Role:         RoleDoctor,
		FullName:     "Anita Shah",
		Email:        "anita@clinic.example",
		TempPassword: "s3cretpass",
	})

	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if creator.calls != 1 {
		t.Fatalf("expected one create call, got %d", creator.calls)
	}
	if entry.ID != "d3" || entry.Role != RoleDoctor {
		t.Fatalf("unexpected created entry %+v", entry)
	}
}
