package staffdirectory

import (
	"context"
	"errors"

	"github.com/shashank35i/DentraOS-sub001/platform/apperr"
	"github.com/shashank35i/DentraOS-sub001/platform/validator"

	validatorv10 "github.com/go-playground/validator/v10"
)

// Creator sends a new staff member to the core API and returns the created
// listing row.
type Creator interface {
	CreateStaffUser(ctx context.Context, req CreateStaffRequest) (map[string]interface{}, error)
}

// CreateStaffRequest is the POST /users payload. The invite email itself is
// sent by the core API; this layer only forwards the flag.
type CreateStaffRequest struct {
	Role            Role   `json:"role" validate:"required,oneof=ADMIN DOCTOR ASSISTANT"`
	FullName        string `json:"fullName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone"`
	TempPassword    string `json:"tempPassword" validate:"required,min=8"`
	SendInviteEmail bool   `json:"sendInviteEmail"`
}

// Service provides the staff directory operations.
type Service struct {
	aggregator *Aggregator
	creator    Creator
	val        *validator.Validator
}

// NewService creates a staff directory service.
func NewService(aggregator *Aggregator, creator Creator, val *validator.Validator) *Service {
	return &Service{aggregator: aggregator, creator: creator, val: val}
}

// LoadDirectory returns the merged roster for the default role set.
func (s *Service) LoadDirectory(ctx context.Context) []Entry {
	return s.aggregator.LoadDirectory(ctx, DefaultRoles)
}

// CreateStaff validates and forwards a staff creation. Unlike directory
// reads, failures here always surface: this is a write path.
func (s *Service) CreateStaff(ctx context.Context, req CreateStaffRequest) (Entry, error) {
	if err := s.val.Struct(req); err != nil {
		return Entry{}, invalidStaffRequest(err)
	}

	created, err := s.creator.CreateStaffUser(ctx, req)
	if err != nil {
		return Entry{}, err
	}

	entry, ok := decodeEntry(created, req.Role)
	if !ok {
		// Server accepted the user but returned an unusable row; the next
		// directory reload will pick the entry up.
		return Entry{FullName: req.FullName, Email: req.Email, Role: req.Role, IsActive: true}, nil
	}
	return entry, nil
}

// invalidStaffRequest turns validator failures into a typed error whose
// details name each rejected field and the rule it broke.
func invalidStaffRequest(err error) error {
	var fields validatorv10.ValidationErrors
	if !errors.As(err, &fields) {
		return apperr.Validation(err.Error())
	}

	details := make(map[string]string, len(fields))
	for _, field := range fields {
		details[field.Field()] = field.Tag()
	}
	return apperr.Validation("invalid staff details").WithDetails(details)
}
