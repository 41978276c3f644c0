package upstream

import (
	"context"
	"net/url"

	"github.com/shashank35i/DentraOS-sub001/internal/agentstatus"
	"github.com/shashank35i/DentraOS-sub001/internal/appointments"
	"github.com/shashank35i/DentraOS-sub001/internal/staffdirectory"
)

// Gateway adapts the core API endpoints onto the interfaces the domain
// packages consume. One method per remote contract.
type Gateway struct {
	client *Client
}

// NewGateway wraps a core API client.
func NewGateway(client *Client) *Gateway {
	return &Gateway{client: client}
}

// FetchAppointment implements appointments.Gateway via GET /appointments/{id}.
func (g *Gateway) FetchAppointment(ctx context.Context, id string) (*appointments.Record, error) {
	var response struct {
		Item *appointments.Record `json:"item"`
	}
	if err := g.client.Get(ctx, "/appointments/"+url.PathEscape(id), &response); err != nil {
		return nil, err
	}
	return response.Item, nil
}

// CompleteAppointment implements appointments.Gateway via the dedicated
// POST /appointments/{id}/complete endpoint.
func (g *Gateway) CompleteAppointment(ctx context.Context, id string) error {
	return g.client.Post(ctx, "/appointments/"+url.PathEscape(id)+"/complete", nil, nil)
}

// UpdateAppointmentStatus implements appointments.Gateway via the generic
// PATCH /appointments/{id} transition.
func (g *Gateway) UpdateAppointmentStatus(ctx context.Context, id, status string) error {
	body := map[string]string{"status": status}
	return g.client.Patch(ctx, "/appointments/"+url.PathEscape(id), body, nil)
}

// FetchLatestAgentEvent implements agentstatus.Fetcher via
// GET /appointments/{id}/agent-status. A null latest means no event exists.
func (g *Gateway) FetchLatestAgentEvent(ctx context.Context, appointmentID string) (*agentstatus.Event, error) {
	var response struct {
		Latest *agentstatus.Event `json:"latest"`
	}
	path := "/appointments/" + url.PathEscape(appointmentID) + "/agent-status"
	if err := g.client.Get(ctx, path, &response); err != nil {
		return nil, err
	}
	return response.Latest, nil
}

// FetchClinicSetup implements clinicsettings.Gateway via GET /clinic-setup.
// The wire record is returned raw; normalization is the caller's concern.
func (g *Gateway) FetchClinicSetup(ctx context.Context) (map[string]interface{}, error) {
	var response struct {
		Clinic map[string]interface{} `json:"clinic"`
	}
	if err := g.client.Get(ctx, "/clinic-setup", &response); err != nil {
		return nil, err
	}
	return response.Clinic, nil
}

// SaveClinicSetup implements clinicsettings.Gateway via PUT /clinic-setup,
// a single full-record overwrite.
func (g *Gateway) SaveClinicSetup(ctx context.Context, wire map[string]interface{}) error {
	return g.client.Put(ctx, "/clinic-setup", wire, nil)
}

// FetchRoleListing implements staffdirectory.Lister via GET /users?role=.
func (g *Gateway) FetchRoleListing(ctx context.Context, role staffdirectory.Role) (map[string]interface{}, error) {
	var response map[string]interface{}
	path := "/users?role=" + url.QueryEscape(string(role))
	if err := g.client.Get(ctx, path, &response); err != nil {
		return nil, err
	}
	return response, nil
}

// CreateStaffUser implements staffdirectory.Creator via POST /users.
func (g *Gateway) CreateStaffUser(ctx context.Context, req staffdirectory.CreateStaffRequest) (map[string]interface{}, error) {
	var response map[string]interface{}
	if err := g.client.Post(ctx, "/users", req, &response); err != nil {
		return nil, err
	}
	return response, nil
}
