package appointments

import (
	"context"
	"sync"

	"github.com/shashank35i/DentraOS-sub001/internal/agentstatus"
	"github.com/shashank35i/DentraOS-sub001/platform/apperr"
)

// Gateway is the slice of the core API the detail controller needs.
type Gateway interface {
	FetchAppointment(ctx context.Context, id string) (*Record, error)
	CompleteAppointment(ctx context.Context, id string) error
	UpdateAppointmentStatus(ctx context.Context, id, status string) error
}

// Controller orchestrates the appointment detail view: it loads the record,
// ties the agent-status poller's lifecycle to the loaded identity, and
// exposes the complete/cancel transitions.
//
// "Mark no-show" is deliberately absent: that transition belongs to the
// automation agent, never to this view.
type Controller struct {
	gateway Gateway
	poller  *agentstatus.Poller

	mu      sync.Mutex
	current *Record
}

// NewController creates a detail controller around a gateway and a poller.
func NewController(gateway Gateway, poller *agentstatus.Poller) *Controller {
	return &Controller{gateway: gateway, poller: poller}
}

// Load fetches the appointment and points the poller at it. The poller's
// first fetch is issued unconditionally, read-through rather than cached.
func (c *Controller) Load(ctx context.Context, id string) (*Record, error) {
	record, err := c.gateway.FetchAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.current = record
	c.mu.Unlock()

	c.poller.Track(ctx, record.ID)
	return record, nil
}

// Current returns the last loaded record, nil before the first Load.
func (c *Controller) Current() *Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// CanMutate reports whether the loaded appointment still accepts the
// complete/cancel transitions.
func (c *Controller) CanMutate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil && !IsTerminalStatus(c.current.Status)
}

// AgentStatus returns the poller's current snapshot.
func (c *Controller) AgentStatus() agentstatus.Snapshot {
	return c.poller.Snapshot()
}

// RefreshAgentStatus forces one immediate poll for the loaded appointment.
func (c *Controller) RefreshAgentStatus() {
	c.poller.Refresh()
}

// Complete marks the loaded appointment completed via the dedicated
// endpoint, then reloads it, which re-triggers a poller fetch.
func (c *Controller) Complete(ctx context.Context) error {
	return c.mutate(ctx, func(id string) error {
		return c.gateway.CompleteAppointment(ctx, id)
	})
}

// Cancel cancels the loaded appointment via the generic status transition,
// then reloads it.
func (c *Controller) Cancel(ctx context.Context) error {
	return c.mutate(ctx, func(id string) error {
		return c.gateway.UpdateAppointmentStatus(ctx, id, StatusCancelled)
	})
}

func (c *Controller) mutate(ctx context.Context, transition func(id string) error) error {
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return apperr.Conflict("no appointment loaded")
	}
	if IsTerminalStatus(c.current.Status) {
		c.mu.Unlock()
		return apperr.Conflict("appointment is in a terminal state")
	}
	id := c.current.ID
	c.mu.Unlock()

	if err := transition(id); err != nil {
		return err
	}

	_, err := c.Load(ctx, id)
	return err
}

// Close releases the controller, stopping any scheduled polling.
func (c *Controller) Close() {
	c.poller.Stop()
}
