package staffdirectory

import (
	"context"
	"sort"

	"github.com/shashank35i/DentraOS-sub001/platform/logger"

	"golang.org/x/sync/errgroup"
)

// Lister fetches one role-scoped user listing as the raw response payload.
// The listing key inside the payload has two historical spellings, which
// the aggregator resolves itself.
type Lister interface {
	FetchRoleListing(ctx context.Context, role Role) (map[string]interface{}, error)
}

// Aggregator merges role-scoped listings into one ordered roster.
type Aggregator struct {
	lister Lister
	log    *logger.Logger
}

// NewAggregator creates a staff directory aggregator.
func NewAggregator(lister Lister, log *logger.Logger) *Aggregator {
	return &Aggregator{lister: lister, log: log}
}

// LoadDirectory queries every role concurrently, joins all results, and
// returns the merged roster. A failed or unrecognizable role query
// contributes an empty slice: partial data beats no data, and the next
// reload is the retry. The final order is role then display name, both
// lexicographic, so the roster is stable across reloads regardless of
// network timing.
func (a *Aggregator) LoadDirectory(ctx context.Context, roles []Role) []Entry {
	perRole := make([][]Entry, len(roles))

	var group errgroup.Group
	for i, role := range roles {
		group.Go(func() error {
			payload, err := a.lister.FetchRoleListing(ctx, role)
			if err != nil {
				if a.log != nil {
					a.log.Debug("staff role query failed", "role", string(role), "error", err.Error())
				}
				return nil
			}
			perRole[i] = decodeListing(payload, role)
			return nil
		})
	}
	// Goroutines swallow their own failures, so Wait only joins.
	_ = group.Wait()

	roster := make([]Entry, 0)
	for _, entries := range perRole {
		roster = append(roster, entries...)
	}

	sort.SliceStable(roster, func(i, j int) bool {
		if roster[i].Role != roster[j].Role {
			return roster[i].Role < roster[j].Role
		}
		return roster[i].FullName < roster[j].FullName
	})

	return roster
}

// decodeListing accepts either historical listing key and resolves each row.
// Unrecognized shapes yield an empty list.
func decodeListing(payload map[string]interface{}, role Role) []Entry {
	rows := listingRows(payload)
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		raw, ok := row.(map[string]interface{})
		if !ok {
			continue
		}
		if entry, ok := decodeEntry(raw, role); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

func listingRows(payload map[string]interface{}) []interface{} {
	for _, key := range []string{"items", "users"} {
		if rows, ok := payload[key].([]interface{}); ok {
			return rows
		}
	}
	return nil
}
