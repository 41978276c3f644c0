// Package staffdirectory assembles the clinic staff roster from the core
// API's role-scoped user listings. Listings are fetched concurrently and
// merged into one deterministic roster; a failing role query degrades to an
// empty contribution instead of failing the whole directory.
package staffdirectory

import (
	"github.com/shashank35i/DentraOS-sub001/platform/phone"
)

// Role tags staff entries. Values match the core API's role query parameter.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleDoctor    Role = "DOCTOR"
	RoleAssistant Role = "ASSISTANT"
)

// DefaultRoles is the merge order: Admin first, then Doctor, then
// Assistant, independent of network arrival order.
var DefaultRoles = []Role{RoleAdmin, RoleDoctor, RoleAssistant}

// Entry is one immutable staff roster row. Entries are refreshed wholesale
// on each reload, never patched in place.
type Entry struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     Role   `json:"role"`
	IsActive bool   `json:"isActive"`
}

// Listing field aliases, resolved per entry at merge time. The id is the
// only non-negotiable field: entries without one are dropped.
var (
	idAliases       = []string{"id", "_id", "userId", "user_id"}
	fullNameAliases = []string{"fullName", "full_name", "name"}
	emailAliases    = []string{"email", "email_address", "emailAddress"}
	phoneAliases    = []string{"phone", "phone_number", "phoneNumber"}
	isActiveAliases = []string{"isActive", "is_active", "active"}
)

// decodeEntry resolves one raw listing row into an Entry. Returns false
// when the row has no id.
func decodeEntry(raw map[string]interface{}, role Role) (Entry, bool) {
	id := stringAlias(raw, idAliases)
	if id == "" {
		return Entry{}, false
	}

	isActive := true
	if value, ok := firstAlias(raw, isActiveAliases); ok {
		if flag, ok := value.(bool); ok {
			isActive = flag
		}
	}

	return Entry{
		ID:       id,
		FullName: stringAlias(raw, fullNameAliases),
		Email:    stringAlias(raw, emailAliases),
		Phone:    phone.NormalizeE164(stringAlias(raw, phoneAliases)),
		Role:     role,
		IsActive: isActive,
	}, true
}

func firstAlias(raw map[string]interface{}, aliases []string) (interface{}, bool) {
	for _, alias := range aliases {
		if value, ok := raw[alias]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

func stringAlias(raw map[string]interface{}, aliases []string) string {
	value, ok := firstAlias(raw, aliases)
	if !ok {
		return ""
	}
	text, _ := value.(string)
	return text
}
