// Package resources is a generic persistence-backed store for the CMS entity
// kinds. Entities are schemaless JSON documents keyed by kind; the access
// guard authorizes every operation against the kind as resource name.
package resources

import (
	"encoding/json"
	"time"

	"github.com/pressdesk/pressdesk/internal/shared"
)

// Resource is one stored document of a registered kind.
type Resource struct {
	ID        int64
	Kind      string
	Payload   json.RawMessage
	CreatedBy *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Kinds lists the entity kinds the store serves. Users and roles have
// dedicated modules and stay out of the generic store.
func Kinds() []string {
	return []string{
		shared.ResourceContent,
		shared.ResourceCategories,
		shared.ResourceTags,
		shared.ResourcePosts,
		shared.ResourceComments,
		shared.ResourceMetadata,
		shared.ResourceNotifications,
	}
}

// KnownKind reports whether kind is served by the store.
func KnownKind(kind string) bool {
	for _, k := range Kinds() {
		if k == kind {
			return true
		}
	}
	return false
}
