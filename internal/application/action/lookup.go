package action

import (
	"github.com/Haleralex/jobportal/internal/application/ports"
	"github.com/Haleralex/jobportal/internal/domain/entities"
)

// ByID returns the filter that selects the record named by payload["_id"].
// It returns nil when the key is absent or empty, which the executor rejects
// for updates.
func ByID(payload ports.Document) ports.Filter {
	id, _ := payload[entities.FieldID].(string)
	if id == "" {
		return nil
	}
	return ports.Filter{ports.Eq(entities.FieldID, id)}
}
