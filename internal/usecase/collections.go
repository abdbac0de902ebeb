package usecase

import (
	"fmt"
	"sort"
	"time"

	"notify-hub/internal/entity"
)

// Collection is a UI-facing bucket of grouped notifications sharing a
// presentation key. It is rebuilt per request and never persisted.
type Collection struct {
	Heading       string                `json:"heading"`
	Icon          string                `json:"icon"`
	Key           string                `json:"key"`
	URL           string                `json:"url,omitempty"`
	LastAt        time.Time             `json:"last_at"`
	Notifications []entity.Notification `json:"notifications"`
}

// Decorator supplies display attributes for a notification type. The core
// never computes display strings itself; it only carries what the
// presentation layer hands it.
type Decorator interface {
	Heading(t entity.NotificationType) string
	Icon(t entity.NotificationType) string
	URL(t entity.NotificationType) string
}

// TypeNameDecorator is the fallback decorator: it exposes the registry name
// so API consumers can localize headings and map icons themselves.
type TypeNameDecorator struct{}

func (TypeNameDecorator) Heading(t entity.NotificationType) string { return t.Name() }
func (TypeNameDecorator) Icon(t entity.NotificationType) string    { return t.Name() }
func (TypeNameDecorator) URL(t entity.NotificationType) string     { return "" }

// collectionKey buckets grouped rows for presentation, by type.
func collectionKey(n *entity.Notification) string {
	return fmt.Sprintf("type-%d", int(n.Type))
}

// BuildCollections re-buckets grouped rows into presentation collections and
// returns the number of input rows (the badge count of logical groups) plus
// the collections ordered by most recent activity. Ties keep input order.
func BuildCollections(rows []entity.Notification, decorator Decorator) (int, []Collection) {
	byKey := make(map[string]int, len(rows))
	collections := make([]Collection, 0, len(rows))

	for i := range rows {
		n := &rows[i]
		key := collectionKey(n)

		idx, ok := byKey[key]
		if !ok {
			idx = len(collections)
			byKey[key] = idx
			collections = append(collections, Collection{
				Heading: decorator.Heading(n.Type),
				Icon:    decorator.Icon(n.Type),
				Key:     key,
				URL:     decorator.URL(n.Type),
			})
		}

		collections[idx].Notifications = append(collections[idx].Notifications, *n)
		if n.CreatedAt.After(collections[idx].LastAt) {
			collections[idx].LastAt = n.CreatedAt
		}
	}

	sort.SliceStable(collections, func(i, j int) bool {
		return collections[i].LastAt.After(collections[j].LastAt)
	})

	return len(rows), collections
}
