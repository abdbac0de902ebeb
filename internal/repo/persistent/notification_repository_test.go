package persistent

import (
	"testing"

	"notify-hub/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestGroupForQuery_UsesPolicyGroupBy(t *testing.T) {
	policy := NewGroupPolicy(entity.TypeMessage)
	repo := &notificationRepository{policy: policy}
	from := int64(7)
	n := &entity.Notification{Type: entity.TypeMessage, ForUserID: 42, FromUserID: &from}

	query, args := repo.groupForQuery(n, true)

	// The single-group read derives its GROUP BY from the same policy as
	// the grouped list, including the from-user CASE expression.
	assert.Contains(t, query, "GROUP BY "+policy.SelectGroupBy())
	assert.Contains(t, query, "CASE WHEN type IN (16) THEN from_user_id END")
	assert.Contains(t, query, "AND seen_at IS NULL")
	assert.Contains(t, query, "AND from_user_id = ?")
	assert.Equal(t, []interface{}{int64(42), int(entity.TypeMessage), int64(7)}, args)
}

func TestGroupForQuery_SeenRowsIncludedWhenNotUnseenOnly(t *testing.T) {
	repo := &notificationRepository{policy: DefaultGroupPolicy()}
	n := &entity.Notification{Type: entity.TypeLike, ForUserID: 42}

	query, _ := repo.groupForQuery(n, false)

	assert.NotContains(t, query, "seen_at")
}
