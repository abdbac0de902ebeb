package persistent

import (
	"testing"

	"notify-hub/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestMatchClause_BaseFields(t *testing.T) {
	policy := NewGroupPolicy()
	from := int64(7)
	n := &entity.Notification{Type: entity.TypeLike, ForUserID: 42, FromUserID: &from}

	clause, args := policy.MatchClause(n)

	assert.Equal(t, " AND for_user_id = ? AND type = ?", clause)
	assert.Equal(t, []interface{}{int64(42), int(entity.TypeLike)}, args)
}

func TestMatchClause_FromUserSensitiveType(t *testing.T) {
	policy := NewGroupPolicy(entity.TypeMessage)
	from := int64(7)
	n := &entity.Notification{Type: entity.TypeMessage, ForUserID: 42, FromUserID: &from}

	clause, args := policy.MatchClause(n)

	assert.Equal(t, " AND for_user_id = ? AND type = ? AND from_user_id = ?", clause)
	assert.Equal(t, []interface{}{int64(42), int(entity.TypeMessage), int64(7)}, args)
}

func TestMatchClause_NullFromUserUsesIsNull(t *testing.T) {
	policy := NewGroupPolicy(entity.TypeMessage)
	n := &entity.Notification{Type: entity.TypeMessage, ForUserID: 42}

	clause, args := policy.MatchClause(n)

	// "= NULL" never matches; null key fields must use IS NULL
	assert.Equal(t, " AND for_user_id = ? AND type = ? AND from_user_id IS NULL", clause)
	assert.Equal(t, []interface{}{int64(42), int(entity.TypeMessage)}, args)
}

func TestMatchClause_NonSensitiveTypeIgnoresFromUser(t *testing.T) {
	policy := NewGroupPolicy(entity.TypeMessage)
	from := int64(7)
	n := &entity.Notification{Type: entity.TypeLike, ForUserID: 42, FromUserID: &from}

	clause, _ := policy.MatchClause(n)

	assert.NotContains(t, clause, "from_user_id")
}

func TestSelectGroupBy_NoSensitiveTypes(t *testing.T) {
	policy := NewGroupPolicy()

	assert.Equal(t, "for_user_id, type", policy.SelectGroupBy())
}

func TestSelectGroupBy_WithSensitiveTypes(t *testing.T) {
	policy := NewGroupPolicy(entity.TypeMessage)

	groupBy := policy.SelectGroupBy()

	assert.Contains(t, groupBy, "for_user_id, type")
	assert.Contains(t, groupBy, "CASE WHEN type IN (16) THEN from_user_id END")
}

func TestSelectGroupBy_MatchClause_SameConfiguration(t *testing.T) {
	// The read path and the mutation path must derive the group key from the
	// same configuration: a type in the GROUP BY CASE must also appear in
	// the match clause, and vice versa.
	policy := NewGroupPolicy(entity.TypeMessage, entity.TypeMention)
	from := int64(7)

	for _, typ := range entity.AllTypes() {
		n := &entity.Notification{Type: typ, ForUserID: 42, FromUserID: &from}
		clause, _ := policy.MatchClause(n)
		assert.Equal(t, policy.GroupsByFromUser(typ), len(clause) > len(" AND for_user_id = ? AND type = ?"),
			"match clause and group-by disagree for type %s", typ.Name())
	}
}

func TestKey_Stability(t *testing.T) {
	policy := DefaultGroupPolicy()
	from := int64(7)

	like := &entity.Notification{Type: entity.TypeLike, ForUserID: 42, FromUserID: &from}
	otherFrom := int64(8)
	sameGroup := &entity.Notification{Type: entity.TypeLike, ForUserID: 42, FromUserID: &otherFrom}

	// Likes group regardless of actor
	assert.Equal(t, policy.Key(like), policy.Key(sameGroup))

	msgA := &entity.Notification{Type: entity.TypeMessage, ForUserID: 42, FromUserID: &from}
	msgB := &entity.Notification{Type: entity.TypeMessage, ForUserID: 42, FromUserID: &otherFrom}

	// Messages from different senders stay apart
	assert.NotEqual(t, policy.Key(msgA), policy.Key(msgB))
}

func TestDefaultGroupPolicy(t *testing.T) {
	policy := DefaultGroupPolicy()

	assert.True(t, policy.GroupsByFromUser(entity.TypeMessage))
	assert.False(t, policy.GroupsByFromUser(entity.TypeLike))
}
