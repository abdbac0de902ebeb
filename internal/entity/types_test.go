package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationType_Name(t *testing.T) {
	assert.Equal(t, "like", TypeLike.Name())
	assert.Equal(t, "comment", TypeComment.Name())
	assert.Equal(t, "message", TypeMessage.Name())
	assert.Equal(t, "", NotificationType(999).Name())
}

func TestNotificationType_Valid(t *testing.T) {
	assert.True(t, TypeLike.Valid())
	assert.True(t, TypeRepost.Valid())
	assert.False(t, NotificationType(0).Valid())
	assert.False(t, NotificationType(3).Valid())
}

func TestAllTypes_Closed(t *testing.T) {
	all := AllTypes()
	assert.Len(t, all, len(TypeNames()))
	for _, typ := range all {
		assert.True(t, typ.Valid())
		assert.NotEmpty(t, typ.Name())
	}
}

func TestDefaultSum(t *testing.T) {
	sum := DefaultSum()
	for _, typ := range AllTypes() {
		assert.NotZero(t, sum&int(typ), "type %s should be in the default mask", typ.Name())
	}
	assert.Equal(t, DefaultSum(), DefaultPushSum())
	assert.Equal(t, 0, DefaultEmailSum())
}

func TestEnsureEnforcedEnabled_NoEnforcedTypes(t *testing.T) {
	// No types are currently enforced, so the mask passes through untouched.
	assert.Equal(t, 0, EnsureEnforcedEnabled(0))
	assert.Equal(t, int(TypeLike), EnsureEnforcedEnabled(int(TypeLike)))
}

func TestNotification_ContributorIDs(t *testing.T) {
	from := int64(7)

	grouped := &Notification{FromUserID: &from, FromUserIDs: []int64{9, 8, 7}}
	assert.Equal(t, []int64{9, 8, 7}, grouped.ContributorIDs())

	single := &Notification{FromUserID: &from}
	assert.Equal(t, []int64{7}, single.ContributorIDs())

	system := &Notification{}
	assert.Nil(t, system.ContributorIDs())
}

func TestNotification_Seen(t *testing.T) {
	n := &Notification{}
	assert.False(t, n.Seen())
}
