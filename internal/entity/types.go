package entity

// NotificationType identifies the kind of event a notification records.
// Values are powers of two so sets of types can be carried as bitmasks
// (used by the default-enabled helpers below).
type NotificationType int

const (
	TypeLike    NotificationType = 1 << iota // someone liked your content
	TypeComment                              // someone commented on your content
	TypeFollow                               // someone followed you
	TypeMention                              // someone mentioned you
	TypeMessage                              // someone sent you a direct message
	TypeRepost                               // someone reposted your content
)

var typeNames = map[NotificationType]string{
	TypeLike:    "like",
	TypeComment: "comment",
	TypeFollow:  "follow",
	TypeMention: "mention",
	TypeMessage: "message",
	TypeRepost:  "repost",
}

// Name returns the symbolic name for the type, or "" for an unknown value.
func (t NotificationType) Name() string {
	return typeNames[t]
}

func (t NotificationType) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// AllTypes returns the closed set of defined types in ascending order.
func AllTypes() []NotificationType {
	return []NotificationType{TypeLike, TypeComment, TypeFollow, TypeMention, TypeMessage, TypeRepost}
}

// TypeNames returns a copy of the id -> name registry.
func TypeNames() map[NotificationType]string {
	names := make(map[NotificationType]string, len(typeNames))
	for t, name := range typeNames {
		names[t] = name
	}
	return names
}

// EnforcedTypes lists types that can never be disabled for on-site
// notifications.
func EnforcedTypes() []NotificationType {
	return nil
}

// EnsureEnforcedEnabled adds any enforced types missing from the mask.
func EnsureEnforcedEnabled(mask int) int {
	for _, t := range EnforcedTypes() {
		if mask&int(t) == 0 {
			mask += int(t)
		}
	}
	return mask
}

// DefaultSum is the bitmask of types enabled by default for on-site
// notifications.
func DefaultSum() int {
	sum := 0
	for _, t := range AllTypes() {
		sum += int(t)
	}
	return sum
}

// DefaultPushSum is the bitmask of types enabled by default for push.
func DefaultPushSum() int {
	return DefaultSum()
}

// DefaultEmailSum is the bitmask of types enabled by default for email.
func DefaultEmailSum() int {
	return 0
}
