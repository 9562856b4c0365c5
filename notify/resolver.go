package notify

import (
	"chat-notify/domain"

	"github.com/samber/lo"
)

// UserSet holds recipient user ids with set semantics: a user appearing in
// both snapshots still receives a single event.
type UserSet map[int64]struct{}

func (s UserSet) Contains(userID int64) bool {
	_, ok := s[userID]
	return ok
}

// AffectedUsers resolves who must receive a chat_updated event from the two
// row snapshots alone.
//
// When both snapshots exist and the member sets match, the change is not a
// membership change and current members are notified. When they differ, the
// union is notified so that a removed user still learns about its own removal
// and an added user receives the membership event.
func AffectedUsers(old, updated *domain.Chat) UserSet {
	switch {
	case old != nil && updated != nil:
		if sameMemberSet(old.Members, updated.Members) {
			return toUserSet(updated.Members)
		}
		return toUserSet(lo.Union(old.Members, updated.Members))
	case old != nil:
		return toUserSet(old.Members)
	case updated != nil:
		return toUserSet(updated.Members)
	default:
		return UserSet{}
	}
}

func sameMemberSet(a, b []int64) bool {
	ua, ub := lo.Uniq(a), lo.Uniq(b)
	return len(ua) == len(ub) && len(lo.Intersect(ua, ub)) == len(ua)
}

func toUserSet(ids []int64) UserSet {
	set := make(UserSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
