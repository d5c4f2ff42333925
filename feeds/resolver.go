package feeds

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Identity is the authenticated caller, keyed by session subject
type Identity struct {
	Uid string
}

// Resolver computes the rooms a request may read from
type Resolver struct {
	members MemberStore
	rooms   RoomStore
}

func NewResolver(members MemberStore, rooms RoomStore) *Resolver {
	return &Resolver{members: members, rooms: rooms}
}

// Resolve returns the visible room ids for a category in ascending order.
//
// The public feed holds every unlocked room of the category. The key feed
// requires an identity and holds the rooms reachable through the member's
// registered keys plus the member's own locked rooms.
func (r *Resolver) Resolve(ctx context.Context, category string, keyFeed bool, identity *Identity) ([]int64, error) {
	if !keyFeed {
		ids, err := r.rooms.PublicRoomIds(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("public rooms: %w", err)
		}
		return ids, nil
	}

	if identity == nil || identity.Uid == "" {
		return nil, ErrUnauthorized
	}

	member, err := r.members.MemberByUid(ctx, identity.Uid)
	if err != nil {
		return nil, fmt.Errorf("member lookup: %w", err)
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}

	keyed, err := r.rooms.KeyedRoomIds(ctx, member.Id, category)
	if err != nil {
		return nil, fmt.Errorf("keyed rooms: %w", err)
	}

	owned, err := r.rooms.LockedOwnedRoomIds(ctx, member.Id, category)
	if err != nil {
		return nil, fmt.Errorf("owned rooms: %w", err)
	}

	ids := lo.Uniq(append(keyed, owned...))
	slices.Sort(ids)

	log.WithFields(log.Fields{
		"member":   member.Id,
		"category": category,
		"keyed":    len(keyed),
		"owned":    len(owned),
		"rooms":    len(ids),
	}).Debug("Resolved key feed rooms")

	return ids, nil
}
