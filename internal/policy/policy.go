// Package policy contains the ownership and visibility decision logic for
// collections. All functions are pure: they take a collection and a
// requester email and answer yes or no, with no I/O and no side effects.
// Every handler and service routes authorization through here instead of
// comparing owner emails inline.
package policy

import "github.com/millukiapp/milluki-server/internal/domain"

// CanRead reports whether the requester may read the collection.
// Public collections are readable by anyone; private ones only by
// their owner. A collection without an owner fails closed: it is
// readable only if public.
func CanRead(c *domain.Collection, requesterEmail string) bool {
	if c == nil {
		return false
	}
	if c.IsPublic {
		return true
	}
	return isOwner(c, requesterEmail)
}

// CanWrite reports whether the requester may mutate the collection
// (rename, change visibility, attach or detach books, delete).
// Only the owner may write; visibility grants no write access.
func CanWrite(c *domain.Collection, requesterEmail string) bool {
	if c == nil {
		return false
	}
	return isOwner(c, requesterEmail)
}

// CanCreate reports whether the requester may create a collection.
// Any authenticated identity qualifies.
func CanCreate(requesterEmail string) bool {
	return requesterEmail != ""
}

// isOwner fails closed: an ownerless collection belongs to nobody,
// and an anonymous requester owns nothing.
func isOwner(c *domain.Collection, requesterEmail string) bool {
	return c.Owner != "" && requesterEmail != "" && c.Owner == requesterEmail
}
