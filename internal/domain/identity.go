package domain

// Identity is the authentication state of a session. A stale UserID may
// survive a logout in persisted form; it is inert unless Authenticated is set.
type Identity struct {
	UserID        int64 `json:"user_id,omitempty"`
	Authenticated bool  `json:"authenticated"`
}

// Guest is the initial identity of every session.
var Guest = Identity{}

// Valid reports whether the identity represents an authenticated user bound
// to a concrete user id.
func (id Identity) Valid() bool {
	return id.Authenticated && id.UserID > 0
}
