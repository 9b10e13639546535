package domain

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"
)

// Wishlist is the set of product ids a session has marked as liked.
// Ids are unique; order is irrelevant. The zero value is not usable,
// construct with NewWishlist.
type Wishlist struct {
	ids map[int64]struct{}
}

// NewWishlist creates a wishlist containing the given product ids.
// Duplicates and non-positive ids are dropped.
func NewWishlist(ids ...int64) *Wishlist {
	w := &Wishlist{ids: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		if id > 0 {
			w.ids[id] = struct{}{}
		}
	}
	return w
}

// Has reports whether the product id is in the wishlist.
func (w *Wishlist) Has(id int64) bool {
	_, ok := w.ids[id]
	return ok
}

// Add inserts the product id. Adding an existing id is a no-op.
func (w *Wishlist) Add(id int64) {
	if id > 0 {
		w.ids[id] = struct{}{}
	}
}

// Remove deletes the product id. Removing an absent id is a no-op.
func (w *Wishlist) Remove(id int64) {
	delete(w.ids, id)
}

// Len returns the number of ids in the wishlist.
func (w *Wishlist) Len() int {
	return len(w.ids)
}

// IDs returns the product ids sorted ascending. The slice is a fresh copy.
func (w *Wishlist) IDs() []int64 {
	out := make([]int64, 0, len(w.ids))
	for id := range w.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Encode returns the canonical persisted form: a JSON array of sorted ids.
// Encoding is deterministic, so re-encoding a decoded snapshot reproduces the
// stored bytes exactly.
func (w *Wishlist) Encode() string {
	data, err := json.Marshal(w.IDs())
	if err != nil {
		// A slice of int64 cannot fail to marshal.
		return "[]"
	}
	return string(data)
}

// ParseProductIDs maps every persisted or remote wishlist shape to the
// canonical id set: a JSON integer array, a JSON-quoted comma-delimited
// string, a bare comma-delimited string, or nothing at all. The persisted
// representation has changed over time, so unparsable input degrades to the
// empty set instead of failing. Invalid tokens are dropped; survivors are
// deduplicated and sorted.
func ParseProductIDs(raw string) []int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []int64{}
	}

	var asInts []int64
	if err := json.Unmarshal([]byte(raw), &asInts); err == nil {
		return NewWishlist(asInts...).IDs()
	}

	// Legacy shape: a JSON-quoted comma-delimited string.
	var asString string
	if err := json.Unmarshal([]byte(raw), &asString); err == nil {
		return parseDelimited(asString)
	}

	// Oldest shape: a bare comma-delimited string.
	return parseDelimited(raw)
}

func parseDelimited(s string) []int64 {
	w := NewWishlist()
	for _, tok := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
		if err != nil {
			continue
		}
		w.Add(id)
	}
	return w.IDs()
}
