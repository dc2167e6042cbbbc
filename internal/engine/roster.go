package engine

import (
	"slices"
	"strings"
)

// Roster is the editable entrant list. Insertion order is sector order and
// duplicates are allowed.
type Roster struct {
	entrants []string
	max      int
}

func NewRoster(max int, initial ...string) *Roster {
	r := &Roster{max: max}
	for _, name := range initial {
		// Seed entries past the cap are dropped, same as a user add.
		_ = r.Add(name)
	}
	return r
}

func (r *Roster) Add(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyEntrant
	}
	if len(r.entrants) >= r.max {
		return ErrCapacityExceeded
	}
	r.entrants = append(r.entrants, name)
	return nil
}

func (r *Roster) Delete(index int) error {
	if index < 0 || index >= len(r.entrants) {
		return ErrIndexOutOfRange
	}
	r.entrants = slices.Delete(r.entrants, index, index+1)
	return nil
}

// Replace swaps in a whole list, enforcing the same rules as Add.
func (r *Roster) Replace(names []string) error {
	if len(names) > r.max {
		return ErrCapacityExceeded
	}
	next := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return ErrEmptyEntrant
		}
		next = append(next, name)
	}
	r.entrants = next
	return nil
}

func (r *Roster) Reset() {
	r.entrants = nil
}

func (r *Roster) Len() int { return len(r.entrants) }

func (r *Roster) Max() int { return r.max }

// Entrants returns a copy; callers may keep it.
func (r *Roster) Entrants() []string {
	out := make([]string, len(r.entrants))
	copy(out, r.entrants)
	return out
}
