package model

import (
	"bytes"
	"encoding/json"
	"slices"

	"poke_league/internal/common"
)

type RosterAction string

const (
	RosterAdd    RosterAction = "add"
	RosterRemove RosterAction = "remove"
	RosterReset  RosterAction = "reset"
)

var (
	ErrInvalidAction = common.NewError(common.ErrBadRequest, "Invalid action")
	ErrMissingItem   = common.NewError(common.ErrValidation, "Missing pokemonId")
	ErrInvalidItem   = common.NewError(common.ErrValidation, "Invalid pokemonId")
)

// UnmarshalJSON accepts any JSON value. Anything but a string decodes to the
// empty action, which Apply rejects.
func (a *RosterAction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*a = ""
		return nil
	}
	*a = RosterAction(s)
	return nil
}

// PokemonID is an opaque roster item kept in canonical JSON form. Strings,
// numbers and booleans are accepted; 25 and 25.0 are the same item while 25
// and "25" are not.
type PokemonID string

// ParsePokemonID canonicalizes a raw JSON scalar. A missing or null value
// yields nil.
func ParsePokemonID(raw json.RawMessage) (*PokemonID, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var v interface{}
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil, ErrInvalidItem
	}
	switch v.(type) {
	case string, float64, bool:
	default:
		return nil, ErrInvalidItem
	}

	canonical, err := json.Marshal(v)
	if err != nil {
		return nil, ErrInvalidItem
	}
	id := PokemonID(canonical)
	return &id, nil
}

func (p PokemonID) MarshalJSON() ([]byte, error) {
	if p == "" {
		return []byte("null"), nil
	}
	return []byte(p), nil
}

func (p *PokemonID) UnmarshalJSON(data []byte) error {
	id, err := ParsePokemonID(data)
	if err != nil {
		return err
	}
	if id == nil {
		*p = ""
		return nil
	}
	*p = *id
	return nil
}

// Roster is the ordered, duplicate-free list of pokemon a user has picked.
type Roster []PokemonID

func (r Roster) Clone() Roster {
	if r == nil {
		return Roster{}
	}
	return slices.Clone(r)
}

func (r Roster) Contains(id PokemonID) bool {
	return slices.Contains(r, id)
}

// Apply returns the roster produced by action. The receiver is never modified;
// on error the caller keeps its current roster. item is only looked at by
// add and remove.
func (r Roster) Apply(action RosterAction, item json.RawMessage) (Roster, error) {
	switch action {
	case RosterAdd, RosterRemove:
	case RosterReset:
		return Roster{}, nil
	default:
		return nil, ErrInvalidAction
	}

	id, err := ParsePokemonID(item)
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, ErrMissingItem
	}

	if action == RosterAdd {
		next := r.Clone()
		if !next.Contains(*id) {
			next = append(next, *id)
		}
		return next, nil
	}

	next := make(Roster, 0, len(r))
	for _, existing := range r {
		if existing != *id {
			next = append(next, existing)
		}
	}
	return next, nil
}
