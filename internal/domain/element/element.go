// Package element contains the domain model for ratable statements.
//
// An element is a single short statement shown to voters in head-to-head
// duels. Its rating history is tracked on independent tracks: one global
// track plus one per voter-sex bucket and one per age bracket. Only votes
// from a segment ever touch that segment's track.
package element

import (
	"sort"
	"strings"
	"time"
)

// DefaultScore is the rating every new element starts with, on every track.
const DefaultScore = 1000

// Category groups elements by the situation a statement describes.
type Category string

const (
	CategoryCouple  Category = "couple"
	CategoryBureau  Category = "bureau"
	CategoryFamille Category = "famille"
	CategoryAmis    Category = "amis"
	CategorySoiree  Category = "soiree"
	CategoryReseaux Category = "reseaux"
)

// Categories lists every valid category.
func Categories() []Category {
	return []Category{
		CategoryCouple, CategoryBureau, CategoryFamille,
		CategoryAmis, CategorySoiree, CategoryReseaux,
	}
}

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryCouple, CategoryBureau, CategoryFamille,
		CategoryAmis, CategorySoiree, CategoryReseaux:
		return true
	default:
		return false
	}
}

// Sex is a voter-sex segment bucket.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

// IsValid reports whether s is a known sex bucket.
func (s Sex) IsValid() bool {
	return s == SexMale || s == SexFemale || s == SexOther
}

// Sexes lists every sex bucket.
func Sexes() []Sex {
	return []Sex{SexMale, SexFemale, SexOther}
}

// AgeBracket is a voter-age segment bucket.
type AgeBracket string

const (
	Age18To24 AgeBracket = "18-24"
	Age25To34 AgeBracket = "25-34"
	Age35To49 AgeBracket = "35-49"
	Age50Plus AgeBracket = "50+"
)

// IsValid reports whether a is a known age bracket.
func (a AgeBracket) IsValid() bool {
	switch a {
	case Age18To24, Age25To34, Age35To49, Age50Plus:
		return true
	default:
		return false
	}
}

// AgeBrackets lists every age bracket.
func AgeBrackets() []AgeBracket {
	return []AgeBracket{Age18To24, Age25To34, Age35To49, Age50Plus}
}

// Profile is the demographic slice a voter declared for their session.
type Profile struct {
	Sex Sex        `json:"sex"`
	Age AgeBracket `json:"age"`
}

// IsValid reports whether both buckets are known.
func (p Profile) IsValid() bool {
	return p.Sex.IsValid() && p.Age.IsValid()
}

// Track is one independent rating track: a score plus the number of votes
// that shaped it.
type Track struct {
	Score          int `json:"score"`
	Participations int `json:"participations"`
}

// NewTrack returns a fresh track at the default score.
func NewTrack() Track {
	return Track{Score: DefaultScore, Participations: 0}
}

// Element is a single ratable statement.
type Element struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Category Category `json:"category"`
	Active   bool     `json:"active"`

	Global Track                `json:"global"`
	BySex  map[Sex]Track        `json:"by_sex"`
	ByAge  map[AgeBracket]Track `json:"by_age"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates an active element with every rating track at the default.
func New(id, label string, category Category) Element {
	now := time.Now().UTC()
	e := Element{
		ID:        id,
		Label:     label,
		Category:  category,
		Active:    true,
		Global:    NewTrack(),
		BySex:     make(map[Sex]Track, 3),
		ByAge:     make(map[AgeBracket]Track, 4),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, s := range Sexes() {
		e.BySex[s] = NewTrack()
	}
	for _, a := range AgeBrackets() {
		e.ByAge[a] = NewTrack()
	}
	return e
}

// SexTrack returns the rating track for a sex bucket, defaulting when the
// bucket has never been touched.
func (e *Element) SexTrack(s Sex) Track {
	if t, ok := e.BySex[s]; ok {
		return t
	}
	return NewTrack()
}

// AgeTrack returns the rating track for an age bracket, defaulting when the
// bracket has never been touched.
func (e *Element) AgeTrack(a AgeBracket) Track {
	if t, ok := e.ByAge[a]; ok {
		return t
	}
	return NewTrack()
}

// Clone returns a deep copy of the element.
func (e *Element) Clone() Element {
	c := *e
	c.BySex = make(map[Sex]Track, len(e.BySex))
	for k, v := range e.BySex {
		c.BySex[k] = v
	}
	c.ByAge = make(map[AgeBracket]Track, len(e.ByAge))
	for k, v := range e.ByAge {
		c.ByAge[k] = v
	}
	return c
}

// PairKey is the canonical identity of an unordered element pair.
type PairKey string

// NewPairKey builds the order-independent key for two element ids:
// the ids sorted and joined, so (a,b) and (b,a) collide.
func NewPairKey(a, b string) PairKey {
	ids := []string{a, b}
	sort.Strings(ids)
	return PairKey(strings.Join(ids, "|"))
}

// Split returns the two element ids behind the key. ok is false for a
// malformed key.
func (k PairKey) Split() (a, b string, ok bool) {
	parts := strings.SplitN(string(k), "|", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// Contains reports whether the key involves the given element id.
func (k PairKey) Contains(id string) bool {
	parts := strings.SplitN(string(k), "|", 2)
	for _, p := range parts {
		if p == id {
			return true
		}
	}
	return false
}
