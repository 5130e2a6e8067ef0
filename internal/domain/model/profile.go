// Package model contains domain models passed between layers.
package model

import "time"

// SleepSchedule describes when a person is usually awake.
type SleepSchedule string

// Sleep schedules.
const (
	SleepEarlyBird SleepSchedule = "early_bird"
	SleepNightOwl  SleepSchedule = "night_owl"
	SleepFlexible  SleepSchedule = "flexible"
)

// Valid reports whether s is one of the known schedules.
func (s SleepSchedule) Valid() bool {
	switch s {
	case SleepEarlyBird, SleepNightOwl, SleepFlexible:
		return true
	}
	return false
}

// Drinking describes drinking habits.
type Drinking string

// Drinking habits.
const (
	DrinkingNever        Drinking = "never"
	DrinkingOccasionally Drinking = "occasionally"
	DrinkingFrequently   Drinking = "frequently"
)

// Valid reports whether d is one of the known habits.
func (d Drinking) Valid() bool {
	switch d {
	case DrinkingNever, DrinkingOccasionally, DrinkingFrequently:
		return true
	}
	return false
}

// Noise describes the noise level a person produces at home.
type Noise string

// Noise levels.
const (
	NoiseQuiet    Noise = "quiet"
	NoiseModerate Noise = "moderate"
	NoiseLoud     Noise = "loud"
)

// Level maps the noise preference onto 1..3; unknown values map to 0.
func (n Noise) Level() int {
	switch n {
	case NoiseQuiet:
		return 1
	case NoiseModerate:
		return 2
	case NoiseLoud:
		return 3
	}
	return 0
}

// Valid reports whether n is one of the known levels.
func (n Noise) Valid() bool { return n.Level() > 0 }

// Guests describes how often a person has visitors over.
type Guests string

// Guest frequencies.
const (
	GuestsRarely       Guests = "rarely"
	GuestsOccasionally Guests = "occasionally"
	GuestsFrequently   Guests = "frequently"
)

// Level maps the guest frequency onto 1..3; unknown values map to 0.
func (g Guests) Level() int {
	switch g {
	case GuestsRarely:
		return 1
	case GuestsOccasionally:
		return 2
	case GuestsFrequently:
		return 3
	}
	return 0
}

// Valid reports whether g is one of the known frequencies.
func (g Guests) Valid() bool { return g.Level() > 0 }

// Budget is a monthly rent range. Callers guarantee Min <= Max.
type Budget struct {
	Min float64 `json:"min" koanf:"min"`
	Max float64 `json:"max" koanf:"max"`
}

// Range returns Max - Min.
func (b Budget) Range() float64 { return b.Max - b.Min }

// Preferences holds the lifestyle answers of a profile. Every field is
// optional; nil means "not answered".
type Preferences struct {
	SleepSchedule *SleepSchedule `json:"sleepSchedule,omitempty" koanf:"sleepSchedule"`
	Smoking       *bool          `json:"smoking,omitempty" koanf:"smoking"`
	Drinking      *Drinking      `json:"drinking,omitempty" koanf:"drinking"`
	Pets          *bool          `json:"pets,omitempty" koanf:"pets"`
	Noise         *Noise         `json:"noise,omitempty" koanf:"noise"`
	Guests        *Guests        `json:"guests,omitempty" koanf:"guests"`
	Cleanliness   *int           `json:"cleanliness,omitempty" koanf:"cleanliness"`
}

// Profile is the part of a user record that takes part in matching.
type Profile struct {
	Neighborhood *string      `json:"neighborhood,omitempty" koanf:"neighborhood"`
	Budget       *Budget      `json:"budget,omitempty" koanf:"budget"`
	Age          *int         `json:"age,omitempty" koanf:"age"`
	Preferences  *Preferences `json:"preferences,omitempty" koanf:"preferences"`
}

// Complete reports whether the profile carries both preferences and a budget,
// which is what the matching flow requires of a requester.
func (p Profile) Complete() bool {
	return p.Preferences != nil && p.Budget != nil
}

// User is a stored profile together with its identity and display fields.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Bio        string    `json:"bio,omitempty"`
	Occupation string    `json:"occupation,omitempty"`
	Gender     string    `json:"gender,omitempty"`
	Profile    Profile   `json:"profile"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Ptr returns a pointer to v. Handy for building optional profile fields.
func Ptr[T any](v T) *T { return &v }

// Clone returns a deep copy of p so stored values cannot be mutated through
// shared pointers.
func (p Profile) Clone() Profile {
	out := Profile{
		Neighborhood: clonePtr(p.Neighborhood),
		Budget:       clonePtr(p.Budget),
		Age:          clonePtr(p.Age),
	}
	if p.Preferences != nil {
		prefs := Preferences{
			SleepSchedule: clonePtr(p.Preferences.SleepSchedule),
			Smoking:       clonePtr(p.Preferences.Smoking),
			Drinking:      clonePtr(p.Preferences.Drinking),
			Pets:          clonePtr(p.Preferences.Pets),
			Noise:         clonePtr(p.Preferences.Noise),
			Guests:        clonePtr(p.Preferences.Guests),
			Cleanliness:   clonePtr(p.Preferences.Cleanliness),
		}
		out.Preferences = &prefs
	}
	return out
}

// Clone returns a deep copy of u.
func (u User) Clone() User {
	u.Profile = u.Profile.Clone()
	return u
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
