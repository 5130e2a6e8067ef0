// Package types contains the public shapes shared by the ranking engine and
// the HTTP adapter.
package types

import "github.com/okian/roommatch/internal/domain/model"

// PublicUser is the part of a user record that other users may see.
// Timestamps stay internal.
type PublicUser struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Bio          string             `json:"bio,omitempty"`
	Occupation   string             `json:"occupation,omitempty"`
	Gender       string             `json:"gender,omitempty"`
	Neighborhood *string            `json:"neighborhood,omitempty"`
	Budget       *model.Budget      `json:"budget,omitempty"`
	Age          *int               `json:"age,omitempty"`
	Preferences  *model.Preferences `json:"preferences,omitempty"`
}

// Public projects u onto its visible fields.
func Public(u model.User) PublicUser {
	return PublicUser{
		ID:           u.ID,
		Name:         u.Name,
		Bio:          u.Bio,
		Occupation:   u.Occupation,
		Gender:       u.Gender,
		Neighborhood: u.Profile.Neighborhood,
		Budget:       u.Profile.Budget,
		Age:          u.Profile.Age,
		Preferences:  u.Profile.Preferences,
	}
}
