package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/okian/roommatch/internal/domain/model"
)

var (
	validate     *validator.Validate //nolint:gochecknoglobals // validator caches struct metadata
	validateOnce sync.Once           //nolint:gochecknoglobals // guards validate
)

// getValidator returns the shared validator with the neighborhood rule
// registered and json names used in error messages.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("neighborhood", func(fl validator.FieldLevel) bool {
			return model.KnownNeighborhood(fl.Field().String())
		})
	})
	return validate
}

// validateStruct runs the validator and flattens its errors into one line.
func validateStruct(v any) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, translateError(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func translateError(fe validator.FieldError) string {
	// Namespace is "<struct>.<path>"; embedded structs keep their Go name.
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	field = strings.ReplaceAll(field, "profileFields.", "")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be less than %s", field, strings.ToLower(fe.Param()))
	case "neighborhood":
		return fmt.Sprintf("%s is not a known neighborhood", field)
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

type budgetRequest struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gtefield=Min"`
}

type preferencesRequest struct {
	SleepSchedule *string `json:"sleepSchedule,omitempty" validate:"omitempty,oneof=early_bird night_owl flexible"`
	Smoking       *bool   `json:"smoking,omitempty"`
	Drinking      *string `json:"drinking,omitempty" validate:"omitempty,oneof=never occasionally frequently"`
	Pets          *bool   `json:"pets,omitempty"`
	Noise         *string `json:"noise,omitempty" validate:"omitempty,oneof=quiet moderate loud"`
	Guests        *string `json:"guests,omitempty" validate:"omitempty,oneof=rarely occasionally frequently"`
	Cleanliness   *int    `json:"cleanliness,omitempty" validate:"omitempty,min=1,max=5"`
}

// profileFields is the matchable part of a profile as sent by clients.
type profileFields struct {
	Neighborhood *string             `json:"neighborhood,omitempty" validate:"omitempty,neighborhood"`
	Budget       *budgetRequest      `json:"budget,omitempty"`
	Age          *int                `json:"age,omitempty" validate:"omitempty,min=18,max=120"`
	Preferences  *preferencesRequest `json:"preferences,omitempty"`
}

// profileRequest mirrors the OpenAPI schema for PUT /profiles/{id}.
type profileRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Bio        string `json:"bio,omitempty" validate:"max=1000"`
	Occupation string `json:"occupation,omitempty" validate:"max=100"`
	Gender     string `json:"gender,omitempty" validate:"max=50"`
	profileFields
}

// compatibilityRequest mirrors the OpenAPI schema for POST /compatibility.
type compatibilityRequest struct {
	A profileFields `json:"a"`
	B profileFields `json:"b"`
}

// saveMatchRequest mirrors the OpenAPI schema for POST /matches/{id}/saved.
type saveMatchRequest struct {
	MatchedUserID string `json:"matched_user_id" validate:"required,max=128"`
}

func (r *profileRequest) Validate() error       { return validateStruct(r) }
func (r *compatibilityRequest) Validate() error { return validateStruct(r) }
func (r *saveMatchRequest) Validate() error     { return validateStruct(r) }

func (f profileFields) toModel() model.Profile {
	p := model.Profile{
		Neighborhood: f.Neighborhood,
		Age:          f.Age,
	}
	if f.Budget != nil {
		p.Budget = &model.Budget{Min: f.Budget.Min, Max: f.Budget.Max}
	}
	if pr := f.Preferences; pr != nil {
		p.Preferences = &model.Preferences{
			SleepSchedule: convertPtr[model.SleepSchedule](pr.SleepSchedule),
			Smoking:       pr.Smoking,
			Drinking:      convertPtr[model.Drinking](pr.Drinking),
			Pets:          pr.Pets,
			Noise:         convertPtr[model.Noise](pr.Noise),
			Guests:        convertPtr[model.Guests](pr.Guests),
			Cleanliness:   pr.Cleanliness,
		}
	}
	return p
}

func (r *profileRequest) toModel(id string) model.User {
	return model.User{
		ID:         id,
		Name:       strings.TrimSpace(r.Name),
		Bio:        r.Bio,
		Occupation: r.Occupation,
		Gender:     r.Gender,
		Profile:    r.profileFields.toModel(),
	}
}

func convertPtr[T ~string](s *string) *T {
	if s == nil {
		return nil
	}
	v := T(*s)
	return &v
}
