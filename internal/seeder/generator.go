package seeder

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/roommatch/internal/domain/model"
)

// Budget generation ranges in dollars per month.
const (
	budgetFloor = 900
	budgetSpan  = 3100
	budgetStep  = 50
	maxRange    = 1200
	minAge      = 19
	ageSpan     = 40
)

var (
	firstNames  = []string{"Alex", "Sam", "Jordan", "Taylor", "Riley", "Casey", "Morgan", "Jamie", "Avery", "Quinn"} //nolint:gochecknoglobals // fixture data
	occupations = []string{"designer", "nurse", "engineer", "teacher", "chef", "student", "analyst", "musician"}    //nolint:gochecknoglobals // fixture data
	sleeps      = []model.SleepSchedule{model.SleepEarlyBird, model.SleepNightOwl, model.SleepFlexible}            //nolint:gochecknoglobals // enum values
	drinks      = []model.Drinking{model.DrinkingNever, model.DrinkingOccasionally, model.DrinkingFrequently}      //nolint:gochecknoglobals // enum values
	noises      = []model.Noise{model.NoiseQuiet, model.NoiseModerate, model.NoiseLoud}                            //nolint:gochecknoglobals // enum values
	guests      = []model.Guests{model.GuestsRarely, model.GuestsOccasionally, model.GuestsFrequently}             //nolint:gochecknoglobals // enum values
)

// Profile is a generated user as sent to PUT /profiles/{id}.
type Profile struct {
	ID         string `json:"-"`
	Name       string `json:"name"`
	Occupation string `json:"occupation,omitempty"`
	model.Profile
}

// Generator produces valid NYC profiles from a seed.
type Generator struct {
	rng           *rand.Rand
	ids           *rand.ChaCha8
	incompletePct int
}

// NewGenerator returns a generator; equal seeds yield equal sequences.
func NewGenerator(seed uint64, incompletePct int) *Generator {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	return &Generator{
		rng:           rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		ids:           rand.NewChaCha8(key),
		incompletePct: incompletePct,
	}
}

// Generate returns n profiles.
func (g *Generator) Generate(n int) []Profile {
	out := make([]Profile, n)
	for i := range out {
		out[i] = g.next()
	}
	return out
}

func (g *Generator) next() Profile {
	id := uuid.Must(uuid.NewRandomFromReader(g.ids))
	p := Profile{
		ID:         id.String(),
		Name:       pick(g.rng, firstNames),
		Occupation: pick(g.rng, occupations),
		Profile: model.Profile{
			Neighborhood: model.Ptr(pick(g.rng, model.Neighborhoods).Slug),
			Age:          model.Ptr(minAge + g.rng.IntN(ageSpan)),
			Preferences:  g.preferences(),
		},
	}
	if g.rng.IntN(percentScale) >= g.incompletePct {
		lo := float64(budgetFloor + budgetStep*g.rng.IntN(budgetSpan/budgetStep))
		hi := lo + float64(budgetStep*g.rng.IntN(maxRange/budgetStep+1))
		p.Budget = &model.Budget{Min: lo, Max: hi}
	}
	return p
}

// preferences answers each question with probability 4/5 so partial
// profiles are exercised too.
func (g *Generator) preferences() *model.Preferences {
	answer := func() bool { return g.rng.IntN(5) != 0 }
	pr := &model.Preferences{}
	if answer() {
		pr.SleepSchedule = model.Ptr(pick(g.rng, sleeps))
	}
	if answer() {
		pr.Smoking = model.Ptr(g.rng.IntN(4) == 0)
	}
	if answer() {
		pr.Drinking = model.Ptr(pick(g.rng, drinks))
	}
	if answer() {
		pr.Pets = model.Ptr(g.rng.IntN(2) == 0)
	}
	if answer() {
		pr.Noise = model.Ptr(pick(g.rng, noises))
	}
	if answer() {
		pr.Guests = model.Ptr(pick(g.rng, guests))
	}
	if answer() {
		pr.Cleanliness = model.Ptr(1 + g.rng.IntN(5))
	}
	return pr
}

func pick[T any](r *rand.Rand, xs []T) T {
	return xs[r.IntN(len(xs))]
}
