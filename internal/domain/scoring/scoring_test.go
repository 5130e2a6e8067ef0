package scoring_test

import (
	"math/rand"
	"testing"

	"github.com/okian/roommatch/internal/domain/model"
	scoring "github.com/okian/roommatch/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func fullProfile() model.Profile {
	return model.Profile{
		Neighborhood: model.Ptr("Williamsburg"),
		Budget:       &model.Budget{Min: 1500, Max: 2000},
		Age:          model.Ptr(28),
		Preferences: &model.Preferences{
			SleepSchedule: model.Ptr(model.SleepEarlyBird),
			Smoking:       model.Ptr(false),
			Drinking:      model.Ptr(model.DrinkingNever),
			Pets:          model.Ptr(false),
			Noise:         model.Ptr(model.NoiseQuiet),
			Guests:        model.Ptr(model.GuestsRarely),
			Cleanliness:   model.Ptr(5),
		},
	}
}

func budgetOnly(min, max float64) model.Profile {
	return model.Profile{Budget: &model.Budget{Min: min, Max: max}}
}

func TestScore_Scenarios(t *testing.T) {
	Convey("Given two identical complete profiles", t, func() {
		a, b := fullProfile(), fullProfile()

		Convey("When scoring them", func() {
			res := scoring.Score(a, b)

			Convey("Then everything should be a perfect match", func() {
				So(res.OverallPercentage, ShouldEqual, 100)
				So(res.Categories, ShouldResemble, scoring.Categories{Lifestyle: 100, Location: 100, Financial: 100, Personality: 100})
				So(res.MatchingSummary, ShouldResemble, []string{
					"You have very similar lifestyle preferences",
					"You prefer the same neighborhoods",
					"Your budget ranges align well",
					"You are in similar age groups",
				})
			})
		})
	})

	Convey("Given budgets that do not overlap", t, func() {
		a, b := budgetOnly(1000, 1500), budgetOnly(2000, 2500)

		Convey("When the gap is half of the smaller minimum", func() {
			bd := scoring.Explain(a, b)
			res := bd.Result()

			Convey("Then the budget should earn nothing", func() {
				So(bd.Tally(scoring.Financial), ShouldResemble, scoring.Tally{Earned: 0, Possible: 100})
				So(res.Categories.Financial, ShouldEqual, 0)
				So(res.OverallPercentage, ShouldEqual, 0)
				So(res.MatchingSummary, ShouldBeEmpty)
			})
		})

		Convey("When the gap is under 20% of the smaller minimum", func() {
			bd := scoring.Explain(a, budgetOnly(1600, 2000))
			So(bd.Tally(scoring.Financial).Earned, ShouldEqual, 40)
		})

		Convey("When the gap is under 50% of the smaller minimum", func() {
			bd := scoring.Explain(a, budgetOnly(1800, 2000))
			So(bd.Tally(scoring.Financial).Earned, ShouldEqual, 20)
			So(bd.Result().MatchingSummary, ShouldResemble, []string{"Your budget ranges are different"})
		})

		Convey("When the smaller minimum is zero", func() {
			bd := scoring.Explain(budgetOnly(0, 500), budgetOnly(1000, 2000))
			So(bd.Tally(scoring.Financial), ShouldResemble, scoring.Tally{Earned: 0, Possible: 100})
		})
	})

	Convey("Given a fixed budget inside the other range", t, func() {
		a, b := budgetOnly(1500, 1500), budgetOnly(1200, 1800)

		Convey("Then the budget should earn 90 from either side", func() {
			So(scoring.Explain(a, b).Tally(scoring.Financial).Earned, ShouldEqual, 90)
			So(scoring.Explain(b, a).Tally(scoring.Financial).Earned, ShouldEqual, 90)
		})

		Convey("And two equal fixed budgets should also earn 90", func() {
			So(scoring.Explain(a, budgetOnly(1500, 1500)).Tally(scoring.Financial).Earned, ShouldEqual, 90)
		})
	})

	Convey("Given two different fixed budgets", t, func() {
		a, b := budgetOnly(1500, 1500), budgetOnly(1600, 1600)

		Convey("Then the budget should earn the fixed fallback rather than a gap score", func() {
			So(scoring.Explain(a, b).Tally(scoring.Financial), ShouldResemble, scoring.Tally{Earned: 50, Possible: 100})
			So(scoring.Explain(b, a).Tally(scoring.Financial).Earned, ShouldEqual, 50)
			So(scoring.Explain(budgetOnly(1000, 1000), budgetOnly(5000, 5000)).Tally(scoring.Financial).Earned, ShouldEqual, 50)
		})
	})

	Convey("Given partially overlapping budget ranges", t, func() {
		bd := scoring.Explain(budgetOnly(1000, 2000), budgetOnly(1500, 3000))

		Convey("Then the overlap should be measured against the smaller range", func() {
			So(bd.Tally(scoring.Financial).Earned, ShouldEqual, 50)
		})
	})

	Convey("Given ages two years apart", t, func() {
		a := model.Profile{Age: model.Ptr(25)}
		b := model.Profile{Age: model.Ptr(27)}

		Convey("Then personality should earn full points", func() {
			bd := scoring.Explain(a, b)
			So(bd.Tally(scoring.Personality), ShouldResemble, scoring.Tally{Earned: 50, Possible: 50})
		})

		Convey("And wider gaps should fall into lower buckets", func() {
			cases := map[int]int{30: 40, 35: 30, 40: 20, 41: 10, 60: 10}
			for other, want := range cases {
				bd := scoring.Explain(a, model.Profile{Age: model.Ptr(other)})
				So(bd.Tally(scoring.Personality).Earned, ShouldEqual, want)
			}
		})
	})

	Convey("Given two different neighborhoods", t, func() {
		a := model.Profile{Neighborhood: model.Ptr("astoria")}
		b := model.Profile{Neighborhood: model.Ptr("bushwick")}
		res := scoring.Score(a, b)

		Convey("Then location should get half credit", func() {
			So(res.Categories.Location, ShouldEqual, 50)
			So(res.MatchingSummary, ShouldResemble, []string{"You have different neighborhood preferences"})
		})
	})

	Convey("Given a profile without preferences", t, func() {
		a := fullProfile()
		a.Preferences = nil
		b := fullProfile()
		bd := scoring.Explain(a, b)
		res := bd.Result()

		Convey("Then lifestyle should have no basis and no summary line", func() {
			So(bd.Tally(scoring.Lifestyle).Possible, ShouldEqual, 0)
			So(res.Categories.Lifestyle, ShouldEqual, 0)
			So(res.MatchingSummary, ShouldNotContain, "You have very similar lifestyle preferences")
			So(res.MatchingSummary, ShouldHaveLength, 3)
		})
	})
}

func TestScore_LifestyleRules(t *testing.T) {
	Convey("Given lifestyle-only profiles", t, func() {
		with := func(fn func(p *model.Preferences)) model.Profile {
			p := &model.Preferences{}
			fn(p)
			return model.Profile{Preferences: p}
		}
		earned := func(a, b model.Profile) int {
			return scoring.Explain(a, b).Tally(scoring.Lifestyle).Earned
		}

		Convey("Then sleep schedules should score 20/15/5", func() {
			early := with(func(p *model.Preferences) { p.SleepSchedule = model.Ptr(model.SleepEarlyBird) })
			owl := with(func(p *model.Preferences) { p.SleepSchedule = model.Ptr(model.SleepNightOwl) })
			flex := with(func(p *model.Preferences) { p.SleepSchedule = model.Ptr(model.SleepFlexible) })
			So(earned(early, early), ShouldEqual, 20)
			So(earned(early, flex), ShouldEqual, 15)
			So(earned(owl, early), ShouldEqual, 5)
		})

		Convey("Then smoking and pets should reward tolerance", func() {
			smoker := with(func(p *model.Preferences) { p.Smoking = model.Ptr(true) })
			nonSmoker := with(func(p *model.Preferences) { p.Smoking = model.Ptr(false) })
			So(earned(smoker, smoker), ShouldEqual, 15)
			So(earned(nonSmoker, nonSmoker), ShouldEqual, 15)
			So(earned(smoker, nonSmoker), ShouldEqual, 5)

			petOwner := with(func(p *model.Preferences) { p.Pets = model.Ptr(true) })
			noPets := with(func(p *model.Preferences) { p.Pets = model.Ptr(false) })
			So(earned(petOwner, noPets), ShouldEqual, 5)
			So(earned(noPets, noPets), ShouldEqual, 10)
		})

		Convey("Then drinking should score 10/7/3", func() {
			never := with(func(p *model.Preferences) { p.Drinking = model.Ptr(model.DrinkingNever) })
			sometimes := with(func(p *model.Preferences) { p.Drinking = model.Ptr(model.DrinkingOccasionally) })
			often := with(func(p *model.Preferences) { p.Drinking = model.Ptr(model.DrinkingFrequently) })
			So(earned(never, never), ShouldEqual, 10)
			So(earned(sometimes, never), ShouldEqual, 7)
			So(earned(never, sometimes), ShouldEqual, 7)
			So(earned(often, sometimes), ShouldEqual, 3)
			So(earned(often, never), ShouldEqual, 3)
		})

		Convey("Then noise and guests should score by level distance", func() {
			noise := func(n model.Noise) model.Profile {
				return with(func(p *model.Preferences) { p.Noise = model.Ptr(n) })
			}
			So(earned(noise(model.NoiseQuiet), noise(model.NoiseQuiet)), ShouldEqual, 15)
			So(earned(noise(model.NoiseQuiet), noise(model.NoiseModerate)), ShouldEqual, 8)
			So(earned(noise(model.NoiseQuiet), noise(model.NoiseLoud)), ShouldEqual, 2)

			guests := func(g model.Guests) model.Profile {
				return with(func(p *model.Preferences) { p.Guests = model.Ptr(g) })
			}
			So(earned(guests(model.GuestsRarely), guests(model.GuestsRarely)), ShouldEqual, 10)
			So(earned(guests(model.GuestsFrequently), guests(model.GuestsOccasionally)), ShouldEqual, 6)
			So(earned(guests(model.GuestsRarely), guests(model.GuestsFrequently)), ShouldEqual, 2)
		})

		Convey("Then cleanliness should score by distance", func() {
			clean := func(c int) model.Profile {
				return with(func(p *model.Preferences) { p.Cleanliness = model.Ptr(c) })
			}
			want := []int{20, 16, 10, 5, 2}
			for d, pts := range want {
				So(earned(clean(1), clean(1+d)), ShouldEqual, pts)
			}
		})

		Convey("Then unknown enum values and a zero cleanliness should be skipped", func() {
			a := with(func(p *model.Preferences) {
				p.Noise = model.Ptr(model.Noise("deafening"))
				p.Cleanliness = model.Ptr(0)
			})
			b := with(func(p *model.Preferences) {
				p.Noise = model.Ptr(model.NoiseQuiet)
				p.Cleanliness = model.Ptr(3)
			})
			So(scoring.Explain(a, b).Tally(scoring.Lifestyle).Possible, ShouldEqual, 0)
		})

		Convey("Then every unknown enum value should be skipped alike", func() {
			a := with(func(p *model.Preferences) {
				p.SleepSchedule = model.Ptr(model.SleepSchedule("insomniac"))
				p.Drinking = model.Ptr(model.Drinking("daily"))
				p.Noise = model.Ptr(model.Noise("blaring"))
				p.Guests = model.Ptr(model.Guests("always"))
			})
			b := with(func(p *model.Preferences) {
				p.SleepSchedule = model.Ptr(model.SleepNightOwl)
				p.Drinking = model.Ptr(model.DrinkingNever)
				p.Noise = model.Ptr(model.NoiseQuiet)
				p.Guests = model.Ptr(model.GuestsRarely)
			})
			So(scoring.Explain(a, b).Tally(scoring.Lifestyle), ShouldResemble, scoring.Tally{})
			So(scoring.Explain(b, a).Factors, ShouldBeEmpty)
		})
	})
}

func TestScore_Aggregation(t *testing.T) {
	Convey("Given a pair where one side skipped a question", t, func() {
		a := fullProfile()
		b := fullProfile()
		b.Preferences.Noise = nil

		Convey("Then the skipped factor should not count towards either total", func() {
			bd := scoring.Explain(a, b)
			So(bd.Tally(scoring.Lifestyle), ShouldResemble, scoring.Tally{Earned: 85, Possible: 85})
			for _, f := range bd.Factors {
				So(f.ID, ShouldNotEqual, scoring.FactorNoise)
			}
		})
	})

	Convey("Given a half-point lifestyle percentage", t, func() {
		a := model.Profile{Preferences: &model.Preferences{
			SleepSchedule: model.Ptr(model.SleepEarlyBird),
			Cleanliness:   model.Ptr(4),
		}}
		b := model.Profile{Preferences: &model.Preferences{
			SleepSchedule: model.Ptr(model.SleepNightOwl),
			Cleanliness:   model.Ptr(5),
		}}

		Convey("Then it should round half up", func() {
			res := scoring.Score(a, b)
			So(res.Categories.Lifestyle, ShouldEqual, 53) // 21 of 40
			So(res.MatchingSummary, ShouldResemble, []string{"You have somewhat different lifestyle preferences"})
		})
	})

	Convey("Given a ratio that binary floats cannot hold exactly", t, func() {
		Convey("Then 29 of 200 should round half up to 15", func() {
			So(scoring.Tally{Earned: 29, Possible: 200}.Percentage(), ShouldEqual, 15)
			So(scoring.Tally{Earned: 1, Possible: 200}.Percentage(), ShouldEqual, 1)
			So(scoring.Tally{Earned: 0, Possible: 0}.Percentage(), ShouldEqual, 0)
		})
	})

	Convey("Given categories with different bases", t, func() {
		a := model.Profile{Neighborhood: model.Ptr("chelsea"), Age: model.Ptr(20)}
		b := model.Profile{Neighborhood: model.Ptr("chelsea"), Age: model.Ptr(50)}

		Convey("Then the overall score should pool points rather than average percentages", func() {
			res := scoring.Score(a, b)
			So(res.Categories.Location, ShouldEqual, 100)
			So(res.Categories.Personality, ShouldEqual, 20)
			So(res.OverallPercentage, ShouldEqual, 73) // 110 of 150
		})
	})

	Convey("Given two empty profiles", t, func() {
		res := scoring.Score(model.Profile{}, model.Profile{})

		Convey("Then the result should have a zero basis", func() {
			So(res.OverallPercentage, ShouldEqual, 0)
			So(res.Categories, ShouldResemble, scoring.Categories{})
			So(res.MatchingSummary, ShouldNotBeNil)
			So(res.MatchingSummary, ShouldBeEmpty)
		})
	})
}

func randomProfile(r *rand.Rand) model.Profile {
	var p model.Profile
	maybe := func() bool { return r.Intn(4) != 0 }
	if maybe() {
		p.Neighborhood = model.Ptr(model.Neighborhoods[r.Intn(len(model.Neighborhoods))].Slug)
	}
	if maybe() {
		lo := float64(500 + r.Intn(30)*100)
		p.Budget = &model.Budget{Min: lo, Max: lo + float64(r.Intn(10)*100)}
	}
	if maybe() {
		p.Age = model.Ptr(18 + r.Intn(50))
	}
	if maybe() {
		pr := &model.Preferences{}
		if maybe() {
			pr.SleepSchedule = model.Ptr([]model.SleepSchedule{model.SleepEarlyBird, model.SleepNightOwl, model.SleepFlexible}[r.Intn(3)])
		}
		if maybe() {
			pr.Smoking = model.Ptr(r.Intn(2) == 0)
		}
		if maybe() {
			pr.Drinking = model.Ptr([]model.Drinking{model.DrinkingNever, model.DrinkingOccasionally, model.DrinkingFrequently}[r.Intn(3)])
		}
		if maybe() {
			pr.Pets = model.Ptr(r.Intn(2) == 0)
		}
		if maybe() {
			pr.Noise = model.Ptr([]model.Noise{model.NoiseQuiet, model.NoiseModerate, model.NoiseLoud}[r.Intn(3)])
		}
		if maybe() {
			pr.Guests = model.Ptr([]model.Guests{model.GuestsRarely, model.GuestsOccasionally, model.GuestsFrequently}[r.Intn(3)])
		}
		if maybe() {
			pr.Cleanliness = model.Ptr(1 + r.Intn(5))
		}
		p.Preferences = pr
	}
	return p
}

func TestScore_Properties(t *testing.T) {
	Convey("Given many random profile pairs", t, func() {
		r := rand.New(rand.NewSource(7)) //nolint:gosec // deterministic fixtures

		Convey("Then scores should be symmetric, bounded and repeatable", func() {
			for i := 0; i < 500; i++ {
				a, b := randomProfile(r), randomProfile(r)
				ab := scoring.Score(a, b)
				ba := scoring.Score(b, a)

				So(ab, ShouldResemble, ba)
				So(scoring.Score(a, b), ShouldResemble, ab)

				for _, pct := range []int{ab.OverallPercentage, ab.Categories.Lifestyle, ab.Categories.Location, ab.Categories.Financial, ab.Categories.Personality} {
					So(pct, ShouldBeBetweenOrEqual, 0, 100)
				}
				So(len(ab.MatchingSummary), ShouldBeLessThanOrEqualTo, 4)
			}
		})
	})
}
