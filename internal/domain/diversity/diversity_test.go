package diversity_test

import (
	"context"
	"fmt"
	"testing"

	diversity "github.com/okian/rove/internal/domain/diversity"
	"github.com/okian/rove/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func candidate(id string, category model.Category, score float64, sponsored bool) model.ScoredCandidate {
	return model.ScoredCandidate{
		Venue: model.Venue{ID: id, Category: category, Sponsored: sponsored},
		Score: score,
	}
}

func countByCategory(items []model.ScoredCandidate) map[model.Category]int {
	out := make(map[model.Category]int)
	for _, c := range items {
		out[c.Venue.Category]++
	}
	return out
}

func TestEnforcer_Enforce(t *testing.T) {
	Convey("Given a default enforcer", t, func() {
		enforcer := diversity.NewEnforcer()
		ctx := context.Background()

		Convey("When one category dominates the candidate pool", func() {
			// Ten high-scoring cafes versus five lower-scoring gyms.
			var pool []model.ScoredCandidate
			for i := 0; i < 10; i++ {
				pool = append(pool, candidate(fmt.Sprintf("cafe-%02d", i), model.CategoryCafe, 100-float64(i), false))
			}
			for i := 0; i < 5; i++ {
				pool = append(pool, candidate(fmt.Sprintf("gym-%02d", i), model.CategoryFitness, 50-float64(i), false))
			}

			out := enforcer.Enforce(ctx, pool, nil, 10)

			Convey("Then the feed should stay full", func() {
				So(len(out), ShouldEqual, 10)
			})

			Convey("And the minority category should hold its capped share", func() {
				counts := countByCategory(out)
				So(counts[model.CategoryFitness], ShouldEqual, 3)
				So(counts[model.CategoryCafe], ShouldEqual, 7)
			})

			Convey("And the output should be sorted by score descending", func() {
				for i := 1; i < len(out); i++ {
					So(out[i].Score, ShouldBeLessThanOrEqualTo, out[i-1].Score)
				}
			})
		})

		Convey("When candidates were already shown and declined", func() {
			pool := []model.ScoredCandidate{
				candidate("a", model.CategoryCafe, 90, false),
				candidate("b", model.CategoryBar, 80, false),
				candidate("c", model.CategoryPark, 70, false),
			}

			out := enforcer.Enforce(ctx, pool, map[string]struct{}{"b": {}}, 3)

			Convey("Then the excluded venue should never appear", func() {
				So(len(out), ShouldEqual, 2)
				for _, c := range out {
					So(c.Venue.ID, ShouldNotEqual, "b")
				}
			})
		})

		Convey("When sponsored candidates would flood the feed", func() {
			var pool []model.ScoredCandidate
			for i := 0; i < 6; i++ {
				pool = append(pool, candidate(fmt.Sprintf("sp-%02d", i), model.Category(1+i%8), 100-float64(i), true))
			}
			for i := 0; i < 10; i++ {
				pool = append(pool, candidate(fmt.Sprintf("org-%02d", i), model.Category(1+i%8), 60-float64(i), false))
			}

			out := enforcer.Enforce(ctx, pool, nil, 10)

			Convey("Then sponsored items should not exceed the cap", func() {
				sponsored := 0
				for _, c := range out {
					if c.Venue.Sponsored {
						sponsored++
					}
				}
				So(sponsored, ShouldBeLessThanOrEqualTo, 2)
				So(len(out), ShouldEqual, 10)
			})
		})

		Convey("When only one category exists", func() {
			var pool []model.ScoredCandidate
			for i := 0; i < 8; i++ {
				pool = append(pool, candidate(fmt.Sprintf("m-%02d", i), model.CategoryMuseum, 80-float64(i), false))
			}

			out := enforcer.Enforce(ctx, pool, nil, 5)

			Convey("Then the relaxed pass should still fill the feed", func() {
				So(len(out), ShouldEqual, 5)
				So(countByCategory(out)[model.CategoryMuseum], ShouldEqual, 5)
			})
		})

		Convey("When k is not positive", func() {
			out := enforcer.Enforce(ctx, []model.ScoredCandidate{candidate("a", model.CategoryCafe, 1, false)}, nil, 0)

			Convey("Then the result should be empty", func() {
				So(out, ShouldBeNil)
			})
		})

		Convey("When candidates tie on score", func() {
			a := candidate("bbb", model.CategoryCafe, 50, false)
			a.Venue.Rating = 4.0
			b := candidate("aaa", model.CategoryBar, 50, false)
			b.Venue.Rating = 4.0
			c := candidate("ccc", model.CategoryPark, 50, false)
			c.Venue.Rating = 4.8

			out := enforcer.Enforce(ctx, []model.ScoredCandidate{a, b, c}, nil, 3)

			Convey("Then rating then id should break the tie", func() {
				So(out[0].Venue.ID, ShouldEqual, "ccc")
				So(out[1].Venue.ID, ShouldEqual, "aaa")
				So(out[2].Venue.ID, ShouldEqual, "bbb")
			})
		})
	})
}

func TestEnforcer_Options(t *testing.T) {
	Convey("Given an enforcer with a loose category cap", t, func() {
		enforcer := diversity.NewEnforcer(
			diversity.WithCategoryCapFrac(1.0),
			diversity.WithSponsoredCapFrac(0.1),
		)

		Convey("When a single category fills the pool", func() {
			var pool []model.ScoredCandidate
			for i := 0; i < 10; i++ {
				pool = append(pool, candidate(fmt.Sprintf("c-%02d", i), model.CategoryCinema, 90-float64(i), i < 4))
			}

			out := enforcer.Enforce(context.Background(), pool, nil, 10)

			Convey("Then only the sponsored cap should bite", func() {
				sponsored := 0
				for _, c := range out {
					if c.Venue.Sponsored {
						sponsored++
					}
				}
				So(sponsored, ShouldEqual, 1)
				So(len(out), ShouldEqual, 7)
			})
		})
	})
}
