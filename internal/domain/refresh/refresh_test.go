package refresh_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/okian/rove/internal/domain/model"
	refresh "github.com/okian/rove/internal/domain/refresh"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryGate_Check(t *testing.T) {
	Convey("Given a fresh gate", t, func() {
		gate := refresh.NewInMemoryGate()
		ctx := context.Background()
		base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

		Convey("When no refresh was ever recorded", func() {
			status := gate.Check(ctx, "user-1", model.TierFree, base)

			Convey("Then the first refresh should be allowed", func() {
				So(status.Eligible, ShouldBeTrue)
				So(status.State, ShouldEqual, refresh.StateEligible)
				So(status.RetryAfter, ShouldEqual, 0)
			})
		})

		Convey("When a free-tier refresh was committed", func() {
			So(gate.Commit(ctx, "user-1", model.TierFree, base), ShouldBeTrue)

			Convey("Then one minute before the cooldown ends the gate should cool", func() {
				status := gate.Check(ctx, "user-1", model.TierFree, base.Add(4*time.Hour-time.Minute))
				So(status.Eligible, ShouldBeFalse)
				So(status.State, ShouldEqual, refresh.StateCooling)
				So(status.RetryAfter, ShouldEqual, time.Minute)
			})

			Convey("And exactly at the cooldown boundary it should open", func() {
				status := gate.Check(ctx, "user-1", model.TierFree, base.Add(4*time.Hour))
				So(status.Eligible, ShouldBeTrue)
			})

			Convey("And an upgrade to plus should shorten the wait immediately", func() {
				status := gate.Check(ctx, "user-1", model.TierPlus, base.Add(90*time.Minute))
				So(status.Eligible, ShouldBeTrue)
			})

			Convey("And a premium user should never wait", func() {
				status := gate.Check(ctx, "user-1", model.TierPremium, base.Add(time.Second))
				So(status.Eligible, ShouldBeTrue)
			})
		})
	})
}

func TestInMemoryGate_Commit(t *testing.T) {
	Convey("Given a gate with a recorded refresh", t, func() {
		gate := refresh.NewInMemoryGate()
		ctx := context.Background()
		base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
		So(gate.Commit(ctx, "user-1", model.TierPlus, base), ShouldBeTrue)

		Convey("When committing again inside the cooldown", func() {
			ok := gate.Commit(ctx, "user-1", model.TierPlus, base.Add(30*time.Minute))

			Convey("Then the commit should be rejected", func() {
				So(ok, ShouldBeFalse)
			})

			Convey("And the stored timestamp should be unchanged", func() {
				last, found := gate.LastRefresh(ctx, "user-1")
				So(found, ShouldBeTrue)
				So(last, ShouldResemble, base)
			})
		})

		Convey("When committing after the cooldown", func() {
			later := base.Add(time.Hour)
			So(gate.Commit(ctx, "user-1", model.TierPlus, later), ShouldBeTrue)

			Convey("Then the stored timestamp should advance", func() {
				last, _ := gate.LastRefresh(ctx, "user-1")
				So(last, ShouldResemble, later)
			})
		})

		Convey("When committing with a clock that moved backwards", func() {
			ok := gate.Commit(ctx, "user-1", model.TierPremium, base.Add(-time.Minute))

			Convey("Then the commit should be rejected", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When two refreshes race for the same user", func() {
			now := base.Add(2 * time.Hour)
			wins := make(chan bool, 2)
			var wg sync.WaitGroup
			for i := 0; i < 2; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					wins <- gate.Commit(ctx, "racer", model.TierFree, now)
				}()
			}
			wg.Wait()
			close(wins)

			Convey("Then exactly one should win", func() {
				won := 0
				for w := range wins {
					if w {
						won++
					}
				}
				So(won, ShouldEqual, 1)
			})
		})
	})
}
