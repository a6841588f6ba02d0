package profiles_test

import (
	"context"
	"errors"
	"testing"

	profiles "github.com/okian/rove/internal/adapters/profiles"
	"github.com/okian/rove/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryStore(t *testing.T) {
	Convey("Given a profile store with one user", t, func() {
		store := profiles.NewInMemoryStore()
		ctx := context.Background()
		store.Put(model.UserProfile{
			UserID:          "user-1",
			InterestWeights: map[model.Category]float64{model.CategoryCafe: 0.9},
			Tier:            model.TierPlus,
		})

		Convey("When reading the profile", func() {
			p, err := store.Profile(ctx, "user-1")

			Convey("Then the stored fields should round-trip", func() {
				So(err, ShouldBeNil)
				So(p.InterestWeights[model.CategoryCafe], ShouldEqual, 0.9)
				So(p.Tier, ShouldEqual, model.TierPlus)
			})

			Convey("And mutating the snapshot should not leak back", func() {
				p.InterestWeights[model.CategoryCafe] = 0
				again, _ := store.Profile(ctx, "user-1")
				So(again.InterestWeights[model.CategoryCafe], ShouldEqual, 0.9)
			})
		})

		Convey("When reading an unknown user", func() {
			_, err := store.Profile(ctx, "ghost")
			So(errors.Is(err, profiles.ErrUnknownUser), ShouldBeTrue)

			_, err = store.Tier(ctx, "ghost")
			So(errors.Is(err, profiles.ErrUnknownUser), ShouldBeTrue)
		})

		Convey("When changing the tier", func() {
			So(store.SetTier("user-1", model.TierPremium), ShouldBeNil)

			Convey("Then the next read should see it", func() {
				tier, err := store.Tier(ctx, "user-1")
				So(err, ShouldBeNil)
				So(tier, ShouldEqual, model.TierPremium)
			})
		})

		Convey("When applying feedback", func() {
			So(store.ApplyFeedback(ctx, "user-1", "v-1", model.CategoryCafe, true), ShouldBeNil)
			So(store.ApplyFeedback(ctx, "user-1", "v-1", model.CategoryCafe, false), ShouldBeNil)
			So(store.ApplyFeedback(ctx, "user-1", "v-2", model.CategoryCafe, true), ShouldBeNil)

			Convey("Then venue and category signal should accumulate", func() {
				p, _ := store.Profile(ctx, "user-1")
				So(p.VenueSignal["v-1"], ShouldResemble, model.FeedbackSignal{Accepts: 1, Declines: 1})
				So(p.VenueSignal["v-2"], ShouldResemble, model.FeedbackSignal{Accepts: 1})
				So(p.CategorySignal[model.CategoryCafe], ShouldResemble, model.FeedbackSignal{Accepts: 2, Declines: 1})
			})
		})

		Convey("When applying feedback for an unknown user", func() {
			err := store.ApplyFeedback(ctx, "ghost", "v-1", model.CategoryCafe, true)
			So(errors.Is(err, profiles.ErrUnknownUser), ShouldBeTrue)
		})
	})
}
