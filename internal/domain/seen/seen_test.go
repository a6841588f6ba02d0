package seen_test

import (
	"context"
	"fmt"
	"testing"

	seen "github.com/okian/rove/internal/domain/seen"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryTracker(t *testing.T) {
	Convey("Given a tracker with a small window", t, func() {
		tracker := seen.NewInMemoryTracker(seen.WithWindowSize(3))
		ctx := context.Background()

		Convey("When venues are marked shown", func() {
			tracker.MarkShown(ctx, "user-1", "a", "b")

			Convey("Then they should appear in the recently-shown set", func() {
				shown := tracker.RecentlyShown(ctx, "user-1")
				So(shown, ShouldContainKey, "a")
				So(shown, ShouldContainKey, "b")
				So(len(shown), ShouldEqual, 2)
			})

			Convey("And another user's window should be unaffected", func() {
				So(len(tracker.RecentlyShown(ctx, "user-2")), ShouldEqual, 0)
			})
		})

		Convey("When the window overflows", func() {
			tracker.MarkShown(ctx, "user-1", "a", "b", "c", "d")

			Convey("Then the oldest entry should fall out first", func() {
				shown := tracker.RecentlyShown(ctx, "user-1")
				So(shown, ShouldNotContainKey, "a")
				So(shown, ShouldContainKey, "b")
				So(shown, ShouldContainKey, "c")
				So(shown, ShouldContainKey, "d")
			})
		})

		Convey("When the same venue is shown twice", func() {
			tracker.MarkShown(ctx, "user-1", "a", "a", "b")
			tracker.MarkShown(ctx, "user-1", "c")

			Convey("Then evicting one occurrence should keep the other", func() {
				// Ring is now [a, b, c]; the first "a" was evicted but the
				// second remains.
				shown := tracker.RecentlyShown(ctx, "user-1")
				So(shown, ShouldContainKey, "a")
				So(shown, ShouldContainKey, "b")
				So(shown, ShouldContainKey, "c")
			})
		})

		Convey("When a venue is declined", func() {
			tracker.MarkDeclined(ctx, "user-1", "x")

			Convey("Then it should stay excluded", func() {
				declined := tracker.Declined(ctx, "user-1")
				So(declined, ShouldContainKey, "x")
			})

			Convey("And the snapshot should be a copy", func() {
				declined := tracker.Declined(ctx, "user-1")
				delete(declined, "x")
				So(tracker.Declined(ctx, "user-1"), ShouldContainKey, "x")
			})
		})

		Convey("When an empty venue id is marked", func() {
			tracker.MarkShown(ctx, "user-1", "")
			tracker.MarkDeclined(ctx, "user-1", "")

			Convey("Then it should be ignored", func() {
				So(len(tracker.RecentlyShown(ctx, "user-1")), ShouldEqual, 0)
				So(len(tracker.Declined(ctx, "user-1")), ShouldEqual, 0)
			})
		})
	})
}

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a bounded deduper", t, func() {
		deduper := seen.NewInMemoryDeduper(3)
		ctx := context.Background()

		Convey("When an id is recorded for the first time", func() {
			So(deduper.SeenAndRecord(ctx, "ev-1"), ShouldBeFalse)

			Convey("Then the second sighting should report seen", func() {
				So(deduper.SeenAndRecord(ctx, "ev-1"), ShouldBeTrue)
			})
		})

		Convey("When an id is unrecorded", func() {
			So(deduper.SeenAndRecord(ctx, "ev-1"), ShouldBeFalse)
			deduper.Unrecord(ctx, "ev-1")

			Convey("Then the id should be retryable", func() {
				So(deduper.SeenAndRecord(ctx, "ev-1"), ShouldBeFalse)
			})
		})

		Convey("When the capacity is exceeded", func() {
			for i := 0; i < 4; i++ {
				deduper.SeenAndRecord(ctx, fmt.Sprintf("ev-%d", i))
			}

			Convey("Then the oldest id should have been evicted", func() {
				So(deduper.SeenAndRecord(ctx, "ev-0"), ShouldBeFalse)
				So(deduper.Size(), ShouldEqual, 3)
			})
		})
	})
}
