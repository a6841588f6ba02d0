package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/rove/internal/adapters/mq/queue"
	worker "github.com/okian/rove/internal/adapters/mq/worker"
	"github.com/okian/rove/internal/domain/model"
	"github.com/okian/rove/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// recordingApplier captures applied feedback for assertions.
type recordingApplier struct {
	mu      sync.Mutex
	applied []worker.Event
	fail    bool
}

func (a *recordingApplier) ApplyFeedback(_ context.Context, userID, venueID string, category model.Category, accepted bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fail {
		return errors.New("store down")
	}
	a.applied = append(a.applied, worker.Event{UserID: userID, VenueID: venueID, Category: category, Accepted: accepted})
	return nil
}

func (a *recordingApplier) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.applied)
}

// recordingExcluder captures declined venue ids.
type recordingExcluder struct {
	mu       sync.Mutex
	declined []string
}

func (e *recordingExcluder) MarkDeclined(_ context.Context, _, venueID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.declined = append(e.declined, venueID)
}

func (e *recordingExcluder) snapshot() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.declined...)
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestWorker(t *testing.T) {
	Convey("Given a worker over a queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(10))
		applier := &recordingApplier{}
		excluder := &recordingExcluder{}
		w := worker.NewWorker(q, applier, excluder, worker.WithName("test-worker"))

		ctx, cancel := context.WithCancel(context.Background())
		go w.Run(ctx)

		Reset(func() {
			cancel()
			_ = q.Close()
		})

		Convey("When an accept event is queued", func() {
			So(q.Enqueue(ctx, worker.Event{EventID: "e1", UserID: "u", VenueID: "v", Category: model.CategoryCafe, Accepted: true}), ShouldBeTrue)

			Convey("Then it should be applied without exclusion", func() {
				So(waitFor(func() bool { return applier.count() == 1 }), ShouldBeTrue)
				So(excluder.snapshot(), ShouldBeEmpty)
			})
		})

		Convey("When a decline event is queued", func() {
			So(q.Enqueue(ctx, worker.Event{EventID: "e2", UserID: "u", VenueID: "v-bad", Category: model.CategoryBar, Accepted: false}), ShouldBeTrue)

			Convey("Then it should be applied and the venue excluded", func() {
				So(waitFor(func() bool { return applier.count() == 1 }), ShouldBeTrue)
				So(waitFor(func() bool { return len(excluder.snapshot()) == 1 }), ShouldBeTrue)
				So(excluder.snapshot()[0], ShouldEqual, "v-bad")
			})
		})

		Convey("When the applier fails", func() {
			applier.fail = true
			So(q.Enqueue(ctx, worker.Event{EventID: "e3", UserID: "u", VenueID: "v", Accepted: true}), ShouldBeTrue)

			Convey("Then the worker should keep running for later events", func() {
				time.Sleep(50 * time.Millisecond)
				applier.fail = false
				So(q.Enqueue(ctx, worker.Event{EventID: "e4", UserID: "u", VenueID: "v", Accepted: true}), ShouldBeTrue)
				So(waitFor(func() bool { return applier.count() == 1 }), ShouldBeTrue)
			})
		})

		Convey("When shutting down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()

			Convey("Then shutdown should complete in time", func() {
				So(w.Shutdown(shutdownCtx), ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	Convey("Given a pool of workers", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(100))
		applier := &recordingApplier{}
		excluder := &recordingExcluder{}
		pool := worker.NewPool(3, q, applier, excluder)

		ctx, cancel := context.WithCancel(context.Background())
		pool.Start(ctx)

		Reset(func() {
			cancel()
			_ = q.Close()
		})

		Convey("When many events are queued", func() {
			for i := 0; i < 20; i++ {
				So(q.Enqueue(ctx, worker.Event{EventID: "e", UserID: "u", VenueID: "v", Accepted: i%2 == 0}), ShouldBeTrue)
			}

			Convey("Then all of them should be applied", func() {
				So(waitFor(func() bool { return applier.count() == 20 }), ShouldBeTrue)
			})
		})

		Convey("When the pool stops", func() {
			So(q.Enqueue(ctx, worker.Event{EventID: "e", UserID: "u", VenueID: "v", Accepted: true}), ShouldBeTrue)
			So(waitFor(func() bool { return applier.count() == 1 }), ShouldBeTrue)

			pool.Stop()

			Convey("Then queued work should have been drained", func() {
				So(q.Len(ctx), ShouldEqual, 0)
			})
		})
	})
}
