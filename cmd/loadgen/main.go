// Command loadgen seeds an in-process engine with demo venues,
// profiles and calendars, then drives recommendation, scheduling and
// feedback traffic through it. Useful for smoke-testing ranking
// behavior and reading the resulting stats without a running server.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/okian/rove/internal/adapters/calendar"
	"github.com/okian/rove/internal/adapters/profiles"
	"github.com/okian/rove/internal/adapters/venues"
	app "github.com/okian/rove/internal/app"
	"github.com/okian/rove/internal/domain/model"
	"github.com/okian/rove/pkg/logger"
)

const (
	defaultUsers  = 20
	defaultRounds = 5
	defaultK      = 10
	runTimeout    = 5 * time.Minute
)

// downtown Amsterdam, arbitrary demo center
var center = model.Coordinate{Lat: 52.3676, Lon: 4.9041}

func main() {
	var (
		users  = flag.Int("users", defaultUsers, "Number of demo users")
		rounds = flag.Int("rounds", defaultRounds, "Recommendation rounds per user")
		k      = flag.Int("k", defaultK, "Recommendations per request")
		seed   = flag.Int64("seed", 1, "RNG seed for the demo dataset")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	rng := rand.New(rand.NewSource(*seed))

	provider := venues.NewStaticProvider(demoVenues(rng))
	profileStore := profiles.NewInMemoryStore()
	calendarStore := calendar.NewInMemoryStore()

	userIDs := make([]string, *users)
	for i := range userIDs {
		userIDs[i] = fmt.Sprintf("user-%03d", i)
		profileStore.Put(demoProfile(userIDs[i], rng))
		seedCalendar(calendarStore, userIDs[i], rng)
	}

	svc := app.New(
		app.WithProvider(provider),
		app.WithCalendarStore(calendarStore),
		app.WithProfileStore(profileStore),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	drive(ctx, svc, userIDs, *rounds, *k, rng)

	fmt.Printf("stats: %v\n", svc.GetStats())
}

// drive runs rounds of recommend -> feedback -> schedule per user.
func drive(ctx context.Context, svc *app.Service, userIDs []string, rounds, k int, rng *rand.Rand) {
	log := logger.Get().Named("loadgen")

	for round := 0; round < rounds; round++ {
		for _, userID := range userIDs {
			items, fromCache, err := svc.Recommendations(ctx, userID, jitter(center, rng), k)
			if err != nil {
				log.Warn(ctx, "recommendations failed",
					logger.String("userID", userID),
					logger.Error(err),
				)
				continue
			}
			log.Debug(ctx, "served",
				logger.String("userID", userID),
				logger.Int("items", len(items)),
				logger.Bool("fromCache", fromCache),
			)
			if len(items) == 0 {
				continue
			}

			// Accept the top item occasionally, decline a random one.
			top := items[0]
			if rng.Intn(3) == 0 {
				submitFeedback(ctx, svc, userID, top.Venue, true)
				proposal, err := svc.ProposeSchedule(ctx, userID, top.Venue.ID, 0)
				if err == nil && !proposal.Conflict {
					_, _ = svc.ConfirmSchedule(ctx, userID, proposal)
				}
			}
			if rng.Intn(4) == 0 {
				victim := items[rng.Intn(len(items))]
				submitFeedback(ctx, svc, userID, victim.Venue, false)
			}
		}
	}
}

func submitFeedback(ctx context.Context, svc *app.Service, userID string, v model.Venue, accepted bool) {
	eventID := uuid.NewString()
	if svc.SeenAndRecord(ctx, eventID) {
		return
	}
	if !svc.EnqueueFeedback(ctx, model.FeedbackEvent{
		EventID:  eventID,
		UserID:   userID,
		VenueID:  v.ID,
		Category: v.Category,
		Accepted: accepted,
		TS:       time.Now(),
	}) {
		svc.Unrecord(ctx, eventID)
	}
}

// demoVenues spreads venues of every category around the center, a
// few of them sponsored.
func demoVenues(rng *rand.Rand) []model.Venue {
	names := map[model.Category][]string{
		model.CategoryCafe:       {"Bean There", "Ground Work", "Filter Stories"},
		model.CategoryRestaurant: {"De Tafel", "Salt & Stone", "Noon Kitchen"},
		model.CategoryBar:        {"Copper Still", "Night Cap", "The Tap Room"},
		model.CategoryMuseum:     {"Canal House Museum", "Modern Wing"},
		model.CategoryPark:       {"Oosterpark", "West Garden"},
		model.CategoryFitness:    {"Iron Works", "Flow Studio"},
		model.CategoryCinema:     {"The Reel", "Screen Six"},
		model.CategoryShopping:   {"Nine Streets Market", "Arcade North"},
	}

	var out []model.Venue
	i := 0
	for _, category := range model.Categories() {
		for _, name := range names[category] {
			i++
			out = append(out, model.Venue{
				ID:        fmt.Sprintf("venue-%03d", i),
				Name:      name,
				Category:  category,
				Coord:     jitter(center, rng),
				PriceTier: 1 + rng.Intn(3),
				Rating:    3.0 + rng.Float64()*2.0,
				Hours:     allDayHours(),
				Sponsored: rng.Intn(6) == 0,
			})
		}
	}
	return out
}

func demoProfile(userID string, rng *rand.Rand) model.UserProfile {
	weights := make(map[model.Category]float64)
	for _, c := range model.Categories() {
		weights[c] = rng.Float64()
	}
	tiers := []model.Tier{model.TierFree, model.TierPlus, model.TierPremium}
	return model.UserProfile{
		UserID:          userID,
		InterestWeights: weights,
		MaxTravelKm:     5 + rng.Float64()*15,
		Tier:            tiers[rng.Intn(len(tiers))],
	}
}

func seedCalendar(store *calendar.InMemoryStore, userID string, rng *rand.Rand) {
	// One or two busy blocks in the next couple of days.
	n := 1 + rng.Intn(2)
	for i := 0; i < n; i++ {
		start := time.Now().Add(time.Duration(6+rng.Intn(48)) * time.Hour).Truncate(time.Hour)
		store.Seed(userID, model.CalendarEvent{
			ID:    uuid.NewString(),
			Start: start,
			End:   start.Add(time.Duration(1+rng.Intn(3)) * time.Hour),
		})
	}
}

func allDayHours() model.OpeningHours {
	hours := make(model.OpeningHours)
	for day := time.Sunday; day <= time.Saturday; day++ {
		hours[day] = []model.HourSpan{{OpenMin: 8 * 60, CloseMin: 23 * 60}}
	}
	return hours
}

func jitter(c model.Coordinate, rng *rand.Rand) model.Coordinate {
	return model.Coordinate{
		Lat: c.Lat + (rng.Float64()-0.5)*0.05,
		Lon: c.Lon + (rng.Float64()-0.5)*0.05,
	}
}
