package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	config "github.com/okian/rove/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		ctx := context.Background()

		Convey("When loading with no overrides", func() {
			cfg, err := config.Load(ctx)

			Convey("Then the defaults should apply", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9080")
				So(cfg.MaxRecommendations, ShouldEqual, 50)
				So(cfg.SearchRadiusKm, ShouldEqual, 20)
				So(cfg.CategoryCapFrac, ShouldEqual, 0.3)
				So(cfg.SponsoredCapFrac, ShouldEqual, 0.2)
				So(cfg.HorizonDays, ShouldEqual, 7)
				So(cfg.TravelBufferMin, ShouldEqual, 15)
				So(cfg.RushWindows, ShouldResemble, []string{"08:00-09:00", "17:00-18:00"})
				So(cfg.FeedbackQueueSize, ShouldEqual, 10_000)
				So(cfg.DedupeSize, ShouldEqual, 50_000)
				So(cfg.ShardCount, ShouldEqual, 8)
			})
		})

		Convey("When environment variables override fields", func() {
			_ = os.Setenv("ROVE_ADDR", ":8080")
			_ = os.Setenv("ROVE_MAX_RECOMMENDATIONS", "25")
			_ = os.Setenv("ROVE_HORIZON_DAYS", "3")
			defer func() {
				_ = os.Unsetenv("ROVE_ADDR")
				_ = os.Unsetenv("ROVE_MAX_RECOMMENDATIONS")
				_ = os.Unsetenv("ROVE_HORIZON_DAYS")
			}()

			cfg, err := config.Load(ctx)

			Convey("Then the overrides should win over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8080")
				So(cfg.MaxRecommendations, ShouldEqual, 25)
				So(cfg.HorizonDays, ShouldEqual, 3)
				// Untouched fields keep their defaults.
				So(cfg.SearchRadiusKm, ShouldEqual, 20)
			})
		})

		Convey("When a YAML file provides values and env overrides one", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "rove.yaml")
			yaml := "addr: \":7070\"\nseen_window: 10\n"
			So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)

			_ = os.Setenv("ROVE_CONFIG", path)
			_ = os.Setenv("ROVE_ADDR", ":6060")
			defer func() {
				_ = os.Unsetenv("ROVE_CONFIG")
				_ = os.Unsetenv("ROVE_ADDR")
			}()

			cfg, err := config.Load(ctx)

			Convey("Then env should beat file should beat defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
				So(cfg.SeenWindow, ShouldEqual, 10)
			})
		})

		Convey("When the config file does not exist", func() {
			_ = os.Setenv("ROVE_CONFIG", "/nonexistent/rove.yaml")
			defer func() { _ = os.Unsetenv("ROVE_CONFIG") }()

			_, err := config.Load(ctx)

			Convey("Then loading should fail with the load sentinel", func() {
				So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
			})
		})

		Convey("When a value is out of range", func() {
			_ = os.Setenv("ROVE_CATEGORY_CAP_FRAC", "1.5")
			defer func() { _ = os.Unsetenv("ROVE_CATEGORY_CAP_FRAC") }()

			_, err := config.Load(ctx)

			Convey("Then validation should reject it", func() {
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}
