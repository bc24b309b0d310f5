package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/rivals/internal/adapters/kv"
	"github.com/okian/rivals/internal/adapters/repository"
	"github.com/okian/rivals/internal/domain/model"
	"github.com/okian/rivals/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// brokenStore fails every call.
type brokenStore struct{}

var errDisk = errors.New("disk on fire")

func (brokenStore) Get(context.Context, string) ([]byte, error) { return nil, errDisk }
func (brokenStore) Set(context.Context, string, []byte) error   { return errDisk }
func (brokenStore) Remove(context.Context, string) error        { return errDisk }
func (brokenStore) Close() error                                { return nil }

func TestRepository_RoundTrips(t *testing.T) {
	Convey("Given a repository over an empty store", t, func() {
		ctx := context.Background()
		store := kv.NewInMemoryStore()
		repo := repository.New(store)

		Convey("When nothing is stored", func() {
			comps, err := repo.LoadCompetitors(ctx)
			So(err, ShouldBeNil)
			So(comps, ShouldBeNil)

			inst, err := repo.LoadInstall(ctx)
			So(err, ShouldBeNil)
			So(inst, ShouldBeNil)

			Convey("Then the user defaults to a fresh zero-point user", func() {
				u, err := repo.LoadUser(ctx)
				So(err, ShouldBeNil)
				So(u.TotalPoints, ShouldEqual, 0)
				So(u.Submissions, ShouldBeEmpty)
			})
		})

		Convey("When a roster is saved", func() {
			ts := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
			in := []model.Competitor{
				{Name: "B", Points: 6, DailyProbability: 0.5, LastUpdate: &ts},
				{Name: "A", Points: 0, DailyProbability: 0.9},
			}
			So(repo.SaveCompetitors(ctx, in), ShouldBeNil)

			Convey("Then it is stored as one JSON array in roster order", func() {
				raw, err := store.Get(ctx, kv.KeyCompetitors)
				So(err, ShouldBeNil)
				So(string(raw), ShouldStartWith, `[{"name":"B"`)

				out, err := repo.LoadCompetitors(ctx)
				So(err, ShouldBeNil)
				So(out, ShouldHaveLength, 2)
				So(out[0].LastUpdate.Equal(ts), ShouldBeTrue)
				So(out[1].LastUpdate, ShouldBeNil)
			})
		})

		Convey("When the install date is saved", func() {
			ts := time.Date(2024, 2, 3, 8, 0, 0, 0, time.UTC)
			So(repo.SaveInstall(ctx, model.InstallRecord{InstallDate: ts}), ShouldBeNil)

			Convey("Then it is a bare ISO-8601 string", func() {
				raw, _ := store.Get(ctx, kv.KeyInstallDate)
				So(string(raw), ShouldEqual, `"2024-02-03T08:00:00Z"`)
				rec, err := repo.LoadInstall(ctx)
				So(err, ShouldBeNil)
				So(rec.InstallDate.Equal(ts), ShouldBeTrue)
			})
		})

		Convey("When a weekly task is saved and deleted", func() {
			So(repo.SaveWeeklyTask(ctx, &model.WeeklyTask{ID: "t1", TaskText: "x", Points: 3, WeekKey: "2024-1-1"}), ShouldBeNil)
			got, err := repo.LoadWeeklyTask(ctx)
			So(err, ShouldBeNil)
			So(got.ID, ShouldEqual, "t1")

			So(repo.DeleteWeeklyTask(ctx), ShouldBeNil)
			got, err = repo.LoadWeeklyTask(ctx)
			So(err, ShouldBeNil)
			So(got, ShouldBeNil)
		})

		Convey("When Clear runs", func() {
			So(repo.SaveUser(ctx, &model.UserData{TotalPoints: 4}), ShouldBeNil)
			So(repo.SaveDailyPrompts(ctx, &model.DailyPromptState{}), ShouldBeNil)
			So(repo.Clear(ctx), ShouldBeNil)

			Convey("Then every core key is gone", func() {
				So(store.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestRepository_Malformed(t *testing.T) {
	Convey("Given corrupted blobs for every key", t, func() {
		ctx := context.Background()
		store := kv.NewInMemoryStore()
		for _, k := range kv.AllKeys {
			So(store.Set(ctx, k, []byte(`{not json`)), ShouldBeNil)
		}
		repo := repository.New(store)

		Convey("Then each is treated as absent without an error", func() {
			comps, err := repo.LoadCompetitors(ctx)
			So(err, ShouldBeNil)
			So(comps, ShouldBeNil)

			u, err := repo.LoadUser(ctx)
			So(err, ShouldBeNil)
			So(u.TotalPoints, ShouldEqual, 0)

			p, err := repo.LoadDailyPrompts(ctx)
			So(err, ShouldBeNil)
			So(p, ShouldBeNil)

			w, err := repo.LoadWeeklyTask(ctx)
			So(err, ShouldBeNil)
			So(w, ShouldBeNil)

			i, err := repo.LoadInstall(ctx)
			So(err, ShouldBeNil)
			So(i, ShouldBeNil)
		})
	})
}

func TestRepository_StorageFailures(t *testing.T) {
	Convey("Given a store that fails every call", t, func() {
		ctx := context.Background()
		repo := repository.New(brokenStore{})

		Convey("Then reads and writes propagate the error", func() {
			_, err := repo.LoadCompetitors(ctx)
			So(errors.Is(err, errDisk), ShouldBeTrue)
			So(errors.Is(repo.SaveUser(ctx, &model.UserData{}), errDisk), ShouldBeTrue)
			So(errors.Is(repo.Clear(ctx), errDisk), ShouldBeTrue)
		})
	})
}
