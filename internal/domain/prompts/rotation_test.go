package prompts_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/rivals/internal/adapters/kv"
	"github.com/okian/rivals/internal/adapters/repository"
	"github.com/okian/rivals/internal/domain/model"
	"github.com/okian/rivals/internal/domain/prompts"
	"github.com/okian/rivals/internal/domain/random"
	"github.com/okian/rivals/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

func setup(now time.Time) (*prompts.Rotation, *repository.Repository, *fixedClock, *random.Sequence) {
	clk := &fixedClock{t: now}
	repo := repository.New(kv.NewInMemoryStore())
	rng := random.NewSequence(0, 0.5, 0.99)
	return prompts.New(clk, repo, prompts.WithRandom(rng)), repo, clk, rng
}

func TestRotation_LoadOrRotate(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		now := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
		rot, repo, clk, rng := setup(now)

		st, err := rot.LoadOrRotate(ctx)
		So(err, ShouldBeNil)

		Convey("Then a fresh set with one prompt per tier is drawn and stored", func() {
			So(st.Prompts, ShouldHaveLength, 3)
			for i, p := range st.Prompts {
				So(p.Points, ShouldEqual, i+1)
				So(p.Text, ShouldNotBeBlank)
			}
			So(st.Date.Equal(now), ShouldBeTrue)
			So(st.SelectedPromptIndex, ShouldBeNil)

			stored, err := repo.LoadDailyPrompts(ctx)
			So(err, ShouldBeNil)
			So(stored.Prompts, ShouldResemble, st.Prompts)
		})

		Convey("When called again the same day", func() {
			clk.t = now.Add(10 * time.Hour)
			again, err := rot.LoadOrRotate(ctx)

			Convey("Then the memoized set is returned without drawing", func() {
				So(err, ShouldBeNil)
				So(again.Prompts, ShouldResemble, st.Prompts)
				So(rng.Calls(), ShouldEqual, 3)
			})
		})

		Convey("When the stored set is from yesterday", func() {
			_, err := rot.Select(ctx, 1)
			So(err, ShouldBeNil)
			clk.t = now.AddDate(0, 0, 1)
			fresh, err := rot.LoadOrRotate(ctx)

			Convey("Then it is replaced by a set dated today with no selection", func() {
				So(err, ShouldBeNil)
				So(rng.Calls(), ShouldEqual, 6)
				So(fresh.Date.Equal(clk.t), ShouldBeTrue)
				So(fresh.SelectedPromptIndex, ShouldBeNil)
			})
		})
	})

	Convey("Given a malformed stored set", t, func() {
		ctx := context.Background()
		store := kv.NewInMemoryStore()
		So(store.Set(ctx, kv.KeyDailyPrompts, []byte("{oops")), ShouldBeNil)
		rot := prompts.New(&fixedClock{t: time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)}, repository.New(store))

		st, err := rot.LoadOrRotate(ctx)

		Convey("Then a fresh set is drawn", func() {
			So(err, ShouldBeNil)
			So(st.Prompts, ShouldHaveLength, 3)
		})
	})
}

func TestRotation_SelectAndSubmit(t *testing.T) {
	Convey("Given today's prompts", t, func() {
		ctx := context.Background()
		now := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
		rot, repo, clk, _ := setup(now)

		Convey("When submitting before selecting", func() {
			_, err := rot.Submit(ctx, "done", nil)
			So(errors.Is(err, prompts.ErrNoSelection), ShouldBeTrue)
		})

		Convey("When selecting an index out of range", func() {
			_, err := rot.Select(ctx, 3)
			So(errors.Is(err, prompts.ErrInvalidIndex), ShouldBeTrue)
			_, err = rot.Select(ctx, -1)
			So(errors.Is(err, prompts.ErrInvalidIndex), ShouldBeTrue)
		})

		Convey("When the third prompt is selected and submitted", func() {
			st, err := rot.Select(ctx, 2)
			So(err, ShouldBeNil)
			So(*st.SelectedPromptIndex, ShouldEqual, 2)

			sub, err := rot.Submit(ctx, "  a tiny song  ", []string{"song.m4a"})
			So(err, ShouldBeNil)

			Convey("Then the submission carries the prompt's points and day key", func() {
				So(sub.ID, ShouldNotBeBlank)
				So(sub.Text, ShouldEqual, "a tiny song")
				So(sub.Points, ShouldEqual, 3)
				So(sub.PromptIndex, ShouldEqual, 2)
				So(sub.DayKey, ShouldEqual, "2024-6-3")

				u, err := repo.LoadUser(ctx)
				So(err, ShouldBeNil)
				So(u.TotalPoints, ShouldEqual, 3)
				So(u.Submissions, ShouldHaveLength, 1)
			})

			Convey("And a second submission for it the same day is refused", func() {
				_, err := rot.Submit(ctx, "again", nil)
				So(errors.Is(err, prompts.ErrAlreadySubmitted), ShouldBeTrue)

				done, err := rot.SubmittedToday(ctx)
				So(err, ShouldBeNil)
				So(done, ShouldResemble, []int{2})
			})

			Convey("And another prompt can still be submitted", func() {
				_, err := rot.Select(ctx, 0)
				So(err, ShouldBeNil)
				sub, err := rot.Submit(ctx, "a haiku", nil)
				So(err, ShouldBeNil)
				So(sub.Points, ShouldEqual, 1)
			})

			Convey("And the next day the same index can be submitted again", func() {
				clk.t = now.AddDate(0, 0, 1)
				_, err := rot.Select(ctx, 2)
				So(err, ShouldBeNil)
				_, err = rot.Submit(ctx, "next day", nil)
				So(err, ShouldBeNil)
			})
		})

		Convey("When submitting nothing", func() {
			_, err := rot.Select(ctx, 0)
			So(err, ShouldBeNil)
			_, err = rot.Submit(ctx, "   ", nil)
			So(errors.Is(err, prompts.ErrEmptySubmission), ShouldBeTrue)
		})
	})
}

func TestWithPools(t *testing.T) {
	Convey("Given custom pools including an empty one", t, func() {
		pools := []prompts.Pool{
			{Points: 5, Texts: []string{"only"}},
			{Points: 9},
		}
		rot := prompts.New(&fixedClock{t: time.Now()}, repository.New(kv.NewInMemoryStore()), prompts.WithPools(pools))

		st, err := rot.LoadOrRotate(context.Background())

		Convey("Then only non-empty pools are drawn from", func() {
			So(err, ShouldBeNil)
			So(st.Prompts, ShouldResemble, []model.Prompt{{Text: "only", Points: 5}})
		})
	})
}
