package catchup_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/rivals/internal/domain/catchup"
	"github.com/okian/rivals/internal/domain/model"
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

type memStore struct {
	install *model.InstallRecord
	saved   [][]model.Competitor
	saveErr error
	loadErr error
}

func (s *memStore) LoadInstall(context.Context) (*model.InstallRecord, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.install, nil
}

func (s *memStore) SaveInstall(_ context.Context, rec model.InstallRecord) error {
	s.install = &rec
	return nil
}

func (s *memStore) SaveCompetitors(_ context.Context, list []model.Competitor) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, append([]model.Competitor(nil), list...))
	return nil
}

func at(day, hour int) time.Time {
	return time.Date(2024, 5, day, hour, 0, 0, 0, time.UTC)
}

func TestProcess_WalksEveryMissedDay(t *testing.T) {
	Convey("Given a competitor last processed four days ago", t, func() {
		ctx := context.Background()
		clk := &fixedClock{t: at(10, 18)}
		store := &memStore{install: &model.InstallRecord{InstallDate: at(1, 9)}}
		last := at(6, 20)
		comps := []model.Competitor{{Name: "Maya", DailyProbability: 0.5, LastUpdate: &last}}

		// Days 7..10: success, fail, success, success.
		rng := random.NewSequence(0.1, 0.9, 0.49, 0.0)
		p := catchup.New(clk, store, catchup.WithRandom(rng))

		res, err := p.Process(ctx, comps)
		So(err, ShouldBeNil)

		Convey("Then one trial runs per day and successes grant three points each", func() {
			So(rng.Calls(), ShouldEqual, 4)
			So(res.DaysWalked, ShouldEqual, 4)
			So(res.PointsAwarded, ShouldEqual, 9)
			So(comps[0].Points, ShouldEqual, 9)
		})

		Convey("And lastUpdate is the full current instant", func() {
			So(comps[0].LastUpdate.Equal(clk.t), ShouldBeTrue)
		})

		Convey("And the whole roster is written once", func() {
			So(store.saved, ShouldHaveLength, 1)
			So(store.saved[0][0].Points, ShouldEqual, 9)
		})

		Convey("When processed again later the same day", func() {
			clk.t = at(10, 23)
			res, err := p.Process(ctx, comps)

			Convey("Then nothing is rolled or written", func() {
				So(err, ShouldBeNil)
				So(res.Updated, ShouldBeFalse)
				So(rng.Calls(), ShouldEqual, 4)
				So(comps[0].Points, ShouldEqual, 9)
				So(store.saved, ShouldHaveLength, 1)
			})
		})
	})
}

func TestProcess_NewCompetitor(t *testing.T) {
	Convey("Given a competitor that was never processed", t, func() {
		clk := &fixedClock{t: at(10, 15)}
		store := &memStore{install: &model.InstallRecord{InstallDate: at(1, 9)}}
		comps := []model.Competitor{{Name: "Leo", DailyProbability: 1}}
		rng := random.NewSequence(0.5)

		res, err := catchup.New(clk, store, catchup.WithRandom(rng)).Process(context.Background(), comps)

		Convey("Then exactly today is processed", func() {
			So(err, ShouldBeNil)
			So(res.DaysWalked, ShouldEqual, 1)
			So(comps[0].Points, ShouldEqual, 3)
		})
	})
}

func TestProcess_InstallDaySuppression(t *testing.T) {
	Convey("Given a first launch on day D at 08:00", t, func() {
		ctx := context.Background()
		clk := &fixedClock{t: at(10, 8)}
		store := &memStore{}
		comps := catchup.DefaultRoster()
		rng := random.NewSequence(0)
		p := catchup.New(clk, store, catchup.WithRandom(rng))

		res, err := p.Process(ctx, comps)
		So(err, ShouldBeNil)

		Convey("Then the install date is recorded", func() {
			So(store.install, ShouldNotBeNil)
			So(store.install.InstallDate.Equal(clk.t), ShouldBeTrue)
		})

		Convey("And no competitor scores even though every trial would succeed", func() {
			So(res.Suppressed, ShouldBeTrue)
			So(rng.Calls(), ShouldEqual, 0)
			for _, c := range comps {
				So(c.Points, ShouldEqual, 0)
				So(c.LastUpdate, ShouldNotBeNil)
			}
		})

		Convey("When called again at 13:00 the same day", func() {
			clk.t = at(10, 13)
			res, err := p.Process(ctx, comps)

			Convey("Then day D is not re-rolled", func() {
				So(err, ShouldBeNil)
				So(res.Updated, ShouldBeFalse)
				for _, c := range comps {
					So(c.Points, ShouldEqual, 0)
				}
			})
		})

		Convey("When called on D+1", func() {
			clk.t = at(11, 7)
			res, err := p.Process(ctx, comps)

			Convey("Then only D+1 rolls", func() {
				So(err, ShouldBeNil)
				So(res.Suppressed, ShouldBeFalse)
				So(res.DaysWalked, ShouldEqual, len(comps))
				for _, c := range comps {
					So(c.Points, ShouldEqual, 3)
				}
			})
		})
	})

	Convey("Given a first launch on day D at 13:00", t, func() {
		clk := &fixedClock{t: at(10, 13)}
		comps := []model.Competitor{{Name: "Aiko", DailyProbability: 1}}
		_, err := catchup.New(clk, &memStore{}, catchup.WithRandom(random.NewSequence(0))).
			Process(context.Background(), comps)

		Convey("Then the install day rolls normally", func() {
			So(err, ShouldBeNil)
			So(comps[0].Points, ShouldEqual, 3)
		})
	})

	Convey("Given a later morning that is not the install day", t, func() {
		clk := &fixedClock{t: at(12, 8)}
		store := &memStore{install: &model.InstallRecord{InstallDate: at(10, 8)}}
		last := at(11, 9)
		comps := []model.Competitor{{Name: "Jonas", DailyProbability: 1, LastUpdate: &last}}
		_, err := catchup.New(clk, store, catchup.WithRandom(random.NewSequence(0))).
			Process(context.Background(), comps)

		Convey("Then the morning is not suppressed", func() {
			So(err, ShouldBeNil)
			So(comps[0].Points, ShouldEqual, 3)
		})
	})
}

func TestProcess_Failures(t *testing.T) {
	errDisk := errors.New("disk full")

	Convey("Given a store whose save fails", t, func() {
		clk := &fixedClock{t: at(10, 15)}
		store := &memStore{install: &model.InstallRecord{InstallDate: at(1, 9)}, saveErr: errDisk}
		last := at(8, 9)
		comps := []model.Competitor{{Name: "Priya", Points: 6, DailyProbability: 1, LastUpdate: &last}}

		_, err := catchup.New(clk, store, catchup.WithRandom(random.NewSequence(0))).
			Process(context.Background(), comps)

		Convey("Then the error propagates and the caller's roster is untouched", func() {
			So(errors.Is(err, errDisk), ShouldBeTrue)
			So(comps[0].Points, ShouldEqual, 6)
			So(comps[0].LastUpdate.Equal(last), ShouldBeTrue)
		})
	})

	Convey("Given a store whose install read fails", t, func() {
		store := &memStore{loadErr: errDisk}
		_, err := catchup.New(&fixedClock{t: at(10, 15)}, store).Process(context.Background(), catchup.DefaultRoster())

		So(errors.Is(err, errDisk), ShouldBeTrue)
	})
}

func TestProcess_CustomReward(t *testing.T) {
	Convey("Given a reward of five points", t, func() {
		clk := &fixedClock{t: at(10, 15)}
		store := &memStore{install: &model.InstallRecord{InstallDate: at(1, 9)}}
		last := at(8, 9)
		comps := []model.Competitor{{Name: "Maya", DailyProbability: 1, LastUpdate: &last}}

		_, err := catchup.New(clk, store, catchup.WithReward(5), catchup.WithRandom(random.NewSequence(0))).
			Process(context.Background(), comps)

		So(err, ShouldBeNil)
		So(comps[0].Points, ShouldEqual, 10)
	})
}

func TestDefaultRoster(t *testing.T) {
	Convey("Given the default roster", t, func() {
		roster := catchup.DefaultRoster()

		Convey("Then every competitor has a distinct probability in (0,1]", func() {
			seen := map[float64]bool{}
			for _, c := range roster {
				So(c.DailyProbability, ShouldBeGreaterThan, 0)
				So(c.DailyProbability, ShouldBeLessThanOrEqualTo, 1)
				So(seen[c.DailyProbability], ShouldBeFalse)
				seen[c.DailyProbability] = true
				So(c.Points, ShouldEqual, 0)
				So(c.LastUpdate, ShouldBeNil)
			}
		})
	})
}
