package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	worker "github.com/okian/rivals/internal/adapters/worker"
	logging "github.com/okian/rivals/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logging.Init(); err != nil {
		panic(err)
	}
}

type countingTicker struct {
	calls atomic.Int64
	err   error
	delay time.Duration
}

func (c *countingTicker) Tick(ctx context.Context) error {
	c.calls.Add(1)
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	return c.err
}

func TestTickWorker(t *testing.T) {
	convey.Convey("Given a tick worker with a short interval", t, func() {
		tk := &countingTicker{}
		w := worker.NewTickWorker(tk, worker.WithInterval(10*time.Millisecond), worker.WithName("test"))

		convey.Convey("When it runs for a while", func() {
			ctx := context.Background()
			go w.Run(ctx)
			convey.Reset(func() { _ = w.Shutdown(ctx) })
			time.Sleep(55 * time.Millisecond)

			convey.Convey("Then it ticks immediately and then periodically", func() {
				convey.So(tk.calls.Load(), convey.ShouldBeGreaterThanOrEqualTo, 3)
			})

			convey.Convey("And Shutdown stops it", func() {
				shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
				defer cancel()
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)

				after := tk.calls.Load()
				time.Sleep(30 * time.Millisecond)
				convey.So(tk.calls.Load(), convey.ShouldEqual, after)

				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})

		convey.Convey("When its context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			go w.Run(ctx)
			cancel()

			convey.Convey("Then Run returns", func() {
				select {
				case <-w.Done():
				case <-time.After(time.Second):
					convey.So("worker did not stop", convey.ShouldBeEmpty)
				}
			})
		})
	})

	convey.Convey("Given a ticker that always fails", t, func() {
		tk := &countingTicker{err: errors.New("storage down")}
		w := worker.NewTickWorker(tk, worker.WithInterval(5*time.Millisecond))
		go w.Run(context.Background())
		time.Sleep(30 * time.Millisecond)

		convey.Convey("Then the worker keeps ticking", func() {
			convey.So(tk.calls.Load(), convey.ShouldBeGreaterThan, 1)
			convey.So(w.Shutdown(context.Background()), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given a tick that outlives the shutdown deadline", t, func() {
		tk := &countingTicker{delay: 200 * time.Millisecond}
		w := worker.NewTickWorker(tk)
		go w.Run(context.Background())
		time.Sleep(10 * time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		convey.Convey("Then Shutdown reports the timeout", func() {
			err := w.Shutdown(ctx)
			convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)
			<-w.Done()
		})
	})

	convey.Convey("Given a TickFunc", t, func() {
		called := false
		f := worker.TickFunc(func(context.Context) error { called = true; return nil })
		convey.So(f.Tick(context.Background()), convey.ShouldBeNil)
		convey.So(called, convey.ShouldBeTrue)
	})
}
