package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestScheduler(t *testing.T) {
	Convey("Given a scheduler handle", t, func() {
		s := New()

		Convey("It should wrap a live cron runner", func() {
			So(s, ShouldNotBeNil)
			So(s.cron, ShouldNotBeNil)
		})

		Convey("When an every-second job is registered and started", func() {
			var runs atomic.Int32
			err := s.AddJob("* * * * * *", func(ctx context.Context) error {
				runs.Add(1)
				return nil
			})
			So(err, ShouldBeNil)

			s.Start()
			time.Sleep(2500 * time.Millisecond)
			s.Stop()

			Convey("The job should have fired at least once", func() {
				So(runs.Load(), ShouldBeGreaterThanOrEqualTo, 1)
			})

			Convey("Nothing should fire after Stop", func() {
				settled := runs.Load()
				time.Sleep(1500 * time.Millisecond)
				So(runs.Load(), ShouldEqual, settled)
			})
		})

		Convey("When the cron spec is invalid", func() {
			err := s.AddJob("not a cron spec", func(ctx context.Context) error { return nil })

			Convey("Registration should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When Stop is called without Start", func() {
			So(func() { s.Stop() }, ShouldNotPanic)
		})
	})
}
