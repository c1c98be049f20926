package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/fathoor/custodia/internal/domain"
)

func TestRetentionExecute(t *testing.T) {
	now := time.Date(2026, time.February, 10, 3, 0, 0, 0, time.UTC)
	cutoff := now.Add(-7 * 24 * time.Hour)

	Convey("Given a retention sweeper with a 7 day window", t, func() {
		store := &fakeObjectStorage{}
		log := &testLogger{}

		uc := NewRetention(store, log, 7)
		uc.now = func() time.Time { return now }

		Convey("When objects straddle the cutoff", func() {
			store.objects = []domain.StoredObject{
				{Key: "ancient.tar.gz", LastModified: cutoff.Add(-25 * time.Hour)},
				{Key: "barely-old.tar.gz", LastModified: cutoff.Add(-time.Second)},
				{Key: "boundary.tar.gz", LastModified: cutoff},
				{Key: "fresh.tar.gz", LastModified: cutoff.Add(time.Hour)},
			}

			err := uc.Execute(context.Background())

			Convey("Exactly the strictly-older objects should be deleted", func() {
				So(err, ShouldBeNil)
				So(len(store.deleted), ShouldEqual, 1)
				So(store.deleted[0], ShouldResemble, []string{"ancient.tar.gz", "barely-old.tar.gz"})
			})
		})

		Convey("When nothing is past retention", func() {
			store.objects = []domain.StoredObject{
				{Key: "fresh.tar.gz", LastModified: now.Add(-time.Hour)},
			}

			err := uc.Execute(context.Background())

			Convey("No delete call should be made", func() {
				So(err, ShouldBeNil)
				So(len(store.deleted), ShouldEqual, 0)
			})
		})

		Convey("When the listing fails", func() {
			store.listErr = fmt.Errorf("%w: timeout", domain.ErrList)

			err := uc.Execute(context.Background())

			Convey("The sweep should give up without deleting", func() {
				So(err, ShouldNotBeNil)
				So(len(store.deleted), ShouldEqual, 0)
			})
		})

		Convey("When the batch delete fails", func() {
			store.objects = []domain.StoredObject{
				{Key: "ancient.tar.gz", LastModified: cutoff.Add(-time.Hour)},
			}
			store.deleteErr = fmt.Errorf("%w: forbidden", domain.ErrDelete)

			err := uc.Execute(context.Background())

			Convey("The error should surface for the log, nothing more", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Given retention is disabled", t, func() {
		store := &fakeObjectStorage{
			objects: []domain.StoredObject{
				{Key: "ancient.tar.gz", LastModified: now.Add(-365 * 24 * time.Hour)},
			},
		}
		log := &testLogger{}

		uc := NewRetention(store, log, 0)
		uc.now = func() time.Time { return now }

		Convey("The sweep should make no storage calls at all", func() {
			So(uc.Execute(context.Background()), ShouldBeNil)
			So(store.listCalls, ShouldEqual, 0)
			So(len(store.deleted), ShouldEqual, 0)
		})
	})
}
