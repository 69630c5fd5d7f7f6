package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/banquet/internal/adapters/repository"
	"github.com/okian/banquet/internal/domain/model"
	"github.com/okian/banquet/internal/domain/rules"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryStore_PutGet(t *testing.T) {
	Convey("Given an empty store with a fixed clock", t, func() {
		ctx := context.Background()
		at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
		s := repository.NewMemoryStore(repository.WithClock(func() time.Time { return at }))

		So(s.Count(ctx), ShouldEqual, 0)

		Convey("When a partial legacy document is put", func() {
			rec, err := s.Put(ctx, "summer", map[string]any{
				"pricing": map[string]any{"privateDinnerBasePrice": 70},
			})

			Convey("Then it is normalized and stamped", func() {
				So(err, ShouldBeNil)
				So(rec.ID, ShouldEqual, "summer")
				So(rec.Revision, ShouldEqual, 1)
				So(rec.UpdatedAt, ShouldEqual, at)
				So(rec.Rules.Version, ShouldEqual, rules.CurrentVersion)
				So(rec.Rules.Pricing.PrimaryBasePrice, ShouldEqual, 70)
				So(rec.Rules.Pricing.SecondaryBasePrice, ShouldEqual, 45)
			})

			Convey("And Get returns the same record", func() {
				got, err := s.Get(ctx, "summer")
				So(err, ShouldBeNil)
				So(got, ShouldResemble, rec)
				So(s.Count(ctx), ShouldEqual, 1)
			})

			Convey("And a second write wins and bumps the revision", func() {
				rec2, err := s.Put(ctx, "summer", map[string]any{"version": 2, "pricing": map[string]any{"primaryBasePrice": 80}})
				So(err, ShouldBeNil)
				So(rec2.Revision, ShouldEqual, 2)
				So(rec2.Rules.Pricing.PrimaryBasePrice, ShouldEqual, 80)
			})
		})

		Convey("When an id is invalid", func() {
			for _, id := range []string{"", " ", "has space", "-leading", "a/b"} {
				_, err := s.Put(ctx, id, nil)
				So(errors.Is(err, repository.ErrInvalidID), ShouldBeTrue)
			}
			So(s.Count(ctx), ShouldEqual, 0)
		})

		Convey("When an unknown id is read or deleted", func() {
			_, err := s.Get(ctx, "missing")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			So(errors.Is(s.Delete(ctx, "missing"), repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestMemoryStore_Isolation(t *testing.T) {
	Convey("Given a stored rule set with profiles and caps", t, func() {
		ctx := context.Background()
		s := repository.NewMemoryStore()
		rs := rules.Defaults()
		rs.Staffing.Profiles = []rules.StaffingProfile{{ID: "p", MaxGuests: 10, Roles: []model.Role{model.RoleLead}}}
		rs.PrivateLabor.LeadCapPercent = rules.Float(20)

		_, err := s.Save(ctx, "base", rs)
		So(err, ShouldBeNil)

		Convey("When the caller mutates its own copy and a read copy", func() {
			rs.Staffing.Profiles[0].ID = "changed"
			got, _ := s.Get(ctx, "base")
			*got.Rules.PrivateLabor.LeadCapPercent = 99
			got.Rules.ProfitDistribution.Owners[0].Name = "changed"

			Convey("Then the stored record is unaffected", func() {
				again, _ := s.Get(ctx, "base")
				So(again.Rules.Staffing.Profiles[0].ID, ShouldEqual, "p")
				So(*again.Rules.PrivateLabor.LeadCapPercent, ShouldEqual, 20)
				So(again.Rules.ProfitDistribution.Owners[0].Name, ShouldEqual, "Owner A")
			})
		})
	})
}

func TestMemoryStore_ListDelete(t *testing.T) {
	Convey("Given three stored rule sets", t, func() {
		ctx := context.Background()
		s := repository.NewMemoryStore()
		for _, id := range []string{"winter", "autumn", "spring"} {
			_, err := s.Put(ctx, id, nil)
			So(err, ShouldBeNil)
		}

		Convey("Then List is ordered by id", func() {
			list := s.List(ctx)
			So(len(list), ShouldEqual, 3)
			So(list[0].ID, ShouldEqual, "autumn")
			So(list[2].ID, ShouldEqual, "winter")
		})

		Convey("When one is deleted", func() {
			So(s.Delete(ctx, "spring"), ShouldBeNil)

			Convey("Then it is gone", func() {
				So(s.Count(ctx), ShouldEqual, 2)
				_, err := s.Get(ctx, "spring")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestMemoryStore_Concurrent(t *testing.T) {
	Convey("Given concurrent writers and readers", t, func() {
		ctx := context.Background()
		s := repository.NewMemoryStore()

		var wg sync.WaitGroup
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < 50; i++ {
					id := fmt.Sprintf("rs-%d", i%5)
					_, _ = s.Put(ctx, id, map[string]any{"version": 2, "pricing": map[string]any{"primaryBasePrice": w}})
					_, _ = s.Get(ctx, id)
					_ = s.List(ctx)
				}
			}(w)
		}
		wg.Wait()

		Convey("Then every write is counted exactly once", func() {
			So(s.Count(ctx), ShouldEqual, 5)
			var total int64
			for _, rec := range s.List(ctx) {
				total += rec.Revision
			}
			So(total, ShouldEqual, 8*50)
		})
	})
}
