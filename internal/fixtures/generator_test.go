package fixtures

import (
	"context"
	"testing"

	"github.com/okian/ukestate/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given a generator limited to two years", t, func() {
		ctx := context.Background()
		opts := []Option{WithYears(1995, 1996), WithSeed(7)}

		Convey("When generating twice with the same seed", func() {
			a, err := Generate(ctx, opts...)
			So(err, ShouldBeNil)
			b, err := Generate(ctx, opts...)
			So(err, ShouldBeNil)

			Convey("Then the output is identical", func() {
				So(a, ShouldResemble, b)
			})

			Convey("And every record falls inside the requested years", func() {
				for _, r := range a {
					So(r.Date.Year(), ShouldBeBetweenOrEqual, 1995, 1996)
					So(r.Price, ShouldBeGreaterThan, 0)
				}
			})
		})

		Convey("When counting yearly sales per neighborhood", func() {
			records, err := Generate(ctx, opts...)
			So(err, ShouldBeNil)
			counts := map[string]int{}
			for _, r := range records {
				if r.Date.Year() == 1995 {
					counts[r.Town+" - "+r.District]++
				}
			}

			Convey("Then low-share neighborhoods stay under the threshold", func() {
				So(counts["LONDON - CITY OF LONDON"], ShouldBeLessThan, types.MinNeighborhoodSales)
				So(counts["LONDON - CITY OF WESTMINSTER"], ShouldBeGreaterThanOrEqualTo, types.MinNeighborhoodSales)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := Generate(cctx, opts...)
			So(err, ShouldEqual, context.Canceled)
		})
	})
}

func TestVolumeFactor(t *testing.T) {
	Convey("Given months inside and outside the shifted ranges", t, func() {
		So(volumeFactor(month(2008, 6)), ShouldEqual, 0.55)
		So(volumeFactor(month(2016, 6)), ShouldEqual, 1.3)
		So(volumeFactor(month(2016, 7)), ShouldEqual, 1.0)
		So(volumeFactor(month(1995, 1)), ShouldEqual, 1.0)
	})
}
