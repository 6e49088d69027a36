package types_test

import (
	"encoding/json"
	"errors"
	"testing"

	types "github.com/okian/ukestate/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseYear(t *testing.T) {
	Convey("Given a raw date parameter", t, func() {
		Convey("When it is a four-digit year", func() {
			y, err := types.ParseYear("1995")

			Convey("Then it parses", func() {
				So(err, ShouldBeNil)
				So(y, ShouldEqual, types.Year(1995))
				So(y.String(), ShouldEqual, "1995")
			})

			Convey("And the range covers the calendar year", func() {
				from, to := y.Range()
				So(from, ShouldEqual, "1995-01-01")
				So(to, ShouldEqual, "1995-12-31")
			})
		})

		Convey("When it is empty", func() {
			_, err := types.ParseYear("")
			So(err, ShouldEqual, types.ErrMissingYear)
		})

		Convey("When it is not four digits", func() {
			for _, raw := range []string{"95", "19955", "abcd", "2023'", "2023-01", " 2023", "2023' OR '1'='1", "１９９５"} {
				_, err := types.ParseYear(raw)
				So(err, ShouldEqual, types.ErrInvalidYear)
			}
		})
	})
}

func TestYears(t *testing.T) {
	Convey("Given the dataset years", t, func() {
		years := types.Years()

		Convey("Then they span 1995 to 2023 inclusive", func() {
			So(len(years), ShouldEqual, 29)
			So(years[0], ShouldEqual, types.Year(1995))
			So(years[len(years)-1], ShouldEqual, types.Year(2023))
		})
	})
}

func TestMonthlySalesPoint(t *testing.T) {
	Convey("Given a year and month", t, func() {
		Convey("When building a point", func() {
			p, err := types.NewMonthlySalesPoint(2008, 3, 61234)

			Convey("Then the date is the zero-padded first of the month", func() {
				So(err, ShouldBeNil)
				So(p.Date, ShouldEqual, "2008-03-01")
				So(p.NumSales, ShouldEqual, 61234)
			})

			Convey("And it encodes with the wire field names", func() {
				b, err := json.Marshal(p)
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, `{"year":2008,"month":3,"date":"2008-03-01","num_sales":61234}`)
			})
		})

		Convey("When the month is out of range", func() {
			_, err := types.NewMonthlySalesPoint(2008, 13, 1)
			So(errors.Is(err, types.ErrInvalidDate), ShouldBeTrue)
		})
	})
}

func TestNeighborhoodPriceSummary(t *testing.T) {
	Convey("Given a neighborhood summary", t, func() {
		n := types.NeighborhoodPriceSummary{Town: "London", District: "Westminster", Count: 150, Price: 500000}

		Convey("Then it encodes with c and price", func() {
			b, err := json.Marshal(n)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `{"town":"London","district":"Westminster","c":150,"price":500000}`)
		})

		Convey("And its label joins town and district", func() {
			So(n.Label(), ShouldEqual, "London - Westminster")
		})
	})
}
