package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/ukestate/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClient(t *testing.T) {
	Convey("Given an API stub", t, func() {
		var gotQuery string
		status := http.StatusOK
		mux := http.NewServeMux()
		mux.HandleFunc("/sales-per-month", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`[{"year":1995,"month":1,"date":"1995-01-01","num_sales":42}]`))
		})
		mux.HandleFunc("/top-expensive-neighborhoods", func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`[{"town":"London","district":"Westminster","c":150,"price":500000}]`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		c, err := NewClient(srv.URL+"/", WithTimeout(time.Second))
		So(err, ShouldBeNil)
		ctx := context.Background()

		Convey("When fetching monthly sales", func() {
			points, err := c.MonthlySales(ctx)

			Convey("Then the payload is decoded", func() {
				So(err, ShouldBeNil)
				So(points, ShouldResemble, []types.MonthlySalesPoint{{Year: 1995, Month: 1, Date: "1995-01-01", NumSales: 42}})
			})
		})

		Convey("When fetching neighborhoods", func() {
			rows, err := c.TopNeighborhoods(ctx, types.Year(1995))

			Convey("Then the year is sent as the date parameter", func() {
				So(err, ShouldBeNil)
				So(gotQuery, ShouldEqual, "date=1995")
				So(rows[0].Label(), ShouldEqual, "London - Westminster")
			})
		})

		Convey("When the API answers with an error status", func() {
			status = http.StatusInternalServerError
			_, err := c.MonthlySales(ctx)

			Convey("Then ErrFetch is returned", func() {
				So(errors.Is(err, ErrFetch), ShouldBeTrue)
			})
		})

		Convey("When the API is unreachable", func() {
			srv.Close()
			_, err := c.TopNeighborhoods(ctx, types.Year(2000))
			So(errors.Is(err, ErrFetch), ShouldBeTrue)
		})
	})

	Convey("Given invalid base URLs", t, func() {
		_, err := NewClient("  ")
		So(errors.Is(err, ErrEmptyURL), ShouldBeTrue)

		_, err = NewClient("not a url")
		So(err, ShouldNotBeNil)
	})
}

func TestFormatPounds(t *testing.T) {
	Convey("Given prices", t, func() {
		So(FormatPounds(1234567), ShouldEqual, "£1,234,567")
		So(FormatPounds(500000), ShouldEqual, "£500,000")
		So(FormatPounds(999.6), ShouldEqual, "£1,000")
		So(FormatPounds(0), ShouldEqual, "£0")
	})
}
