package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/ukestate/internal/adapters/http/api"
	"github.com/okian/ukestate/internal/adapters/repository"
	service "github.com/okian/ukestate/internal/app"
	"github.com/okian/ukestate/internal/domain/failure"
	"github.com/okian/ukestate/internal/domain/types"
	"github.com/okian/ukestate/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// mockDependencies answers with canned data or a configured error.
type mockDependencies struct {
	points        []types.MonthlySalesPoint
	neighborhoods []types.NeighborhoodPriceSummary
	err           error
	healthErr     error
	years         []types.Year
}

func (m *mockDependencies) SalesPerMonth(context.Context) ([]types.MonthlySalesPoint, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.points, nil
}

func (m *mockDependencies) TopExpensiveNeighborhoods(_ context.Context, year types.Year) ([]types.NeighborhoodPriceSummary, error) {
	m.years = append(m.years, year)
	if m.err != nil {
		return nil, m.err
	}
	return m.neighborhoods, nil
}

func (m *mockDependencies) Health(context.Context) error { return m.healthErr }

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newMux(deps api.Dependencies, stats api.StatsProvider) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, stats).Register(context.Background(), mux)
	return mux
}

func serve(mux http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func detailOf(w *httptest.ResponseRecorder) string {
	var body struct {
		Detail string `json:"detail"`
	}
	So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
	return body.Detail
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := &mockDependencies{
			points: []types.MonthlySalesPoint{
				{Year: 1995, Month: 1, Date: "1995-01-01", NumSales: 42},
			},
			neighborhoods: []types.NeighborhoodPriceSummary{
				{Town: "London", District: "Westminster", Count: 150, Price: 500000},
			},
		}
		stats := &mockStatsProvider{stats: map[string]interface{}{"started": true, "backend": "sqlite"}}
		mux := newMux(deps, stats)

		Convey("When requesting monthly sales", func() {
			w := serve(mux, http.MethodGet, "/sales-per-month")

			Convey("Then the points are returned as a JSON array", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
				So(strings.TrimSpace(w.Body.String()), ShouldEqual,
					`[{"year":1995,"month":1,"date":"1995-01-01","num_sales":42}]`)
			})

			Convey("And a request id is attached", func() {
				So(w.Header().Get(api.HeaderRequestID), ShouldNotBeEmpty)
			})
		})

		Convey("When requesting neighborhoods for a year", func() {
			w := serve(mux, http.MethodGet, "/top-expensive-neighborhoods?date=1995")

			Convey("Then the summaries are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual,
					`[{"town":"London","district":"Westminster","c":150,"price":500000}]`)
				So(deps.years, ShouldResemble, []types.Year{1995})
			})
		})

		Convey("When requesting health", func() {
			w := serve(mux, http.MethodGet, "/health")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(strings.TrimSpace(w.Body.String()), ShouldEqual, `{"status":"OK"}`)
		})

		Convey("When requesting stats", func() {
			w := serve(mux, http.MethodGet, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"backend":"sqlite"`)
		})

		Convey("When requesting metrics", func() {
			serve(mux, http.MethodGet, "/health")
			w := serve(mux, http.MethodGet, "/metrics")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "http_requests_total")
		})

		Convey("When posting to a read-only route", func() {
			w := serve(mux, http.MethodPost, "/sales-per-month")

			Convey("Then it is rejected with 405", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(detailOf(w), ShouldEqual, "Method Not Allowed")
				So(w.Header().Get("Allow"), ShouldEqual, "GET, HEAD")
			})
		})

		Convey("When the caller supplies a request id", func() {
			id := "0b6f7c8e-1e7a-4f0b-9a59-0c1a3c3b9d11"
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set(api.HeaderRequestID, id)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Header().Get(api.HeaderRequestID), ShouldEqual, id)
		})

		Convey("When the caller supplies a malformed request id", func() {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set(api.HeaderRequestID, "not-a-uuid")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Header().Get(api.HeaderRequestID), ShouldNotEqual, "not-a-uuid")
		})
	})
}

func TestNeighborhoodsHandler_Validation(t *testing.T) {
	Convey("Given a neighborhoods handler", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps, &mockStatsProvider{})

		cases := []struct {
			name   string
			target string
			detail string
		}{
			{"missing date", "/top-expensive-neighborhoods", types.ErrMissingYear.Error()},
			{"empty date", "/top-expensive-neighborhoods?date=", types.ErrMissingYear.Error()},
			{"full date", "/top-expensive-neighborhoods?date=1995-01-01", types.ErrInvalidYear.Error()},
			{"three digits", "/top-expensive-neighborhoods?date=199", types.ErrInvalidYear.Error()},
			{"injection attempt", "/top-expensive-neighborhoods?date=1995'%20OR%20'1'='1", types.ErrInvalidYear.Error()},
		}
		for _, tc := range cases {
			Convey("When the year is a "+tc.name, func() {
				w := serve(mux, http.MethodGet, tc.target)

				Convey("Then it is rejected with 400 before any query", func() {
					So(w.Code, ShouldEqual, http.StatusBadRequest)
					So(detailOf(w), ShouldEqual, tc.detail)
					So(deps.years, ShouldBeEmpty)
				})
			})
		}

		Convey("When the year has no data", func() {
			w := serve(mux, http.MethodGet, "/top-expensive-neighborhoods?date=1800")

			Convey("Then an empty array is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, `[]`)
			})
		})
	})
}

func TestHandlers_Failures(t *testing.T) {
	Convey("Given a Query Service that fails", t, func() {
		cause := errors.New("Code: 60. DB::Exception: Table uk.uk_price_paid does not exist")
		deps := &mockDependencies{
			err:       failure.Query("clickhouse.query", cause),
			healthErr: failure.Connection("clickhouse.ping", errors.New("dial tcp 10.0.0.1:8123: connection refused")),
		}
		mux := newMux(deps, &mockStatsProvider{})

		Convey("When requesting monthly sales", func() {
			w := serve(mux, http.MethodGet, "/sales-per-month")

			Convey("Then the cause is reported under the endpoint message", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(detailOf(w), ShouldEqual, "Error retrieving monthly sales data: "+cause.Error())
			})
		})

		Convey("When requesting neighborhoods", func() {
			w := serve(mux, http.MethodGet, "/top-expensive-neighborhoods?date=2001")

			Convey("Then the cause is reported under the endpoint message", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(detailOf(w), ShouldEqual, "Error retrieving most expensive neighborhoods data: "+cause.Error())
			})
		})

		Convey("When requesting health", func() {
			w := serve(mux, http.MethodGet, "/health")

			Convey("Then the cause is not leaked", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(detailOf(w), ShouldEqual, "Error in service health check")
				So(w.Body.String(), ShouldNotContainSubstring, "refused")
			})
		})

		Convey("When the Query Service recovers", func() {
			So(serve(mux, http.MethodGet, "/sales-per-month").Code, ShouldEqual, http.StatusInternalServerError)
			deps.err, deps.healthErr = nil, nil

			Convey("Then the next requests succeed", func() {
				So(serve(mux, http.MethodGet, "/sales-per-month").Code, ShouldEqual, http.StatusOK)
				So(serve(mux, http.MethodGet, "/health").Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When the error is unclassified", func() {
			deps.err = errors.New("boom")
			w := serve(mux, http.MethodGet, "/sales-per-month")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(detailOf(w), ShouldEqual, "Error retrieving monthly sales data: boom")
		})
	})
}

func TestServer_SQLiteEndToEnd(t *testing.T) {
	Convey("Given the API over an in-memory SQLite Query Service", t, func() {
		ctx := context.Background()
		db, err := repository.NewSQLite(repository.MemoryPath)
		So(err, ShouldBeNil)
		svc := service.New(service.WithQueryService(db), service.WithQueryTimeout(5*time.Second))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		var records []types.Transaction
		for i := 0; i < 150; i++ {
			records = append(records, types.Transaction{
				Date:     time.Date(1995, time.Month(i%12+1), 15, 0, 0, 0, 0, time.UTC),
				Price:    500000,
				Town:     "London",
				District: "Westminster",
			})
		}
		records = append(records, types.Transaction{
			Date: time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC), Price: 1, Town: "York", District: "York",
		})
		So(db.Load(ctx, records), ShouldBeNil)
		mux := newMux(svc, svc)

		Convey("When requesting the 1995 neighborhoods", func() {
			w := serve(mux, http.MethodGet, "/top-expensive-neighborhoods?date=1995")

			Convey("Then Westminster is the single entry", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual,
					`[{"town":"London","district":"Westminster","c":150,"price":500000}]`)
			})
		})

		Convey("When requesting monthly sales twice", func() {
			a := serve(mux, http.MethodGet, "/sales-per-month")
			b := serve(mux, http.MethodGet, "/sales-per-month")

			Convey("Then both bodies are byte-identical", func() {
				So(a.Code, ShouldEqual, http.StatusOK)
				So(a.Body.String(), ShouldEqual, b.Body.String())
			})

			Convey("And the last dataset month is included", func() {
				var points []types.MonthlySalesPoint
				So(json.Unmarshal(a.Body.Bytes(), &points), ShouldBeNil)
				So(len(points), ShouldEqual, 13)
				So(points[0].Date, ShouldEqual, "1995-01-01")
				So(points[len(points)-1].Date, ShouldEqual, "2023-12-01")
			})
		})

		Convey("When the years are at the dataset boundaries", func() {
			So(serve(mux, http.MethodGet, "/top-expensive-neighborhoods?date=1995").Code, ShouldEqual, http.StatusOK)
			w := serve(mux, http.MethodGet, "/top-expensive-neighborhoods?date=2023")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(strings.TrimSpace(w.Body.String()), ShouldEqual, `[]`)
		})

		Convey("When checking health", func() {
			So(serve(mux, http.MethodGet, "/health").Code, ShouldEqual, http.StatusOK)
		})
	})
}
