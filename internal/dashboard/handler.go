package dashboard

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/okian/ukestate/internal/domain/types"
	"github.com/okian/ukestate/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page paths.
const (
	PathIndex         = "/"
	PathHistorical    = "/historical-events"
	PathNeighborhoods = "/neighborhoods"

	assetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

	// FetchErrorMessage replaces the chart when the API cannot be read.
	FetchErrorMessage = "Error fetching data."
)

// Topic titles shown in the sidebar.
const (
	TopicNeighborhoods = "High-Value Neighborhoods in the UK Real Estate Market"
	TopicHistorical    = "Impact of Historical Events on UK Real Estate"
)

const (
	introHistorical = "Several macroeconomic and political events have shaped the UK property market: " +
		"the 2007-2009 financial crisis, the 2016 Brexit referendum and the COVID-19 pandemic. " +
		"The chart below highlights these periods and how property sales responded."
	captionHistorical = "Transaction volumes fell sharply during the 2008 financial crisis as mortgage credit tightened, " +
		"surged ahead of the Brexit referendum, and dipped in 2020 before rebounding faster than after 2008."
	introNeighborhoods = "Certain UK neighborhoods consistently command premium valuations thanks to demand, " +
		"amenities and connectivity. Pick a year to see the most expensive ones."
	captionNeighborhoods = "The ten UK neighborhoods with the highest average transaction price in %s, " +
		"counting only neighborhoods with at least %d sales."
)

// Fetcher reads the API payloads. *Client implements it.
type Fetcher interface {
	MonthlySales(ctx context.Context) ([]types.MonthlySalesPoint, error)
	TopNeighborhoods(ctx context.Context, year types.Year) ([]types.NeighborhoodPriceSummary, error)
}

type topic struct {
	Title string
	Path  string
}

type priceRow struct {
	Label string
	Count int64
	Price string
}

type page struct {
	AssetsHost string
	Topics     []topic
	Active     string
	Heading    string
	Intro      string
	Caption    string
	Error      string
	Chart      *Chart
	Years      []types.Year
	Year       types.Year
	Rows       []priceRow
}

// Handler serves the dashboard pages. Every request fetches afresh.
type Handler struct {
	fetcher Fetcher
	tmpl    *template.Template
}

// NewHandler parses the embedded templates.
func NewHandler(f Fetcher) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Handler{fetcher: f, tmpl: tmpl}, nil
}

// Register attaches the dashboard pages to mux.
func (h *Handler) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc(PathIndex, h.HandleIndex)
	mux.HandleFunc(PathHistorical, h.HandleHistorical)
	mux.HandleFunc(PathNeighborhoods, h.HandleNeighborhoods)
}

// HandleIndex renders the landing page with the topic list.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != PathIndex {
		http.NotFound(w, r)
		return
	}
	h.render(w, r, http.StatusOK, h.newPage(PathIndex))
}

// HandleHistorical renders monthly sales with the historical event bands.
func (h *Handler) HandleHistorical(w http.ResponseWriter, r *http.Request) {
	p := h.newPage(PathHistorical)
	p.Heading = TopicHistorical
	p.Intro = introHistorical

	points, err := h.fetcher.MonthlySales(r.Context())
	if err != nil {
		p.Error = FetchErrorMessage
		h.render(w, r, http.StatusBadGateway, p)
		return
	}
	chart := SalesChart(points)
	p.Chart = &chart
	p.Caption = captionHistorical
	h.render(w, r, http.StatusOK, p)
}

// HandleNeighborhoods renders the top neighborhoods of the selected year.
func (h *Handler) HandleNeighborhoods(w http.ResponseWriter, r *http.Request) {
	year := SelectedYear(r.URL.Query().Get("year"))
	p := h.newPage(PathNeighborhoods)
	p.Heading = TopicNeighborhoods
	p.Intro = introNeighborhoods
	p.Years = types.Years()
	p.Year = year

	rows, err := h.fetcher.TopNeighborhoods(r.Context(), year)
	if err != nil {
		p.Error = FetchErrorMessage
		h.render(w, r, http.StatusBadGateway, p)
		return
	}
	chart := NeighborhoodsChart(year, rows)
	p.Chart = &chart
	for _, row := range rows {
		p.Rows = append(p.Rows, priceRow{Label: row.Label(), Count: row.Count, Price: FormatPounds(row.Price)})
	}
	p.Caption = fmt.Sprintf(captionNeighborhoods, year, types.MinNeighborhoodSales)
	h.render(w, r, http.StatusOK, p)
}

// SelectedYear parses the selector value, falling back to the first
// dataset year for anything outside the offered range.
func SelectedYear(raw string) types.Year {
	y, err := types.ParseYear(raw)
	if err != nil || y < types.FirstYear || y > types.LastYear {
		return types.FirstYear
	}
	return y
}

func (h *Handler) newPage(active string) page {
	return page{
		AssetsHost: assetsHost,
		Active:     active,
		Topics: []topic{
			{Title: TopicNeighborhoods, Path: PathNeighborhoods},
			{Title: TopicHistorical, Path: PathHistorical},
		},
	}
}

// render executes into a buffer so a template failure never sends a
// partial page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, p page) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "page.html", p); err != nil {
		logger.Get().Error(r.Context(), "render dashboard page", logger.String("path", r.URL.Path), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
