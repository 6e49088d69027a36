package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrMethodNotAllowed = errors.New("Method Not Allowed")
)

// Response details for failed upstream queries. The cause is appended
// after a colon, except for the health check which never exposes it.
const (
	detailSalesPerMonth    = "Error retrieving monthly sales data"
	detailTopNeighborhoods = "Error retrieving most expensive neighborhoods data"
	detailHealth           = "Error in service health check"
)
