package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/okian/ukestate/internal/domain/failure"
)

// classify tags err with a failure kind. Server-side exceptions are query
// errors; transport failures are connection errors; the rest are query errors.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if failure.KindOf(err) != failure.KindUnknown {
		return err
	}
	var ex *clickhouse.Exception
	if errors.As(err, &ex) {
		return failure.Query(op, err)
	}
	// context errors satisfy net.Error; a timed out query is still a query error.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return failure.Query(op, err)
	}
	if isConnectionError(err) {
		return failure.Connection(op, err)
	}
	return failure.Query(op, err)
}

func isConnectionError(err error) bool {
	var netErr net.Error
	switch {
	case errors.As(err, &netErr),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, ErrNotOpen):
		return true
	}
	return false
}
