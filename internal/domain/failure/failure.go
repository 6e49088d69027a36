// Package failure classifies errors crossing the adapter boundary so the
// HTTP layer can map them to responses without inspecting driver types.
package failure

import (
	"errors"
)

// Kind enumerates the failure classes understood by the API.
type Kind uint8

const (
	// KindUnknown is any error that was not classified by an adapter.
	KindUnknown Kind = iota
	// KindConnection means the Query Service could not be reached.
	KindConnection
	// KindQuery means the Query Service rejected or failed a query.
	KindQuery
	// KindValidation means caller input was rejected before any query ran.
	KindValidation
)

// String returns a stable label, also used as a metrics label value.
func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindQuery:
		return "query"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error carries a Kind and the operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Error returns the underlying cause only; Op is for logs.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String() + " error"
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with kind and op. A nil err yields nil.
func New(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Connection wraps err as KindConnection.
func Connection(op string, err error) error { return New(KindConnection, op, err) }

// Query wraps err as KindQuery.
func Query(op string, err error) error { return New(KindQuery, op, err) }

// Validation wraps err as KindValidation.
func Validation(op string, err error) error { return New(KindValidation, op, err) }

// KindOf reports the outermost Kind found in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// OpOf reports the operation recorded on err, if any.
func OpOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Op
	}
	return ""
}
