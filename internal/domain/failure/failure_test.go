package failure_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/okian/ukestate/internal/domain/failure"
	. "github.com/smartystreets/goconvey/convey"
)

func TestKindOf(t *testing.T) {
	Convey("Given errors of each kind", t, func() {
		cause := errors.New("dial tcp: connection refused")

		Convey("When wrapping with a constructor", func() {
			conn := failure.Connection("repo.query", cause)
			query := failure.Query("repo.query", cause)
			validation := failure.Validation("api.parse", cause)

			Convey("Then KindOf reports the kind", func() {
				So(failure.KindOf(conn), ShouldEqual, failure.KindConnection)
				So(failure.KindOf(query), ShouldEqual, failure.KindQuery)
				So(failure.KindOf(validation), ShouldEqual, failure.KindValidation)
			})

			Convey("And the message is the cause", func() {
				So(conn.Error(), ShouldEqual, "dial tcp: connection refused")
			})

			Convey("And the cause stays reachable", func() {
				So(errors.Is(conn, cause), ShouldBeTrue)
				So(failure.OpOf(conn), ShouldEqual, "repo.query")
			})
		})

		Convey("When the error is wrapped again with fmt", func() {
			err := fmt.Errorf("outer: %w", failure.Query("op", cause))

			Convey("Then the kind survives", func() {
				So(failure.KindOf(err), ShouldEqual, failure.KindQuery)
			})
		})

		Convey("When the error was never classified", func() {
			Convey("Then it is unknown", func() {
				So(failure.KindOf(context.DeadlineExceeded), ShouldEqual, failure.KindUnknown)
				So(failure.OpOf(context.DeadlineExceeded), ShouldEqual, "")
			})
		})

		Convey("When wrapping nil", func() {
			Convey("Then nil is returned", func() {
				So(failure.Query("op", nil), ShouldBeNil)
			})
		})
	})
}

func TestKindString(t *testing.T) {
	Convey("Given every kind", t, func() {
		So(failure.KindUnknown.String(), ShouldEqual, "unknown")
		So(failure.KindConnection.String(), ShouldEqual, "connection")
		So(failure.KindQuery.String(), ShouldEqual, "query")
		So(failure.KindValidation.String(), ShouldEqual, "validation")
	})
}
