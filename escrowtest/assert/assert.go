/*
Package assert holds the checks ledger tests repeat most: a step
succeeded, a step failed with a given error code, and two states are
equal. Every check stops the test on failure, so later steps never run on
a broken state.

Byte slices are printed in hex and keys in base58, which keeps failing
layout and balance checks readable.
*/
package assert

import (
	"encoding/hex"
	"fmt"
	"reflect"

	"github.com/iov-one/escrowswap/errors"
)

// Tester is the part of testing.TB the checks need.
type Tester interface {
	Helper()
	Fatalf(string, ...interface{})
}

// Nil fails unless value is nil or a nil pointer, map, slice, func or
// channel. Errors are printed with their stack trace.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if value == nil {
		return
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		if v.IsNil() {
			return
		}
	}
	t.Fatalf("want nil, got %+v", value)
}

// Equal fails unless want and got are deeply equal, types included.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if reflect.DeepEqual(want, got) {
		return
	}
	t.Fatalf("values not equal\nwant %T %s\n got %T %s", want, show(want), got, show(got))
}

func show(v interface{}) string {
	switch v := v.(type) {
	case []byte:
		return hex.EncodeToString(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%+v", v)
	}
}

// IsErr fails unless got is want or wraps it. A nil want only matches a
// nil got. On mismatch both result codes are reported.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == nil || got == nil {
		if want != got {
			t.Fatalf("want error %v, got %+v", want, got)
		}
		return
	}
	if kind, ok := want.(interface{ Is(error) bool }); ok && kind.Is(got) {
		return
	}
	t.Fatalf("want code %d (%s)\n got code %d: %+v", errors.Code(want), want, errors.Code(got), got)
}

// Panics fails unless fn panics.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("want a panic")
		}
	}()
	fn()
}
