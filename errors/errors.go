package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrInternal is used for errors that do not belong to any other
	// category. Those are never exposed to the client with their message.
	ErrInternal = Register(1, "internal")

	// ErrMissingSignature is returned when an account that must authorize
	// the operation did not sign it.
	ErrMissingSignature = Register(2, "missing required signature")

	// ErrWrongProgramOwner is returned when an account is not owned by
	// the program that is expected to manage it.
	ErrWrongProgramOwner = Register(3, "incorrect program id")

	// ErrInvalidAccountData is returned when account data cannot be
	// decoded, or when a supplied account does not match the one
	// referenced by persisted state.
	ErrInvalidAccountData = Register(4, "invalid account data")

	// ErrAlreadyInitialized is returned when initializing an account that
	// already holds state.
	ErrAlreadyInitialized = Register(5, "account already initialized")

	// ErrNotRentExempt is returned when an account balance is below the
	// minimum required to stay alive for its data size.
	ErrNotRentExempt = Register(6, "account not rent exempt")

	// ErrInsufficientFunds is returned when a balance does not cover the
	// requested amount or does not match the expected amount.
	ErrInsufficientFunds = Register(7, "insufficient funds")

	// ErrInvalidInstructionData is returned when the instruction payload
	// cannot be decoded.
	ErrInvalidInstructionData = Register(8, "invalid instruction data")

	// ErrNotEnoughAccountKeys is returned when an instruction is given
	// fewer accounts than it requires.
	ErrNotEnoughAccountKeys = Register(9, "not enough account keys")

	// ErrInvalidSeeds is returned when seeds do not produce a valid
	// program address.
	ErrInvalidSeeds = Register(10, "invalid seeds")

	// ErrPrivilegeEscalation is returned when a nested invocation asks for
	// a signer or writable privilege that the caller does not hold.
	ErrPrivilegeEscalation = Register(11, "privilege escalation")

	// ErrIllegalModification is returned when a program modified an
	// account in a way the runtime does not allow.
	ErrIllegalModification = Register(12, "illegal account modification")

	// ErrUnbalanced is returned when the sum of lamports changed during an
	// instruction.
	ErrUnbalanced = Register(13, "sum of account balances changed")

	// ErrUnknownProgram is returned when an instruction targets a program
	// that is not registered.
	ErrUnknownProgram = Register(14, "unknown program")

	// ErrUninitializedAccount is returned when an account is expected to
	// hold initialized state but does not.
	ErrUninitializedAccount = Register(15, "uninitialized account")

	// ErrOwnerMismatch is returned when the authority of a token account
	// is not the expected one.
	ErrOwnerMismatch = Register(16, "owner does not match")

	// ErrMintMismatch is returned when two token accounts of different
	// mints are used together.
	ErrMintMismatch = Register(17, "mint does not match")

	// ErrNonZeroBalance is returned when closing a token account that
	// still holds tokens.
	ErrNonZeroBalance = Register(18, "non-native account can only be closed if its balance is zero")

	// ErrOverflow is returned when a computation cannot be completed
	// because the result value exceeds the type.
	ErrOverflow = Register(19, "an operation cannot be completed due to value overflow")

	// ErrInput stands for general input problems indication.
	ErrInput = Register(20, "invalid input")

	// ErrNotFound is used when a requested operation cannot be completed
	// due to missing data.
	ErrNotFound = Register(21, "not found")

	// ErrDatabase is returned when the storage layer fails.
	ErrDatabase = Register(22, "database")

	// ErrHuman is returned when application reaches a code path which
	// should not ever be reached if the code was written as expected.
	ErrHuman = Register(23, "coding error")

	// ErrIteratorDone is returned when an iterator has no more items.
	ErrIteratorDone = Register(24, "iterator done")

	// ErrCallDepth is returned when nested program invocations exceed the
	// allowed depth.
	ErrCallDepth = Register(25, "call depth exceeded")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info.
	ErrPanic = Register(111222, "panic")
)

// Register returns an error instance that should be used as the base for
// creating error instances during runtime.
//
// Popular root errors are declared in this package, but programs may want to
// declare custom codes. This function ensures that no error code is used
// twice. Attempt to reuse an error code results in panic.
//
// Use this function only during a program startup phase.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// usedCodes is keeping track of used codes to ensure their uniqueness. No two
// error instances should share the same error code.
var usedCodes = map[uint32]*Error{}

// Error represents a root error.
//
// The runtime is using root errors to categorize issues. Each instance
// created during the runtime should wrap one of the declared root errors. This
// allows error tests and returning all errors to the client in a safe manner.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the result code of this error kind.
func (e Error) Code() uint32 {
	return e.code
}

// New returns a new error. Returned instance is having the root cause set to
// this error. Below two lines are equal
//   e.New("my description")
//   Wrap(e, "my description")
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is basically New with formatting capabilities
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is check if given error instance is of a given kind/type. This involves
// unwrapping given error using the Cause method if available.
func (kind *Error) Is(err error) bool {
	// Reflect usage is necessary to correctly compare with
	// a nil implementation of an error.
	if kind == nil {
		if err == nil {
			return true
		}
		return reflect.ValueOf(err).IsNil()
	}

	for {
		if err == kind {
			return true
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

// Wrap extends given error with an additional information.
//
// If the wrapped error does not provide a Code method (ie. stdlib errors),
// it will be labeled as internal error.
//
// If err is nil, this returns nil, avoiding the need for an if statement when
// wrapping a error returned at the end of a function
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// If this error does not carry the stacktrace information yet, attach
	// one. This should be done only once per error at the lowest frame
	// possible (most inner wrap).
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf extends given error with an additional information.
//
// This function works like Wrap function with additional funtionality of
// formatting the input as specified.
func Wrapf(err error, format string, args ...interface{}) error {
	desc := fmt.Sprintf(format, args...)
	return Wrap(err, desc)
}

type wrappedError struct {
	// This error layer description.
	msg string
	// The underlying error that triggered this one.
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Format prints the error message and, for %+v, the stack trace of the
// innermost wrap.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s", e.Error())
		if st := stackTrace(e); st != nil {
			fmt.Fprintf(s, "%+v", st)
		}
		return
	}
	fmt.Fprintf(s, "%s", e.Error())
}

// Recover captures a panic and stop its propagation. If panic happens it is
// transformed into a ErrPanic instance and assigned to given error. Call this
// function using defer in order to work as expected.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// causer is an interface implemented by an error that supports wrapping. Use
// it to test if an error wraps another error instance.
type causer interface {
	Cause() error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the first found stack trace frame carried by given error
// or any wrapped error. It returns nil if no stack trace is found.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}
