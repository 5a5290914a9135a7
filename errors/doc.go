/*
Package errors implements the error values returned by the ledger runtime
and its programs.

Every error surfaced to a caller should wrap one of the root errors declared
in this package. Root errors carry a numeric code that is returned as the
result of a failed transaction, so clients can act on the kind of failure
without parsing messages.

Programs that need their own kind of failure register it with
Register(code, description) during startup. Reuse existing errors with
ErrXyz.New / ErrXyz.Newf or errors.Wrap(ErrXyz, "...").

A stack trace is attached on the first wrap. Format the error with %+v to
print it.
*/
package errors
