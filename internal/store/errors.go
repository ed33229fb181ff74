package store

import (
	"errors"
	"fmt"
)

// Op identifies the stage of a store round trip that failed.
type Op string

const (
	OpConnect Op = "connect"
	OpPrepare Op = "prepare"
	OpExecute Op = "execute"
)

// ErrUnavailable is returned while the startup ping has not succeeded.
var ErrUnavailable = errors.New("store unavailable")

// Error is a storage failure. The wrapped cause is for operators only.
type Error struct {
	Op    Op
	Table string
	Err   error
}

func (e *Error) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap returns err as an *Error for op unless it already is one.
func Wrap(op Op, table string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Table: table, Err: err}
}

// IsOp reports whether err is a store error raised at stage op.
func IsOp(err error, op Op) bool {
	var se *Error
	return errors.As(err, &se) && se.Op == op
}

// Diagnostic returns the driver-level message of err without the store prefix.
func Diagnostic(err error) string {
	var se *Error
	if errors.As(err, &se) && se.Err != nil {
		return se.Err.Error()
	}
	return err.Error()
}
