// Package errs holds the error taxonomy shared by the parser, the schema
// store and the CRUD engine. Every failure the core reports is an *Error
// carrying one of three kinds; callers decide how to render it.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	// table exists / not found, bad column declaration, reserved or duplicate name, bad type tag
	KindSchema Kind = iota + 1
	// unknown column in a clause, coercion failure, wrong arity, ID mutation
	KindValidation
	// malformed condition, unbalanced quoting, empty value fragment
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "schema error"
	case KindValidation:
		return "validation error"
	case KindParse:
		return "parse error"
	}
	return "error"
}

type Error struct {
	kind   Kind
	msg    string
	status int
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Kind() Kind    { return e.kind }
func (e *Error) Status() int   { return e.status }

func newError(kind Kind, status int, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...), status: status}
}

func Schema(format string, args ...any) *Error {
	return newError(KindSchema, http.StatusBadRequest, format, args...)
}

func Validation(format string, args ...any) *Error {
	return newError(KindValidation, http.StatusBadRequest, format, args...)
}

func Parse(format string, args ...any) *Error {
	return newError(KindParse, http.StatusBadRequest, format, args...)
}

func TableNotFound(name string) *Error {
	return newError(KindSchema, http.StatusNotFound, "Table \"%s\" does not exist", name)
}

func TableExists(name string) *Error {
	return newError(KindSchema, http.StatusConflict, "Table \"%s\" already exists", name)
}

// KindOf reports the kind of err if it is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.kind, true
	}
	return 0, false
}

func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// Status maps err to the http status used in transport responses.
func Status(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.status
	}
	return http.StatusInternalServerError
}
