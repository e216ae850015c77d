package rpc

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeParseError         Code = "PARSE_ERROR"
	CodeBadRequest         Code = "BAD_REQUEST"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeNotFound           Code = "NOT_FOUND"
	CodeMethodNotSupported Code = "METHOD_NOT_SUPPORTED"
	CodeConflict           Code = "CONFLICT"
	CodeInternal           Code = "INTERNAL_SERVER_ERROR"
)

var codeTable = map[Code]struct {
	jsonRPC int
	status  int
}{
	CodeParseError:         {-32700, http.StatusBadRequest},
	CodeBadRequest:         {-32600, http.StatusBadRequest},
	CodeUnauthorized:       {-32001, http.StatusUnauthorized},
	CodeForbidden:          {-32003, http.StatusForbidden},
	CodeNotFound:           {-32004, http.StatusNotFound},
	CodeMethodNotSupported: {-32005, http.StatusMethodNotAllowed},
	CodeConflict:           {-32009, http.StatusConflict},
	CodeInternal:           {-32603, http.StatusInternalServerError},
}

func (c Code) HTTPStatus() int {
	if v, ok := codeTable[c]; ok {
		return v.status
	}
	return http.StatusInternalServerError
}

func (c Code) JSONRPC() int {
	if v, ok := codeTable[c]; ok {
		return v.jsonRPC
	}
	return codeTable[CodeInternal].jsonRPC
}

// Error is returned by procedures to control the error envelope.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// ErrorMapper turns an arbitrary procedure error into an *Error.
type ErrorMapper func(err error) *Error

func defaultMapper(err error) *Error {
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	return Wrap(CodeInternal, "internal server error", err)
}
