// Package response defines the envelope returned by every application handler.
package response

import "net/http"

// Response wraps a payload with the status code and a human-readable message.
type Response[T any] struct {
	Data       T      `json:"data"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	IsSuccess  bool   `json:"isSuccess"`
}

// New builds an envelope and derives IsSuccess from the status code.
func New[T any](data T, statusCode int, message string) Response[T] {
	return Response[T]{
		Data:       data,
		StatusCode: statusCode,
		Message:    message,
		IsSuccess:  statusCode >= 200 && statusCode <= 299,
	}
}

func OK[T any](data T, message string) Response[T] {
	return New(data, http.StatusOK, message)
}

func Created[T any](data T, message string) Response[T] {
	return New(data, http.StatusCreated, message)
}

// Fail returns an envelope carrying the zero payload.
func Fail[T any](statusCode int, message string) Response[T] {
	var zero T
	return New(zero, statusCode, message)
}

func BadRequest[T any](message string) Response[T] {
	return Fail[T](http.StatusBadRequest, message)
}

func NotFound[T any](message string) Response[T] {
	return Fail[T](http.StatusNotFound, message)
}

func Internal[T any](message string) Response[T] {
	return Fail[T](http.StatusInternalServerError, message)
}
