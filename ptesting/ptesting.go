// Package ptesting provides fluent assertions on (value, error) results.
//
//	ptesting.R(c.GetOrder(ctx, req)).NoError(t).Do(func(t *testing.T, it *Order) {
//		assert.Equal(t, OSCreated, it.Status)
//	})
package ptesting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Result[T any] struct {
	v   T
	err error
	t   *testing.T
}

// R captures the results of a call.
func R[T any](v T, err error) *Result[T] {
	return &Result[T]{v: v, err: err}
}

// NoError stops the test if the result has an error.
func (r *Result[T]) NoError(t *testing.T) *Result[T] {
	t.Helper()
	r.t = t
	require.NoError(t, r.err)
	return r
}

// ErrorAs stops the test unless the error can be assigned to target.
func (r *Result[T]) ErrorAs(t *testing.T, target any) *Result[T] {
	t.Helper()
	r.t = t
	require.ErrorAs(t, r.err, target)
	return r
}

// ErrorIs stops the test unless the error matches target.
func (r *Result[T]) ErrorIs(t *testing.T, target error) *Result[T] {
	t.Helper()
	r.t = t
	require.ErrorIs(t, r.err, target)
	return r
}

func (r *Result[T]) EqualError(t *testing.T, msg string) *Result[T] {
	t.Helper()
	r.t = t
	require.EqualError(t, r.err, msg)
	return r
}

// Equal asserts the value equals expected.
// It must follow one of the error assertions.
func (r *Result[T]) Equal(expected T) *Result[T] {
	r.t.Helper()
	assert.Equal(r.t, expected, r.v)
	return r
}

// Do calls f with the value.
// It must follow one of the error assertions.
func (r *Result[T]) Do(f func(t *testing.T, it T)) *Result[T] {
	r.t.Helper()
	f(r.t, r.v)
	return r
}

// V returns the value.
func (r *Result[T]) V() T {
	return r.v
}

// Err returns the error.
func (r *Result[T]) Err() error {
	return r.err
}
