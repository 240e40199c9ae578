// Package repository provides typed access to the persisted collections
// (movies, cinemas, users, bookings) and scalars (sync metadata, session,
// selected city) on top of the key/value store.  These sentinel values let
// higher layers such as handlers tell failure scenarios apart.
package repository

import "errors"

// ErrMovieNotFound is returned when no movie with the requested id is in
// the current catalog snapshot.
var ErrMovieNotFound = errors.New("movie not found")

// ErrCinemaNotFound is returned when a cinema cannot be found.
var ErrCinemaNotFound = errors.New("cinema not found")

// ErrUserNotFound is returned when a user lookup has no match.
var ErrUserNotFound = errors.New("user not found")
