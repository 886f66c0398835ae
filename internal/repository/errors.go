package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrInsufficientBalance is returned when a balance move would take a
	// driver's pending balance below zero.
	ErrInsufficientBalance = errors.New("insufficient pending balance")
)
