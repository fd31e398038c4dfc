package model

import "errors"

var (
	// ErrInvalidFactor is returned for factor types outside the supported layers
	ErrInvalidFactor = errors.New("invalid factor type")
	// ErrOutOfRange is returned when a position lies outside a sentence
	ErrOutOfRange = errors.New("position out of range")
)
