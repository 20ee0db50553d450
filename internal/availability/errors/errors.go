package errors

import "errors"

var (
	ErrNotFound = errors.New("slot not found")

	ErrAlreadyBooked = errors.New("slot is already booked")

	ErrSlotBooked = errors.New("booked slots cannot be removed")
)
