package model

import "github.com/google/uuid"

type OrderAccepted struct {
	Quantities    map[int]int
	SubtotalCents int64
}

func (e OrderAccepted) Type() string { return "OrderAccepted" }

type OrderRejected struct {
	LineErrors map[int]string
}

func (e OrderRejected) Type() string { return "OrderRejected" }

type UserRegistered struct {
	UserID uuid.UUID
	Email  string
}

func (e UserRegistered) Type() string { return "UserRegistered" }
