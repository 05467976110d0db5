package model

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

// PaymentStatus tracks payment separately from the booking lifecycle.
type PaymentStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"

	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// Booking is a confirmed reservation of one charger for a time window on a
// given date. Immutable once confirmed except for status transitions.
type Booking struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	StationID     string        `json:"station_id"`
	ChargerID     string        `json:"charger_id"`
	Date          time.Time     `json:"date"`
	Window        TimeWindow    `json:"window"`
	EnergyKWh     float64       `json:"energy_kwh"`
	Price         float64       `json:"price"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
}

// BookingRequest carries the caller's intent to reserve a charger. The price
// is derived from the charger tariff at commit time, not supplied.
type BookingRequest struct {
	UserID    string
	StationID string
	ChargerID string
	Date      time.Time
	Window    TimeWindow
	EnergyKWh float64
}

// Validate checks the request fields that do not require store access.
func (r BookingRequest) Validate() error {
	if r.UserID == "" {
		return ValidationError{Reason: "user id required"}
	}
	if r.StationID == "" || r.ChargerID == "" {
		return ValidationError{Reason: "station and charger ids required"}
	}
	if r.Date.IsZero() {
		return ValidationError{Reason: "date required"}
	}
	if err := r.Window.Validate(); err != nil {
		return err
	}
	if r.EnergyKWh <= 0 {
		return ValidationError{Reason: "energy must be positive"}
	}
	return nil
}
