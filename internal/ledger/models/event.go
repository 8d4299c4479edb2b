package models

import (
	"regexp"
	"strings"
	"time"

	dErrors "proofsy/pkg/domain-errors"
)

// EventType names a rental lifecycle step.
type EventType string

const (
	EventTypeBookingCreated    EventType = "BookingCreated"
	EventTypeCheckInConfirmed  EventType = "CheckInConfirmed"
	EventTypeInspectionLogged  EventType = "InspectionLogged"
	EventTypeCheckOutConfirmed EventType = "CheckOutConfirmed"
)

// IsValid reports whether t is a known lifecycle step.
func (t EventType) IsValid() bool {
	switch t {
	case EventTypeBookingCreated, EventTypeCheckInConfirmed, EventTypeInspectionLogged, EventTypeCheckOutConfirmed:
		return true
	}
	return false
}

func (t EventType) String() string {
	return string(t)
}

var walletAddress = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsWalletAddress reports whether s has the 0x + 40 hex form.
func IsWalletAddress(s string) bool {
	return walletAddress.MatchString(s)
}

// Event is a single lifecycle fact about a booking.
type Event struct {
	EventType  EventType `json:"eventType"`
	BookingID  string    `json:"bookingId"`
	PropertyID string    `json:"propertyId"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurredAt"`
	Metadata   Metadata  `json:"metadata"`
}

// Validate checks every required field and the photoEvidence structure.
// All problems are reported in one validation error.
func (e *Event) Validate() error {
	var problems []string
	if e.EventType == "" {
		problems = append(problems, "eventType is required")
	} else if !e.EventType.IsValid() {
		problems = append(problems, "eventType must be one of BookingCreated, CheckInConfirmed, InspectionLogged, CheckOutConfirmed")
	}
	if strings.TrimSpace(e.BookingID) == "" {
		problems = append(problems, "bookingId is required")
	}
	if strings.TrimSpace(e.PropertyID) == "" {
		problems = append(problems, "propertyId is required")
	}
	if e.Actor == "" {
		problems = append(problems, "actor is required")
	} else if !IsWalletAddress(e.Actor) {
		problems = append(problems, "actor must be 0x followed by 40 hex characters")
	}
	if e.OccurredAt.IsZero() {
		problems = append(problems, "occurredAt is required")
	}
	if e.Metadata.Len() == 0 {
		problems = append(problems, "metadata must not be empty")
	} else {
		if _, _, err := e.Metadata.PhotoEvidence(); err != nil {
			problems = append(problems, err.Error())
		}
		if err := e.Metadata.CheckNumbers(); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if len(problems) > 0 {
		return dErrors.New(dErrors.CodeValidation, strings.Join(problems, "; "))
	}
	return nil
}
