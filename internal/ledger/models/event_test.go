package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "proofsy/pkg/domain-errors"
)

type EventValidationSuite struct {
	suite.Suite
}

func TestEventValidationSuite(t *testing.T) {
	suite.Run(t, new(EventValidationSuite))
}

func (s *EventValidationSuite) validEvent() *Event {
	var md Metadata
	s.Require().NoError(json.Unmarshal([]byte(`{"amount":2500}`), &md))
	return &Event{
		EventType:  EventTypeBookingCreated,
		BookingID:  "b1",
		PropertyID: "p1",
		Actor:      "0x" + strings.Repeat("a", 40),
		OccurredAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Metadata:   md,
	}
}

func (s *EventValidationSuite) TestValidEventPasses() {
	s.NoError(s.validEvent().Validate())
}

func (s *EventValidationSuite) TestFieldErrors() {
	cases := []struct {
		name   string
		mutate func(e *Event)
		want   string
	}{
		{"missing event type", func(e *Event) { e.EventType = "" }, "eventType is required"},
		{"unknown event type", func(e *Event) { e.EventType = "Refunded" }, "eventType must be one of"},
		{"missing booking", func(e *Event) { e.BookingID = "  " }, "bookingId is required"},
		{"missing property", func(e *Event) { e.PropertyID = "" }, "propertyId is required"},
		{"missing actor", func(e *Event) { e.Actor = "" }, "actor is required"},
		{"short actor", func(e *Event) { e.Actor = "0xabc" }, "actor must be 0x followed by 40 hex characters"},
		{"non hex actor", func(e *Event) { e.Actor = "0x" + strings.Repeat("g", 40) }, "actor must be 0x"},
		{"missing occurredAt", func(e *Event) { e.OccurredAt = time.Time{} }, "occurredAt is required"},
		{"empty metadata", func(e *Event) { e.Metadata = Metadata{} }, "metadata must not be empty"},
		{"bad evidence", func(e *Event) {
			s.Require().NoError(e.Metadata.Set(PhotoEvidenceKey, []byte(`[{"fileName":"x"}]`)))
		}, "photoEvidence[0].nid is required"},
		{"integer beyond double precision", func(e *Event) {
			s.Require().NoError(e.Metadata.Set("deposit", []byte(`12345678901234567891`)))
		}, "metadata deposit: number 12345678901234567891 cannot be represented exactly"},
		{"nested number out of range", func(e *Event) {
			s.Require().NoError(e.Metadata.Set("fees", []byte(`{"cleaning":[10,1e400]}`)))
		}, "metadata fees.cleaning[1]: number 1e400"},
		{"underflowing number", func(e *Event) {
			s.Require().NoError(e.Metadata.Set("rate", []byte(`1e-400`)))
		}, "metadata rate: number 1e-400"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			e := s.validEvent()
			tc.mutate(e)
			err := e.Validate()
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation))
			s.Contains(err.Error(), tc.want)
		})
	}
}

func (s *EventValidationSuite) TestNumbersKeptByDoublesPass() {
	for _, lit := range []string{`0`, `-0`, `0.0e5`, `2500.50`, `0.1`, `-3.25e-7`, `9007199254740992`, `1e21`, `1.7976931348623157e308`} {
		s.Run(lit, func() {
			e := s.validEvent()
			s.Require().NoError(e.Metadata.Set("amount", []byte(lit)))
			s.NoError(e.Validate())
		})
	}
}

func (s *EventValidationSuite) TestAllProblemsReported() {
	err := (&Event{}).Validate()
	s.Require().Error(err)
	for _, field := range []string{"eventType", "bookingId", "propertyId", "actor", "occurredAt", "metadata"} {
		s.Contains(err.Error(), field)
	}
}

func (s *EventValidationSuite) TestDecodeFromWire() {
	body := `{"eventType":"CheckInConfirmed","bookingId":"b1","propertyId":"p1","actor":"0x` + strings.Repeat("1", 40) + `","occurredAt":"2025-01-02T15:04:05Z","metadata":{"keys":2}}`
	var e Event
	s.Require().NoError(json.Unmarshal([]byte(body), &e))
	s.NoError(e.Validate())
	s.Equal(EventTypeCheckInConfirmed, e.EventType)
	s.Equal(2025, e.OccurredAt.Year())
}
