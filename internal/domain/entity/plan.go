package entity

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidRequest = errors.New("invalid plan request")

type City string

const (
	CityMumbai    City = "Mumbai"
	CityDelhi     City = "Delhi"
	CityBangalore City = "Bangalore"
	CityHyderabad City = "Hyderabad"
	CityPune      City = "Pune"
	CityChennai   City = "Chennai"
)

type EventType string

const (
	EventBusinessLunch EventType = "Business Lunch"
	EventTechMeetup    EventType = "Tech Meetup"
	EventClientMeeting EventType = "Client Meeting"
	EventTeamDinner    EventType = "Team Dinner"
)

type TransportMode string

const (
	TransportPrivateCar TransportMode = "Private Car"
	TransportMetro      TransportMode = "Metro"
	TransportRideHail   TransportMode = "Uber/Auto"
)

// Cities, EventTypes and TransportModes are listed in display order.
var (
	Cities         = []City{CityMumbai, CityDelhi, CityBangalore, CityHyderabad, CityPune, CityChennai}
	EventTypes     = []EventType{EventBusinessLunch, EventTechMeetup, EventClientMeeting, EventTeamDinner}
	TransportModes = []TransportMode{TransportPrivateCar, TransportMetro, TransportRideHail}
)

// PlanRequest carries the user's selections for one run.
type PlanRequest struct {
	City         City          `json:"city"`
	Event        EventType     `json:"event"`
	Requirements string        `json:"requirements"`
	Transport    TransportMode `json:"transport"`
}

func (r PlanRequest) Validate() error {
	if !contains(Cities, r.City) {
		return fmt.Errorf("%w: unknown city %q", ErrInvalidRequest, r.City)
	}
	if !contains(EventTypes, r.Event) {
		return fmt.Errorf("%w: unknown event type %q", ErrInvalidRequest, r.Event)
	}
	if !contains(TransportModes, r.Transport) {
		return fmt.Errorf("%w: unknown transport mode %q", ErrInvalidRequest, r.Transport)
	}
	return nil
}

// Normalize trims surrounding whitespace from every field.
func (r PlanRequest) Normalize() PlanRequest {
	return PlanRequest{
		City:         City(strings.TrimSpace(string(r.City))),
		Event:        EventType(strings.TrimSpace(string(r.Event))),
		Requirements: strings.TrimSpace(r.Requirements),
		Transport:    TransportMode(strings.TrimSpace(string(r.Transport))),
	}
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
