package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanRequest_Validate(t *testing.T) {
	valid := PlanRequest{City: CityPune, Event: EventTeamDinner, Transport: TransportRideHail}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		req  PlanRequest
		want string
	}{
		{"unknown city", PlanRequest{City: "Goa", Event: EventTeamDinner, Transport: TransportMetro}, "unknown city"},
		{"unknown event", PlanRequest{City: CityPune, Event: "Wedding", Transport: TransportMetro}, "unknown event type"},
		{"unknown transport", PlanRequest{City: CityPune, Event: EventTeamDinner, Transport: "Boat"}, "unknown transport mode"},
		{"case sensitive", PlanRequest{City: "mumbai", Event: EventTeamDinner, Transport: TransportMetro}, "unknown city"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			assert.ErrorIs(t, err, ErrInvalidRequest)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPlanRequest_Normalize(t *testing.T) {
	req := PlanRequest{City: " Delhi ", Event: "Tech Meetup\n", Requirements: "  quiet  ", Transport: " Uber/Auto"}.Normalize()

	assert.Equal(t, CityDelhi, req.City)
	assert.Equal(t, EventTechMeetup, req.Event)
	assert.Equal(t, "quiet", req.Requirements)
	assert.Equal(t, TransportRideHail, req.Transport)
	assert.NoError(t, req.Validate())
}

func TestEnumCounts(t *testing.T) {
	assert.Len(t, Cities, 6)
	assert.Len(t, EventTypes, 4)
	assert.Len(t, TransportModes, 3)
}
