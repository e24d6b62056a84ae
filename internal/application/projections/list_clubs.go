package projections

import (
	"context"

	"clubconnect/internal/application/markdown"
	"clubconnect/internal/domain/capacity"
	"clubconnect/internal/domain/club"
)

// ClubWithOccupancy is a club with totals derived from its slots.
type ClubWithOccupancy struct {
	club.Club
	DescriptionHTML   string `json:"descriptionHtml"`
	TotalEnrolled     int    `json:"totalEnrolled"`
	TotalCapacity     int    `json:"totalCapacity"`
	AvailableSeats    int    `json:"availableSeats"`
	HasAvailableSlots bool   `json:"hasAvailableSlots"`
}

func withOccupancy(c club.Club) ClubWithOccupancy {
	enrolled, total := capacity.Totals(c.TimeSlots)
	free := 0
	for _, s := range c.TimeSlots {
		free += capacity.Available(s)
	}
	return ClubWithOccupancy{
		Club:              c,
		DescriptionHTML:   markdown.ToHTML(c.Description),
		TotalEnrolled:     enrolled,
		TotalCapacity:     total,
		AvailableSeats:    free,
		HasAvailableSlots: capacity.HasAvailability(c.TimeSlots),
	}
}

// ListClubsQuery carries query parameters.
type ListClubsQuery struct {
	AvailableOnly bool // only clubs with at least one free seat
}

// ListClubsDeps holds dependencies for ListClubs.
type ListClubsDeps struct {
	Clubs ClubReader
}

// QueryListClubs lists clubs in insertion order with occupancy totals.
// PRE: none
// POST: Returns a non-nil slice; totals are summed from slots, never stored
func QueryListClubs(ctx context.Context, query ListClubsQuery, deps ListClubsDeps) ([]ClubWithOccupancy, error) {
	clubs, err := deps.Clubs.ListClubs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ClubWithOccupancy, 0, len(clubs))
	for _, c := range clubs {
		v := withOccupancy(c)
		if query.AvailableOnly && !v.HasAvailableSlots {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// QueryGetClub returns one club with occupancy totals.
// PRE: none
// POST: Returns the club or club.ErrClubNotFound
func QueryGetClub(ctx context.Context, id string, deps ListClubsDeps) (ClubWithOccupancy, error) {
	c, err := deps.Clubs.GetClub(ctx, id)
	if err != nil {
		return ClubWithOccupancy{}, err
	}
	return withOccupancy(c), nil
}
