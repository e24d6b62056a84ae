package projections

import (
	"context"

	clubstore "clubconnect/internal/adapters/storage/club"
	"clubconnect/internal/domain/capacity"
)

// Dashboard holds the admin landing-page counters.
type Dashboard struct {
	TotalClubs       int `json:"totalClubs"`
	TotalSlots       int `json:"totalSlots"`
	FullSlots        int `json:"fullSlots"`
	TotalEnrollments int `json:"totalEnrollments"`
	TotalCapacity    int `json:"totalCapacity"`
	TotalEnrolled    int `json:"totalEnrolled"`
}

// DashboardDeps holds dependencies for Dashboard.
type DashboardDeps struct {
	Clubs       ClubReader
	Enrollments EnrollmentReader
}

// QueryDashboard computes admin counters.
// PRE: none
// POST: TotalEnrolled sums slot counters; TotalEnrollments counts live records
func QueryDashboard(ctx context.Context, deps DashboardDeps) (Dashboard, error) {
	clubs, err := deps.Clubs.ListClubs(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	enrollments, err := deps.Enrollments.ListEnrollments(ctx, clubstore.ListFilter{})
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{TotalClubs: len(clubs), TotalEnrollments: len(enrollments)}
	for _, c := range clubs {
		enrolled, total := capacity.Totals(c.TimeSlots)
		d.TotalEnrolled += enrolled
		d.TotalCapacity += total
		d.TotalSlots += len(c.TimeSlots)
		for _, s := range c.TimeSlots {
			if !capacity.CanAcceptOne(s) {
				d.FullSlots++
			}
		}
	}
	return d, nil
}
