package projections

import (
	"context"
	"sort"
	"strings"
	"time"

	clubstore "clubconnect/internal/adapters/storage/club"
	"clubconnect/internal/application/listutil"
	"clubconnect/internal/domain/club"
)

// Placeholder is shown when an enrollment's club or slot no longer resolves.
const Placeholder = "N/D"

// EnrollmentSortColumns are the sort keys ListEnrollments accepts.
var EnrollmentSortColumns = []string{"enrolledAt", "studentLastName", "clubName"}

// ListEnrollmentsQuery carries query parameters.
type ListEnrollmentsQuery struct {
	ClubID string // optional
	Search string // matches matricula, full name or group, case-insensitive
	Sort   listutil.SortParams
	Page   listutil.PageParams
}

// EnrollmentView is an enrollment joined to its club and slot for display.
type EnrollmentView struct {
	ID               string    `json:"id"`
	StudentMatricula string    `json:"studentMatricula"`
	StudentFirstName string    `json:"studentFirstName"`
	StudentLastName  string    `json:"studentLastName"`
	StudentName      string    `json:"studentName"`
	StudentGroup     string    `json:"studentGroup"`
	ClubID           string    `json:"clubId"`
	TimeSlotID       string    `json:"timeSlotId"`
	EnrolledAt       time.Time `json:"enrolledAt"`
	ClubName         string    `json:"clubName"`
	DayOfWeek        string    `json:"dayOfWeek"`
	TimeRange        string    `json:"timeRange"`
}

// ListEnrollmentsResult carries the query result.
type ListEnrollmentsResult struct {
	Enrollments []EnrollmentView  `json:"enrollments"`
	Page        listutil.PageInfo `json:"page"`
}

// ListEnrollmentsDeps holds dependencies for ListEnrollments.
type ListEnrollmentsDeps struct {
	Clubs       ClubReader
	Enrollments EnrollmentReader
}

// QueryListEnrollments lists enrollments with club name and slot schedule attached.
// PRE: none
// POST: Every view has ClubName, DayOfWeek and TimeRange set; missing joins read Placeholder
func QueryListEnrollments(ctx context.Context, query ListEnrollmentsQuery, deps ListEnrollmentsDeps) (ListEnrollmentsResult, error) {
	enrollments, err := deps.Enrollments.ListEnrollments(ctx, clubstore.ListFilter{ClubID: query.ClubID})
	if err != nil {
		return ListEnrollmentsResult{}, err
	}
	clubs, err := deps.Clubs.ListClubs(ctx)
	if err != nil {
		return ListEnrollmentsResult{}, err
	}
	byID := make(map[string]club.Club, len(clubs))
	for _, c := range clubs {
		byID[c.ID] = c
	}

	needle := strings.ToLower(strings.TrimSpace(query.Search))
	views := make([]EnrollmentView, 0, len(enrollments))
	for _, e := range enrollments {
		if needle != "" && !matches(needle, e.StudentMatricula, e.StudentName(), e.StudentGroup) {
			continue
		}
		v := EnrollmentView{
			ID:               e.ID,
			StudentMatricula: e.StudentMatricula,
			StudentFirstName: e.StudentFirstName,
			StudentLastName:  e.StudentLastName,
			StudentName:      e.StudentName(),
			StudentGroup:     e.StudentGroup,
			ClubID:           e.ClubID,
			TimeSlotID:       e.TimeSlotID,
			EnrolledAt:       e.EnrolledAt,
			ClubName:         Placeholder,
			DayOfWeek:        Placeholder,
			TimeRange:        Placeholder,
		}
		if c, ok := byID[e.ClubID]; ok {
			v.ClubName = c.Name
			if s, ok := c.Slot(e.TimeSlotID); ok {
				v.DayOfWeek = string(s.DayOfWeek)
				v.TimeRange = s.TimeRange()
			}
		}
		views = append(views, v)
	}

	sortViews(views, query.Sort)
	page, info := listutil.Paginate(views, query.Page)
	return ListEnrollmentsResult{Enrollments: page, Page: info}, nil
}

func matches(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// sortViews orders views by the requested column; the store's insertion order breaks ties.
func sortViews(views []EnrollmentView, sp listutil.SortParams) {
	var less func(a, b EnrollmentView) bool
	switch sp.Sort {
	case "enrolledAt":
		less = func(a, b EnrollmentView) bool { return a.EnrolledAt.Before(b.EnrolledAt) }
	case "studentLastName":
		less = func(a, b EnrollmentView) bool {
			return strings.ToLower(a.StudentLastName) < strings.ToLower(b.StudentLastName)
		}
	case "clubName":
		less = func(a, b EnrollmentView) bool { return strings.ToLower(a.ClubName) < strings.ToLower(b.ClubName) }
	default:
		return
	}
	sort.SliceStable(views, func(i, j int) bool {
		if sp.Desc() {
			return less(views[j], views[i])
		}
		return less(views[i], views[j])
	})
}
