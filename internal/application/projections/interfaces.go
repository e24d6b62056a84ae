package projections

import (
	"context"

	clubstore "clubconnect/internal/adapters/storage/club"
	"clubconnect/internal/domain/club"
	"clubconnect/internal/domain/enrollment"
)

// ClubReader reads clubs for projections.
type ClubReader interface {
	ListClubs(ctx context.Context) ([]club.Club, error)
	GetClub(ctx context.Context, id string) (club.Club, error)
}

// EnrollmentReader reads enrollments for projections.
type EnrollmentReader interface {
	ListEnrollments(ctx context.Context, f clubstore.ListFilter) ([]enrollment.Enrollment, error)
}
