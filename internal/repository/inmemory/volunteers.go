package inmemory

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"volunteerHub/internal/models/volunteer"
	repo "volunteerHub/internal/repository"
)

func copyVolunteer(v *volunteer.Volunteer) *volunteer.Volunteer {
	out := *v
	out.Domains = slices.Clone(v.Domains)
	return &out
}

func (s *Storage) CreateVolunteer(ctx context.Context, toCreate *volunteer.Volunteer) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, exists := s.emails[toCreate.Email]; exists {
		return repo.ErrDuplicate
	}
	if _, exists := s.volunteers[toCreate.UUID]; exists {
		return repo.ErrDuplicate
	}

	toCreate.CreatedAt = s.now()
	s.volunteers[toCreate.UUID] = copyVolunteer(toCreate)
	s.emails[toCreate.Email] = toCreate.UUID
	s.volunteerIDs = append(s.volunteerIDs, toCreate.UUID)
	return nil
}

func (s *Storage) GetVolunteerByID(ctx context.Context, id uuid.UUID) (*volunteer.Volunteer, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	v, ok := s.volunteers[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return copyVolunteer(v), nil
}

func (s *Storage) GetVolunteerByEmail(ctx context.Context, email string) (*volunteer.Volunteer, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return copyVolunteer(s.volunteers[id]), nil
}

// newest first
func (s *Storage) ListVolunteers(ctx context.Context) ([]*volunteer.Volunteer, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*volunteer.Volunteer, 0, len(s.volunteerIDs))
	for i := len(s.volunteerIDs) - 1; i >= 0; i-- {
		res = append(res, copyVolunteer(s.volunteers[s.volunteerIDs[i]]))
	}
	return res, nil
}

func (s *Storage) ListVolunteersInDomain(ctx context.Context, domain string, role volunteer.Role) ([]*volunteer.Volunteer, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*volunteer.Volunteer{}
	for _, id := range s.volunteerIDs {
		v := s.volunteers[id]
		if v.Role != role || !v.HasDomain(domain) {
			continue
		}
		res = append(res, copyVolunteer(v))
	}
	return res, nil
}

func (s *Storage) FindVolunteerIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	found := []uuid.UUID{}
	for _, id := range ids {
		if _, ok := s.volunteers[id]; ok {
			found = append(found, id)
		}
	}
	return found, nil
}
