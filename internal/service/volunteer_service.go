package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"volunteerHub/internal/logger"
	"volunteerHub/internal/models/volunteer"
	repo "volunteerHub/internal/repository"
)

const minPasswordLength = 6

type RegisterInput struct {
	Name       string
	Email      string
	Phone      string
	CNIC       string
	City       string
	Area       string
	University string
	Skills     string
	Domains    []string
	Password   string
}

type VolunteerService struct {
	repo    VolunteerRepository
	hasher  PasswordHasher
	tokens  TokenIssuer
	catalog *volunteer.Catalog
}

func NewVolunteerService(repo VolunteerRepository, hasher PasswordHasher, tokens TokenIssuer, catalog *volunteer.Catalog) *VolunteerService {
	return &VolunteerService{
		repo:    repo,
		hasher:  hasher,
		tokens:  tokens,
		catalog: catalog,
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a volunteer with the Volunteer role.
func (s *VolunteerService) Register(ctx context.Context, in RegisterInput) (uuid.UUID, error) {
	return s.CreateAccount(ctx, in, volunteer.RoleVolunteer)
}

// CreateAccount creates an account with any role. Registration goes through
// Register; elevated accounts are seeded by operators.
func (s *VolunteerService) CreateAccount(ctx context.Context, in RegisterInput, role volunteer.Role) (uuid.UUID, error) {
	if !role.Valid() {
		return uuid.Nil, NewValidationError("role", "unknown role")
	}

	v, err := s.newVolunteer(in, role)
	if err != nil {
		return uuid.Nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return uuid.Nil, fmt.Errorf("hash password: %w", err)
	}
	v.PasswordHash = digest

	if err := s.repo.CreateVolunteer(ctx, v); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			logger.Info("Service: email already registered", zap.String("email", v.Email))
			return uuid.Nil, NewConflict("user already exists with this email", ToDetail("field", "email"))
		}
		return uuid.Nil, fmt.Errorf("create volunteer: %w", err)
	}

	logger.Info("Service: volunteer registered",
		zap.String("volunteer_id", v.UUID.String()),
		zap.String("role", string(v.Role)))
	return v.UUID, nil
}

func (s *VolunteerService) newVolunteer(in RegisterInput, role volunteer.Role) (*volunteer.Volunteer, error) {
	required := []struct {
		field string
		value string
	}{
		{"name", in.Name},
		{"email", in.Email},
		{"phone", in.Phone},
		{"cnic", in.CNIC},
		{"city", in.City},
		{"area", in.Area},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, NewValidationError(r.field, "must not be empty")
		}
	}

	if len(in.Password) < minPasswordLength {
		return nil, NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	domains, err := s.validDomains(in.Domains)
	if err != nil {
		return nil, err
	}

	return &volunteer.Volunteer{
		UUID:       uuid.New(),
		Name:       strings.TrimSpace(in.Name),
		Email:      NormalizeEmail(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		CNIC:       strings.TrimSpace(in.CNIC),
		City:       strings.TrimSpace(in.City),
		Area:       strings.TrimSpace(in.Area),
		University: strings.TrimSpace(in.University),
		Skills:     strings.TrimSpace(in.Skills),
		Domains:    domains,
		Role:       role,
		Status:     volunteer.StatusActive,
	}, nil
}

func (s *VolunteerService) validDomains(domains []string) ([]string, error) {
	if len(domains) == 0 {
		return nil, NewValidationError("domains", "at least one domain is required")
	}

	seen := make(map[string]struct{}, len(domains))
	out := make([]string, 0, len(domains))
	for _, d := range domains {
		d = strings.TrimSpace(d)
		if !s.catalog.Contains(d) {
			return nil, NewValidationError("domains", fmt.Sprintf("unknown domain %q", d))
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out, nil
}

// Login checks the password and issues a token. Unknown emails and wrong
// passwords produce the same error.
func (s *VolunteerService) Login(ctx context.Context, email, password string) (*volunteer.Volunteer, string, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, "", NewValidationError("email", "must not be empty")
	}
	if password == "" {
		return nil, "", NewValidationError("password", "must not be empty")
	}

	v, err := s.repo.GetVolunteerByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: login for unknown email")
			return nil, "", NewUnauthenticated("invalid credentials", nil)
		}
		return nil, "", fmt.Errorf("load volunteer: %w", err)
	}

	if !s.hasher.Verify(password, v.PasswordHash) {
		logger.Info("Service: wrong password", zap.String("volunteer_id", v.UUID.String()))
		return nil, "", NewUnauthenticated("invalid credentials", nil)
	}

	token, err := s.tokens.Issue(v.UUID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return v, token, nil
}

func (s *VolunteerService) ListVolunteers(ctx context.Context) ([]*volunteer.Volunteer, error) {
	volunteers, err := s.repo.ListVolunteers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list volunteers: %w", err)
	}
	return volunteers, nil
}
