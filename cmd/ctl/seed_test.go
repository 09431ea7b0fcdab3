package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"volunteerHub/internal/config"
	"volunteerHub/internal/models/volunteer"
	"volunteerHub/internal/service"
)

type mockCreator struct {
	mock.Mock
}

func (m *mockCreator) CreateAccount(ctx context.Context, in service.RegisterInput, role volunteer.Role) (uuid.UUID, error) {
	args := m.Called(ctx, in, role)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

const seedYAML = `
admins:
  - name: Hina
    email: hina@example.com
    password: secret123
    role: Super Admin
    phone: "0300"
    cnic: "35202"
    city: Lahore
    area: DHA
    domains: ["Gaza Awareness"]
  - name: Omar
    email: omar@example.com
    password: secret123
    role: Domain Head
    phone: "0301"
    cnic: "35203"
    city: Karachi
    area: Clifton
    domains: ["Boycott"]
`

func TestParseSeedFile(t *testing.T) {
	admins, err := parseSeedFile(strings.NewReader(seedYAML))
	require.NoError(t, err)
	require.Len(t, admins, 2)
	assert.Equal(t, "hina@example.com", admins[0].Email)
	assert.Equal(t, []string{"Boycott"}, admins[1].Domains)
}

func TestParseSeedFile_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"volunteer role", "admins:\n  - email: a@example.com\n    role: Volunteer\n"},
		{"unknown role", "admins:\n  - email: a@example.com\n    role: Boss\n"},
		{"unknown field", "admins:\n  - email: a@example.com\n    role: Super Admin\n    nickname: x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSeedFile(strings.NewReader(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestSeedAdmins_SkipsExisting(t *testing.T) {
	admins, err := parseSeedFile(strings.NewReader(seedYAML))
	require.NoError(t, err)

	creator := new(mockCreator)
	creator.On("CreateAccount", mock.Anything, mock.MatchedBy(func(in service.RegisterInput) bool {
		return in.Email == "hina@example.com"
	}), volunteer.RoleSuperAdmin).Return(uuid.New(), nil)
	creator.On("CreateAccount", mock.Anything, mock.MatchedBy(func(in service.RegisterInput) bool {
		return in.Email == "omar@example.com"
	}), volunteer.RoleDomainHead).Return(uuid.Nil, service.NewConflict("user already exists with this email"))

	created, skipped, err := seedAdmins(context.Background(), creator, admins)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, skipped)
	creator.AssertExpectations(t)
}

func TestSeedAdmins_StopsOnFailure(t *testing.T) {
	admins, err := parseSeedFile(strings.NewReader(seedYAML))
	require.NoError(t, err)

	creator := new(mockCreator)
	creator.On("CreateAccount", mock.Anything, mock.Anything, mock.Anything).
		Return(uuid.Nil, errors.New("db down")).Once()

	created, _, err := seedAdmins(context.Background(), creator, admins)
	assert.Error(t, err)
	assert.Zero(t, created)
	creator.AssertExpectations(t)
}

func TestRequirePostgres(t *testing.T) {
	err := requirePostgres(&config.Config{Repository: config.RepositoryConfig{Type: config.RepositoryPostgres}}, "seed-admins")
	assert.NoError(t, err)

	err = requirePostgres(&config.Config{Repository: config.RepositoryConfig{Type: config.RepositoryInMemory}}, "seed-admins")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed-admins")
	assert.Contains(t, err.Error(), config.RepositoryInMemory)
}

func TestSeedAdminsCmd_RejectsInMemoryRepository(t *testing.T) {
	dir := t.TempDir()

	cfgFile := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`
repository:
  type: inmemory
auth:
  jwt_secret: 0123456789abcdef0123
`), 0o600))

	seedPath := filepath.Join(dir, "admins.yml")
	require.NoError(t, os.WriteFile(seedPath, []byte(seedYAML), 0o600))

	previous := configPath
	configPath = cfgFile
	t.Cleanup(func() { configPath = previous })

	var out bytes.Buffer
	cmd := seedAdminsCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--file", seedPath})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
	assert.NotContains(t, out.String(), "created")
}
