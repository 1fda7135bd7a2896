package tests

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brendan777/Assignment2/pkg/domain/model"
	"github.com/Brendan777/Assignment2/pkg/domain/service"
)

func setupCredentials(t *testing.T) (service.CredentialService, *mockUserRepository, *mockEventDispatcher) {
	repo := &mockUserRepository{store: make(map[string]*model.UserRecord)}
	dispatcher := &mockEventDispatcher{}
	return service.NewCredentialService(repo, dispatcher), repo, dispatcher
}

func validRegistration() service.RegisterRequest {
	return service.RegisterRequest{
		FullName:       "John Doe",
		Email:          "John.Doe@example.com",
		Password:       "secret12345",
		RepeatPassword: "secret12345",
	}
}

func TestRegister(t *testing.T) {
	credService, repo, dispatcher := setupCredentials(t)

	t.Run("Success", func(t *testing.T) {
		record, err := credService.Register(validRegistration())

		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, "john.doe@example.com", record.Email)
		assert.Equal(t, "John Doe", record.Name)

		saved, ok := repo.store["john.doe@example.com"]
		require.True(t, ok)
		assert.Equal(t, record.ID, saved.ID)

		require.Len(t, dispatcher.events, 1)
		registered, ok := dispatcher.events[0].(model.UserRegistered)
		require.True(t, ok)
		assert.Equal(t, "john.doe@example.com", registered.Email)
	})

	t.Run("Fail on existing email regardless of case", func(t *testing.T) {
		dispatcher.Reset()
		req := validRegistration()
		req.Email = "JOHN.DOE@EXAMPLE.COM"

		_, err := credService.Register(req)

		assert.ErrorIs(t, err, service.ErrExistingEmail)
		assert.Empty(t, dispatcher.events)
	})
}

func TestRegisterMissingFields(t *testing.T) {
	credService, _, _ := setupCredentials(t)

	req := validRegistration()
	req.MissingFields = []string{"email", "password"}

	_, err := credService.Register(req)

	var credErr service.CredentialError
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, "missing_email", credErr.Code())
}

func TestRegisterFieldValidationOrder(t *testing.T) {
	credService, _, _ := setupCredentials(t)

	// Every field is bad; the email check comes first.
	req := service.RegisterRequest{
		FullName:       "X",
		Email:          "nope",
		Password:       "short",
		RepeatPassword: "different",
	}

	_, err := credService.Register(req)
	assert.ErrorIs(t, err, service.ErrInvalidEmail)
}

func TestRegisterRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*service.RegisterRequest)
		want   service.CredentialError
	}{
		{"email without tld", func(r *service.RegisterRequest) { r.Email = "john@example" }, service.ErrInvalidEmail},
		{"email with 4-letter tld", func(r *service.RegisterRequest) { r.Email = "john@example.info" }, service.ErrInvalidEmail},
		{"email with illegal local char", func(r *service.RegisterRequest) { r.Email = "john+doe@example.com" }, service.ErrInvalidEmail},
		{"password too short", func(r *service.RegisterRequest) { r.Password = "secret123"; r.RepeatPassword = "secret123" }, service.ErrInvalidPassword},
		{"password mismatch", func(r *service.RegisterRequest) { r.RepeatPassword = "secret12346" }, service.ErrPasswordMismatch},
		{"name with digits", func(r *service.RegisterRequest) { r.FullName = "John Doe 3rd" }, service.ErrInvalidFullName},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			credService, _, _ := setupCredentials(t)
			req := validRegistration()
			tc.mutate(&req)

			_, err := credService.Register(req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestPasswordLengthBoundaries(t *testing.T) {
	assert.False(t, service.IsValidPassword(strings.Repeat("a", 9)))
	assert.True(t, service.IsValidPassword(strings.Repeat("a", 10)))
	assert.True(t, service.IsValidPassword(strings.Repeat("a", 16)))
	assert.False(t, service.IsValidPassword(strings.Repeat("a", 17)))
	assert.False(t, service.IsValidPassword("with space123"))
	assert.False(t, service.IsValidPassword("with\ttab1234"))
}

func TestFullNameLengthBoundaries(t *testing.T) {
	assert.False(t, service.IsValidFullName("J"))
	assert.True(t, service.IsValidFullName("Jo"))
	assert.True(t, service.IsValidFullName(strings.Repeat("a", 30)))
	assert.False(t, service.IsValidFullName(strings.Repeat("a", 31)))
}

func TestEmailValidation(t *testing.T) {
	assert.True(t, service.IsValidEmail("john.doe_1@example.com"))
	assert.True(t, service.IsValidEmail("a@b.io"))
	assert.False(t, service.IsValidEmail("john@sub.example.com"))
	assert.False(t, service.IsValidEmail("john@example.x"))
	assert.False(t, service.IsValidEmail("@example.com"))
}

func TestLogin(t *testing.T) {
	credService, _, dispatcher := setupCredentials(t)
	_, err := credService.Register(validRegistration())
	require.NoError(t, err)
	dispatcher.Reset()

	t.Run("Success with mixed-case email", func(t *testing.T) {
		record, err := credService.Login("John.Doe@Example.Com", "secret12345")

		require.NoError(t, err)
		assert.Equal(t, "John Doe", record.Name)
	})

	t.Run("Wrong password gives the generic error", func(t *testing.T) {
		_, err := credService.Login("john.doe@example.com", "wrongpass123")
		assert.ErrorIs(t, err, service.ErrIncorrectInfo)
	})

	t.Run("Unknown user gives the same generic error", func(t *testing.T) {
		_, err := credService.Login("nobody@example.com", "secret12345")
		assert.ErrorIs(t, err, service.ErrIncorrectInfo)
	})
}

func TestStoreFailuresAreNotCredentialErrors(t *testing.T) {
	credService, repo, _ := setupCredentials(t)
	repo.failWith = errors.New("disk gone")

	_, err := credService.Register(validRegistration())
	require.Error(t, err)

	var credErr service.CredentialError
	assert.False(t, errors.As(err, &credErr))

	_, err = credService.Login("john.doe@example.com", "secret12345")
	require.Error(t, err)
	assert.False(t, errors.As(err, &credErr))
}

var _ model.UserRepository = &mockUserRepository{}

type mockUserRepository struct {
	store    map[string]*model.UserRecord
	failWith error
}

func (m *mockUserRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockUserRepository) Find(email string) (*model.UserRecord, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	if record, ok := m.store[email]; ok {
		clone := *record
		return &clone, nil
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) Create(record *model.UserRecord) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, exists := m.store[record.Email]; exists {
		return model.ErrEmailTaken
	}
	clone := *record
	m.store[record.Email] = &clone
	return nil
}
