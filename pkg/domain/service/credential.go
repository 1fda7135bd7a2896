package service

import (
	"regexp"
	"time"

	"github.com/pkg/errors"

	"github.com/Brendan777/Assignment2/pkg/domain/model"
)

// CredentialError is a user-correctable rejection of a register or
// login attempt. The value is the error code the caller puts in the
// redirect query string.
type CredentialError string

func (e CredentialError) Error() string { return string(e) }

func (e CredentialError) Code() string { return string(e) }

var (
	ErrMissingFullName       = CredentialError("missing_full_name")
	ErrMissingEmail          = CredentialError("missing_email")
	ErrMissingPassword       = CredentialError("missing_password")
	ErrMissingRepeatPassword = CredentialError("missing_repeat_password")
	ErrInvalidEmail          = CredentialError("invalid_email")
	ErrInvalidPassword       = CredentialError("invalid_password")
	ErrPasswordMismatch      = CredentialError("password_mismatch")
	ErrInvalidFullName       = CredentialError("invalid_fullname")
	ErrExistingEmail         = CredentialError("existing_email")
	ErrIncorrectInfo         = CredentialError("incorrect_info")
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._]+@[a-zA-Z0-9]+\.[a-zA-Z]{2,3}$`)
	passwordPattern = regexp.MustCompile(`^[^\s]{10,16}$`)
	fullNamePattern = regexp.MustCompile(`^[a-zA-Z ]{2,30}$`)
)

// IsValidEmail accepts local@domain.tld with a 2-3 letter TLD and an
// alnum/dot/underscore local part.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidPassword accepts 10-16 characters with no whitespace.
func IsValidPassword(password string) bool {
	return passwordPattern.MatchString(password)
}

// IsValidFullName accepts 2-30 letters and spaces.
func IsValidFullName(fullName string) bool {
	return fullNamePattern.MatchString(fullName)
}

// RegisterRequest carries the credential fields of a registration form.
// MissingFields lists form fields that were absent from the submission
// altogether, in form order; presence is decided at the boundary
// because an absent field and an empty one reject differently.
type RegisterRequest struct {
	FullName       string
	Email          string
	Password       string
	RepeatPassword string
	MissingFields  []string
}

// CredentialService validates and stores accounts. All lookups and
// writes use the normalized email, including the login password
// comparison. Login failure is always the one generic incorrect-info
// error so the response does not leak which field was wrong.
type CredentialService interface {
	Register(req RegisterRequest) (*model.UserRecord, error)
	Login(email, password string) (*model.UserRecord, error)
}

func NewCredentialService(repo model.UserRepository, dispatcher EventDispatcher) CredentialService {
	return &credentialService{repo: repo, dispatcher: dispatcher}
}

type credentialService struct {
	repo       model.UserRepository
	dispatcher EventDispatcher
}

func (s *credentialService) Register(req RegisterRequest) (*model.UserRecord, error) {
	if len(req.MissingFields) > 0 {
		return nil, CredentialError("missing_" + req.MissingFields[0])
	}
	if !IsValidEmail(req.Email) {
		return nil, ErrInvalidEmail
	}
	if !IsValidPassword(req.Password) {
		return nil, ErrInvalidPassword
	}
	if req.Password != req.RepeatPassword {
		return nil, ErrPasswordMismatch
	}
	if !IsValidFullName(req.FullName) {
		return nil, ErrInvalidFullName
	}

	email := model.NormalizeEmail(req.Email)

	if _, err := s.repo.Find(email); err == nil {
		return nil, ErrExistingEmail
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return nil, errors.Wrap(err, "check existing user")
	}

	userID, err := s.repo.NextID()
	if err != nil {
		return nil, errors.Wrap(err, "allocate user id")
	}

	record := &model.UserRecord{
		ID:        userID,
		Email:     email,
		Name:      req.FullName,
		Password:  req.Password,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(record); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return nil, ErrExistingEmail
		}
		return nil, errors.Wrap(err, "store user")
	}

	_ = s.dispatcher.Dispatch(model.UserRegistered{UserID: userID, Email: email})
	return record, nil
}

func (s *credentialService) Login(email, password string) (*model.UserRecord, error) {
	record, err := s.repo.Find(model.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrIncorrectInfo
		}
		return nil, errors.Wrap(err, "look up user")
	}

	if record.Password != password {
		return nil, ErrIncorrectInfo
	}
	return record, nil
}
