package userstore

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Brendan777/Assignment2/pkg/domain/model"
)

type storedUser struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// FileStore keeps user records in a single JSON object keyed by
// normalized email, the layout existing user_data.json files use. Every
// successful registration rewrites the whole file; the write only
// happens after the existing content has been read and updated in
// memory, so a read failure never clobbers stored data.
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ model.UserRepository = &FileStore{}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (s *FileStore) Find(email string) (*model.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.read()
	if err != nil {
		return nil, err
	}

	user, ok := users[email]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &model.UserRecord{Email: email, Name: user.Name, Password: user.Password}, nil
}

func (s *FileStore) Create(record *model.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.read()
	if err != nil {
		return err
	}

	if _, exists := users[record.Email]; exists {
		return model.ErrEmailTaken
	}

	users[record.Email] = storedUser{Name: record.Name, Password: record.Password}
	return s.write(users)
}

func (s *FileStore) read() (map[string]storedUser, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]storedUser), nil
		}
		return nil, errors.Wrap(err, "read user data")
	}

	users := make(map[string]storedUser)
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, errors.Wrap(err, "parse user data")
	}
	return users, nil
}

func (s *FileStore) write(users map[string]storedUser) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode user data")
	}
	return errors.Wrap(os.WriteFile(s.path, data, 0666), "write user data")
}
