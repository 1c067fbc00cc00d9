// Package users persists account records with bcrypt password hashes.
package users

import (
	"errors"
	"os"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/hiakki/GhumaggerSnap/tool"
	"github.com/hiakki/GhumaggerSnap/types"
)

var (
	ErrUsernameTaken   = errors.New("username already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrWrongPassword   = errors.New("current password is incorrect")
	ErrInvalidRole     = errors.New("invalid role")
	ErrEmptyCredential = errors.New("username and password are required")
)

// User is one stored account. The hash never leaves this package.
type User struct {
	ID           string `yaml:"id"`
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"passwordHash"`
	Role         string `yaml:"role"`
	CreatedAt    string `yaml:"createdAt"`
}

// Out is the public view of a user.
func (u User) Out() types.UserOut {
	return types.UserOut{ID: u.ID, Username: u.Username, Role: u.Role, CreatedAt: u.CreatedAt}
}

type usersFile struct {
	Users []User `yaml:"users"`
}

// Store is a YAML-file-backed account store, safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	path  string
	users []User
}

// Load reads the store at path, seeding a default admin/admin account
// when the file does not exist yet.
func Load(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		admin, err := newUser("admin", "admin", types.RoleAdmin)
		if err != nil {
			return nil, err
		}
		s.users = []User{admin}
		if err := s.persistLocked(); err != nil {
			return nil, err
		}
		tool.DefaultLogger.Warnf("[Users] Created %s with default admin account, change its password", path)
		return s, nil
	}

	var parsed usersFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}
	s.users = parsed.Users
	return s, nil
}

func newUser(username, password, role string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	return User{
		ID:           tool.GenerateRandomUUID(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func validRole(role string) bool {
	switch role {
	case types.RoleAdmin, types.RoleEditor, types.RoleViewer:
		return true
	}
	return false
}

// Authenticate checks a username/password pair and returns the matching
// user. The second return is false on unknown user or wrong password,
// indistinguishably.
func (s *Store) Authenticate(username, password string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
			return u, err == nil
		}
	}
	// burn comparable time for unknown users
	_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000000000000000000000000000000000"), []byte(password))
	return User{}, false
}

// ByID looks a user up by id.
func (s *Store) ByID(id string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// List returns all users ordered as stored (creation order).
func (s *Store) List() []types.UserOut {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.UserOut, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.Out())
	}
	return out
}

// Create adds an account. Role defaults to viewer when empty.
func (s *Store) Create(username, password, role string) (User, error) {
	if username == "" || password == "" {
		return User{}, ErrEmptyCredential
	}
	if role == "" {
		role = types.RoleViewer
	}
	if !validRole(role) {
		return User{}, ErrInvalidRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return User{}, ErrUsernameTaken
		}
	}
	user, err := newUser(username, password, role)
	if err != nil {
		return User{}, err
	}
	s.users = append(s.users, user)
	if err := s.persistLocked(); err != nil {
		s.users = s.users[:len(s.users)-1]
		return User{}, err
	}
	return user, nil
}

// Delete removes an account by id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return s.persistLocked()
		}
	}
	return ErrUserNotFound
}

// ChangePassword verifies the current password before rehashing.
func (s *Store) ChangePassword(id, current, next string) error {
	if next == "" {
		return ErrEmptyCredential
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.ID != id {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
			return ErrWrongPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		s.users[i].PasswordHash = string(hash)
		return s.persistLocked()
	}
	return ErrUserNotFound
}

func (s *Store) persistLocked() error {
	data, err := yaml.Marshal(usersFile{Users: s.users})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
