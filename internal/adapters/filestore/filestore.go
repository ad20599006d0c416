package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/worksphere/server/internal/domain/entities"
	"github.com/worksphere/server/internal/infrastructure/logger"
	"github.com/worksphere/server/internal/ports"
)

const (
	tasksFile = "tasks.json"
	usersFile = "users.json"
)

// Store persists the task and user collections as two JSON files under
// a data directory. Every mutation is a whole-collection
// read-modify-write serialized by a mutex, which is acceptable at the
// expected dataset size and gives read-your-writes consistency within
// one process. Writes land via temp file plus rename so a crash
// mid-write never leaves a truncated collection.
type Store struct {
	dir    string
	mu     sync.Mutex
	logger *logger.Logger
}

// New opens a store rooted at dir, creating the directory, an empty
// task collection, and the default accounts on first run.
func New(dir string, logger *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Store{dir: dir, logger: logger}

	if _, err := os.Stat(s.path(tasksFile)); os.IsNotExist(err) {
		if err := s.writeFile(tasksFile, []*entities.Task{}); err != nil {
			return nil, err
		}
		logger.Infow("created tasks file", "path", s.path(tasksFile))
	}

	if _, err := os.Stat(s.path(usersFile)); os.IsNotExist(err) {
		users, err := defaultUsers()
		if err != nil {
			return nil, err
		}
		if err := s.writeFile(usersFile, users); err != nil {
			return nil, err
		}
		logger.Infow("created users file with default accounts", "path", s.path(usersFile))
	}

	return s, nil
}

// Tasks returns the task repository backed by this store.
func (s *Store) Tasks() ports.TaskRepository {
	return &taskStore{s}
}

// Users returns the user repository backed by this store.
func (s *Store) Users() ports.UserRepository {
	return &userStore{s}
}

// defaultUsers seeds the accounts the original shipped with. Passwords
// are stored hashed, never plaintext.
func defaultUsers() ([]userRecord, error) {
	now := time.Now()
	seed := []struct {
		id, username, password, name, email string
		role                                entities.UserRole
	}{
		{"admin", "admin", "admin123", "Administrator", "admin@worksphere.local", entities.UserRoleAdmin},
		{"user1", "user1", "user123", "Demo User", "user1@worksphere.local", entities.UserRoleUser},
	}

	users := make([]userRecord, 0, len(seed))
	for _, u := range seed {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash default password: %w", err)
		}
		users = append(users, userRecord{
			ID:        u.id,
			Username:  u.username,
			Password:  string(hash),
			Name:      u.name,
			Email:     u.email,
			Role:      u.role,
			CreatedAt: now,
		})
	}
	return users, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

func readFile[T any](s *Store, name string) ([]T, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return items, nil
}

// writeFile replaces a collection file atomically: marshal to a temp
// file in the same directory, then rename over the target.
func (s *Store) writeFile(name string, items interface{}) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, s.path(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

// taskStore implements ports.TaskRepository over the tasks file.
type taskStore struct {
	s *Store
}

func (r *taskStore) List(ctx context.Context) ([]*entities.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return readFile[*entities.Task](r.s, tasksFile)
}

func (r *taskStore) GetByID(ctx context.Context, id string) (*entities.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tasks, err := readFile[*entities.Task](r.s, tasksFile)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, entities.ErrTaskNotFound
}

func (r *taskStore) Create(ctx context.Context, task *entities.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tasks, err := readFile[*entities.Task](r.s, tasksFile)
	if err != nil {
		return err
	}
	tasks = append(tasks, task)
	return r.s.writeFile(tasksFile, tasks)
}

func (r *taskStore) Update(ctx context.Context, task *entities.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tasks, err := readFile[*entities.Task](r.s, tasksFile)
	if err != nil {
		return err
	}
	for i, t := range tasks {
		if t.ID == task.ID {
			tasks[i] = task
			return r.s.writeFile(tasksFile, tasks)
		}
	}
	return entities.ErrTaskNotFound
}

func (r *taskStore) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tasks, err := readFile[*entities.Task](r.s, tasksFile)
	if err != nil {
		return err
	}
	kept := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tasks) {
		return entities.ErrTaskNotFound
	}
	return r.s.writeFile(tasksFile, kept)
}

// userRecord is the on-disk shape of an account. The User entity hides
// its password hash from JSON, so the file layout needs its own record
// type; the hash lives in the "password" field the original files used.
type userRecord struct {
	ID        string            `json:"id"`
	Username  string            `json:"username"`
	Password  string            `json:"password"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Role      entities.UserRole `json:"role"`
	CreatedAt time.Time         `json:"createdAt"`
}

func toRecord(u *entities.User) userRecord {
	return userRecord{
		ID:        u.ID,
		Username:  u.Username,
		Password:  u.PasswordHash,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func fromRecord(r userRecord) *entities.User {
	return &entities.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.Password,
		Name:         r.Name,
		Email:        r.Email,
		Role:         r.Role,
		CreatedAt:    r.CreatedAt,
	}
}

// userStore implements ports.UserRepository over the users file.
type userStore struct {
	s *Store
}

func (r *userStore) List(ctx context.Context) ([]*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	records, err := readFile[userRecord](r.s, usersFile)
	if err != nil {
		return nil, err
	}
	users := make([]*entities.User, 0, len(records))
	for _, rec := range records {
		users = append(users, fromRecord(rec))
	}
	return users, nil
}

func (r *userStore) GetByID(ctx context.Context, id string) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	records, err := readFile[userRecord](r.s, usersFile)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID == id {
			return fromRecord(rec), nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *userStore) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	records, err := readFile[userRecord](r.s, usersFile)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.Username == username {
			return fromRecord(rec), nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *userStore) Create(ctx context.Context, user *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	records, err := readFile[userRecord](r.s, usersFile)
	if err != nil {
		return err
	}
	records = append(records, toRecord(user))
	return r.s.writeFile(usersFile, records)
}

func (r *userStore) Update(ctx context.Context, user *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	records, err := readFile[userRecord](r.s, usersFile)
	if err != nil {
		return err
	}
	for i, rec := range records {
		if rec.ID == user.ID {
			records[i] = toRecord(user)
			return r.s.writeFile(usersFile, records)
		}
	}
	return entities.ErrUserNotFound
}

func (r *userStore) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	records, err := readFile[userRecord](r.s, usersFile)
	if err != nil {
		return err
	}
	kept := records[:0]
	for _, rec := range records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return entities.ErrUserNotFound
	}
	return r.s.writeFile(usersFile, kept)
}
