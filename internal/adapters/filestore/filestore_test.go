package filestore

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/worksphere/server/internal/domain/entities"
	"github.com/worksphere/server/internal/infrastructure/logger"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := New(dir, logger.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store, dir
}

func TestNewSeedsDefaultAccounts(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	admin, err := store.Users().GetByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("GetByUsername(admin): %v", err)
	}
	if admin.Role != entities.UserRoleAdmin {
		t.Errorf("admin role = %q, want admin", admin.Role)
	}
	if admin.PasswordHash == "admin123" {
		t.Fatal("seed password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin123")); err != nil {
		t.Errorf("admin hash does not verify: %v", err)
	}

	user, err := store.Users().GetByID(ctx, "user1")
	if err != nil {
		t.Fatalf("GetByID(user1): %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("user123")); err != nil {
		t.Errorf("user1 hash does not verify: %v", err)
	}
}

func TestNewDoesNotReseedExistingFiles(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	if err := store.Users().Delete(ctx, "user1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// Reopening the same directory must keep the modified collection.
	reopened, err := New(dir, logger.NewNop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, err := reopened.Users().GetByID(ctx, "user1"); !errors.Is(err, entities.ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound after reopen", err)
	}
}

func TestTaskRoundTrip(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()
	repo := store.Tasks()

	completed := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	task := &entities.Task{
		ID:          "t1",
		Title:       "Persist me",
		Description: "survives reopen",
		AssignedTo:  "alice",
		DueDate:     entities.DateOf(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)),
		Status:      entities.StatusComplete,
		Priority:    entities.PriorityHigh,
		CreatorID:   "alice",
		CreatedAt:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		CompletedAt: &completed,
	}
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("Create: %v", err)
	}

	reopened, err := New(dir, logger.NewNop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.Tasks().GetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != task.Title || got.Status != task.Status || got.Priority != task.Priority {
		t.Errorf("got %+v", got)
	}
	if !got.DueDate.IsSet() || got.DueDate.String() != "2024-03-10" {
		t.Errorf("dueDate = %q, want 2024-03-10", got.DueDate)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(completed) {
		t.Errorf("completedAt = %v, want %v", got.CompletedAt, completed)
	}
}

func TestTaskUpdateAndDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	repo := store.Tasks()

	task := &entities.Task{ID: "t1", Title: "before", Status: entities.StatusTodo, Priority: entities.PriorityMedium, CreatedAt: time.Now()}
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("Create: %v", err)
	}

	task.Title = "after"
	if err := repo.Update(ctx, task); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.GetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "after" {
		t.Errorf("title = %q, want after", got.Title)
	}

	if err := repo.Delete(ctx, "t1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, "t1"); !errors.Is(err, entities.ErrTaskNotFound) {
		t.Errorf("err = %v, want ErrTaskNotFound", err)
	}
}

func TestTaskMutationsOnMissingID(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	repo := store.Tasks()

	if err := repo.Update(ctx, &entities.Task{ID: "ghost", Title: "x"}); !errors.Is(err, entities.ErrTaskNotFound) {
		t.Errorf("Update err = %v, want ErrTaskNotFound", err)
	}
	if err := repo.Delete(ctx, "ghost"); !errors.Is(err, entities.ErrTaskNotFound) {
		t.Errorf("Delete err = %v, want ErrTaskNotFound", err)
	}
}

func TestUserCRUDPersistsHash(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	repo := store.Users()

	user := &entities.User{
		ID:           "u9",
		Username:     "frank",
		PasswordHash: "$2a$10$notarealhashbutpersisted",
		Name:         "Frank",
		Email:        "frank@example.com",
		Role:         entities.UserRoleUser,
		CreatedAt:    time.Now(),
	}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// The hash must survive the trip to disk even though the entity
	// hides it from JSON.
	got, err := repo.GetByUsername(ctx, "frank")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got.PasswordHash != user.PasswordHash {
		t.Errorf("hash = %q, want %q", got.PasswordHash, user.PasswordHash)
	}

	user.Name = "Francis"
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = repo.GetByID(ctx, "u9")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Francis" {
		t.Errorf("name = %q, want Francis", got.Name)
	}

	if err := repo.Delete(ctx, "u9"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, "u9"); !errors.Is(err, entities.ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestListReflectsWrites(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	repo := store.Tasks()

	for _, id := range []string{"a", "b", "c"} {
		task := &entities.Task{ID: id, Title: id, Status: entities.StatusTodo, Priority: entities.PriorityLow, CreatedAt: time.Now()}
		if err := repo.Create(ctx, task); err != nil {
			t.Fatalf("Create(%s): %v", id, err)
		}
	}

	tasks, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("len = %d, want 3", len(tasks))
	}
	// Insertion order is preserved in the file.
	if tasks[0].ID != "a" || tasks[2].ID != "c" {
		t.Errorf("order = [%s %s %s]", tasks[0].ID, tasks[1].ID, tasks[2].ID)
	}
}
