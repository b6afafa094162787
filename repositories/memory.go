package repositories

import (
	"sync"
	"time"

	"github.com/Musharaf05/HabitFlow/models"
	"github.com/google/uuid"
)

// In-memory store implementations backing the test suites. They mirror the
// semantics of the GORM stores in the database package, including the
// conditional sent-flag claim and the token upsert.

type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]models.User
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[uuid.UUID]models.User)}
}

func (s *InMemoryUserStore) Create(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return ErrDuplicate
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.AccentColor == "" {
		user.AccentColor = models.DefaultAccentColor
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	return nil
}

func (s *InMemoryUserStore) ByID(id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *InMemoryUserStore) ByUsername(username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryUserStore) ByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryUserStore) Update(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return ErrNotFound
	}
	user.UpdatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

type InMemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]models.Task
}

func NewInMemoryTaskStore() *InMemoryTaskStore {
	return &InMemoryTaskStore{tasks: make(map[uuid.UUID]models.Task)}
}

func (s *InMemoryTaskStore) Create(task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.Status == "" {
		task.Status = models.DefaultTaskStatus
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	s.tasks[task.ID] = *task
	return nil
}

func (s *InMemoryTaskStore) ByOwner(owner uuid.UUID) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Task, 0)
	for _, t := range s.tasks {
		if t.OwnerID == owner {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *InMemoryTaskStore) ByID(owner, id uuid.UUID) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok || t.OwnerID != owner {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (s *InMemoryTaskStore) Update(task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.ID]; !ok {
		return ErrNotFound
	}
	task.UpdatedAt = time.Now()
	s.tasks[task.ID] = *task
	return nil
}

func (s *InMemoryTaskStore) Delete(owner, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.OwnerID != owner {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

type InMemoryGoalStore struct {
	mu    sync.RWMutex
	goals map[uuid.UUID]models.Goal
}

func NewInMemoryGoalStore() *InMemoryGoalStore {
	return &InMemoryGoalStore{goals: make(map[uuid.UUID]models.Goal)}
}

func (s *InMemoryGoalStore) Create(goal *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	goal.CreatedAt = time.Now()
	goal.UpdatedAt = goal.CreatedAt
	s.goals[goal.ID] = *goal
	return nil
}

func (s *InMemoryGoalStore) ByOwner(owner uuid.UUID) ([]models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Goal, 0)
	for _, g := range s.goals {
		if g.OwnerID == owner {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *InMemoryGoalStore) ByID(owner, id uuid.UUID) (*models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.goals[id]
	if !ok || g.OwnerID != owner {
		return nil, ErrNotFound
	}
	return &g, nil
}

func (s *InMemoryGoalStore) Update(goal *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[goal.ID]; !ok {
		return ErrNotFound
	}
	goal.UpdatedAt = time.Now()
	s.goals[goal.ID] = *goal
	return nil
}

func (s *InMemoryGoalStore) Delete(owner, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok || g.OwnerID != owner {
		return ErrNotFound
	}
	delete(s.goals, id)
	return nil
}

type InMemoryHabitStore struct {
	mu     sync.RWMutex
	habits map[uuid.UUID]models.Habit
}

func NewInMemoryHabitStore() *InMemoryHabitStore {
	return &InMemoryHabitStore{habits: make(map[uuid.UUID]models.Habit)}
}

func (s *InMemoryHabitStore) Create(habit *models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if habit.ID == uuid.Nil {
		habit.ID = uuid.New()
	}
	habit.CreatedAt = time.Now()
	habit.UpdatedAt = habit.CreatedAt
	s.habits[habit.ID] = *habit
	return nil
}

func (s *InMemoryHabitStore) ByOwner(owner uuid.UUID) ([]models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Habit, 0)
	for _, h := range s.habits {
		if h.OwnerID == owner {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *InMemoryHabitStore) ByID(owner, id uuid.UUID) (*models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.habits[id]
	if !ok || h.OwnerID != owner {
		return nil, ErrNotFound
	}
	cp := h
	cp.CompletedDates = append([]string(nil), h.CompletedDates...)
	return &cp, nil
}

func (s *InMemoryHabitStore) Update(habit *models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.habits[habit.ID]; !ok {
		return ErrNotFound
	}
	habit.UpdatedAt = time.Now()
	cp := *habit
	cp.CompletedDates = append([]string(nil), habit.CompletedDates...)
	s.habits[habit.ID] = cp
	return nil
}

func (s *InMemoryHabitStore) Delete(owner, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.habits[id]
	if !ok || h.OwnerID != owner {
		return ErrNotFound
	}
	delete(s.habits, id)
	return nil
}

type InMemoryReminderStore struct {
	mu        sync.RWMutex
	reminders map[uuid.UUID]models.Reminder
}

func NewInMemoryReminderStore() *InMemoryReminderStore {
	return &InMemoryReminderStore{reminders: make(map[uuid.UUID]models.Reminder)}
}

func (s *InMemoryReminderStore) Create(reminder *models.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reminder.ID == uuid.Nil {
		reminder.ID = uuid.New()
	}
	reminder.CreatedAt = time.Now()
	reminder.UpdatedAt = reminder.CreatedAt
	s.reminders[reminder.ID] = *reminder
	return nil
}

func (s *InMemoryReminderStore) ByOwner(owner uuid.UUID) ([]models.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Reminder, 0)
	for _, r := range s.reminders {
		if r.OwnerID == owner {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *InMemoryReminderStore) ByID(owner, id uuid.UUID) (*models.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reminders[id]
	if !ok || r.OwnerID != owner {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *InMemoryReminderStore) Update(reminder *models.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reminders[reminder.ID]; !ok {
		return ErrNotFound
	}
	reminder.UpdatedAt = time.Now()
	s.reminders[reminder.ID] = *reminder
	return nil
}

func (s *InMemoryReminderStore) Delete(owner, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reminders[id]
	if !ok || r.OwnerID != owner {
		return ErrNotFound
	}
	delete(s.reminders, id)
	return nil
}

func (s *InMemoryReminderStore) DueOn(date string) ([]models.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Reminder, 0)
	for _, r := range s.reminders {
		if r.RemindDate == date && !r.Sent {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *InMemoryReminderStore) ClaimSent(id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reminders[id]
	if !ok || r.Sent {
		return false, nil
	}
	r.Sent = true
	r.UpdatedAt = time.Now()
	s.reminders[id] = r
	return true, nil
}

func (s *InMemoryReminderStore) ReleaseSent(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reminders[id]
	if !ok {
		return ErrNotFound
	}
	r.Sent = false
	r.UpdatedAt = time.Now()
	s.reminders[id] = r
	return nil
}

type InMemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]models.DeliveryToken
}

func NewInMemoryTokenStore() *InMemoryTokenStore {
	return &InMemoryTokenStore{tokens: make(map[string]models.DeliveryToken)}
}

func (s *InMemoryTokenStore) Upsert(owner *uuid.UUID, token string) (*models.DeliveryToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.tokens[token]; ok {
		if owner != nil {
			existing.OwnerID = owner
		}
		existing.UpdatedAt = time.Now()
		s.tokens[token] = existing
		return &existing, nil
	}
	row := models.DeliveryToken{
		ID:        uuid.New(),
		OwnerID:   owner,
		Token:     token,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.tokens[token] = row
	return &row, nil
}

func (s *InMemoryTokenStore) ByOwner(owner uuid.UUID) ([]models.DeliveryToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.DeliveryToken, 0)
	for _, t := range s.tokens {
		if t.OwnerID != nil && *t.OwnerID == owner {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *InMemoryTokenStore) DeleteTokens(tokens []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tokens {
		delete(s.tokens, t)
	}
	return nil
}
