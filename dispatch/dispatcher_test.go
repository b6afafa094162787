package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Musharaf05/HabitFlow/models"
	"github.com/Musharaf05/HabitFlow/notify"
	"github.com/Musharaf05/HabitFlow/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentBatch struct {
	tokens []string
	msg    notify.Message
}

type fakeNotifier struct {
	mu      sync.Mutex
	batches []sentBatch
	invalid map[string]bool
	err     error
	block   chan struct{}
}

func (f *fakeNotifier) Send(ctx context.Context, tokens []string, msg notify.Message) (*notify.Result, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.batches = append(f.batches, sentBatch{tokens: append([]string(nil), tokens...), msg: msg})
	res := &notify.Result{}
	for _, t := range tokens {
		if f.invalid[t] {
			res.Failure++
			res.InvalidTokens = append(res.InvalidTokens, t)
		} else {
			res.Success++
		}
	}
	return res, nil
}

func (f *fakeNotifier) sent() []sentBatch {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentBatch(nil), f.batches...)
}

func fixedClock(s string) func() time.Time {
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return ts }
}

type fixture struct {
	reminders *repositories.InMemoryReminderStore
	tokens    *repositories.InMemoryTokenStore
	notifier  *fakeNotifier
	d         *Dispatcher
	owner     uuid.UUID
}

func newFixture(t *testing.T, markTokenless bool) *fixture {
	t.Helper()
	f := &fixture{
		reminders: repositories.NewInMemoryReminderStore(),
		tokens:    repositories.NewInMemoryTokenStore(),
		notifier:  &fakeNotifier{invalid: map[string]bool{}},
		owner:     uuid.New(),
	}
	f.d = New(f.reminders, f.tokens, f.notifier, 10*time.Second, markTokenless)
	f.d.now = fixedClock("2024-06-01T09:00:30Z")
	return f
}

func (f *fixture) addReminder(t *testing.T, text, date, tm string) *models.Reminder {
	t.Helper()
	r := &models.Reminder{OwnerID: f.owner, Text: text, RemindDate: date, RemindTime: tm}
	require.NoError(t, f.reminders.Create(r))
	return r
}

func (f *fixture) addToken(t *testing.T, token string) {
	t.Helper()
	_, err := f.tokens.Upsert(&f.owner, token)
	require.NoError(t, err)
}

func (f *fixture) reminderSent(t *testing.T, id uuid.UUID) bool {
	t.Helper()
	r, err := f.reminders.ByID(f.owner, id)
	require.NoError(t, err)
	return r.Sent
}

func TestTickDispatchesDueReminder(t *testing.T) {
	f := newFixture(t, true)
	r := f.addReminder(t, "Drink water", "2024-06-01", "09:00")
	f.addToken(t, "tok-phone")
	f.addToken(t, "tok-browser")

	f.d.Tick(context.Background())

	assert.True(t, f.reminderSent(t, r.ID))
	batches := f.notifier.sent()
	require.Len(t, batches, 1, "exactly one batched send")
	assert.ElementsMatch(t, []string{"tok-phone", "tok-browser"}, batches[0].tokens)
	assert.Equal(t, "Drink water", batches[0].msg.Body)
	assert.Equal(t, r.ID.String(), batches[0].msg.Data["reminder_id"])
}

func TestTickIsIdempotentAcrossTicks(t *testing.T) {
	f := newFixture(t, true)
	f.addReminder(t, "Stretch", "2024-06-01", "09:00")
	f.addToken(t, "tok")

	f.d.Tick(context.Background())
	f.d.Tick(context.Background())
	f.d.Tick(context.Background())

	assert.Len(t, f.notifier.sent(), 1, "a sent reminder is never dispatched again")
}

func TestDueWindowCatchesLateTick(t *testing.T) {
	f := newFixture(t, true)
	r := f.addReminder(t, "Morning pages", "2024-06-01", "08:45")
	f.addToken(t, "tok")

	// Clock is 09:00:30; the scheduled minute has long passed but the
	// reminder was never handled, so it still dispatches.
	f.d.Tick(context.Background())

	assert.True(t, f.reminderSent(t, r.ID))
	assert.Len(t, f.notifier.sent(), 1)
}

func TestFutureReminderNotDispatched(t *testing.T) {
	f := newFixture(t, true)
	r := f.addReminder(t, "Lunch walk", "2024-06-01", "12:30")
	f.addToken(t, "tok")

	f.d.Tick(context.Background())

	assert.False(t, f.reminderSent(t, r.ID))
	assert.Empty(t, f.notifier.sent())
}

func TestOtherDayReminderNotDispatched(t *testing.T) {
	f := newFixture(t, true)
	r := f.addReminder(t, "Tomorrow", "2024-06-02", "09:00")
	f.addToken(t, "tok")

	f.d.Tick(context.Background())

	assert.False(t, f.reminderSent(t, r.ID))
	assert.Empty(t, f.notifier.sent())
}

func TestTimelessReminderNeverDispatched(t *testing.T) {
	f := newFixture(t, true)
	r := f.addReminder(t, "Someday", "2024-06-01", "")
	f.addToken(t, "tok")

	f.d.Tick(context.Background())

	assert.False(t, f.reminderSent(t, r.ID))
	assert.Empty(t, f.notifier.sent())
}

func TestTokenlessReminderMarkedSent(t *testing.T) {
	f := newFixture(t, true)
	r := f.addReminder(t, "Nobody home", "2024-06-01", "09:00")

	f.d.Tick(context.Background())

	assert.True(t, f.reminderSent(t, r.ID), "markTokenless policy marks it sent")
	assert.Empty(t, f.notifier.sent())
}

func TestTokenlessReminderRetriedUnderRetryPolicy(t *testing.T) {
	f := newFixture(t, false)
	r := f.addReminder(t, "Wait for a device", "2024-06-01", "09:00")

	f.d.Tick(context.Background())
	assert.False(t, f.reminderSent(t, r.ID), "left unsent while no tokens exist")
	assert.Empty(t, f.notifier.sent())

	f.addToken(t, "tok-late")
	f.d.Tick(context.Background())

	assert.True(t, f.reminderSent(t, r.ID))
	require.Len(t, f.notifier.sent(), 1)
	assert.Equal(t, []string{"tok-late"}, f.notifier.sent()[0].tokens)
}

func TestInvalidTokensPruned(t *testing.T) {
	f := newFixture(t, true)
	f.addReminder(t, "Prune me", "2024-06-01", "09:00")
	f.addToken(t, "tok-good")
	f.addToken(t, "tok-dead")
	f.notifier.invalid["tok-dead"] = true

	f.d.Tick(context.Background())

	left, err := f.tokens.ByOwner(f.owner)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "tok-good", left[0].Token)
}

func TestSendErrorDoesNotAbortTick(t *testing.T) {
	f := newFixture(t, true)
	r1 := f.addReminder(t, "First", "2024-06-01", "08:00")
	r2 := f.addReminder(t, "Second", "2024-06-01", "08:30")
	f.addToken(t, "tok")
	f.notifier.err = errors.New("transport down")

	f.d.Tick(context.Background())

	// Both reminders were claimed before their sends failed; the tick
	// processed the second candidate despite the first one's error.
	assert.True(t, f.reminderSent(t, r1.ID))
	assert.True(t, f.reminderSent(t, r2.ID))
	assert.Empty(t, f.notifier.sent())
}

func TestOverlappingTickSkips(t *testing.T) {
	f := newFixture(t, true)
	f.addReminder(t, "Slow send", "2024-06-01", "09:00")
	f.addToken(t, "tok")
	f.notifier.block = make(chan struct{})

	done := make(chan struct{})
	go func() {
		f.d.Tick(context.Background())
		close(done)
	}()

	// Wait until the first tick is inside the blocked send.
	require.Eventually(t, func() bool {
		if f.d.mu.TryLock() {
			f.d.mu.Unlock()
			return false
		}
		return true
	}, time.Second, time.Millisecond)

	f.d.Tick(context.Background()) // must return immediately

	close(f.notifier.block)
	<-done

	assert.Len(t, f.notifier.sent(), 1, "overlapping tick did not double-send")
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture(t, true)
	f.d.interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.d.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
