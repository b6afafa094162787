package repositories

import (
	"testing"

	"github.com/Musharaf05/HabitFlow/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenUpsertLastWriteWins(t *testing.T) {
	store := NewInMemoryTokenStore()
	first := uuid.New()
	second := uuid.New()

	_, err := store.Upsert(&first, "fcm-token-abc")
	require.NoError(t, err)
	_, err = store.Upsert(&second, "fcm-token-abc")
	require.NoError(t, err)

	firstTokens, err := store.ByOwner(first)
	require.NoError(t, err)
	assert.Empty(t, firstTokens)

	secondTokens, err := store.ByOwner(second)
	require.NoError(t, err)
	require.Len(t, secondTokens, 1)
	assert.Equal(t, "fcm-token-abc", secondTokens[0].Token)
}

func TestTokenUpsertAnonymousThenOwned(t *testing.T) {
	store := NewInMemoryTokenStore()

	row, err := store.Upsert(nil, "fcm-token-xyz")
	require.NoError(t, err)
	assert.Nil(t, row.OwnerID)

	owner := uuid.New()
	row, err = store.Upsert(&owner, "fcm-token-xyz")
	require.NoError(t, err)
	require.NotNil(t, row.OwnerID)
	assert.Equal(t, owner, *row.OwnerID)
}

func TestTokenUpsertAnonymousKeepsOwner(t *testing.T) {
	store := NewInMemoryTokenStore()
	owner := uuid.New()

	_, err := store.Upsert(&owner, "fcm-token-abc")
	require.NoError(t, err)

	// A device refreshing its token before login must not disown it.
	row, err := store.Upsert(nil, "fcm-token-abc")
	require.NoError(t, err)
	require.NotNil(t, row.OwnerID)
	assert.Equal(t, owner, *row.OwnerID)

	rows, err := store.ByOwner(owner)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestUserCreateDuplicate(t *testing.T) {
	store := NewInMemoryUserStore()
	require.NoError(t, store.Create(&models.User{Username: "maya", Email: "maya@example.com"}))

	err := store.Create(&models.User{Username: "maya", Email: "other@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	err = store.Create(&models.User{Username: "other", Email: "maya@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestReminderClaimSentOnce(t *testing.T) {
	store := NewInMemoryReminderStore()
	r := models.Reminder{OwnerID: uuid.New(), Text: "stretch", RemindDate: "2024-06-01", RemindTime: "09:00"}
	require.NoError(t, store.Create(&r))

	won, err := store.ClaimSent(r.ID)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = store.ClaimSent(r.ID)
	require.NoError(t, err)
	assert.False(t, won, "second claim must lose")

	require.NoError(t, store.ReleaseSent(r.ID))
	won, err = store.ClaimSent(r.ID)
	require.NoError(t, err)
	assert.True(t, won, "claim succeeds again after release")
}

func TestReminderDueOnFiltersSent(t *testing.T) {
	store := NewInMemoryReminderStore()
	owner := uuid.New()
	due := models.Reminder{OwnerID: owner, Text: "a", RemindDate: "2024-06-01", RemindTime: "09:00"}
	sent := models.Reminder{OwnerID: owner, Text: "b", RemindDate: "2024-06-01", RemindTime: "08:00", Sent: true}
	other := models.Reminder{OwnerID: owner, Text: "c", RemindDate: "2024-06-02", RemindTime: "09:00"}
	for _, r := range []*models.Reminder{&due, &sent, &other} {
		require.NoError(t, store.Create(r))
	}

	got, err := store.DueOn("2024-06-01")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, due.ID, got[0].ID)
}

func TestTaskOwnerScoping(t *testing.T) {
	store := NewInMemoryTaskStore()
	owner := uuid.New()
	stranger := uuid.New()
	task := models.Task{OwnerID: owner, Text: "water plants"}
	require.NoError(t, store.Create(&task))

	assert.Equal(t, models.DefaultTaskStatus, task.Status)

	_, err := store.ByID(stranger, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.Delete(stranger, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.Delete(owner, task.ID)
	assert.NoError(t, err)
}
