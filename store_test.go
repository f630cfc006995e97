package main

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testLead(id string) LeadRecord {
	return LeadRecord{
		ID:        id,
		ChatID:    testUserChatID,
		Username:  "aigerim_kz",
		Niche:     "retail",
		Name:      "Aigerim",
		Phone:     "+7 700 000 00 00",
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestStore_LeadLifecycle(t *testing.T) {
	store := NewStore(setupTestDB(t))

	require.NoError(t, store.SaveLead(testLead("lead-1")))

	row, err := store.GetLead("lead-1")
	require.NoError(t, err)
	assert.Equal(t, "retail", row.Niche)
	assert.Equal(t, "Aigerim", row.Name)
	assert.Equal(t, "+7 700 000 00 00", row.Phone)
	assert.Nil(t, row.DeliveredAt)

	require.NoError(t, store.MarkLeadFailed("lead-1", errors.New("chat not found")))
	row, err = store.GetLead("lead-1")
	require.NoError(t, err)
	assert.Equal(t, "chat not found", row.DeliveryError)
	assert.Nil(t, row.DeliveredAt)

	deliveredAt := time.Date(2024, 3, 1, 10, 0, 5, 0, time.UTC)
	require.NoError(t, store.MarkLeadDelivered("lead-1", deliveredAt))
	row, err = store.GetLead("lead-1")
	require.NoError(t, err)
	require.NotNil(t, row.DeliveredAt)
	assert.True(t, deliveredAt.Equal(*row.DeliveredAt))
	assert.Empty(t, row.DeliveryError)
}

func TestStore_DuplicateLeadID(t *testing.T) {
	store := NewStore(setupTestDB(t))

	require.NoError(t, store.SaveLead(testLead("lead-1")))
	assert.Error(t, store.SaveLead(testLead("lead-1")))
}

func TestStore_UpdateUnknownLead(t *testing.T) {
	store := NewStore(setupTestDB(t))

	err := store.MarkLeadDelivered("missing", time.Now())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = store.GetLead("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStore_FunnelCountsDistinctChats(t *testing.T) {
	store := NewStore(setupTestDB(t))

	require.NoError(t, store.RecordFunnel(StateAwaitNiche, 1))
	require.NoError(t, store.RecordFunnel(StateAwaitNiche, 1))
	require.NoError(t, store.RecordFunnel(StateAwaitNiche, 2))
	require.NoError(t, store.RecordFunnel(StateAwaitName, 1))

	counts, err := store.funnelCounts()
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[StateAwaitNiche])
	assert.Equal(t, int64(1), counts[StateAwaitName])
	assert.Zero(t, counts[StateAwaitPhone])
}

func TestStore_Stats(t *testing.T) {
	store := NewStore(setupTestDB(t))

	st, err := store.Stats()
	require.NoError(t, err)
	assert.Zero(t, st.TotalLeads)
	assert.Zero(t, st.TotalMessages)

	require.NoError(t, store.SaveLead(testLead("a")))
	require.NoError(t, store.SaveLead(testLead("b")))
	require.NoError(t, store.MarkLeadDelivered("a", time.Now()))
	require.NoError(t, store.StoreMessage(Message{ChatID: 1, Kind: "text", Text: "hi", IsUser: true}))
	for _, chatID := range []int64{1, 2, 3, 4} {
		require.NoError(t, store.RecordFunnel(StateAwaitNiche, chatID))
	}
	require.NoError(t, store.RecordFunnel(StateAwaitName, 1))
	require.NoError(t, store.RecordFunnel(stateLeadCaptured, 1))

	st, err = store.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.TotalLeads)
	assert.Equal(t, int64(1), st.DeliveredLeads)
	assert.Equal(t, int64(1), st.TotalMessages)
	assert.Equal(t, int64(4), st.Funnel[StateAwaitNiche])

	text := formatStats(st)
	assert.Contains(t, text, "Заявок: 2 (доставлено: 1)")
	assert.Contains(t, text, "Сообщений: 1")
	assert.Contains(t, text, "Ниша: 4 (100%)")
	assert.Contains(t, text, "Имя: 1 (25%)")
	assert.Contains(t, text, "Телефон: 0 (0%)")
	assert.Contains(t, text, "Заявка: 1 (25%)")
}

func TestStore_StoreMessageDefaultsTimestamp(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	require.NoError(t, store.StoreMessage(Message{ChatID: 1, Text: "hi"}))

	var stored Message
	require.NoError(t, db.First(&stored).Error)
	assert.False(t, stored.Timestamp.IsZero())
}

func TestFormatStats_EmptyFunnel(t *testing.T) {
	text := formatStats(Stats{})
	assert.Contains(t, text, "Заявок: 0 (доставлено: 0)")
	assert.Contains(t, text, "Ниша: 0 (0%)")
}
