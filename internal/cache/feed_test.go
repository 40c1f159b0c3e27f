package cache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJournalEvent(t *testing.T) {
	event := model.JournalEvent{
		JournalID:   7,
		ScheduleID:  5,
		Date:        model.NewDate(2024, time.January, 15),
		Topic:       "Persamaan kuadrat",
		TeacherName: "Budi",
		Counts:      model.StatusCounts{Present: 1, Sick: 1, Total: 2},
		SubmittedAt: time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC),
	}
	raw, err := json.Marshal(event)
	require.NoError(t, err)

	got, err := DecodeJournalEvent(string(raw))
	require.NoError(t, err)
	assert.Equal(t, event, got)

	_, err = DecodeJournalEvent("{not json")
	assert.Error(t, err)
}
