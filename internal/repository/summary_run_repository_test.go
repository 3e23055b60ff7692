package repository_test

import (
	"context"
	"testing"
	"time"

	"precis/backend/internal/model"
	"precis/backend/internal/repository"
	"precis/backend/internal/repository/testutil"

	"github.com/stretchr/testify/require"
)

func TestSummaryRunRepository_CreateAndList(t *testing.T) {
	repo := repository.NewSummaryRunRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	msg := "backend unavailable"
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	okID, err := repo.Create(ctx, model.SummaryRun{
		Mode:        model.InputTyped,
		Backend:     "huggingface",
		ModelID:     "facebook/bart-large-cnn",
		InputChars:  2250,
		InputTokens: 500,
		OutputChars: 120,
		Status:      model.RunStatusOK,
		DurationMS:  900,
		CreatedAt:   base,
	})
	require.NoError(t, err)
	require.NotZero(t, okID)

	failedID, err := repo.Create(ctx, model.SummaryRun{
		Mode:         model.InputUploaded,
		Backend:      "huggingface",
		ModelID:      "facebook/bart-large-cnn",
		Truncated:    true,
		Status:       model.RunStatusFailed,
		ErrorMessage: &msg,
		CreatedAt:    base.Add(time.Second),
	})
	require.NoError(t, err)

	runs, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	require.Equal(t, failedID, runs[0].ID, "newest first")
	require.Equal(t, model.InputUploaded, runs[0].Mode)
	require.True(t, runs[0].Truncated)
	require.NotNil(t, runs[0].ErrorMessage)
	require.Equal(t, msg, *runs[0].ErrorMessage)

	require.Equal(t, okID, runs[1].ID)
	require.Nil(t, runs[1].ErrorMessage)
	require.Equal(t, 500, runs[1].InputTokens)
	require.True(t, runs[1].CreatedAt.Equal(base))
}

func TestSummaryRunRepository_ListRecentLimit(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSummaryRunRepository(database)
	now := time.Now()

	for i := int64(1); i <= 3; i++ {
		testutil.SeedRun(t, database, i, model.RunStatusOK, now.Add(time.Duration(i)*time.Minute))
	}

	runs, err := repo.ListRecent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, int64(3), runs[0].ID)
}

func TestSummaryRunRepository_DeleteBefore(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSummaryRunRepository(database)
	now := time.Now()

	testutil.SeedRun(t, database, 1, model.RunStatusOK, now.Add(-48*time.Hour))
	testutil.SeedRun(t, database, 2, model.RunStatusFailed, now.Add(-47*time.Hour))
	testutil.SeedRun(t, database, 3, model.RunStatusOK, now)

	deleted, err := repo.DeleteBefore(context.Background(), now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(2), deleted)

	runs, err := repo.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, int64(3), runs[0].ID)
}
