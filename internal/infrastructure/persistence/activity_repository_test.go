package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/garmentcrm/backend/internal/domain/activity"
	"github.com/garmentcrm/backend/internal/domain/shared"
	"github.com/garmentcrm/backend/internal/infrastructure/persistence/models"
)

func setupActivityTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.ActivityRecordModel{})
	require.NoError(t, err)

	return db
}

func TestGormActivityRecordRepository_Create(t *testing.T) {
	db := setupActivityTestDB(t)
	repo := NewGormActivityRecordRepository(db)
	ctx := context.Background()

	t.Run("persists an audit record", func(t *testing.T) {
		documentID := uuid.New()
		record, err := activity.NewRecord(uuid.New(), "PENDING", "Created Shipping Order #SO-1001", "CREATE", documentID, "SHIPPING", "alice")
		require.NoError(t, err)

		err = repo.Create(ctx, record)
		assert.NoError(t, err)

		found, err := repo.FindByDocument(ctx, documentID, shared.DefaultFilter())
		assert.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Created Shipping Order #SO-1001", found[0].Activity)
		assert.Equal(t, "CREATE", found[0].ActivityType)
		assert.Equal(t, "alice", found[0].UserOwner)
	})
}

func TestGormActivityRecordRepository_FindByDocument(t *testing.T) {
	db := setupActivityTestDB(t)
	repo := NewGormActivityRecordRepository(db)
	ctx := context.Background()

	t.Run("returns records newest first", func(t *testing.T) {
		documentID := uuid.New()

		for _, text := range []string{"first", "second", "third"} {
			record, err := activity.NewRecord(uuid.New(), "PENDING", text, "UPDATE", documentID, "SHIPPING", "bob")
			require.NoError(t, err)
			// Space out timestamps so ordering is deterministic
			record.CreatedAt = record.CreatedAt.Add(recordOffset(text))
			require.NoError(t, repo.Create(ctx, record))
		}

		found, err := repo.FindByDocument(ctx, documentID, shared.DefaultFilter())
		assert.NoError(t, err)
		require.Len(t, found, 3)
		assert.Equal(t, "third", found[0].Activity)
		assert.Equal(t, "first", found[2].Activity)
	})

	t.Run("does not leak records of other documents", func(t *testing.T) {
		documentID := uuid.New()
		record, err := activity.NewRecord(uuid.New(), "PENDING", "mine", "CREATE", documentID, "SHIPPING", "bob")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, record))

		found, err := repo.FindByDocument(ctx, uuid.New(), shared.DefaultFilter())
		assert.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("paginates", func(t *testing.T) {
		documentID := uuid.New()
		for i := 0; i < 5; i++ {
			record, err := activity.NewRecord(uuid.New(), "PENDING", "entry", "UPDATE", documentID, "SHIPPING", "bob")
			require.NoError(t, err)
			require.NoError(t, repo.Create(ctx, record))
		}

		filter := shared.DefaultFilter()
		filter.Page = 2
		filter.PageSize = 2

		found, err := repo.FindByDocument(ctx, documentID, filter)
		assert.NoError(t, err)
		assert.Len(t, found, 2)
	})
}

func recordOffset(text string) time.Duration {
	switch text {
	case "second":
		return time.Second
	case "third":
		return 2 * time.Second
	}
	return 0
}
