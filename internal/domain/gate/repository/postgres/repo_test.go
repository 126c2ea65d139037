package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/entities"
	gateerrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/errors"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return &Repository{db: db}, mock
}

func TestRepository_UpsertReactivates(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO "gating_channels" .* ON CONFLICT \("channel_ref"\) DO UPDATE SET .*"is_active"="excluded"."is_active" RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	ch := &entities.Channel{Ref: "@library", Title: "Library", AddedAt: time.Now()}
	require.NoError(t, repo.Upsert(context.Background(), ch))
	assert.Equal(t, int64(7), ch.ID)
	assert.True(t, ch.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "gating_channels" WHERE "gating_channels"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Get(context.Background(), 3)
	assert.ErrorIs(t, err, gateerrors.ErrChannelNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListActive(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "gating_channels" WHERE is_active = \$1 ORDER BY added_at ASC, id ASC`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "channel_ref", "title", "is_active"}).
			AddRow(1, "@first", "First", true).
			AddRow(2, "-1001", "Second", true))

	channels, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, "@first", channels[0].Ref)
	assert.Equal(t, "Second", channels[1].Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeactivateMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE "gating_channels" SET "is_active"=\$1 WHERE id = \$2`).
		WithArgs(false, 9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Deactivate(context.Background(), 9)
	assert.ErrorIs(t, err, gateerrors.ErrChannelNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetInviteLinkDatabaseError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE "gating_channels" SET "invite_link"=\$1 WHERE id = \$2`).
		WillReturnError(errors.New("connection reset"))

	err := repo.SetInviteLink(context.Background(), 2, "https://t.me/+abc")
	assert.ErrorIs(t, err, gateerrors.ErrDatabase)
	require.NoError(t, mock.ExpectationsWereMet())
}
