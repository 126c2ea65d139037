package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/entities"
	caterrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/errors"
	pkgerrors "github.com/Conte777/NewsFlow/services/library-bot/pkg/errors"
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

func TestRepository_CreateItemWithMirrorPart(t *testing.T) {
	repo, mock := newMockRepo(t)

	item := &entities.Item{Title: "Dune", Author: "Herbert", FileID: "f1", Kind: entities.KindDocument, FileSize: 2048}
	mirror := item.MirrorPart()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "catalog_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`INSERT INTO "catalog_item_parts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateItem(context.Background(), item, mirror))
	assert.Equal(t, int64(7), item.ID)
	assert.Equal(t, int64(7), mirror.ItemID)
	assert.Equal(t, "f1", mirror.FileID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateItemRollsBackOnPartFailure(t *testing.T) {
	repo, mock := newMockRepo(t)

	item := &entities.Item{Title: "Dune", FileID: "f1", Kind: entities.KindDocument}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "catalog_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`INSERT INTO "catalog_item_parts"`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.CreateItem(context.Background(), item, item.MirrorPart())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsInternalError(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SearchEscapesPattern(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "title", "author", "kind"}).
		AddRow(2, "a_b guide", "x", "document")

	mock.ExpectQuery(`SELECT \* FROM "catalog_items" WHERE .*title ILIKE .*ORDER BY title ASC, id ASC`).
		WithArgs(`%a\_b%`, `%a\_b%`, `%a\_b%`).
		WillReturnRows(rows)

	items, err := repo.Search(context.Background(), "a_b")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a_b guide", items[0].Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetItemNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "catalog_items" WHERE .*"id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetItem(context.Background(), 99)
	assert.ErrorIs(t, err, caterrors.ErrItemNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListPartsByKind(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "item_id", "file_id", "kind"}).
		AddRow(4, 3, "a1", "audio").
		AddRow(6, 3, "a2", "audio")

	mock.ExpectQuery(`SELECT \* FROM "catalog_item_parts" WHERE item_id = \$1 AND kind = \$2 ORDER BY id ASC`).
		WithArgs(int64(3), "audio").
		WillReturnRows(rows)

	parts, err := repo.ListParts(context.Background(), 3, entities.KindAudio)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, "a1", parts[0].FileID)
	assert.Equal(t, "a2", parts[1].FileID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteItem(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM "catalog_items" WHERE "catalog_items"."id" = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "catalog_items" WHERE "catalog_items"."id" = \$1`).
		WithArgs(int64(6)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeleteItem(context.Background(), 5))
	assert.ErrorIs(t, repo.DeleteItem(context.Background(), 6), caterrors.ErrItemNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountItemsWrapsErrors(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "catalog_items"`).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.CountItems(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, caterrors.ErrDatabase)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\% \\ a\_b`, escapeLike(`100% \ a_b`))
}
