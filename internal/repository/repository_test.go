package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"marketplace/internal/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	return gdb, mock
}

func TestUserRepository_FindByID(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewUserRepository(gdb)
	id := uuid.New()
	productID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "name", "email", "role", "products", "reviews"}).
		AddRow(id.String(), "Alice", "alice@example.com", "seller", `["`+productID.String()+`"]`, "[]")
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE id = \\?").WillReturnRows(rows)

	user, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, model.RoleSeller, user.Role)
	assert.Equal(t, model.IDList{productID}, user.Products)
	assert.Empty(t, user.Reviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewUserRepository(gdb)

	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestProductRepository_CountBySeller(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewProductRepository(gdb)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `products` WHERE seller_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(10))

	count, err := repo.CountBySeller(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(10), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_UpdateFields(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewProductRepository(gdb)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `products` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT \\* FROM `products` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price", "average_rating", "reviews"}).
			AddRow(id.String(), "Lamp", "19.99", nil, "[]"))

	product, err := repo.UpdateFields(context.Background(), id, map[string]interface{}{
		"title":          "Lamp",
		"average_rating": nil,
	})
	require.NoError(t, err)
	assert.Equal(t, "Lamp", product.Title)
	assert.Nil(t, product.AverageRating)
	assert.True(t, decimal.RequireFromString("19.99").Equal(product.Price))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_DuplicateTranslated(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewReviewRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `reviews`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry for key 'idx_review_product_user'"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &model.Review{
		Title:     "Great",
		Text:      "Works",
		Rating:    5,
		ProductID: uuid.New(),
		UserID:    uuid.New(),
	})
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestReviewRepository_ListWithProduct(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewReviewRepository(gdb)
	lamp, chair := uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT \\* FROM `reviews` ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "rating", "product_id", "user_id"}).
			AddRow(uuid.NewString(), "Bright", 5, lamp.String(), uuid.NewString()).
			AddRow(uuid.NewString(), "Wobbly", 2, chair.String(), uuid.NewString()).
			AddRow(uuid.NewString(), "Dim", 3, lamp.String(), uuid.NewString()))
	mock.ExpectQuery("SELECT .*`title`.*`description`.* FROM `products` WHERE id IN \\(\\?,\\?\\)").
		WithArgs(lamp.String(), chair.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description"}).
			AddRow(lamp.String(), "Lamp", "A desk lamp").
			AddRow(chair.String(), "Chair", "An office chair"))

	reviews, err := repo.List(context.Background(), ReviewFilter{WithProduct: true})
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	for _, rv := range reviews {
		require.NotNil(t, rv.ProductInfo)
		assert.Equal(t, rv.ProductID, rv.ProductInfo.ID)
	}
	assert.Equal(t, "Lamp", reviews[0].ProductInfo.Title)
	assert.Equal(t, "An office chair", reviews[1].ProductInfo.Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListWithoutProduct(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewReviewRepository(gdb)

	mock.ExpectQuery("SELECT \\* FROM `reviews`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id"}).AddRow(uuid.NewString(), uuid.NewString()))

	reviews, err := repo.List(context.Background(), ReviewFilter{})
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Nil(t, reviews[0].ProductInfo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPage(t *testing.T) {
	assert.Equal(t, Page{Number: 1, Size: DefaultPageSize}, NewPage(0, 0))
	assert.Equal(t, Page{Number: 3, Size: MaxPageSize}, NewPage(3, 1000))
	assert.Equal(t, 20, NewPage(3, 10).Offset())
	assert.Equal(t, 0, Page{}.Offset())
}
