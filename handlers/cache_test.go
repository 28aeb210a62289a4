package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"khabee/models"
	"khabee/realtime"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidateKitchenCachesDropsBothKeys(t *testing.T) {
	rdb, mr := newTestRedis(t)
	require.NoError(t, mr.Set("kitchens", `[]`))
	require.NoError(t, mr.Set("kitchen:7", `{}`))

	invalidateKitchenCaches(context.Background(), rdb, 7)

	assert.False(t, mr.Exists("kitchens"))
	assert.False(t, mr.Exists("kitchen:7"))
}

func TestPlaceOrderHandlerInvalidatesKitchenCaches(t *testing.T) {
	db, mock := newMockDB(t)
	mock.MatchExpectationsInOrder(false)
	rdb, mr := newTestRedis(t)
	require.NoError(t, mr.Set("kitchens", `[]`))
	require.NoError(t, mr.Set("kitchen:7", `{}`))

	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM `menu_items`").
		WillReturnRows(menuItemRows(1, 7))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `orders`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `order_items`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM `orders`").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "created_at", "user_id", "kitchen_id", "total_price", "status",
		}).AddRow(1, now, 9, 7, 260.0, models.StatusPending))
	mock.ExpectQuery("SELECT (.+) FROM `order_items`").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "order_id", "menu_item_id", "quantity", "price",
		}).AddRow(1, 1, 1, 2, 100.0))
	mock.ExpectQuery("SELECT (.+) FROM `menu_items`").
		WillReturnRows(menuItemRows(1, 7))
	mock.ExpectQuery("SELECT (.+) FROM `kitchens`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name"}).
			AddRow(7, 2, "Burger Haven"))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "phone", "name", "role"}).
			AddRow(9, "+8801111111111", "Customer", models.RoleCustomer))

	c, rr := newTestContext(t, http.MethodPost, "/api/v1/orders",
		[]byte(`{"items":[{"menuItemId":1,"quantity":2,"price":100}]}`))
	c.Set("UserID", uint(9))

	PlaceOrderHandler(c, db, rdb, realtime.NewNotifier(rdb))

	require.Equal(t, http.StatusCreated, rr.Code)
	// Placement touched kitchen 7: both cached views must be gone so the
	// next read sees the new order.
	assert.False(t, mr.Exists("kitchens"))
	assert.False(t, mr.Exists("kitchen:7"))
}

func TestGetKitchenHandlerServesCachedView(t *testing.T) {
	db, mock := newMockDB(t)
	rdb, mr := newTestRedis(t)

	cached, err := json.Marshal(kitchenPage{
		ID:        7,
		Name:      "Burger Haven",
		MenuItems: []menuView{},
	})
	require.NoError(t, err)
	require.NoError(t, mr.Set("kitchen:7", string(cached)))

	c, rr := newTestContext(t, http.MethodGet, "/api/v1/kitchens/7", nil)
	c.Params = gin.Params{{Key: "kitchenID", Value: "7"}}

	GetKitchenHandler(c, db, rdb)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Burger Haven")
	// A cache hit never reaches the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetKitchenHandlerCachesUnderCanonicalKey(t *testing.T) {
	db, mock := newMockDB(t)
	rdb, mr := newTestRedis(t)

	mock.ExpectQuery("SELECT (.+) FROM `kitchens`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name"}).
			AddRow(7, 2, "Burger Haven"))
	mock.ExpectQuery("SELECT (.+) FROM `menu_items`").
		WillReturnRows(menuItemRows(1, 7))
	mock.ExpectQuery("SELECT count(.+) FROM `orders`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(3))

	// "07" and "7" name the same kitchen; the stored key must be the one
	// invalidation deletes.
	c, rr := newTestContext(t, http.MethodGet, "/api/v1/kitchens/07", nil)
	c.Params = gin.Params{{Key: "kitchenID", Value: "07"}}

	GetKitchenHandler(c, db, rdb)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, mr.Exists("kitchen:7"))
	assert.False(t, mr.Exists("kitchen:07"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetKitchenListHandlerPopulatesCache(t *testing.T) {
	db, mock := newMockDB(t)
	rdb, mr := newTestRedis(t)

	mock.ExpectQuery("SELECT (.+) FROM `kitchens`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name"}).
			AddRow(7, 2, "Burger Haven"))
	mock.ExpectQuery("SELECT count(.+) FROM `menu_items`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(4))
	mock.ExpectQuery("SELECT count(.+) FROM `orders`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(12))

	c, rr := newTestContext(t, http.MethodGet, "/api/v1/kitchens", nil)

	GetKitchenListHandler(c, db, rdb)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, mr.Exists("kitchens"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetKitchenListHandlerDoesNotCacheOnCountError(t *testing.T) {
	db, mock := newMockDB(t)
	rdb, mr := newTestRedis(t)

	mock.ExpectQuery("SELECT (.+) FROM `kitchens`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name"}).
			AddRow(7, 2, "Burger Haven"))
	mock.ExpectQuery("SELECT count(.+) FROM `menu_items`").
		WillReturnError(assert.AnError)

	c, rr := newTestContext(t, http.MethodGet, "/api/v1/kitchens", nil)

	GetKitchenListHandler(c, db, rdb)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	// A transient count failure must not pin zero counts for five minutes.
	assert.False(t, mr.Exists("kitchens"))
}

func TestGetKitchenHandlerDoesNotCacheOnCountError(t *testing.T) {
	db, mock := newMockDB(t)
	rdb, mr := newTestRedis(t)

	mock.ExpectQuery("SELECT (.+) FROM `kitchens`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name"}).
			AddRow(7, 2, "Burger Haven"))
	mock.ExpectQuery("SELECT (.+) FROM `menu_items`").
		WillReturnRows(menuItemRows(1, 7))
	mock.ExpectQuery("SELECT count(.+) FROM `orders`").
		WillReturnError(assert.AnError)

	c, rr := newTestContext(t, http.MethodGet, "/api/v1/kitchens/7", nil)
	c.Params = gin.Params{{Key: "kitchenID", Value: "7"}}

	GetKitchenHandler(c, db, rdb)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.False(t, mr.Exists("kitchen:7"))
}

func TestGetKitchenHandlerRejectsNonNumericID(t *testing.T) {
	db, mock := newMockDB(t)
	rdb, _ := newTestRedis(t)

	c, rr := newTestContext(t, http.MethodGet, "/api/v1/kitchens/burgers", nil)
	c.Params = gin.Params{{Key: "kitchenID", Value: "burgers"}}

	GetKitchenHandler(c, db, rdb)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
