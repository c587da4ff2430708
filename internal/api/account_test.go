package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"gamerash/internal/domain"
	"gamerash/internal/middleware"
	"gamerash/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func setupAccountRouter(db *gorm.DB, rdb *redis.Client) *gin.Engine {
	r := gin.New()
	account := r.Group("")
	account.Use(middleware.SessionAuthMiddleware(rdb, testSecret))
	account.GET("/library", MyLibraryHandler(db))
	account.GET("/wishlist", MyWishlistHandler(db))
	account.POST("/wishlist", WishGameHandler(db))
	account.DELETE("/wishlist/:gameId", UnwishGameHandler(db))
	account.POST("/library/move/:gameId", MoveToLibraryHandler(db))
	return r
}

// openSession logs the user in directly against the session store
func openSession(t *testing.T, rdb *redis.Client, user domain.User) string {
	t.Helper()
	token, err := utils.CreateSession(context.Background(), rdb, user.ID, user.Username, user.Email, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func TestAccountEndpointsRequireSession(t *testing.T) {
	db := setupTestDB(t)
	rdb := setupTestRedis(t)
	r := setupAccountRouter(db, rdb)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/library"},
		{http.MethodGet, "/wishlist"},
		{http.MethodPost, "/wishlist"},
		{http.MethodDelete, "/wishlist/1"},
		{http.MethodPost, "/library/move/1"},
	}
	for _, p := range paths {
		w := doRequest(t, r, p.method, p.path, nil)
		requireStatus(t, w, http.StatusUnauthorized)
		assert.Equal(t, "Login required", decodeBody(t, w)["error"])
	}
}

func TestMyLibraryShowsOnlyOwnEntries(t *testing.T) {
	db := setupTestDB(t)
	rdb := setupTestRedis(t)
	r := setupAccountRouter(db, rdb)

	_, dev, game := createTestCatalog(t, db, 19.99)
	other := createTestGame(t, db, dev.ID, "Second Game", 9.99)
	me := createTestUser(t, db, "me", "me@example.com")
	neighbor := createTestUser(t, db, "neighbor", "neighbor@example.com")
	require.NoError(t, db.Create(&domain.Library{UserID: me.ID, GameID: game.ID, AddedDate: time.Now().UTC()}).Error)
	require.NoError(t, db.Create(&domain.Library{UserID: neighbor.ID, GameID: other.ID, AddedDate: time.Now().UTC()}).Error)

	token := openSession(t, rdb, me)
	w := doAuthRequest(t, r, http.MethodGet, "/library", token, nil)
	requireStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	entries, ok := body["library"].([]any)
	require.True(t, ok)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.EqualValues(t, game.ID, entry["game_id"])
}

func TestWishAndUnwishGame(t *testing.T) {
	db := setupTestDB(t)
	rdb := setupTestRedis(t)
	r := setupAccountRouter(db, rdb)

	_, _, game := createTestCatalog(t, db, 19.99)
	me := createTestUser(t, db, "me", "me@example.com")
	token := openSession(t, rdb, me)

	// Unknown game
	w := doAuthRequest(t, r, http.MethodPost, "/wishlist", token, gin.H{"game_id": 4242})
	requireStatus(t, w, http.StatusNotFound)

	w = doAuthRequest(t, r, http.MethodPost, "/wishlist", token, gin.H{"game_id": game.ID})
	requireStatus(t, w, http.StatusCreated)

	// Duplicate wish
	w = doAuthRequest(t, r, http.MethodPost, "/wishlist", token, gin.H{"game_id": game.ID})
	requireStatus(t, w, http.StatusConflict)
	assert.Equal(t, "Game is already in your wishlist", decodeBody(t, w)["error"])

	w = doAuthRequest(t, r, http.MethodDelete, fmt.Sprintf("/wishlist/%d", game.ID), token, nil)
	requireStatus(t, w, http.StatusOK)
	assert.EqualValues(t, 0, countRows(t, db, &domain.Wishlist{}, ""))

	// Already removed
	w = doAuthRequest(t, r, http.MethodDelete, fmt.Sprintf("/wishlist/%d", game.ID), token, nil)
	requireStatus(t, w, http.StatusNotFound)
}

func TestMoveToLibrary(t *testing.T) {
	db := setupTestDB(t)
	rdb := setupTestRedis(t)
	r := setupAccountRouter(db, rdb)

	_, _, game := createTestCatalog(t, db, 19.99)
	me := createTestUser(t, db, "me", "me@example.com")
	token := openSession(t, rdb, me)
	require.NoError(t, db.Create(&domain.Wishlist{UserID: me.ID, GameID: game.ID, AddedDate: time.Now().UTC()}).Error)

	w := doAuthRequest(t, r, http.MethodPost, fmt.Sprintf("/library/move/%d", game.ID), token, nil)
	requireStatus(t, w, http.StatusOK)

	// The pair moved: no wishlist row, exactly one library row
	assert.EqualValues(t, 0, countRows(t, db, &domain.Wishlist{}, "user_id = ? AND game_id = ?", me.ID, game.ID))
	assert.EqualValues(t, 1, countRows(t, db, &domain.Library{}, "user_id = ? AND game_id = ?", me.ID, game.ID))
}

func TestMoveToLibraryNotWishlisted(t *testing.T) {
	db := setupTestDB(t)
	rdb := setupTestRedis(t)
	r := setupAccountRouter(db, rdb)

	_, _, game := createTestCatalog(t, db, 19.99)
	me := createTestUser(t, db, "me", "me@example.com")
	token := openSession(t, rdb, me)

	w := doAuthRequest(t, r, http.MethodPost, fmt.Sprintf("/library/move/%d", game.ID), token, nil)
	requireStatus(t, w, http.StatusNotFound)
	assert.Equal(t, "Game not found in your wishlist", decodeBody(t, w)["error"])
}

func TestMoveToLibraryAlreadyOwned(t *testing.T) {
	db := setupTestDB(t)
	rdb := setupTestRedis(t)
	r := setupAccountRouter(db, rdb)

	_, _, game := createTestCatalog(t, db, 19.99)
	me := createTestUser(t, db, "me", "me@example.com")
	token := openSession(t, rdb, me)
	require.NoError(t, db.Create(&domain.Wishlist{UserID: me.ID, GameID: game.ID, AddedDate: time.Now().UTC()}).Error)
	require.NoError(t, db.Create(&domain.Library{UserID: me.ID, GameID: game.ID, AddedDate: time.Now().UTC()}).Error)

	w := doAuthRequest(t, r, http.MethodPost, fmt.Sprintf("/library/move/%d", game.ID), token, nil)
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "Game is already in your library", decodeBody(t, w)["error"])

	// Nothing changed
	assert.EqualValues(t, 1, countRows(t, db, &domain.Wishlist{}, ""))
	assert.EqualValues(t, 1, countRows(t, db, &domain.Library{}, ""))
}
