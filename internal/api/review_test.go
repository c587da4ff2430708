package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"gamerash/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupReviewRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	reviews := r.Group("/api/reviews")
	{
		reviews.GET("", ListReviewsHandler(db))
		reviews.GET("/:id", GetReviewHandler(db))
		reviews.GET("/game/:gameId", ListReviewsByGameHandler(db))
		reviews.POST("", CreateReviewHandler(db))
		reviews.PUT("/:id", UpdateReviewHandler(db))
		reviews.DELETE("/:id", DeleteReviewHandler(db))
	}
	return r
}

func TestCreateReviewRatingBounds(t *testing.T) {
	db := setupTestDB(t)
	r := setupReviewRouter(db)
	_, _, game := createTestCatalog(t, db, 19.99)
	user := createTestUser(t, db, "reviewer", "reviewer@example.com")

	tests := []struct {
		rating int
		status int
	}{
		{0, http.StatusBadRequest},
		{6, http.StatusBadRequest},
		{-1, http.StatusBadRequest},
		{1, http.StatusCreated},
		{5, http.StatusConflict}, // Second review for the same pair
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("rating %d", tt.rating), func(t *testing.T) {
			w := doRequest(t, r, http.MethodPost, "/api/reviews", gin.H{
				"user_id": user.ID, "game_id": game.ID, "rating": tt.rating,
			})
			requireStatus(t, w, tt.status)
		})
	}
}

func TestCreateReviewOnePerUserGamePair(t *testing.T) {
	db := setupTestDB(t)
	r := setupReviewRouter(db)
	_, dev, game := createTestCatalog(t, db, 19.99)
	other := createTestGame(t, db, dev.ID, "Second Game", 29.99)
	user := createTestUser(t, db, "reviewer", "reviewer@example.com")

	w := doRequest(t, r, http.MethodPost, "/api/reviews", gin.H{"user_id": user.ID, "game_id": game.ID, "rating": 4})
	requireStatus(t, w, http.StatusCreated)

	// Duplicate pair rejected
	w = doRequest(t, r, http.MethodPost, "/api/reviews", gin.H{"user_id": user.ID, "game_id": game.ID, "rating": 2})
	requireStatus(t, w, http.StatusConflict)
	assert.Equal(t, "User has already reviewed this game", decodeBody(t, w)["error"])

	// Same user, different game is fine
	w = doRequest(t, r, http.MethodPost, "/api/reviews", gin.H{"user_id": user.ID, "game_id": other.ID, "rating": 5})
	requireStatus(t, w, http.StatusCreated)

	assert.EqualValues(t, 2, countRows(t, db, &domain.GameReview{}, "user_id = ?", user.ID))
}

func TestCreateReviewUnknownReferences(t *testing.T) {
	db := setupTestDB(t)
	r := setupReviewRouter(db)
	_, _, game := createTestCatalog(t, db, 19.99)
	user := createTestUser(t, db, "reviewer", "reviewer@example.com")

	w := doRequest(t, r, http.MethodPost, "/api/reviews", gin.H{"user_id": uint(9999), "game_id": game.ID, "rating": 3})
	requireStatus(t, w, http.StatusBadRequest)

	w = doRequest(t, r, http.MethodPost, "/api/reviews", gin.H{"user_id": user.ID, "game_id": uint(9999), "rating": 3})
	requireStatus(t, w, http.StatusBadRequest)
}

func TestUpdateReview(t *testing.T) {
	db := setupTestDB(t)
	r := setupReviewRouter(db)
	_, _, game := createTestCatalog(t, db, 19.99)
	user := createTestUser(t, db, "reviewer", "reviewer@example.com")
	review := domain.GameReview{UserID: user.ID, GameID: game.ID, Rating: 3}
	require.NoError(t, db.Create(&review).Error)

	// Path and payload IDs must agree
	w := doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/reviews/%d", review.ID), gin.H{
		"id": review.ID + 1, "user_id": user.ID, "game_id": game.ID, "rating": 4,
	})
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "Review ID mismatch", decodeBody(t, w)["error"])

	// Out-of-range rating rejected on update too
	w = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/reviews/%d", review.ID), gin.H{
		"id": review.ID, "user_id": user.ID, "game_id": game.ID, "rating": 6,
	})
	requireStatus(t, w, http.StatusBadRequest)

	w = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/reviews/%d", review.ID), gin.H{
		"id": review.ID, "user_id": user.ID, "game_id": game.ID, "rating": 5,
	})
	requireStatus(t, w, http.StatusNoContent)

	var updated domain.GameReview
	require.NoError(t, db.First(&updated, review.ID).Error)
	assert.Equal(t, 5, updated.Rating)
}

func TestDeleteReview(t *testing.T) {
	db := setupTestDB(t)
	r := setupReviewRouter(db)
	_, _, game := createTestCatalog(t, db, 19.99)
	user := createTestUser(t, db, "reviewer", "reviewer@example.com")
	review := domain.GameReview{UserID: user.ID, GameID: game.ID, Rating: 3}
	require.NoError(t, db.Create(&review).Error)

	w := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/reviews/%d", review.ID), nil)
	requireStatus(t, w, http.StatusNoContent)
	assert.EqualValues(t, 0, countRows(t, db, &domain.GameReview{}, ""))

	w = doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/reviews/%d", review.ID), nil)
	requireStatus(t, w, http.StatusNotFound)
}

func TestListReviewsByGame(t *testing.T) {
	db := setupTestDB(t)
	r := setupReviewRouter(db)
	_, dev, game := createTestCatalog(t, db, 19.99)
	other := createTestGame(t, db, dev.ID, "Second Game", 29.99)
	u1 := createTestUser(t, db, "alpha", "alpha@example.com")
	u2 := createTestUser(t, db, "beta", "beta@example.com")
	require.NoError(t, db.Create(&domain.GameReview{UserID: u1.ID, GameID: game.ID, Rating: 4}).Error)
	require.NoError(t, db.Create(&domain.GameReview{UserID: u2.ID, GameID: game.ID, Rating: 2}).Error)
	require.NoError(t, db.Create(&domain.GameReview{UserID: u1.ID, GameID: other.ID, Rating: 5}).Error)

	w := doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/reviews/game/%d", game.ID), nil)
	requireStatus(t, w, http.StatusOK)
	var rows []reviewRow
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, game.ID, row.GameID)
		assert.NotEmpty(t, row.Username)
	}
}
