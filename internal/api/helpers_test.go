package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	appdb "gamerash/internal/db"
	"gamerash/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupTestDB opens an in-memory database with the full schema migrated.
// A single connection keeps every query on the same in-memory store.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, appdb.AutoMigrate(gdb))
	return gdb
}

// setupTestRedis returns a client backed by an in-process Redis
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	srv := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: srv.Addr()})
}

// doRequest runs one request through the router and returns the recorder
func doRequest(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// doAuthRequest is doRequest with a bearer session token attached
func doAuthRequest(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a JSON response body into a map
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

// Fixture helpers, inserting directly through gorm

func createTestUser(t *testing.T, db *gorm.DB, username, email string) domain.User {
	t.Helper()
	u := domain.User{Username: username, Email: email, Password: "irrelevant-hash"}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func createTestDeveloper(t *testing.T, db *gorm.DB, userID uint, studio string) domain.Developer {
	t.Helper()
	d := domain.Developer{UserID: userID, StudioName: studio, Bio: "test studio"}
	require.NoError(t, db.Create(&d).Error)
	return d
}

func createTestGame(t *testing.T, db *gorm.DB, developerID uint, title string, price float64) domain.Game {
	t.Helper()
	g := domain.Game{DeveloperID: developerID, Title: title, Description: "test game", Price: price}
	require.NoError(t, db.Create(&g).Error)
	return g
}

// createTestCatalog seeds a developer user, studio and one game
func createTestCatalog(t *testing.T, db *gorm.DB, price float64) (domain.User, domain.Developer, domain.Game) {
	t.Helper()
	devUser := createTestUser(t, db, "studio_owner", "studio@example.com")
	dev := createTestDeveloper(t, db, devUser.ID, "Test Studio")
	game := createTestGame(t, db, dev.ID, "Test Game", price)
	return devUser, dev, game
}

func createTestPurchase(t *testing.T, db *gorm.DB, userID, gameID uint) domain.Purchase {
	t.Helper()
	p := domain.Purchase{UserID: userID, GameID: gameID, PurchaseDate: time.Now().UTC()}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func countRows(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "unexpected status, body: %s", w.Body.String())
}
