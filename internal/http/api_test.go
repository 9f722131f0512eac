package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/bookcatalog/internal/auth"
	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/database/books"
	"github.com/mrlokans/bookcatalog/internal/database/categories"
	"github.com/mrlokans/bookcatalog/internal/database/tokens"
	"github.com/mrlokans/bookcatalog/internal/database/users"
)

type testApp struct {
	router      *gin.Engine
	db          *database.Database
	authService *auth.Service
}

func setupTestApp(t *testing.T) (*testApp, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.New(config.Database{
		Driver: config.DriverSQLite,
		Path:   dbPath,
	})
	require.NoError(t, err)

	bookRepo := books.NewRepository(db.DB)
	userRepo := users.NewRepository(db.DB)
	categoryRepo := categories.NewRepository(db.DB)
	tokenRepo := tokens.NewRepository(db.DB)

	authCfg := config.Auth{
		SessionLifetime: time.Hour,
		BcryptCost:      bcrypt.MinCost,
	}
	authService := auth.NewService(userRepo, tokenRepo, authCfg)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sessions, err := auth.NewSessionManager(sqlDB, config.DriverSQLite, authCfg)
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Books:         bookRepo,
		Users:         userRepo,
		Categories:    categoryRepo,
		Synchronizer:  catalog.NewSynchronizer(categoryRepo),
		AuthService:   authService,
		Sessions:      sessions,
		TemplatesPath: "../../templates",
		Version:       "test",
	})

	app := &testApp{router: router, db: db, authService: authService}
	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return app, cleanup
}

func (app *testApp) do(t *testing.T, method, path string, body string, modify func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if modify != nil {
		modify(req)
	}
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

// apiLogin creates a user and exchanges their credentials for a bearer token.
func (app *testApp) apiLogin(t *testing.T, username string) string {
	t.Helper()

	w := app.do(t, "POST", "/api/users",
		`{"name": "Test User", "username": "`+username+`", "password": "longenough"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.do(t, "POST", "/api/users/login", "", func(req *http.Request) {
		req.SetBasicAuth(username, "longenough")
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)
	return response.Token
}

func bearer(token string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func TestAPI_GetAllBooks_Empty(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	w := app.do(t, "GET", "/api/books", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestAPI_CreateBook_RequiresToken(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	w := app.do(t, "POST", "/api/books", `{"title": "X", "authors": "Y"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, "POST", "/api/books", `{"title": "X", "authors": "Y"}`, bearer("bogus"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_BookLifecycle(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	token := app.apiLogin(t, "owner")

	w := app.do(t, "POST", "/api/books",
		`{"title": "Dune", "authors": "Frank Herbert", "edition": "1st"}`, bearer(token))
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID      uint   `json:"id"`
		Title   string `json:"title"`
		UserID  uint   `json:"user_id"`
		Edition string `json:"edition"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.NotZero(t, created.UserID)
	assert.Equal(t, "1st", created.Edition)

	// Reads are public
	w = app.do(t, "GET", "/api/books/1", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, "GET", "/api/books/1/user", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"owner"`)
	assert.NotContains(t, w.Body.String(), "password")

	w = app.do(t, "PUT", "/api/books/1",
		`{"title": "Dune Messiah", "authors": "Frank Herbert", "read": true}`, bearer(token))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dune Messiah")

	w = app.do(t, "DELETE", "/api/books/1", "", bearer(token))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = app.do(t, "GET", "/api/books/1", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_SearchBooks(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	token := app.apiLogin(t, "owner")
	w := app.do(t, "POST", "/api/books", `{"title": "Dune", "authors": "Frank Herbert"}`, bearer(token))
	require.Equal(t, http.StatusCreated, w.Code)

	// Missing term is rejected
	w = app.do(t, "GET", "/api/books/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Exact match hits
	w = app.do(t, "GET", "/api/books/search?term=Dune", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dune")

	// Substrings never match
	w = app.do(t, "GET", "/api/books/search?term=Dun", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestAPI_FirstAndSortedBooks(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	token := app.apiLogin(t, "owner")
	for _, body := range []string{
		`{"title": "Zebra", "authors": "A"}`,
		`{"title": "Apple", "authors": "B"}`,
	} {
		w := app.do(t, "POST", "/api/books", body, bearer(token))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := app.do(t, "GET", "/api/books/first", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Zebra")

	w = app.do(t, "GET", "/api/books/sorted", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var sorted []struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sorted))
	require.Len(t, sorted, 2)
	assert.Equal(t, "Apple", sorted[0].Title)
}

func TestAPI_Categories(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	token := app.apiLogin(t, "owner")

	w := app.do(t, "POST", "/api/books", `{"title": "Dune", "authors": "Frank Herbert"}`, bearer(token))
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.do(t, "POST", "/api/categories", `{"name": "Science Fiction"}`, bearer(token))
	require.Equal(t, http.StatusCreated, w.Code)

	// Attach twice, the second one is a no-op
	w = app.do(t, "POST", "/api/books/1/categories/1", "", bearer(token))
	assert.Equal(t, http.StatusCreated, w.Code)
	w = app.do(t, "POST", "/api/books/1/categories/1", "", bearer(token))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = app.do(t, "GET", "/api/books/1/categories", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var attached []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &attached))
	require.Len(t, attached, 1)
	assert.Equal(t, "Science Fiction", attached[0].Name)

	w = app.do(t, "GET", "/api/categories/1/books", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dune")

	w = app.do(t, "DELETE", "/api/books/1/categories/1", "", bearer(token))
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Detached category still exists with zero books
	w = app.do(t, "GET", "/api/categories/1", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = app.do(t, "GET", "/api/categories/1/books", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	// Unknown pair answers 404
	w = app.do(t, "POST", "/api/books/1/categories/99", "", bearer(token))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_CreateUser(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	w := app.do(t, "POST", "/api/users",
		`{"name": "Jane", "username": "jane", "password": "longenough"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"jane"`)
	assert.NotContains(t, w.Body.String(), "password")

	// Duplicate usernames are rejected
	w = app.do(t, "POST", "/api/users",
		`{"name": "Other Jane", "username": "jane", "password": "longenough"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing fields are rejected
	w = app.do(t, "POST", "/api/users", `{"name": "Nameless"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_Login_InvalidCredentials(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	w := app.do(t, "POST", "/api/users",
		`{"name": "Jane", "username": "jane", "password": "longenough"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.do(t, "POST", "/api/users/login", "", func(req *http.Request) {
		req.SetBasicAuth("jane", "wrongpassword")
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// No credentials at all
	w = app.do(t, "POST", "/api/users/login", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_GetUserBooks(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	token := app.apiLogin(t, "owner")
	w := app.do(t, "POST", "/api/books", `{"title": "Mine", "authors": "Me"}`, bearer(token))
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.do(t, "GET", "/api/users/1/books", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Mine")

	w = app.do(t, "GET", "/api/users/99/books", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
