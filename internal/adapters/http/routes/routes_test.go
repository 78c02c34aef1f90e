package routes

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"bookstore-api/internal/adapters/persistence/models"
	"bookstore-api/internal/adapters/persistence/testdb"
	"bookstore-api/internal/config"
	"bookstore-api/internal/core/domain"
	"bookstore-api/internal/pkg/jwt"
	"bookstore-api/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	password.DefaultCost = bcrypt.MinCost
	os.Exit(m.Run())
}

// envelope is a decoded response with data re-encoded for typed decoding
type envelope struct {
	Success bool
	Message string
	Data    []byte
	Error   string
}

type testServer struct {
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		AppMode: "dev",
		Port:    "0",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  30,
			RefreshTokenDays: 7,
		},
	}
	db := testdb.New(t)
	return &testServer{app: NewApp(db, cfg), db: db, cfg: cfg}
}

// user inserts a user with the given role and returns it with a signed access token
func (s *testServer) user(t *testing.T, email string, role domain.Role) (*models.User, string) {
	t.Helper()

	u := testdb.CreateUser(t, s.db, email)
	if role != domain.RoleCustomer {
		require.NoError(t, s.db.Model(u).Update("role", string(role)).Error)
	}
	token, err := jwt.GenerateAccessToken(u.ID, u.Email, string(role), s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins)
	require.NoError(t, err)
	return u, token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if len(raw) > 0 {
		var shape struct {
			Success bool        `json:"success"`
			Message string      `json:"message"`
			Data    interface{} `json:"data"`
			Error   string      `json:"error"`
		}
		require.NoError(t, json.Unmarshal(raw, &shape), string(raw))
		env = envelope{Success: shape.Success, Message: shape.Message, Error: shape.Error}
		if shape.Data != nil {
			env.Data, err = json.Marshal(shape.Data)
			require.NoError(t, err)
		}
	}
	return resp.StatusCode, env
}

func decode(t *testing.T, data []byte, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, v))
}

func TestPublicRoutes(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodGet, "/users/1/borrowed_books", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Access token required", env.Error)

	status, _ = s.do(t, http.MethodGet, "/books/", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestBorrowListReturnFlow(t *testing.T) {
	s := newTestServer(t)
	user, token := s.user(t, "reader@example.com", domain.RoleCustomer)
	book := testdb.CreateBook(t, s.db, "Dune")
	base := fmt.Sprintf("/users/%d", user.ID)

	status, env := s.do(t, http.MethodGet, base+"/borrowed_books", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "No borrowed books found for this user", env.Error)

	status, env = s.do(t, http.MethodPost, fmt.Sprintf("%s/borrowBook/%d", base, book.ID), token, nil)
	require.Equal(t, http.StatusCreated, status)
	var record struct {
		ID     uint `json:"id"`
		UserID uint `json:"user_id"`
		BookID uint `json:"book_id"`
	}
	decode(t, env.Data, &record)
	assert.NotZero(t, record.ID)
	assert.Equal(t, user.ID, record.UserID)
	assert.Equal(t, book.ID, record.BookID)

	status, env = s.do(t, http.MethodGet, base+"/borrowed_books", token, nil)
	require.Equal(t, http.StatusOK, status)
	var borrowed []struct {
		BookID uint   `json:"book_id"`
		Name   string `json:"name"`
	}
	decode(t, env.Data, &borrowed)
	require.Len(t, borrowed, 1)
	assert.Equal(t, book.ID, borrowed[0].BookID)
	assert.Equal(t, "Dune", borrowed[0].Name)

	returnPath := fmt.Sprintf("%s/delete/borrowed_books/%d", base, book.ID)
	status, _ = s.do(t, http.MethodDelete, returnPath, token, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, env = s.do(t, http.MethodDelete, returnPath, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Borrowed book not found", env.Error)
}

func TestBorrowUnknownBookIsNotFound(t *testing.T) {
	s := newTestServer(t)
	user, token := s.user(t, "reader@example.com", domain.RoleCustomer)

	status, env := s.do(t, http.MethodPost, fmt.Sprintf("/users/%d/borrowBook/999", user.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Book not found", env.Error)

	status, _ = s.do(t, http.MethodPost, fmt.Sprintf("/users/%d/borrowBook/abc", user.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCustomerCannotActForOthers(t *testing.T) {
	s := newTestServer(t)
	_, token := s.user(t, "a@example.com", domain.RoleCustomer)
	other, _ := s.user(t, "b@example.com", domain.RoleCustomer)
	book := testdb.CreateBook(t, s.db, "Dune")

	status, _ := s.do(t, http.MethodGet, fmt.Sprintf("/users/%d/borrowed_books", other.ID), token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, http.MethodPost, fmt.Sprintf("/borrowBook/?user_id=%d&book_id=%d", other.ID, book.ID), token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	var count int64
	s.db.Model(&models.BorrowedBook{}).Count(&count)
	assert.Zero(t, count)
}

func TestBorrowBookByQueryOrBody(t *testing.T) {
	s := newTestServer(t)
	user, _ := s.user(t, "reader@example.com", domain.RoleCustomer)
	_, staff := s.user(t, "staff@example.com", domain.RoleLibrarian)
	book := testdb.CreateBook(t, s.db, "Dune")

	status, env := s.do(t, http.MethodPost, fmt.Sprintf("/borrowBook/?user_id=%d&book_id=%d", user.ID, book.ID), staff, nil)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Book borrowed successfully", env.Message)

	status, _ = s.do(t, http.MethodPost, "/borrowBook/", staff, map[string]uint{"user_id": user.ID, "book_id": book.ID})
	assert.Equal(t, http.StatusCreated, status)

	status, _ = s.do(t, http.MethodPost, "/borrowBook/?user_id=1", staff, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = s.do(t, http.MethodGet, fmt.Sprintf("/users/%d/borrowed_books", user.ID), staff, nil)
	require.Equal(t, http.StatusOK, status)
	var borrowed []map[string]interface{}
	decode(t, env.Data, &borrowed)
	assert.Len(t, borrowed, 1)

	var records int64
	s.db.Model(&models.BorrowedBook{}).Where("user_id = ?", user.ID).Count(&records)
	assert.EqualValues(t, 2, records)
}

func TestAddBookFindsOrCreatesByName(t *testing.T) {
	s := newTestServer(t)
	user, token := s.user(t, "reader@example.com", domain.RoleCustomer)
	path := fmt.Sprintf("/users/%d/addBook", user.ID)

	var first, second struct {
		BookID uint `json:"book_id"`
	}
	status, env := s.do(t, http.MethodPost, path, token, map[string]string{"name": "Solaris"})
	require.Equal(t, http.StatusCreated, status)
	decode(t, env.Data, &first)

	status, env = s.do(t, http.MethodPost, path, token, map[string]string{"name": "Solaris"})
	require.Equal(t, http.StatusCreated, status)
	decode(t, env.Data, &second)

	assert.Equal(t, first.BookID, second.BookID)

	var books int64
	s.db.Model(&models.Book{}).Where("name = ?", "Solaris").Count(&books)
	assert.EqualValues(t, 1, books)

	status, _ = s.do(t, http.MethodPost, path, token, map[string]string{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestBookCatalogRoutes(t *testing.T) {
	s := newTestServer(t)
	reader, customer := s.user(t, "reader@example.com", domain.RoleCustomer)
	_, librarian := s.user(t, "staff@example.com", domain.RoleLibrarian)

	status, _ := s.do(t, http.MethodPost, "/addBook/", customer, map[string]string{"name": "Dune"})
	assert.Equal(t, http.StatusForbidden, status)

	status, env := s.do(t, http.MethodPost, "/addBook/", librarian, map[string]string{"name": "Dune"})
	require.Equal(t, http.StatusCreated, status)
	var book struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	decode(t, env.Data, &book)
	assert.Equal(t, "Dune", book.Name)

	status, _ = s.do(t, http.MethodPut, fmt.Sprintf("/books/%d", book.ID), librarian, map[string]string{"name": "Dune Messiah"})
	assert.Equal(t, http.StatusOK, status)

	status, env = s.do(t, http.MethodGet, fmt.Sprintf("/books/%d", book.ID), customer, nil)
	require.Equal(t, http.StatusOK, status)
	decode(t, env.Data, &book)
	assert.Equal(t, "Dune Messiah", book.Name)

	status, _ = s.do(t, http.MethodGet, "/books/", customer, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodPost, fmt.Sprintf("/users/%d/borrowBook/%d", reader.ID, book.ID), customer, nil)
	require.Equal(t, http.StatusCreated, status)

	status, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/books/%d", book.ID), librarian, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/users/%d/delete/borrowed_books/%d", reader.ID, book.ID), customer, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/books/%d", book.ID), librarian, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodGet, fmt.Sprintf("/books/%d", book.ID), customer, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCreateUserAndLogin(t *testing.T) {
	s := newTestServer(t)
	body := map[string]string{
		"email":      "new@example.com",
		"password":   "supersecret",
		"first_name": "Ada",
		"last_name":  "Lovelace",
	}

	status, env := s.do(t, http.MethodPost, "/createUser/", "", body)
	require.Equal(t, http.StatusCreated, status)
	var created struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	decode(t, env.Data, &created)
	assert.Equal(t, "customer", created.Role)
	assert.NotContains(t, string(env.Data), "password")

	status, env = s.do(t, http.MethodPost, "/createUser/", "", body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Email already registered", env.Error)

	status, _ = s.do(t, http.MethodPost, "/login", "", map[string]string{"email": "new@example.com", "password": "wrongpassword"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = s.do(t, http.MethodPost, "/login", "", map[string]string{"email": "new@example.com", "password": "supersecret"})
	require.Equal(t, http.StatusOK, status)
	var login struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refresh_token"`
		Role         string `json:"role"`
		UserID       uint   `json:"userId"`
	}
	decode(t, env.Data, &login)
	assert.NotEmpty(t, login.Token)
	assert.NotEmpty(t, login.RefreshToken)
	assert.Equal(t, "customer", login.Role)
	assert.Equal(t, created.ID, login.UserID)

	status, _ = s.do(t, http.MethodGet, "/auth/me", login.Token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": login.RefreshToken})
	require.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": login.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestUserAdministration(t *testing.T) {
	s := newTestServer(t)
	admin, adminToken := s.user(t, "admin@example.com", domain.RoleAdmin)
	reader, customer := s.user(t, "reader@example.com", domain.RoleCustomer)

	status, _ := s.do(t, http.MethodGet, "/users/", customer, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env := s.do(t, http.MethodGet, "/users/", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	var page struct {
		Data []map[string]interface{} `json:"data"`
	}
	decode(t, env.Data, &page)
	assert.Len(t, page.Data, 2)

	status, _ = s.do(t, http.MethodGet, fmt.Sprintf("/users/%d", reader.ID), customer, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodGet, fmt.Sprintf("/users/%d", admin.ID), customer, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, http.MethodGet, "/users/email/reader@example.com", adminToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodPut, fmt.Sprintf("/users/%d/role", reader.ID), adminToken, map[string]string{"role": "wizard"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = s.do(t, http.MethodPut, fmt.Sprintf("/users/%d/role", reader.ID), adminToken, map[string]string{"role": "librarian"})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"librarian"`)

	status, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/users/delete/%d", admin.ID), adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/users/delete/%d", reader.ID), adminToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodGet, fmt.Sprintf("/users/%d", reader.ID), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
