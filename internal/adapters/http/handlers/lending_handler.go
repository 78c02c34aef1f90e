package handlers

import (
	"bookstore-api/internal/adapters/http/middleware"
	"bookstore-api/internal/core/services"
	"bookstore-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LendingHandler handles borrow, list and return endpoints
type LendingHandler struct {
	lendingService *services.LendingService
}

// NewLendingHandler creates a new lending handler
func NewLendingHandler(lendingService *services.LendingService) *LendingHandler {
	return &LendingHandler{
		lendingService: lendingService,
	}
}

// BorrowBook handles borrowing a book by ID for a user
// @Summary Borrow a book
// @Tags Lending
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Param book_id path int true "Book ID"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{user_id}/borrowBook/{book_id} [post]
func (h *LendingHandler) BorrowBook(c *fiber.Ctx) error {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}
	bookID, ok := paramID(c, "book_id")
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	record, err := h.lendingService.Borrow(c.UserContext(), userID, bookID)
	if err != nil {
		return respondError(c, err, "Failed to borrow book")
	}

	return response.Created(c, "Book borrowed successfully", toBorrowRecordResponse(record))
}

// BorrowRequest carries user_id and book_id in the query string or JSON body
type BorrowRequest struct {
	UserID string `query:"user_id" json:"-"`
	BookID string `query:"book_id" json:"-"`
}

type borrowBody struct {
	UserID uint `json:"user_id"`
	BookID uint `json:"book_id"`
}

// BorrowBookByQuery handles the flat borrow endpoint
// @Summary Borrow a book (query or body)
// @Tags Lending
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id query int false "User ID"
// @Param book_id query int false "Book ID"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /borrowBook/ [post]
func (h *LendingHandler) BorrowBookByQuery(c *fiber.Ctx) error {
	userID, bookID, ok := borrowIDs(c)
	if !ok {
		return response.BadRequest(c, "user_id and book_id are required positive integers")
	}

	currentID, role, _ := middleware.CurrentUser(c)
	if !role.CanManageCatalog() && currentID != userID {
		return response.Forbidden(c, "You can only borrow books for yourself")
	}

	if _, err := h.lendingService.Borrow(c.UserContext(), userID, bookID); err != nil {
		return respondError(c, err, "Failed to borrow book")
	}

	return response.Created(c, "Book borrowed successfully", nil)
}

// borrowIDs reads the ids from the query string, falling back to a JSON body
func borrowIDs(c *fiber.Ctx) (uint, uint, bool) {
	var q BorrowRequest
	if err := c.QueryParser(&q); err == nil && q.UserID != "" && q.BookID != "" {
		userID, okU := parseID(q.UserID)
		bookID, okB := parseID(q.BookID)
		return userID, bookID, okU && okB
	}

	var body borrowBody
	if len(c.Body()) == 0 || c.BodyParser(&body) != nil {
		return 0, 0, false
	}
	return body.UserID, body.BookID, body.UserID > 0 && body.BookID > 0
}

// AddBookToUser handles find-or-create by name followed by a borrow
// @Summary Borrow a book by name, creating it if needed
// @Tags Lending
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Param body body services.CreateBookInput true "Book"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{user_id}/addBook [post]
func (h *LendingHandler) AddBookToUser(c *fiber.Ctx) error {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req services.CreateBookInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	record, _, err := h.lendingService.BorrowByBookName(c.UserContext(), userID, req)
	if err != nil {
		return respondError(c, err, "Failed to borrow book")
	}

	return response.Created(c, "Book borrowed successfully", toBorrowRecordResponse(record))
}

// ListBorrowedBooks handles listing a user's borrowed books
// @Summary List borrowed books
// @Description Responds 404 when the user has no borrowed books
// @Tags Lending
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{user_id}/borrowed_books [get]
func (h *LendingHandler) ListBorrowedBooks(c *fiber.Ctx) error {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	books, err := h.lendingService.ListBorrowed(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err, "Failed to list borrowed books")
	}
	if len(books) == 0 {
		return response.NotFound(c, "No borrowed books found for this user")
	}

	items := make([]BorrowedBookInfo, len(books))
	for i, b := range books {
		items[i] = BorrowedBookInfo{BookID: b.ID, Name: b.Name}
	}
	return response.Success(c, "Borrowed books retrieved successfully", items)
}

// ReturnBook handles returning every copy of a book a user holds
// @Summary Return a borrowed book
// @Tags Lending
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Param book_id path int true "Book ID"
// @Success 204
// @Failure 404 {object} response.Response
// @Router /users/{user_id}/delete/borrowed_books/{book_id} [delete]
func (h *LendingHandler) ReturnBook(c *fiber.Ctx) error {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}
	bookID, ok := paramID(c, "book_id")
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	returned, err := h.lendingService.ReturnBook(c.UserContext(), userID, bookID)
	if err != nil {
		return respondError(c, err, "Failed to return book")
	}
	if !returned {
		return response.NotFound(c, "Borrowed book not found")
	}

	return response.NoContent(c)
}
