package handlers

import (
	"bookstore-api/internal/core/services"
	"bookstore-api/internal/pkg/pagination"
	"bookstore-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BookHandler handles book catalog endpoints
type BookHandler struct {
	bookService *services.BookService
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService *services.BookService) *BookHandler {
	return &BookHandler{
		bookService: bookService,
	}
}

// CreateBook handles adding a book to the catalog
// @Summary Add a book
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateBookInput true "Book"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /addBook/ [post]
func (h *BookHandler) CreateBook(c *fiber.Ctx) error {
	var req services.CreateBookInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	book, err := h.bookService.Create(c.UserContext(), req)
	if err != nil {
		return respondError(c, err, "Failed to create book")
	}

	return response.Created(c, "Book created successfully", toBookResponse(*book))
}

// ListBooks handles listing the catalog
// @Summary List books
// @Tags Books
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /books/ [get]
func (h *BookHandler) ListBooks(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	books, total, err := h.bookService.List(c.UserContext(), params.Offset, params.Limit)
	if err != nil {
		return respondError(c, err, "Failed to list books")
	}

	items := make([]BookResponse, len(books))
	for i, b := range books {
		items[i] = toBookResponse(b)
	}
	return response.Success(c, "Books retrieved successfully", pagination.NewResponse(items, params, total))
}

// GetBook handles getting a book by ID
// @Summary Get book by ID
// @Tags Books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [get]
func (h *BookHandler) GetBook(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	book, err := h.bookService.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Failed to get book")
	}

	return response.Success(c, "Book retrieved successfully", toBookResponse(*book))
}

// UpdateBook handles a partial book update; omitted fields are unchanged
// @Summary Update book
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param body body services.UpdateBookInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [put]
func (h *BookHandler) UpdateBook(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	var req services.UpdateBookInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	book, err := h.bookService.Update(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, err, "Failed to update book")
	}

	return response.Success(c, "Book updated successfully", toBookResponse(*book))
}

// DeleteBook handles deleting a book nobody is borrowing
// @Summary Delete book
// @Tags Books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	book, err := h.bookService.Delete(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Failed to delete book")
	}

	return response.Success(c, "Book deleted successfully", toBookResponse(*book))
}
