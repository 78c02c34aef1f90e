package services

// Input DTOs

// CreateBookInput is the book payload {name}
type CreateBookInput struct {
	Name string `json:"name"`
}

// UpdateBookInput is a partial book update; nil fields are left unchanged
type UpdateBookInput struct {
	Name *string `json:"name"`
}

// CreateUserInput for registering a user
type CreateUserInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
