package handler

import "github.com/mindfulthreads/storefront/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type productRequest struct {
	Name        string   `json:"name"        validate:"required,max=200"`
	Description string   `json:"description" validate:"required"`
	Price       *float64 `json:"price"       validate:"required,gte=0"`
	Stock       int      `json:"stock"       validate:"gte=0"`
	Image       string   `json:"image"       validate:"omitempty,max=2048"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	Next      string `json:"next"`
}

// The swag annotations reference these to describe the envelope payloads.
type (
	productView struct {
		Account *domain.Account `json:"account"`
		Flashes []Flash         `json:"flashes"`
		Data    domain.Product  `json:"data"`
	}
	productListView struct {
		Account *domain.Account  `json:"account"`
		Flashes []Flash          `json:"flashes"`
		Data    []domain.Product `json:"data"`
	}
	accountView struct {
		Account *domain.Account `json:"account"`
		Flashes []Flash         `json:"flashes"`
		Data    *domain.Account `json:"data"`
	}
	loginView struct {
		Account *domain.Account `json:"account"`
		Flashes []Flash         `json:"flashes"`
		Data    loginResponse   `json:"data"`
	}
)
