package dto

import "time"

type CreateProductRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description"`
}

type UpdateProductRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

type ProductResponse struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateFAQRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Question  string `json:"question" validate:"required,min=3"`
	Answer    string `json:"answer" validate:"required,min=1"`
}

type UpdateFAQRequest struct {
	Question string `json:"question" validate:"required,min=3"`
	Answer   string `json:"answer" validate:"required,min=1"`
}

type FAQResponse struct {
	Id        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}
