package model

import "time"

// Seller is the public profile buyers browse. ID equals the owning user's
// identity; a skeleton record is created when the seller role is chosen and
// filled in during onboarding.
type Seller struct {
	ID          string    `json:"id" bson:"_id" validate:"required"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Title       string    `json:"title" bson:"title" validate:"required,min=2,max=100"`
	Description string    `json:"description" bson:"description" validate:"required,min=2,max=1000"`
	Image       string    `json:"image" bson:"image" validate:"required,url"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type SellerUpdate struct {
	Name        string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Title       string `json:"title,omitempty" validate:"omitempty,min=2,max=100"`
	Description string `json:"description,omitempty" validate:"omitempty,min=2,max=1000"`
	Image       string `json:"image,omitempty" validate:"omitempty,url"`
}
