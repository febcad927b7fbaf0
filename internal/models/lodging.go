package models

import (
	"errors"
	"time"
)

// LodgingCategory enumerates the kinds of lodgings operators can register
type LodgingCategory string

const (
	LodgingCategoryHotel      LodgingCategory = "hotel"
	LodgingCategoryMotel      LodgingCategory = "motel"
	LodgingCategoryResort     LodgingCategory = "resort"
	LodgingCategoryGuesthouse LodgingCategory = "guesthouse"
	LodgingCategoryHomestay   LodgingCategory = "homestay"
)

// IsValid reports whether the value is a known lodging category
func (c LodgingCategory) IsValid() bool {
	switch c {
	case LodgingCategoryHotel, LodgingCategoryMotel, LodgingCategoryResort,
		LodgingCategoryGuesthouse, LodgingCategoryHomestay:
		return true
	}
	return false
}

// Lodging represents a property owned by a business operator
type Lodging struct {
	ID          string          `json:"id" db:"id"`
	BusinessID  string          `json:"business_id" db:"business_id"`
	LodgingName string          `json:"lodging_name" db:"lodging_name"`
	Address     string          `json:"address" db:"address"`
	Country     string          `json:"country" db:"country"`
	Category    LodgingCategory `json:"category" db:"category"`
	StarRating  int             `json:"star_rating" db:"star_rating"`
	Description string          `json:"description" db:"description"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// CreateLodgingRequest represents the request to register a lodging
type CreateLodgingRequest struct {
	LodgingName string          `json:"lodging_name" binding:"required"`
	Address     string          `json:"address" binding:"required"`
	Country     string          `json:"country" binding:"required"`
	Category    LodgingCategory `json:"category" binding:"required"`
	StarRating  int             `json:"star_rating"`
	Description string          `json:"description" binding:"required"`
}

// UpdateLodgingRequest represents the request to update a lodging
type UpdateLodgingRequest struct {
	LodgingName *string          `json:"lodging_name,omitempty"`
	Address     *string          `json:"address,omitempty"`
	Country     *string          `json:"country,omitempty"`
	Category    *LodgingCategory `json:"category,omitempty"`
	StarRating  *int             `json:"star_rating,omitempty"`
	Description *string          `json:"description,omitempty"`
}

// Validate validates the create lodging request
func (r *CreateLodgingRequest) Validate() error {
	if !r.Category.IsValid() {
		return errors.New("invalid lodging category")
	}
	if r.StarRating < 0 || r.StarRating > 5 {
		return errors.New("star_rating must be between 0 and 5")
	}
	return nil
}
