package models

import (
	"errors"
	"time"
)

// Room represents a sellable room type within a lodging. The reservation
// engine reads CapacityMin/CapacityMax/CountRoom and never mutates them.
type Room struct {
	ID               string    `json:"id" db:"id"`
	LodgingID        string    `json:"lodging_id" db:"lodging_id"`
	RoomName         string    `json:"room_name" db:"room_name"`
	RoomSize         string    `json:"room_size" db:"room_size"`
	CapacityMin      int       `json:"capacity_min" db:"capacity_min"`
	CapacityMax      int       `json:"capacity_max" db:"capacity_max"`
	CheckInTime      string    `json:"check_in_time" db:"check_in_time"`
	CheckOutTime     string    `json:"check_out_time" db:"check_out_time"`
	RoomImage        *string   `json:"room_image,omitempty" db:"room_image"`
	Price            float64   `json:"price" db:"price"`
	CountRoom        int       `json:"count_room" db:"count_room"`
	OwnerDiscount    float64   `json:"owner_discount" db:"owner_discount"`
	PlatformDiscount float64   `json:"platform_discount" db:"platform_discount"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// FitsGuests reports whether the total guest count lies within the room's
// inclusive capacity bounds
func (r *Room) FitsGuests(adults, children int) bool {
	total := adults + children
	return total >= r.CapacityMin && total <= r.CapacityMax
}

// CreateRoomRequest represents the request to create a room
type CreateRoomRequest struct {
	LodgingID    string  `json:"lodging_id" binding:"required"`
	RoomName     string  `json:"room_name" binding:"required"`
	RoomSize     string  `json:"room_size" binding:"required"`
	CapacityMin  int     `json:"capacity_min" binding:"required,min=1"`
	CapacityMax  int     `json:"capacity_max" binding:"required,min=1"`
	CheckInTime  string  `json:"check_in_time"`
	CheckOutTime string  `json:"check_out_time"`
	RoomImage    *string `json:"room_image,omitempty"`
	Price        float64 `json:"price" binding:"required"`
	CountRoom    int     `json:"count_room" binding:"required,min=1"`
}

// UpdateRoomRequest represents the request to update a room. Nil fields are
// left unchanged.
type UpdateRoomRequest struct {
	RoomName     *string  `json:"room_name,omitempty"`
	RoomSize     *string  `json:"room_size,omitempty"`
	CapacityMin  *int     `json:"capacity_min,omitempty"`
	CapacityMax  *int     `json:"capacity_max,omitempty"`
	CheckInTime  *string  `json:"check_in_time,omitempty"`
	CheckOutTime *string  `json:"check_out_time,omitempty"`
	RoomImage    *string  `json:"room_image,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	CountRoom    *int     `json:"count_room,omitempty"`
}

// Validate validates the create room request
func (r *CreateRoomRequest) Validate() error {
	if r.CapacityMin < 1 {
		return errors.New("capacity_min must be at least 1")
	}
	if r.CapacityMax < r.CapacityMin {
		return errors.New("capacity_max must not be below capacity_min")
	}
	if r.CountRoom < 1 {
		return errors.New("count_room must be at least 1")
	}
	if r.Price < 0 {
		return errors.New("price must not be negative")
	}
	return nil
}
