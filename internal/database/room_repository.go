package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/seyniss/business-backend/internal/models"
)

// RoomRepository handles database operations for the rooms table
type RoomRepository struct {
	db DB
}

// NewRoomRepository creates a new RoomRepository
func NewRoomRepository(db DB) *RoomRepository {
	return &RoomRepository{db: db}
}

const roomColumns = `
	id, lodging_id, room_name, room_size,
	capacity_min, capacity_max, check_in_time, check_out_time,
	room_image, price, count_room, owner_discount, platform_discount,
	created_at, updated_at
`

// Create creates a new room
func (r *RoomRepository) Create(room *models.Room) error {
	query := `
		INSERT INTO rooms (
			id, lodging_id, room_name, room_size,
			capacity_min, capacity_max, check_in_time, check_out_time,
			room_image, price, count_room, owner_discount, platform_discount
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		RETURNING created_at, updated_at
	`

	if room.ID == "" {
		room.ID = uuid.New().String()
	}
	if room.CheckInTime == "" {
		room.CheckInTime = "15:00"
	}
	if room.CheckOutTime == "" {
		room.CheckOutTime = "11:00"
	}

	err := r.db.QueryRow(query,
		room.ID, room.LodgingID, room.RoomName, room.RoomSize,
		room.CapacityMin, room.CapacityMax, room.CheckInTime, room.CheckOutTime,
		room.RoomImage, room.Price, room.CountRoom, room.OwnerDiscount, room.PlatformDiscount,
	).Scan(&room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

// GetByID retrieves a room by ID
func (r *RoomRepository) GetByID(roomID string) (*models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`
	room, err := r.scanRoom(r.db.QueryRow(query, roomID))
	if err == sql.ErrNoRows {
		return nil, models.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch room: %w", err)
	}
	return room, nil
}

// GetByLodgingID retrieves all rooms for a lodging
func (r *RoomRepository) GetByLodgingID(lodgingID string) ([]models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE lodging_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(query, lodgingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	rooms := []models.Room{}
	for rows.Next() {
		room, err := r.scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *room)
	}
	return rooms, rows.Err()
}

// Update applies the non-nil fields of the request to a room
func (r *RoomRepository) Update(roomID string, req *models.UpdateRoomRequest) error {
	query := `
		UPDATE rooms
		SET room_name = COALESCE($2, room_name),
			room_size = COALESCE($3, room_size),
			capacity_min = COALESCE($4, capacity_min),
			capacity_max = COALESCE($5, capacity_max),
			check_in_time = COALESCE($6, check_in_time),
			check_out_time = COALESCE($7, check_out_time),
			room_image = COALESCE($8, room_image),
			price = COALESCE($9, price),
			count_room = COALESCE($10, count_room),
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, roomID,
		req.RoomName, req.RoomSize, req.CapacityMin, req.CapacityMax,
		req.CheckInTime, req.CheckOutTime, req.RoomImage, req.Price, req.CountRoom,
	)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrRoomNotFound
	}
	return nil
}

// Delete removes a room
func (r *RoomRepository) Delete(roomID string) error {
	result, err := r.db.Exec(`DELETE FROM rooms WHERE id = $1`, roomID)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrRoomNotFound
	}
	return nil
}

func (r *RoomRepository) scanRoom(row scanner) (*models.Room, error) {
	room := &models.Room{}
	var roomImage sql.NullString

	err := row.Scan(
		&room.ID, &room.LodgingID, &room.RoomName, &room.RoomSize,
		&room.CapacityMin, &room.CapacityMax, &room.CheckInTime, &room.CheckOutTime,
		&roomImage, &room.Price, &room.CountRoom, &room.OwnerDiscount, &room.PlatformDiscount,
		&room.CreatedAt, &room.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if roomImage.Valid {
		room.RoomImage = &roomImage.String
	}
	return room, nil
}
