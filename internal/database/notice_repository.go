package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/seyniss/business-backend/internal/models"
)

// NoticeRepository handles database operations for the notices table
type NoticeRepository struct {
	db DB
}

// NewNoticeRepository creates a new NoticeRepository
func NewNoticeRepository(db DB) *NoticeRepository {
	return &NoticeRepository{db: db}
}

// Create creates a new notice
func (r *NoticeRepository) Create(notice *models.Notice) error {
	query := `
		INSERT INTO notices (id, room_id, title, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	if notice.ID == "" {
		notice.ID = uuid.New().String()
	}

	err := r.db.QueryRow(query,
		notice.ID, notice.RoomID, notice.Title, notice.Content,
	).Scan(&notice.CreatedAt, &notice.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notice: %w", err)
	}
	return nil
}

// GetByID retrieves a notice by ID
func (r *NoticeRepository) GetByID(noticeID string) (*models.Notice, error) {
	query := `
		SELECT id, room_id, title, content, created_at, updated_at
		FROM notices
		WHERE id = $1
	`

	notice := &models.Notice{}
	err := r.db.QueryRow(query, noticeID).Scan(
		&notice.ID, &notice.RoomID, &notice.Title, &notice.Content,
		&notice.CreatedAt, &notice.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("notice not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notice: %w", err)
	}
	return notice, nil
}

// GetByRoomID retrieves all notices attached to a room
func (r *NoticeRepository) GetByRoomID(roomID string) ([]models.Notice, error) {
	query := `
		SELECT id, room_id, title, content, created_at, updated_at
		FROM notices
		WHERE room_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notices: %w", err)
	}
	defer rows.Close()

	notices := []models.Notice{}
	for rows.Next() {
		var n models.Notice
		if err := rows.Scan(&n.ID, &n.RoomID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notices = append(notices, n)
	}
	return notices, rows.Err()
}

// Delete removes a notice
func (r *NoticeRepository) Delete(noticeID string) error {
	result, err := r.db.Exec(`DELETE FROM notices WHERE id = $1`, noticeID)
	if err != nil {
		return fmt.Errorf("failed to delete notice: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("notice not found")
	}
	return nil
}
