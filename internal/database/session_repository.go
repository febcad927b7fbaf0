package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/seyniss/business-backend/internal/models"
)

// SessionRepository handles database operations for the login_sessions table
type SessionRepository struct {
	db DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create records a login session
func (r *SessionRepository) Create(session *models.LoginSession) error {
	query := `
		INSERT INTO login_sessions (id, user_id, ip_address, device, browser)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	err := r.db.QueryRow(query,
		session.ID, session.UserID, session.IPAddress, session.Device, session.Browser,
	).Scan(&session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record login session: %w", err)
	}
	return nil
}

// GetRecentByUserID returns the most recent login sessions for a user
func (r *SessionRepository) GetRecentByUserID(userID string, limit int) ([]models.LoginSession, error) {
	query := `
		SELECT id, user_id, ip_address, device, browser, created_at
		FROM login_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list login sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.LoginSession{}
	for rows.Next() {
		var s models.LoginSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.IPAddress, &s.Device, &s.Browser, &s.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
