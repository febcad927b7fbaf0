package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/seyniss/business-backend/internal/models"
)

// BusinessRepository handles database operations for the businesses table
type BusinessRepository struct {
	db DB
}

// NewBusinessRepository creates a new BusinessRepository
func NewBusinessRepository(db DB) *BusinessRepository {
	return &BusinessRepository{db: db}
}

// Create creates a new business profile
func (r *BusinessRepository) Create(business *models.Business) error {
	query := `
		INSERT INTO businesses (id, user_id, business_name, business_number)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	if business.ID == "" {
		business.ID = uuid.New().String()
	}

	err := r.db.QueryRow(query,
		business.ID, business.UserID, business.BusinessName, business.BusinessNumber,
	).Scan(&business.CreatedAt, &business.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create business: %w", err)
	}
	return nil
}

// GetByUserID retrieves the business profile for a login user
func (r *BusinessRepository) GetByUserID(userID string) (*models.Business, error) {
	query := `
		SELECT id, user_id, business_name, business_number, created_at, updated_at
		FROM businesses
		WHERE user_id = $1
	`

	business := &models.Business{}
	err := r.db.QueryRow(query, userID).Scan(
		&business.ID, &business.UserID, &business.BusinessName, &business.BusinessNumber,
		&business.CreatedAt, &business.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch business: %w", err)
	}
	return business, nil
}
