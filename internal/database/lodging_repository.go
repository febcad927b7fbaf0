package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/seyniss/business-backend/internal/models"
)

// LodgingRepository handles database operations for the lodgings table
type LodgingRepository struct {
	db DB
}

// NewLodgingRepository creates a new LodgingRepository
func NewLodgingRepository(db DB) *LodgingRepository {
	return &LodgingRepository{db: db}
}

const lodgingColumns = `
	id, business_id, lodging_name, address, country,
	category, star_rating, description, created_at, updated_at
`

// Create creates a new lodging
func (r *LodgingRepository) Create(lodging *models.Lodging) error {
	query := `
		INSERT INTO lodgings (
			id, business_id, lodging_name, address, country,
			category, star_rating, description
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		RETURNING created_at, updated_at
	`

	if lodging.ID == "" {
		lodging.ID = uuid.New().String()
	}

	err := r.db.QueryRow(query,
		lodging.ID, lodging.BusinessID, lodging.LodgingName, lodging.Address,
		lodging.Country, lodging.Category, lodging.StarRating, lodging.Description,
	).Scan(&lodging.CreatedAt, &lodging.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create lodging: %w", err)
	}
	return nil
}

// GetByID retrieves a lodging by ID
func (r *LodgingRepository) GetByID(lodgingID string) (*models.Lodging, error) {
	query := `SELECT ` + lodgingColumns + ` FROM lodgings WHERE id = $1`

	lodging := &models.Lodging{}
	err := r.db.QueryRow(query, lodgingID).Scan(
		&lodging.ID, &lodging.BusinessID, &lodging.LodgingName, &lodging.Address,
		&lodging.Country, &lodging.Category, &lodging.StarRating, &lodging.Description,
		&lodging.CreatedAt, &lodging.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrLodgingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lodging: %w", err)
	}
	return lodging, nil
}

// GetByBusinessID retrieves all lodgings owned by a business
func (r *LodgingRepository) GetByBusinessID(businessID string) ([]models.Lodging, error) {
	query := `SELECT ` + lodgingColumns + ` FROM lodgings WHERE business_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(query, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lodgings: %w", err)
	}
	defer rows.Close()

	lodgings := []models.Lodging{}
	for rows.Next() {
		var lodging models.Lodging
		err := rows.Scan(
			&lodging.ID, &lodging.BusinessID, &lodging.LodgingName, &lodging.Address,
			&lodging.Country, &lodging.Category, &lodging.StarRating, &lodging.Description,
			&lodging.CreatedAt, &lodging.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		lodgings = append(lodgings, lodging)
	}
	return lodgings, rows.Err()
}

// Update applies the non-nil fields of the request to a lodging
func (r *LodgingRepository) Update(lodgingID string, req *models.UpdateLodgingRequest) error {
	query := `
		UPDATE lodgings
		SET lodging_name = COALESCE($2, lodging_name),
			address = COALESCE($3, address),
			country = COALESCE($4, country),
			category = COALESCE($5, category),
			star_rating = COALESCE($6, star_rating),
			description = COALESCE($7, description),
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, lodgingID,
		req.LodgingName, req.Address, req.Country, req.Category, req.StarRating, req.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to update lodging: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrLodgingNotFound
	}
	return nil
}

// Delete removes a lodging
func (r *LodgingRepository) Delete(lodgingID string) error {
	result, err := r.db.Exec(`DELETE FROM lodgings WHERE id = $1`, lodgingID)
	if err != nil {
		return fmt.Errorf("failed to delete lodging: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrLodgingNotFound
	}
	return nil
}
