package repositories

import (
	"database/sql"
	"fmt"

	"afisha/internal/models"
)

type FavoriteRepository interface {
	ListByUser(userID int) ([]*models.Favorite, error)
	// Create — false, nil если событие уже в избранном.
	Create(userID int, eventID int64) (bool, error)
	// Delete — false, nil если записи не было.
	Delete(userID int, eventID int64) (bool, error)
}

type favoriteRepository struct {
	DB *sql.DB
}

func NewFavoriteRepository(db *sql.DB) FavoriteRepository {
	return &favoriteRepository{DB: db}
}

func (r *favoriteRepository) ListByUser(userID int) ([]*models.Favorite, error) {
	const q = `
		SELECT id, user_id, event_id
		FROM favorites
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.DB.Query(q, userID)
	if err != nil {
		return nil, fmt.Errorf("favorite list: %w", err)
	}
	defer rows.Close()

	var res []*models.Favorite
	for rows.Next() {
		f := &models.Favorite{}
		if err := rows.Scan(&f.ID, &f.UserID, &f.EventID); err != nil {
			return nil, fmt.Errorf("favorite scan: %w", err)
		}
		res = append(res, f)
	}
	return res, rows.Err()
}

func (r *favoriteRepository) Create(userID int, eventID int64) (bool, error) {
	const q = `
		INSERT INTO favorites (user_id, event_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, event_id) DO NOTHING
	`
	res, err := r.DB.Exec(q, userID, eventID)
	if err != nil {
		return false, fmt.Errorf("favorite create: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("favorite create: %w", err)
	}
	return n > 0, nil
}

func (r *favoriteRepository) Delete(userID int, eventID int64) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM favorites WHERE user_id=$1 AND event_id=$2`, userID, eventID)
	if err != nil {
		return false, fmt.Errorf("favorite delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("favorite delete: %w", err)
	}
	return n > 0, nil
}
