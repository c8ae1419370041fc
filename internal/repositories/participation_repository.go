package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"afisha/internal/models"
)

type ParticipationRepository interface {
	// Create — false, nil если пара (user, event) уже существует.
	// Уникальный индекс + ON CONFLICT: два одновременных join не создадут две строки.
	Create(userID int, eventID int64) (bool, error)
	// Delete — false, nil если участия не было.
	Delete(userID int, eventID int64) (bool, error)
	// ListEventsForUser — события пользователя с start_date >= from,
	// по возрастанию даты начала.
	ListEventsForUser(userID int, from time.Time, limit, offset int) ([]*models.Event, int, error)
	ListUsersForEvent(eventID int64, limit, offset int) ([]int, int, error)
}

type participationRepository struct {
	DB *sql.DB
}

func NewParticipationRepository(db *sql.DB) ParticipationRepository {
	return &participationRepository{DB: db}
}

func (r *participationRepository) Create(userID int, eventID int64) (bool, error) {
	const q = `
		INSERT INTO participations (user_id, event_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, event_id) DO NOTHING
	`
	res, err := r.DB.Exec(q, userID, eventID)
	if err != nil {
		return false, fmt.Errorf("participation create: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("participation create: %w", err)
	}
	return n > 0, nil
}

func (r *participationRepository) Delete(userID int, eventID int64) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM participations WHERE user_id=$1 AND event_id=$2`, userID, eventID)
	if err != nil {
		return false, fmt.Errorf("participation delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("participation delete: %w", err)
	}
	return n > 0, nil
}

func (r *participationRepository) ListEventsForUser(userID int, from time.Time, limit, offset int) ([]*models.Event, int, error) {
	const qc = `
		SELECT COUNT(*)
		FROM participations p
		JOIN events e ON e.id = p.event_id
		WHERE p.user_id = $1 AND e.start_date >= $2
	`
	var total int
	if err := r.DB.QueryRow(qc, userID, from).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("participation events count: %w", err)
	}

	const q = `
		SELECT e.id, e.title, e.description, e.start_date, e.end_date, e.address
		FROM participations p
		JOIN events e ON e.id = p.event_id
		WHERE p.user_id = $1 AND e.start_date >= $2
		ORDER BY e.start_date, e.id
		LIMIT $3 OFFSET $4
	`
	rows, err := r.DB.Query(q, userID, from, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("participation events: %w", err)
	}
	defer rows.Close()

	var res []*models.Event
	for rows.Next() {
		e := &models.Event{}
		var endDate sql.NullTime
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.StartDate, &endDate, &e.Address); err != nil {
			return nil, 0, fmt.Errorf("participation events scan: %w", err)
		}
		if endDate.Valid {
			t := endDate.Time
			e.EndDate = &t
		}
		res = append(res, e)
	}
	return res, total, rows.Err()
}

func (r *participationRepository) ListUsersForEvent(eventID int64, limit, offset int) ([]int, int, error) {
	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM participations WHERE event_id=$1`, eventID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("participation users count: %w", err)
	}

	const q = `
		SELECT user_id
		FROM participations
		WHERE event_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.Query(q, eventID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("participation users: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, 0, fmt.Errorf("participation users scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, total, rows.Err()
}
