package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"afisha/internal/models"
)

type EventRepository interface {
	// GetByID — nil, nil если события нет.
	GetByID(id int64) (*models.Event, error)
	Exists(id int64) (bool, error)
	// ListUpcoming — события с start_date >= from, AND-фильтр по именам тегов,
	// по возрастанию даты начала.
	ListUpcoming(tags []string, from time.Time, limit, offset int) ([]*models.Event, int, error)
}

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{DB: db}
}

func (r *eventRepository) GetByID(id int64) (*models.Event, error) {
	const q = `
		SELECT id, title, description, start_date, end_date, address
		FROM events
		WHERE id = $1
	`
	e := &models.Event{}
	var endDate sql.NullTime
	err := r.DB.QueryRow(q, id).Scan(&e.ID, &e.Title, &e.Description, &e.StartDate, &endDate, &e.Address)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("event get by id: %w", err)
	}
	if endDate.Valid {
		t := endDate.Time
		e.EndDate = &t
	}
	if err := r.loadTags(e); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Exists(id int64) (bool, error) {
	var ok bool
	if err := r.DB.QueryRow(`SELECT EXISTS (SELECT 1 FROM events WHERE id=$1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("event exists: %w", err)
	}
	return ok, nil
}

func (r *eventRepository) loadTags(e *models.Event) error {
	const q = `
		SELECT t.id, t.name, t.city_id
		FROM tags t
		JOIN event_tags et ON et.tag_id = t.id
		WHERE et.event_id = $1
		ORDER BY t.id
	`
	rows, err := r.DB.Query(q, e.ID)
	if err != nil {
		return fmt.Errorf("event load tags: %w", err)
	}
	defer rows.Close()

	e.Tags = []models.Tag{}
	for rows.Next() {
		var t models.Tag
		var cityID sql.NullInt64
		if err := rows.Scan(&t.ID, &t.Name, &cityID); err != nil {
			return fmt.Errorf("event scan tag: %w", err)
		}
		if cityID.Valid {
			id := cityID.Int64
			t.CityID = &id
		}
		e.Tags = append(e.Tags, t)
	}
	return rows.Err()
}

func (r *eventRepository) ListUpcoming(tags []string, from time.Time, limit, offset int) ([]*models.Event, int, error) {
	where := `WHERE e.start_date >= $1`
	args := []interface{}{from}
	if len(tags) > 0 {
		// AND-семантика: событие должно нести ВСЕ перечисленные теги
		args = append(args, pq.Array(tags), len(tags))
		where += `
			AND e.id IN (
				SELECT et.event_id
				FROM event_tags et
				JOIN tags t ON t.id = et.tag_id
				WHERE t.name = ANY($2)
				GROUP BY et.event_id
				HAVING COUNT(DISTINCT t.name) = $3
			)`
	}

	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM events e `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("event list count: %w", err)
	}

	q := `SELECT e.id FROM events e ` + where +
		fmt.Sprintf(` ORDER BY e.start_date, e.id LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("event list: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, 0, fmt.Errorf("event list scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	res := make([]*models.Event, 0, len(ids))
	for _, id := range ids {
		e, err := r.GetByID(id)
		if err != nil {
			return nil, 0, err
		}
		if e != nil {
			res = append(res, e)
		}
	}
	return res, total, nil
}
