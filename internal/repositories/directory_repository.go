package repositories

import (
	"database/sql"
	"fmt"

	"afisha/internal/models"
)

// DirectoryRepository — справочники: города, теги, компетенции.
type DirectoryRepository interface {
	ListCities() ([]*models.City, error)
	ListTags() ([]*models.Tag, error)
	ListCompetences() ([]*models.Competence, error)
}

type directoryRepository struct {
	DB *sql.DB
}

func NewDirectoryRepository(db *sql.DB) DirectoryRepository {
	return &directoryRepository{DB: db}
}

func (r *directoryRepository) ListCities() ([]*models.City, error) {
	rows, err := r.DB.Query(`SELECT id, name FROM cities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("cities list: %w", err)
	}
	defer rows.Close()

	var res []*models.City
	for rows.Next() {
		c := &models.City{}
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("cities scan: %w", err)
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *directoryRepository) ListTags() ([]*models.Tag, error) {
	rows, err := r.DB.Query(`SELECT id, name, city_id FROM tags ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("tags list: %w", err)
	}
	defer rows.Close()

	var res []*models.Tag
	for rows.Next() {
		t := &models.Tag{}
		var cityID sql.NullInt64
		if err := rows.Scan(&t.ID, &t.Name, &cityID); err != nil {
			return nil, fmt.Errorf("tags scan: %w", err)
		}
		if cityID.Valid {
			id := cityID.Int64
			t.CityID = &id
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *directoryRepository) ListCompetences() ([]*models.Competence, error) {
	rows, err := r.DB.Query(`SELECT id, name FROM competences ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("competences list: %w", err)
	}
	defer rows.Close()

	var res []*models.Competence
	for rows.Next() {
		k := &models.Competence{}
		if err := rows.Scan(&k.ID, &k.Name); err != nil {
			return nil, fmt.Errorf("competences scan: %w", err)
		}
		res = append(res, k)
	}
	return res, rows.Err()
}
