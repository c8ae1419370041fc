package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"afisha/internal/models"
)

type UserRepository interface {
	// GetOrCreateByPhone — атомарный get-or-create по номеру телефона.
	GetOrCreateByPhone(phone string) (*models.User, error)
	GetByID(id int) (*models.User, error)
	GetByPhone(phone string) (*models.User, error)
	UpdateProfile(user *models.User) error
	UpdatePassword(userID int, hash string) error
	// ListActive — активные пользователи, AND-фильтр по именам компетенций.
	ListActive(competences []string, limit, offset int) ([]*models.User, int, error)

	// refresh helpers
	UpdateRefresh(userID int, token string, expiresAt time.Time) error
	RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error)
	ClearRefresh(userID int) error
	GetByRefreshToken(token string) (*models.User, error)

	// m2m профиля
	SetCities(userID int, cityIDs []int64) error
	SetCompetences(userID int, competenceIDs []int64) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	id, phone, first_name, last_name, profession, about, website, telegram, instagram,
	password_hash, is_active, date_of_registration, subscription_expiration_date,
	refresh_token, refresh_expires_at, refresh_revoked
`

func (r *userRepository) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var (
		ph     sql.NullString
		subExp sql.NullTime
		rt     sql.NullString
		rte    sql.NullTime
		rr     sql.NullBool
	)
	err := row.Scan(
		&u.ID, &u.Phone, &u.FirstName, &u.LastName, &u.Profession, &u.About,
		&u.Website, &u.Telegram, &u.Instagram,
		&ph, &u.IsActive, &u.DateOfRegistration, &subExp,
		&rt, &rte, &rr,
	)
	if err != nil {
		return nil, err
	}
	if ph.Valid {
		u.PasswordHash = ph.String
	}
	if subExp.Valid {
		t := subExp.Time
		u.SubscriptionExpiration = &t
	}
	if rt.Valid {
		s := rt.String
		u.RefreshToken = &s
	}
	if rte.Valid {
		t := rte.Time
		u.RefreshExpiresAt = &t
	}
	if rr.Valid {
		u.RefreshRevoked = rr.Bool
	}
	return u, nil
}

// loadLinks — подтягиваем города и компетенции пользователя.
func (r *userRepository) loadLinks(u *models.User) error {
	const qc = `
		SELECT c.id, c.name
		FROM cities c
		JOIN user_cities uc ON uc.city_id = c.id
		WHERE uc.user_id = $1
		ORDER BY c.id
	`
	rows, err := r.DB.Query(qc, u.ID)
	if err != nil {
		return fmt.Errorf("user load cities: %w", err)
	}
	defer rows.Close()
	u.Cities = []models.City{}
	for rows.Next() {
		var c models.City
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return fmt.Errorf("user scan city: %w", err)
		}
		u.Cities = append(u.Cities, c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	const qk = `
		SELECT k.id, k.name
		FROM competences k
		JOIN user_competences uk ON uk.competence_id = k.id
		WHERE uk.user_id = $1
		ORDER BY k.id
	`
	krows, err := r.DB.Query(qk, u.ID)
	if err != nil {
		return fmt.Errorf("user load competences: %w", err)
	}
	defer krows.Close()
	u.Competences = []models.Competence{}
	for krows.Next() {
		var k models.Competence
		if err := krows.Scan(&k.ID, &k.Name); err != nil {
			return fmt.Errorf("user scan competence: %w", err)
		}
		u.Competences = append(u.Competences, k)
	}
	return krows.Err()
}

func (r *userRepository) GetOrCreateByPhone(phone string) (*models.User, error) {
	// одна команда — два одновременных send-sms не создадут две строки
	q := `
		INSERT INTO users (phone, is_active, date_of_registration)
		VALUES ($1, TRUE, NOW())
		ON CONFLICT (phone) DO UPDATE SET phone = EXCLUDED.phone
		RETURNING ` + userColumns
	u, err := r.scanUser(r.DB.QueryRow(q, phone))
	if err != nil {
		return nil, fmt.Errorf("user get or create: %w", err)
	}
	if err := r.loadLinks(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := r.scanUser(r.DB.QueryRow(q, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user get by id: %w", err)
	}
	if err := r.loadLinks(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByPhone(phone string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`
	u, err := r.scanUser(r.DB.QueryRow(q, phone))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user get by phone: %w", err)
	}
	if err := r.loadLinks(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) UpdateProfile(user *models.User) error {
	const q = `
		UPDATE users
		SET first_name=$1, last_name=$2, profession=$3, about=$4,
		    website=$5, telegram=$6, instagram=$7
		WHERE id=$8
	`
	if _, err := r.DB.Exec(q,
		user.FirstName, user.LastName, user.Profession, user.About,
		user.Website, user.Telegram, user.Instagram, user.ID,
	); err != nil {
		return fmt.Errorf("user update profile: %w", err)
	}
	return nil
}

func (r *userRepository) UpdatePassword(userID int, hash string) error {
	if _, err := r.DB.Exec(`UPDATE users SET password_hash=$1 WHERE id=$2`, hash, userID); err != nil {
		return fmt.Errorf("user update password: %w", err)
	}
	return nil
}

func (r *userRepository) ListActive(competences []string, limit, offset int) ([]*models.User, int, error) {
	where := `WHERE u.is_active = TRUE`
	args := []interface{}{}
	if len(competences) > 0 {
		// AND-семантика: у пользователя должны быть ВСЕ перечисленные компетенции
		args = append(args, pq.Array(competences), len(competences))
		where += `
			AND u.id IN (
				SELECT uk.user_id
				FROM user_competences uk
				JOIN competences k ON k.id = uk.competence_id
				WHERE k.name = ANY($1)
				GROUP BY uk.user_id
				HAVING COUNT(DISTINCT k.name) = $2
			)`
	}

	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM users u `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("user list count: %w", err)
	}

	q := `SELECT u.id FROM users u ` + where +
		fmt.Sprintf(` ORDER BY u.date_of_registration, u.id LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("user list: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, 0, fmt.Errorf("user list scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	res := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		u, err := r.GetByID(id)
		if err != nil {
			return nil, 0, err
		}
		if u != nil {
			res = append(res, u)
		}
	}
	return res, total, nil
}

// ===== refresh helpers =====

func (r *userRepository) UpdateRefresh(userID int, token string, expiresAt time.Time) error {
	const q = `
		UPDATE users
		SET refresh_token=$1, refresh_expires_at=$2, refresh_revoked=FALSE
		WHERE id=$3
	`
	_, err := r.DB.Exec(q, token, expiresAt, userID)
	return err
}

func (r *userRepository) RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error) {
	q := `
		UPDATE users
		SET refresh_token=$1, refresh_expires_at=$2, refresh_revoked=FALSE
		WHERE refresh_token=$3 AND refresh_revoked=FALSE
		RETURNING ` + userColumns
	u, err := r.scanUser(r.DB.QueryRow(q, newToken, newExpiresAt, oldToken))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user rotate refresh: %w", err)
	}
	return u, nil
}

func (r *userRepository) ClearRefresh(userID int) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET refresh_token=NULL, refresh_expires_at=NULL, refresh_revoked=TRUE
		WHERE id=$1
	`, userID)
	return err
}

func (r *userRepository) GetByRefreshToken(token string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE refresh_token = $1`
	u, err := r.scanUser(r.DB.QueryRow(q, token))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user get by refresh token: %w", err)
	}
	return u, nil
}

// ===== m2m профиля =====

func (r *userRepository) SetCities(userID int, cityIDs []int64) error {
	if _, err := r.DB.Exec(`DELETE FROM user_cities WHERE user_id=$1`, userID); err != nil {
		return fmt.Errorf("user set cities: %w", err)
	}
	for _, id := range cityIDs {
		if _, err := r.DB.Exec(
			`INSERT INTO user_cities (user_id, city_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			userID, id,
		); err != nil {
			return fmt.Errorf("user set cities: %w", err)
		}
	}
	return nil
}

func (r *userRepository) SetCompetences(userID int, competenceIDs []int64) error {
	if _, err := r.DB.Exec(`DELETE FROM user_competences WHERE user_id=$1`, userID); err != nil {
		return fmt.Errorf("user set competences: %w", err)
	}
	for _, id := range competenceIDs {
		if _, err := r.DB.Exec(
			`INSERT INTO user_competences (user_id, competence_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			userID, id,
		); err != nil {
			return fmt.Errorf("user set competences: %w", err)
		}
	}
	return nil
}
