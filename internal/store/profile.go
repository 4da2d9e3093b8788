package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/maestro/internal/config"
)

// Profile is a named tuning parameter set.
type Profile struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Tuning    config.Tuning `json:"tuning"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ProfileRepository provides CRUD operations for tuning profiles.
type ProfileRepository struct {
	db *sql.DB
}

// Profiles returns the profile repository for this store.
func (s *Store) Profiles() *ProfileRepository {
	return &ProfileRepository{db: s.db}
}

// Create inserts a new profile. An empty ID is assigned one.
func (r *ProfileRepository) Create(p *Profile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	tuning, err := json.Marshal(p.Tuning)
	if err != nil {
		return fmt.Errorf("marshal tuning: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO profiles (id, name, tuning, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, string(tuning), p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetByID retrieves a profile by its ID.
func (r *ProfileRepository) GetByID(id string) (*Profile, error) {
	return r.get(`SELECT id, name, tuning, created_at, updated_at
		 FROM profiles WHERE id = ?`, id)
}

// GetByName retrieves a profile by its name.
func (r *ProfileRepository) GetByName(name string) (*Profile, error) {
	return r.get(`SELECT id, name, tuning, created_at, updated_at
		 FROM profiles WHERE name = ?`, name)
}

func (r *ProfileRepository) get(query string, arg any) (*Profile, error) {
	p := &Profile{}
	var tuning string

	err := r.db.QueryRow(query, arg).
		Scan(&p.ID, &p.Name, &tuning, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal([]byte(tuning), &p.Tuning); err != nil {
		return nil, fmt.Errorf("unmarshal tuning for profile %s: %w", p.ID, err)
	}
	return p, nil
}

// List retrieves all profiles, newest first.
func (r *ProfileRepository) List() ([]*Profile, error) {
	rows, err := r.db.Query(
		`SELECT id, name, tuning, created_at, updated_at
		 FROM profiles ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p := &Profile{}
		var tuning string

		if err := rows.Scan(&p.ID, &p.Name, &tuning, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(tuning), &p.Tuning); err != nil {
			return nil, fmt.Errorf("unmarshal tuning for profile %s: %w", p.ID, err)
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

// Update replaces a profile's name and tuning.
func (r *ProfileRepository) Update(p *Profile) error {
	p.UpdatedAt = time.Now()

	tuning, err := json.Marshal(p.Tuning)
	if err != nil {
		return fmt.Errorf("marshal tuning: %w", err)
	}

	result, err := r.db.Exec(
		`UPDATE profiles SET name = ?, tuning = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, string(tuning), p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a profile by its ID.
func (r *ProfileRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
