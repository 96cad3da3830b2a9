package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Languages is the list of languages a lawyer speaks. It is stored as a JSON
// array and accepts a single JSON string on input.
type Languages []string

// UnmarshalJSON accepts either ["tr", "en"] or "tr".
func (l *Languages) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = Languages{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("languages must be a string or a list of strings: %w", err)
	}
	*l = list
	return nil
}

// LawyerProfile is a member of the firm. Email is unique when set.
// PracticeAreaName is resolved on read and never written.
type LawyerProfile struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Title            *string   `json:"title"`
	Bio              *string   `json:"bio"`
	Email            *string   `json:"email"`
	Phone            *string   `json:"phone"`
	ExperienceYears  *int64    `json:"experience_years"`
	PhotoURL         *string   `json:"photo_url"`
	Languages        Languages `json:"languages"`
	PracticeAreaID   *int64    `json:"practice_area_id"`
	PracticeAreaName *string   `json:"practice_area_name"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// LawyerFilter narrows ListLawyers. Zero values match everything.
type LawyerFilter struct {
	PracticeAreaID *int64
	// Search matches name or bio, case-insensitively.
	Search string
}

const lawyerSelect = `
	SELECT l.id, l.name, l.title, l.bio, l.email, l.phone, l.experience_years,
		l.photo_url, l.languages, l.practice_area_id, pa.name, l.created_at, l.updated_at
	FROM lawyers l
	LEFT JOIN practice_areas pa ON pa.id = l.practice_area_id
`

// CreateLawyer inserts a lawyer and fills in its generated ID and timestamps.
func (s *Session) CreateLawyer(ctx context.Context, lawyer *LawyerProfile) error {
	languages, err := marshalLanguages(lawyer.Languages)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	err = s.queryRow(ctx, `
		INSERT INTO lawyers (
			name, title, bio, email, phone, experience_years, photo_url,
			languages, practice_area_id, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`,
		lawyer.Name, lawyer.Title, lawyer.Bio, lawyer.Email, lawyer.Phone,
		lawyer.ExperienceYears, lawyer.PhotoURL, languages, lawyer.PracticeAreaID,
		now, now,
	).Scan(&lawyer.ID)
	if err != nil {
		return fmt.Errorf("failed to create lawyer: %w", err)
	}

	lawyer.CreatedAt = now
	lawyer.UpdatedAt = now
	return nil
}

// GetLawyer retrieves a lawyer by ID; nil when absent.
func (s *Session) GetLawyer(ctx context.Context, id int64) (*LawyerProfile, error) {
	lawyer, err := scanLawyer(s.queryRow(ctx, lawyerSelect+` WHERE l.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lawyer: %w", err)
	}
	return lawyer, nil
}

// ListLawyers returns lawyers matching filter in insertion order.
func (s *Session) ListLawyers(ctx context.Context, filter LawyerFilter) ([]*LawyerProfile, error) {
	query := lawyerSelect + ` WHERE 1 = 1`
	args := []any{}

	if filter.PracticeAreaID != nil {
		query += " AND l.practice_area_id = ?"
		args = append(args, *filter.PracticeAreaID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		term := "%" + escapeLike(Fold(search)) + "%"
		query += fmt.Sprintf(" AND (%s LIKE ? ESCAPE '\\' OR %s LIKE ? ESCAPE '\\')",
			s.dialect.fold("l.name"), s.dialect.fold("COALESCE(l.bio, '')"))
		args = append(args, term, term)
	}

	query += " ORDER BY l.id"

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list lawyers: %w", err)
	}
	defer rows.Close()

	lawyers := []*LawyerProfile{}
	for rows.Next() {
		lawyer, err := scanLawyer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lawyer: %w", err)
		}
		lawyers = append(lawyers, lawyer)
	}
	return lawyers, rows.Err()
}

// UpdateLawyer writes every mutable column of lawyer. It reports false when
// no row has lawyer.ID.
func (s *Session) UpdateLawyer(ctx context.Context, lawyer *LawyerProfile) (bool, error) {
	languages, err := marshalLanguages(lawyer.Languages)
	if err != nil {
		return false, err
	}

	now := time.Now().UTC()
	result, err := s.exec(ctx, `
		UPDATE lawyers
		SET name = ?, title = ?, bio = ?, email = ?, phone = ?, experience_years = ?,
			photo_url = ?, languages = ?, practice_area_id = ?, updated_at = ?
		WHERE id = ?
	`,
		lawyer.Name, lawyer.Title, lawyer.Bio, lawyer.Email, lawyer.Phone,
		lawyer.ExperienceYears, lawyer.PhotoURL, languages, lawyer.PracticeAreaID,
		now, lawyer.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update lawyer: %w", err)
	}
	if found, err := affected(result); !found || err != nil {
		return found, err
	}
	lawyer.UpdatedAt = now
	return true, nil
}

// DeleteLawyer removes a lawyer. It reports false when absent.
func (s *Session) DeleteLawyer(ctx context.Context, id int64) (bool, error) {
	result, err := s.exec(ctx, "DELETE FROM lawyers WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete lawyer: %w", err)
	}
	return affected(result)
}

// DeleteLawyerDependents removes the case outcomes and testimonials of a lawyer.
func (s *Session) DeleteLawyerDependents(ctx context.Context, lawyerID int64) (int64, error) {
	var total int64
	for _, table := range []string{"case_outcomes", "testimonials"} {
		result, err := s.exec(ctx, "DELETE FROM "+table+" WHERE lawyer_id = ?", lawyerID)
		if err != nil {
			return 0, fmt.Errorf("failed to delete lawyer %s: %w", table, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// ClearLawyerReferences sets lawyer_id to NULL on the case outcomes and
// testimonials of a lawyer.
func (s *Session) ClearLawyerReferences(ctx context.Context, lawyerID int64) (int64, error) {
	var total int64
	for _, table := range []string{"case_outcomes", "testimonials"} {
		result, err := s.exec(ctx, "UPDATE "+table+" SET lawyer_id = NULL WHERE lawyer_id = ?", lawyerID)
		if err != nil {
			return 0, fmt.Errorf("failed to detach %s from lawyer: %w", table, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func scanLawyer(r row) (*LawyerProfile, error) {
	var (
		lawyer           LawyerProfile
		title            sql.NullString
		bio              sql.NullString
		email            sql.NullString
		phone            sql.NullString
		experienceYears  sql.NullInt64
		photoURL         sql.NullString
		languages        string
		practiceAreaID   sql.NullInt64
		practiceAreaName sql.NullString
	)

	err := r.Scan(
		&lawyer.ID, &lawyer.Name, &title, &bio, &email, &phone, &experienceYears,
		&photoURL, &languages, &practiceAreaID, &practiceAreaName,
		&lawyer.CreatedAt, &lawyer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lawyer.Title = nullStringToPtr(title)
	lawyer.Bio = nullStringToPtr(bio)
	lawyer.Email = nullStringToPtr(email)
	lawyer.Phone = nullStringToPtr(phone)
	lawyer.ExperienceYears = nullInt64ToPtr(experienceYears)
	lawyer.PhotoURL = nullStringToPtr(photoURL)
	lawyer.PracticeAreaID = nullInt64ToPtr(practiceAreaID)
	lawyer.PracticeAreaName = nullStringToPtr(practiceAreaName)

	lawyer.Languages = Languages{}
	if err := unmarshalFromString(languages, &lawyer.Languages); err != nil {
		return nil, fmt.Errorf("failed to decode languages: %w", err)
	}
	if lawyer.Languages == nil {
		lawyer.Languages = Languages{}
	}

	return &lawyer, nil
}

func marshalLanguages(languages Languages) (string, error) {
	if languages == nil {
		languages = Languages{}
	}
	data, err := marshalToString([]string(languages))
	if err != nil {
		return "", fmt.Errorf("failed to encode languages: %w", err)
	}
	return data, nil
}
