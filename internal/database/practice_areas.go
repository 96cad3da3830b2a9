package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PracticeArea is a field of law the firm works in. Name is unique.
type PracticeArea struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const practiceAreaColumns = `id, name, description, created_at, updated_at`

// CreatePracticeArea inserts pa and fills in its generated ID and timestamps.
func (s *Session) CreatePracticeArea(ctx context.Context, pa *PracticeArea) error {
	now := time.Now().UTC()
	err := s.queryRow(ctx, `
		INSERT INTO practice_areas (name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`, pa.Name, pa.Description, now, now).Scan(&pa.ID)
	if err != nil {
		return fmt.Errorf("failed to create practice area: %w", err)
	}

	pa.CreatedAt = now
	pa.UpdatedAt = now
	return nil
}

// GetPracticeArea retrieves a practice area by ID; nil when absent.
func (s *Session) GetPracticeArea(ctx context.Context, id int64) (*PracticeArea, error) {
	pa, err := scanPracticeArea(s.queryRow(ctx, `SELECT `+practiceAreaColumns+` FROM practice_areas WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get practice area: %w", err)
	}
	return pa, nil
}

// ListPracticeAreas returns every practice area in insertion order.
func (s *Session) ListPracticeAreas(ctx context.Context) ([]*PracticeArea, error) {
	rows, err := s.query(ctx, `SELECT `+practiceAreaColumns+` FROM practice_areas ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list practice areas: %w", err)
	}
	defer rows.Close()

	areas := []*PracticeArea{}
	for rows.Next() {
		pa, err := scanPracticeArea(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan practice area: %w", err)
		}
		areas = append(areas, pa)
	}
	return areas, rows.Err()
}

// UpdatePracticeArea writes every mutable column of pa. It reports false
// when no row has pa.ID.
func (s *Session) UpdatePracticeArea(ctx context.Context, pa *PracticeArea) (bool, error) {
	now := time.Now().UTC()
	result, err := s.exec(ctx, `
		UPDATE practice_areas SET name = ?, description = ?, updated_at = ?
		WHERE id = ?
	`, pa.Name, pa.Description, now, pa.ID)
	if err != nil {
		return false, fmt.Errorf("failed to update practice area: %w", err)
	}
	if found, err := affected(result); !found || err != nil {
		return found, err
	}
	pa.UpdatedAt = now
	return true, nil
}

// DeletePracticeArea removes a practice area. It reports false when absent.
func (s *Session) DeletePracticeArea(ctx context.Context, id int64) (bool, error) {
	result, err := s.exec(ctx, "DELETE FROM practice_areas WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete practice area: %w", err)
	}
	return affected(result)
}

// DeleteLawyersByPracticeArea removes the lawyers of a practice area along
// with their case outcomes and testimonials.
func (s *Session) DeleteLawyersByPracticeArea(ctx context.Context, practiceAreaID int64) (int64, error) {
	const lawyersInArea = `SELECT id FROM lawyers WHERE practice_area_id = ?`

	if _, err := s.exec(ctx, `DELETE FROM case_outcomes WHERE lawyer_id IN (`+lawyersInArea+`)`, practiceAreaID); err != nil {
		return 0, fmt.Errorf("failed to delete case outcomes of practice area lawyers: %w", err)
	}
	if _, err := s.exec(ctx, `DELETE FROM testimonials WHERE lawyer_id IN (`+lawyersInArea+`)`, practiceAreaID); err != nil {
		return 0, fmt.Errorf("failed to delete testimonials of practice area lawyers: %w", err)
	}

	result, err := s.exec(ctx, "DELETE FROM lawyers WHERE practice_area_id = ?", practiceAreaID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete practice area lawyers: %w", err)
	}
	return result.RowsAffected()
}

// DeleteCaseOutcomesByPracticeArea removes case outcomes filed under a practice area.
func (s *Session) DeleteCaseOutcomesByPracticeArea(ctx context.Context, practiceAreaID int64) (int64, error) {
	result, err := s.exec(ctx, "DELETE FROM case_outcomes WHERE practice_area_id = ?", practiceAreaID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete practice area case outcomes: %w", err)
	}
	return result.RowsAffected()
}

// ClearPracticeAreaReferences sets practice_area_id to NULL on every lawyer
// and case outcome that points at the practice area.
func (s *Session) ClearPracticeAreaReferences(ctx context.Context, practiceAreaID int64) (int64, error) {
	var total int64
	for _, table := range []string{"lawyers", "case_outcomes"} {
		result, err := s.exec(ctx, "UPDATE "+table+" SET practice_area_id = NULL WHERE practice_area_id = ?", practiceAreaID)
		if err != nil {
			return 0, fmt.Errorf("failed to detach %s from practice area: %w", table, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func scanPracticeArea(r row) (*PracticeArea, error) {
	pa := &PracticeArea{}
	var description sql.NullString
	if err := r.Scan(&pa.ID, &pa.Name, &description, &pa.CreatedAt, &pa.UpdatedAt); err != nil {
		return nil, err
	}
	pa.Description = nullStringToPtr(description)
	return pa, nil
}

// affected reports whether a statement touched at least one row.
func affected(result sql.Result) (bool, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows > 0, nil
}
