package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CaseOutcome is a published result of a case the firm handled.
// LawyerName and PracticeAreaName are resolved on read.
type CaseOutcome struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Summary          *string   `json:"summary"`
	Outcome          *string   `json:"outcome"`
	ResolvedOn       *string   `json:"resolved_on"` // YYYY-MM-DD
	LawyerID         *int64    `json:"lawyer_id"`
	LawyerName       *string   `json:"lawyer_name"`
	PracticeAreaID   *int64    `json:"practice_area_id"`
	PracticeAreaName *string   `json:"practice_area_name"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

const caseOutcomeSelect = `
	SELECT c.id, c.title, c.summary, c.outcome, c.resolved_on,
		c.lawyer_id, l.name, c.practice_area_id, pa.name, c.created_at, c.updated_at
	FROM case_outcomes c
	LEFT JOIN lawyers l ON l.id = c.lawyer_id
	LEFT JOIN practice_areas pa ON pa.id = c.practice_area_id
`

// CreateCaseOutcome inserts a case outcome and fills in its generated ID and timestamps.
func (s *Session) CreateCaseOutcome(ctx context.Context, outcome *CaseOutcome) error {
	now := time.Now().UTC()
	err := s.queryRow(ctx, `
		INSERT INTO case_outcomes (
			title, summary, outcome, resolved_on, lawyer_id, practice_area_id, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`,
		outcome.Title, outcome.Summary, outcome.Outcome, outcome.ResolvedOn,
		outcome.LawyerID, outcome.PracticeAreaID, now, now,
	).Scan(&outcome.ID)
	if err != nil {
		return fmt.Errorf("failed to create case outcome: %w", err)
	}

	outcome.CreatedAt = now
	outcome.UpdatedAt = now
	return nil
}

// GetCaseOutcome retrieves a case outcome by ID; nil when absent.
func (s *Session) GetCaseOutcome(ctx context.Context, id int64) (*CaseOutcome, error) {
	outcome, err := scanCaseOutcome(s.queryRow(ctx, caseOutcomeSelect+` WHERE c.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get case outcome: %w", err)
	}
	return outcome, nil
}

// ListCaseOutcomes returns every case outcome in insertion order.
func (s *Session) ListCaseOutcomes(ctx context.Context) ([]*CaseOutcome, error) {
	rows, err := s.query(ctx, caseOutcomeSelect+` ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list case outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := []*CaseOutcome{}
	for rows.Next() {
		outcome, err := scanCaseOutcome(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case outcome: %w", err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, rows.Err()
}

// UpdateCaseOutcome writes every mutable column. It reports false when no
// row has outcome.ID.
func (s *Session) UpdateCaseOutcome(ctx context.Context, outcome *CaseOutcome) (bool, error) {
	now := time.Now().UTC()
	result, err := s.exec(ctx, `
		UPDATE case_outcomes
		SET title = ?, summary = ?, outcome = ?, resolved_on = ?, lawyer_id = ?,
			practice_area_id = ?, updated_at = ?
		WHERE id = ?
	`,
		outcome.Title, outcome.Summary, outcome.Outcome, outcome.ResolvedOn,
		outcome.LawyerID, outcome.PracticeAreaID, now, outcome.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update case outcome: %w", err)
	}
	if found, err := affected(result); !found || err != nil {
		return found, err
	}
	outcome.UpdatedAt = now
	return true, nil
}

// DeleteCaseOutcome removes a case outcome. It reports false when absent.
func (s *Session) DeleteCaseOutcome(ctx context.Context, id int64) (bool, error) {
	result, err := s.exec(ctx, "DELETE FROM case_outcomes WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete case outcome: %w", err)
	}
	return affected(result)
}

func scanCaseOutcome(r row) (*CaseOutcome, error) {
	var (
		outcome          CaseOutcome
		summary          sql.NullString
		result           sql.NullString
		resolvedOn       sql.NullString
		lawyerID         sql.NullInt64
		lawyerName       sql.NullString
		practiceAreaID   sql.NullInt64
		practiceAreaName sql.NullString
	)

	err := r.Scan(
		&outcome.ID, &outcome.Title, &summary, &result, &resolvedOn,
		&lawyerID, &lawyerName, &practiceAreaID, &practiceAreaName,
		&outcome.CreatedAt, &outcome.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	outcome.Summary = nullStringToPtr(summary)
	outcome.Outcome = nullStringToPtr(result)
	outcome.ResolvedOn = nullStringToPtr(resolvedOn)
	outcome.LawyerID = nullInt64ToPtr(lawyerID)
	outcome.LawyerName = nullStringToPtr(lawyerName)
	outcome.PracticeAreaID = nullInt64ToPtr(practiceAreaID)
	outcome.PracticeAreaName = nullStringToPtr(practiceAreaName)

	return &outcome, nil
}
