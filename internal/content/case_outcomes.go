package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/oapi-codegen/nullable"

	"github.com/denizhukuk/lawsite/internal/database"
)

// CaseOutcomeInput creates a case outcome.
type CaseOutcomeInput struct {
	Title          string  `json:"title" validate:"required,max=255"`
	Summary        *string `json:"summary"`
	Outcome        *string `json:"outcome" validate:"omitempty,max=255"`
	ResolvedOn     *string `json:"resolved_on" validate:"omitempty,datetime=2006-01-02"`
	LawyerID       *int64  `json:"lawyer_id"`
	PracticeAreaID *int64  `json:"practice_area_id"`
}

// CaseOutcomePatch updates the supplied fields of a case outcome.
type CaseOutcomePatch struct {
	Title          *string                   `json:"title"`
	Summary        nullable.Nullable[string] `json:"summary"`
	Outcome        nullable.Nullable[string] `json:"outcome"`
	ResolvedOn     nullable.Nullable[string] `json:"resolved_on"`
	LawyerID       nullable.Nullable[int64]  `json:"lawyer_id"`
	PracticeAreaID nullable.Nullable[int64]  `json:"practice_area_id"`
}

func (in *CaseOutcomeInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.ResolvedOn = trimmed(in.ResolvedOn)
}

func (in *CaseOutcomeInput) apply(c *database.CaseOutcome) {
	c.Title = in.Title
	c.Summary = in.Summary
	c.Outcome = in.Outcome
	c.ResolvedOn = in.ResolvedOn
	c.LawyerID = in.LawyerID
	c.PracticeAreaID = in.PracticeAreaID
}

func (in *CaseOutcomeInput) references(ctx context.Context, sess *database.Session) error {
	if err := requireLawyer(ctx, sess, in.LawyerID); err != nil {
		return err
	}
	return requirePracticeArea(ctx, sess, in.PracticeAreaID)
}

// CreateCaseOutcome stores a new case outcome.
func (s *Service) CreateCaseOutcome(ctx context.Context, in CaseOutcomeInput) (*database.CaseOutcome, error) {
	in.normalize()
	if err := s.check(&in); err != nil {
		return nil, err
	}

	var outcome *database.CaseOutcome
	err := s.db.Transaction(ctx, func(ctx context.Context, sess *database.Session) error {
		if err := in.references(ctx, sess); err != nil {
			return err
		}

		created := &database.CaseOutcome{}
		in.apply(created)
		if err := sess.CreateCaseOutcome(ctx, created); err != nil {
			return err
		}

		var err error
		outcome, err = sess.GetCaseOutcome(ctx, created.ID)
		return err
	})
	if err != nil {
		return nil, translate(err, fmt.Sprintf("case outcome %q", in.Title), false)
	}
	return outcome, nil
}

// GetCaseOutcome returns a case outcome or ErrNotFound.
func (s *Service) GetCaseOutcome(ctx context.Context, id int64) (*database.CaseOutcome, error) {
	var outcome *database.CaseOutcome
	err := s.db.ReadTransaction(ctx, func(ctx context.Context, sess *database.Session) error {
		var err error
		outcome, err = sess.GetCaseOutcome(ctx, id)
		return err
	})
	if err != nil {
		return nil, translate(err, "case outcome", false)
	}
	if outcome == nil {
		return nil, notFound("case outcome", id)
	}
	return outcome, nil
}

// ListCaseOutcomes returns every case outcome in insertion order.
func (s *Service) ListCaseOutcomes(ctx context.Context) ([]*database.CaseOutcome, error) {
	var outcomes []*database.CaseOutcome
	err := s.db.ReadTransaction(ctx, func(ctx context.Context, sess *database.Session) error {
		var err error
		outcomes, err = sess.ListCaseOutcomes(ctx)
		return err
	})
	if err != nil {
		return nil, translate(err, "case outcomes", false)
	}
	return outcomes, nil
}

// UpdateCaseOutcome applies patch to an existing case outcome.
func (s *Service) UpdateCaseOutcome(ctx context.Context, id int64, patch CaseOutcomePatch) (*database.CaseOutcome, error) {
	var outcome *database.CaseOutcome
	err := s.db.Transaction(ctx, func(ctx context.Context, sess *database.Session) error {
		current, err := sess.GetCaseOutcome(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return notFound("case outcome", id)
		}

		in := CaseOutcomeInput{
			Title:          current.Title,
			Summary:        current.Summary,
			Outcome:        current.Outcome,
			ResolvedOn:     current.ResolvedOn,
			LawyerID:       current.LawyerID,
			PracticeAreaID: current.PracticeAreaID,
		}
		applyValue(&in.Title, patch.Title)
		applyNullable(&in.Summary, patch.Summary)
		applyNullable(&in.Outcome, patch.Outcome)
		applyNullable(&in.ResolvedOn, patch.ResolvedOn)
		applyNullable(&in.LawyerID, patch.LawyerID)
		applyNullable(&in.PracticeAreaID, patch.PracticeAreaID)
		in.normalize()
		if err := s.check(&in); err != nil {
			return err
		}
		if err := in.references(ctx, sess); err != nil {
			return err
		}

		in.apply(current)
		if _, err := sess.UpdateCaseOutcome(ctx, current); err != nil {
			return err
		}

		outcome, err = sess.GetCaseOutcome(ctx, id)
		return err
	})
	if err != nil {
		return nil, translate(err, fmt.Sprintf("case outcome %d", id), false)
	}
	return outcome, nil
}

// DeleteCaseOutcome removes a case outcome. Nothing depends on case
// outcomes, so the delete policy does not apply.
func (s *Service) DeleteCaseOutcome(ctx context.Context, id int64) error {
	err := s.db.Transaction(ctx, func(ctx context.Context, sess *database.Session) error {
		deleted, err := sess.DeleteCaseOutcome(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return notFound("case outcome", id)
		}
		return nil
	})
	return translate(err, fmt.Sprintf("case outcome %d", id), true)
}
