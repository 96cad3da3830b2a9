package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/oapi-codegen/nullable"
	"github.com/rs/zerolog/log"

	"github.com/denizhukuk/lawsite/internal/database"
)

// PracticeAreaInput creates a practice area.
type PracticeAreaInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
}

// PracticeAreaPatch updates the supplied fields of a practice area.
type PracticeAreaPatch struct {
	Name        *string                   `json:"name"`
	Description nullable.Nullable[string] `json:"description"`
}

func (in *PracticeAreaInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
}

// CreatePracticeArea stores a new practice area. A taken name yields ErrUniqueViolation.
func (s *Service) CreatePracticeArea(ctx context.Context, in PracticeAreaInput) (*database.PracticeArea, error) {
	in.normalize()
	if err := s.check(&in); err != nil {
		return nil, err
	}

	pa := &database.PracticeArea{Name: in.Name, Description: in.Description}
	err := s.db.Transaction(ctx, func(ctx context.Context, sess *database.Session) error {
		return sess.CreatePracticeArea(ctx, pa)
	})
	if err != nil {
		return nil, translate(err, fmt.Sprintf("practice area %q", in.Name), false)
	}
	return pa, nil
}

// GetPracticeArea returns a practice area or ErrNotFound.
func (s *Service) GetPracticeArea(ctx context.Context, id int64) (*database.PracticeArea, error) {
	var pa *database.PracticeArea
	err := s.db.ReadTransaction(ctx, func(ctx context.Context, sess *database.Session) error {
		var err error
		pa, err = sess.GetPracticeArea(ctx, id)
		return err
	})
	if err != nil {
		return nil, translate(err, "practice area", false)
	}
	if pa == nil {
		return nil, notFound("practice area", id)
	}
	return pa, nil
}

// ListPracticeAreas returns every practice area in insertion order.
func (s *Service) ListPracticeAreas(ctx context.Context) ([]*database.PracticeArea, error) {
	var areas []*database.PracticeArea
	err := s.db.ReadTransaction(ctx, func(ctx context.Context, sess *database.Session) error {
		var err error
		areas, err = sess.ListPracticeAreas(ctx)
		return err
	})
	if err != nil {
		return nil, translate(err, "practice areas", false)
	}
	return areas, nil
}

// UpdatePracticeArea applies patch to an existing practice area.
func (s *Service) UpdatePracticeArea(ctx context.Context, id int64, patch PracticeAreaPatch) (*database.PracticeArea, error) {
	var (
		pa   *database.PracticeArea
		what = fmt.Sprintf("practice area %d", id)
	)
	err := s.db.Transaction(ctx, func(ctx context.Context, sess *database.Session) error {
		current, err := sess.GetPracticeArea(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return notFound("practice area", id)
		}

		in := PracticeAreaInput{Name: current.Name, Description: current.Description}
		applyValue(&in.Name, patch.Name)
		applyNullable(&in.Description, patch.Description)
		in.normalize()
		if err := s.check(&in); err != nil {
			return err
		}

		current.Name = in.Name
		current.Description = in.Description
		what = fmt.Sprintf("practice area %q", in.Name)
		if _, err := sess.UpdatePracticeArea(ctx, current); err != nil {
			return err
		}
		pa = current
		return nil
	})
	if err != nil {
		return nil, translate(err, what, false)
	}
	return pa, nil
}

// DeletePracticeArea removes a practice area, treating its lawyers and case
// outcomes according to the delete policy.
func (s *Service) DeletePracticeArea(ctx context.Context, id int64) error {
	err := s.db.Transaction(ctx, func(ctx context.Context, sess *database.Session) error {
		switch s.policy {
		case Cascade:
			lawyers, err := sess.DeleteLawyersByPracticeArea(ctx, id)
			if err != nil {
				return err
			}
			outcomes, err := sess.DeleteCaseOutcomesByPracticeArea(ctx, id)
			if err != nil {
				return err
			}
			if lawyers > 0 || outcomes > 0 {
				log.Info().
					Int64("practice_area_id", id).
					Int64("lawyers", lawyers).
					Int64("case_outcomes", outcomes).
					Msg("Cascading practice area delete")
			}
		case Nullify:
			cleared, err := sess.ClearPracticeAreaReferences(ctx, id)
			if err != nil {
				return err
			}
			if cleared > 0 {
				log.Info().
					Int64("practice_area_id", id).
					Int64("references", cleared).
					Msg("Cleared practice area references")
			}
		}

		deleted, err := sess.DeletePracticeArea(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return notFound("practice area", id)
		}
		return nil
	})
	return translate(err, fmt.Sprintf("practice area %d", id), true)
}
