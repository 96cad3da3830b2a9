package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/oapi-codegen/nullable"
	"github.com/rs/zerolog/log"

	"github.com/denizhukuk/lawsite/internal/database"
)

// LawyerInput creates a lawyer profile.
type LawyerInput struct {
	Name            string             `json:"name" validate:"required,max=255"`
	Title           *string            `json:"title" validate:"omitempty,max=255"`
	Bio             *string            `json:"bio"`
	Email           *string            `json:"email" validate:"omitempty,email,max=255"`
	Phone           *string            `json:"phone" validate:"omitempty,max=50"`
	ExperienceYears *int64             `json:"experience_years" validate:"omitempty,min=0"`
	PhotoURL        *string            `json:"photo_url" validate:"omitempty,max=512"`
	Languages       database.Languages `json:"languages" validate:"omitempty,dive,required,max=64"`
	PracticeAreaID  *int64             `json:"practice_area_id"`
}

// LawyerPatch updates the supplied fields of a lawyer profile. Nullable
// fields distinguish an explicit null, which clears the column, from absence.
type LawyerPatch struct {
	Name            *string                   `json:"name"`
	Title           nullable.Nullable[string] `json:"title"`
	Bio             nullable.Nullable[string] `json:"bio"`
	Email           nullable.Nullable[string] `json:"email"`
	Phone           nullable.Nullable[string] `json:"phone"`
	ExperienceYears nullable.Nullable[int64]  `json:"experience_years"`
	PhotoURL        nullable.Nullable[string] `json:"photo_url"`
	Languages       *database.Languages       `json:"languages"`
	PracticeAreaID  nullable.Nullable[int64]  `json:"practice_area_id"`
}

func (in *LawyerInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = trimmed(in.Email)
	if in.Email != nil {
		lower := strings.ToLower(*in.Email)
		in.Email = &lower
	}
	if in.Languages == nil {
		in.Languages = database.Languages{}
	}
}

func (in *LawyerInput) apply(l *database.LawyerProfile) {
	l.Name = in.Name
	l.Title = in.Title
	l.Bio = in.Bio
	l.Email = in.Email
	l.Phone = in.Phone
	l.ExperienceYears = in.ExperienceYears
	l.PhotoURL = in.PhotoURL
	l.Languages = in.Languages
	l.PracticeAreaID = in.PracticeAreaID
}

func lawyerInput(l *database.LawyerProfile) LawyerInput {
	return LawyerInput{
		Name:            l.Name,
		Title:           l.Title,
		Bio:             l.Bio,
		Email:           l.Email,
		Phone:           l.Phone,
		ExperienceYears: l.ExperienceYears,
		PhotoURL:        l.PhotoURL,
		Languages:       l.Languages,
		PracticeAreaID:  l.PracticeAreaID,
	}
}

func lawyerLabel(in LawyerInput) string {
	if in.Email != nil {
		return fmt.Sprintf("lawyer with email %q", *in.Email)
	}
	return fmt.Sprintf("lawyer %q", in.Name)
}

// CreateLawyer stores a new lawyer profile. A taken email yields
// ErrUniqueViolation and an unknown practice area ErrInvalidReference.
func (s *Service) CreateLawyer(ctx context.Context, in LawyerInput) (*database.LawyerProfile, error) {
	in.normalize()
	if err := s.check(&in); err != nil {
		return nil, err
	}

	var lawyer *database.LawyerProfile
	err := s.db.Transaction(ctx, func(ctx context.Context, sess *database.Session) error {
		if err := requirePracticeArea(ctx, sess, in.PracticeAreaID); err != nil {
			return err
		}

		created := &database.LawyerProfile{}
		in.apply(created)
		if err := sess.CreateLawyer(ctx, created); err != nil {
			return err
		}

		var err error
		lawyer, err = sess.GetLawyer(ctx, created.ID)
		return err
	})
	if err != nil {
		return nil, translate(err, lawyerLabel(in), false)
	}
	return lawyer, nil
}

// GetLawyer returns a lawyer profile or ErrNotFound.
func (s *Service) GetLawyer(ctx context.Context, id int64) (*database.LawyerProfile, error) {
	var lawyer *database.LawyerProfile
	err := s.db.ReadTransaction(ctx, func(ctx context.Context, sess *database.Session) error {
		var err error
		lawyer, err = sess.GetLawyer(ctx, id)
		return err
	})
	if err != nil {
		return nil, translate(err, "lawyer", false)
	}
	if lawyer == nil {
		return nil, notFound("lawyer", id)
	}
	return lawyer, nil
}

// ListLawyers returns the lawyers matching filter in insertion order.
func (s *Service) ListLawyers(ctx context.Context, filter database.LawyerFilter) ([]*database.LawyerProfile, error) {
	var lawyers []*database.LawyerProfile
	err := s.db.ReadTransaction(ctx, func(ctx context.Context, sess *database.Session) error {
		var err error
		lawyers, err = sess.ListLawyers(ctx, filter)
		return err
	})
	if err != nil {
		return nil, translate(err, "lawyers", false)
	}
	return lawyers, nil
}

// UpdateLawyer applies patch to an existing lawyer profile.
func (s *Service) UpdateLawyer(ctx context.Context, id int64, patch LawyerPatch) (*database.LawyerProfile, error) {
	var (
		lawyer *database.LawyerProfile
		what   = fmt.Sprintf("lawyer %d", id)
	)
	err := s.db.Transaction(ctx, func(ctx context.Context, sess *database.Session) error {
		current, err := sess.GetLawyer(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return notFound("lawyer", id)
		}

		in := lawyerInput(current)
		applyValue(&in.Name, patch.Name)
		applyNullable(&in.Title, patch.Title)
		applyNullable(&in.Bio, patch.Bio)
		applyNullable(&in.Email, patch.Email)
		applyNullable(&in.Phone, patch.Phone)
		applyNullable(&in.ExperienceYears, patch.ExperienceYears)
		applyNullable(&in.PhotoURL, patch.PhotoURL)
		applyValue(&in.Languages, patch.Languages)
		applyNullable(&in.PracticeAreaID, patch.PracticeAreaID)
		in.normalize()
		if err := s.check(&in); err != nil {
			return err
		}
		if err := requirePracticeArea(ctx, sess, in.PracticeAreaID); err != nil {
			return err
		}

		what = lawyerLabel(in)
		in.apply(current)
		if _, err := sess.UpdateLawyer(ctx, current); err != nil {
			return err
		}

		lawyer, err = sess.GetLawyer(ctx, id)
		return err
	})
	if err != nil {
		return nil, translate(err, what, false)
	}
	return lawyer, nil
}

// DeleteLawyer removes a lawyer profile, treating their case outcomes and
// testimonials according to the delete policy.
func (s *Service) DeleteLawyer(ctx context.Context, id int64) error {
	err := s.db.Transaction(ctx, func(ctx context.Context, sess *database.Session) error {
		switch s.policy {
		case Cascade:
			n, err := sess.DeleteLawyerDependents(ctx, id)
			if err != nil {
				return err
			}
			if n > 0 {
				log.Info().Int64("lawyer_id", id).Int64("dependents", n).Msg("Cascading lawyer delete")
			}
		case Nullify:
			n, err := sess.ClearLawyerReferences(ctx, id)
			if err != nil {
				return err
			}
			if n > 0 {
				log.Info().Int64("lawyer_id", id).Int64("references", n).Msg("Cleared lawyer references")
			}
		}

		deleted, err := sess.DeleteLawyer(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return notFound("lawyer", id)
		}
		return nil
	})
	return translate(err, fmt.Sprintf("lawyer %d", id), true)
}
