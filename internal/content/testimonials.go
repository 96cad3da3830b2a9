package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/oapi-codegen/nullable"

	"github.com/denizhukuk/lawsite/internal/database"
)

// TestimonialInput creates a testimonial.
type TestimonialInput struct {
	ClientName string `json:"client_name" validate:"required,max=255"`
	Message    string `json:"message" validate:"required"`
	Rating     *int64 `json:"rating" validate:"omitempty,min=1,max=5"`
	LawyerID   *int64 `json:"lawyer_id"`
}

// TestimonialPatch updates the supplied fields of a testimonial.
type TestimonialPatch struct {
	ClientName *string                  `json:"client_name"`
	Message    *string                  `json:"message"`
	Rating     nullable.Nullable[int64] `json:"rating"`
	LawyerID   nullable.Nullable[int64] `json:"lawyer_id"`
}

func (in *TestimonialInput) normalize() {
	in.ClientName = strings.TrimSpace(in.ClientName)
	in.Message = strings.TrimSpace(in.Message)
}

func (in *TestimonialInput) apply(t *database.Testimonial) {
	t.ClientName = in.ClientName
	t.Message = in.Message
	t.Rating = in.Rating
	t.LawyerID = in.LawyerID
}

// CreateTestimonial stores a new testimonial.
func (s *Service) CreateTestimonial(ctx context.Context, in TestimonialInput) (*database.Testimonial, error) {
	in.normalize()
	if err := s.check(&in); err != nil {
		return nil, err
	}

	var testimonial *database.Testimonial
	err := s.db.Transaction(ctx, func(ctx context.Context, sess *database.Session) error {
		if err := requireLawyer(ctx, sess, in.LawyerID); err != nil {
			return err
		}

		created := &database.Testimonial{}
		in.apply(created)
		if err := sess.CreateTestimonial(ctx, created); err != nil {
			return err
		}

		var err error
		testimonial, err = sess.GetTestimonial(ctx, created.ID)
		return err
	})
	if err != nil {
		return nil, translate(err, "testimonial", false)
	}
	return testimonial, nil
}

// GetTestimonial returns a testimonial or ErrNotFound.
func (s *Service) GetTestimonial(ctx context.Context, id int64) (*database.Testimonial, error) {
	var testimonial *database.Testimonial
	err := s.db.ReadTransaction(ctx, func(ctx context.Context, sess *database.Session) error {
		var err error
		testimonial, err = sess.GetTestimonial(ctx, id)
		return err
	})
	if err != nil {
		return nil, translate(err, "testimonial", false)
	}
	if testimonial == nil {
		return nil, notFound("testimonial", id)
	}
	return testimonial, nil
}

// ListTestimonials returns every testimonial in insertion order.
func (s *Service) ListTestimonials(ctx context.Context) ([]*database.Testimonial, error) {
	var testimonials []*database.Testimonial
	err := s.db.ReadTransaction(ctx, func(ctx context.Context, sess *database.Session) error {
		var err error
		testimonials, err = sess.ListTestimonials(ctx)
		return err
	})
	if err != nil {
		return nil, translate(err, "testimonials", false)
	}
	return testimonials, nil
}

// UpdateTestimonial applies patch to an existing testimonial.
func (s *Service) UpdateTestimonial(ctx context.Context, id int64, patch TestimonialPatch) (*database.Testimonial, error) {
	var testimonial *database.Testimonial
	err := s.db.Transaction(ctx, func(ctx context.Context, sess *database.Session) error {
		current, err := sess.GetTestimonial(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return notFound("testimonial", id)
		}

		in := TestimonialInput{
			ClientName: current.ClientName,
			Message:    current.Message,
			Rating:     current.Rating,
			LawyerID:   current.LawyerID,
		}
		applyValue(&in.ClientName, patch.ClientName)
		applyValue(&in.Message, patch.Message)
		applyNullable(&in.Rating, patch.Rating)
		applyNullable(&in.LawyerID, patch.LawyerID)
		in.normalize()
		if err := s.check(&in); err != nil {
			return err
		}
		if err := requireLawyer(ctx, sess, in.LawyerID); err != nil {
			return err
		}

		in.apply(current)
		if _, err := sess.UpdateTestimonial(ctx, current); err != nil {
			return err
		}

		testimonial, err = sess.GetTestimonial(ctx, id)
		return err
	})
	if err != nil {
		return nil, translate(err, fmt.Sprintf("testimonial %d", id), false)
	}
	return testimonial, nil
}

// DeleteTestimonial removes a testimonial.
func (s *Service) DeleteTestimonial(ctx context.Context, id int64) error {
	err := s.db.Transaction(ctx, func(ctx context.Context, sess *database.Session) error {
		deleted, err := sess.DeleteTestimonial(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return notFound("testimonial", id)
		}
		return nil
	})
	return translate(err, fmt.Sprintf("testimonial %d", id), true)
}
