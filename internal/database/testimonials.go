package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Testimonial is a client quote shown on the website.
type Testimonial struct {
	ID         int64     `json:"id"`
	ClientName string    `json:"client_name"`
	Message    string    `json:"message"`
	Rating     *int64    `json:"rating"`
	LawyerID   *int64    `json:"lawyer_id"`
	LawyerName *string   `json:"lawyer_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

const testimonialSelect = `
	SELECT t.id, t.client_name, t.message, t.rating, t.lawyer_id, l.name, t.created_at, t.updated_at
	FROM testimonials t
	LEFT JOIN lawyers l ON l.id = t.lawyer_id
`

// CreateTestimonial inserts a testimonial and fills in its generated ID and timestamps.
func (s *Session) CreateTestimonial(ctx context.Context, t *Testimonial) error {
	now := time.Now().UTC()
	err := s.queryRow(ctx, `
		INSERT INTO testimonials (client_name, message, rating, lawyer_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`, t.ClientName, t.Message, t.Rating, t.LawyerID, now, now).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("failed to create testimonial: %w", err)
	}

	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

// GetTestimonial retrieves a testimonial by ID; nil when absent.
func (s *Session) GetTestimonial(ctx context.Context, id int64) (*Testimonial, error) {
	t, err := scanTestimonial(s.queryRow(ctx, testimonialSelect+` WHERE t.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get testimonial: %w", err)
	}
	return t, nil
}

// ListTestimonials returns every testimonial in insertion order.
func (s *Session) ListTestimonials(ctx context.Context) ([]*Testimonial, error) {
	rows, err := s.query(ctx, testimonialSelect+` ORDER BY t.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	defer rows.Close()

	testimonials := []*Testimonial{}
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan testimonial: %w", err)
		}
		testimonials = append(testimonials, t)
	}
	return testimonials, rows.Err()
}

// UpdateTestimonial writes every mutable column. It reports false when no
// row has t.ID.
func (s *Session) UpdateTestimonial(ctx context.Context, t *Testimonial) (bool, error) {
	now := time.Now().UTC()
	result, err := s.exec(ctx, `
		UPDATE testimonials
		SET client_name = ?, message = ?, rating = ?, lawyer_id = ?, updated_at = ?
		WHERE id = ?
	`, t.ClientName, t.Message, t.Rating, t.LawyerID, now, t.ID)
	if err != nil {
		return false, fmt.Errorf("failed to update testimonial: %w", err)
	}
	if found, err := affected(result); !found || err != nil {
		return found, err
	}
	t.UpdatedAt = now
	return true, nil
}

// DeleteTestimonial removes a testimonial. It reports false when absent.
func (s *Session) DeleteTestimonial(ctx context.Context, id int64) (bool, error) {
	result, err := s.exec(ctx, "DELETE FROM testimonials WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete testimonial: %w", err)
	}
	return affected(result)
}

func scanTestimonial(r row) (*Testimonial, error) {
	var (
		t          Testimonial
		rating     sql.NullInt64
		lawyerID   sql.NullInt64
		lawyerName sql.NullString
	)

	if err := r.Scan(&t.ID, &t.ClientName, &t.Message, &rating, &lawyerID, &lawyerName, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}

	t.Rating = nullInt64ToPtr(rating)
	t.LawyerID = nullInt64ToPtr(lawyerID)
	t.LawyerName = nullStringToPtr(lawyerName)
	return &t, nil
}
