package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/oapi-codegen/nullable"
	"github.com/rs/zerolog/log"

	"github.com/denizhukuk/lawsite/internal/database"
)

// ContactMessageInput creates a contact message.
type ContactMessageInput struct {
	SenderName             string  `json:"sender_name" validate:"required,max=255"`
	SenderEmail            string  `json:"sender_email" validate:"required,email,max=255"`
	Phone                  *string `json:"phone" validate:"omitempty,max=50"`
	PreferredContactMethod *string `json:"preferred_contact_method" validate:"omitempty,max=50"`
	Body                   string  `json:"body" validate:"required"`
}

// ContactMessagePatch updates the supplied fields of a contact message.
type ContactMessagePatch struct {
	SenderName             *string                   `json:"sender_name"`
	SenderEmail            *string                   `json:"sender_email"`
	Phone                  nullable.Nullable[string] `json:"phone"`
	PreferredContactMethod nullable.Nullable[string] `json:"preferred_contact_method"`
	Body                   *string                   `json:"body"`
}

func (in *ContactMessageInput) normalize() {
	in.SenderName = strings.TrimSpace(in.SenderName)
	in.SenderEmail = strings.TrimSpace(in.SenderEmail)
	in.Body = strings.TrimSpace(in.Body)
	in.Phone = trimmed(in.Phone)
	in.PreferredContactMethod = trimmed(in.PreferredContactMethod)
}

func (in *ContactMessageInput) apply(m *database.ContactMessage) {
	m.SenderName = in.SenderName
	m.SenderEmail = in.SenderEmail
	m.Phone = in.Phone
	m.PreferredContactMethod = in.PreferredContactMethod
	m.Body = in.Body
}

// CreateContactMessage stores a message from the website contact form.
func (s *Service) CreateContactMessage(ctx context.Context, in ContactMessageInput) (*database.ContactMessage, error) {
	in.normalize()
	if err := s.check(&in); err != nil {
		return nil, err
	}

	msg := &database.ContactMessage{}
	in.apply(msg)
	err := s.db.Transaction(ctx, func(ctx context.Context, sess *database.Session) error {
		return sess.CreateContactMessage(ctx, msg)
	})
	if err != nil {
		return nil, translate(err, "contact message", false)
	}

	log.Info().Int64("id", msg.ID).Msg("Contact message received")
	return msg, nil
}

// GetContactMessage returns a contact message or ErrNotFound.
func (s *Service) GetContactMessage(ctx context.Context, id int64) (*database.ContactMessage, error) {
	var msg *database.ContactMessage
	err := s.db.ReadTransaction(ctx, func(ctx context.Context, sess *database.Session) error {
		var err error
		msg, err = sess.GetContactMessage(ctx, id)
		return err
	})
	if err != nil {
		return nil, translate(err, "contact message", false)
	}
	if msg == nil {
		return nil, notFound("contact message", id)
	}
	return msg, nil
}

// ListContactMessages returns every contact message in insertion order.
func (s *Service) ListContactMessages(ctx context.Context) ([]*database.ContactMessage, error) {
	var messages []*database.ContactMessage
	err := s.db.ReadTransaction(ctx, func(ctx context.Context, sess *database.Session) error {
		var err error
		messages, err = sess.ListContactMessages(ctx)
		return err
	})
	if err != nil {
		return nil, translate(err, "contact messages", false)
	}
	return messages, nil
}

// UpdateContactMessage applies patch to an existing contact message.
func (s *Service) UpdateContactMessage(ctx context.Context, id int64, patch ContactMessagePatch) (*database.ContactMessage, error) {
	var msg *database.ContactMessage
	err := s.db.Transaction(ctx, func(ctx context.Context, sess *database.Session) error {
		current, err := sess.GetContactMessage(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return notFound("contact message", id)
		}

		in := ContactMessageInput{
			SenderName:             current.SenderName,
			SenderEmail:            current.SenderEmail,
			Phone:                  current.Phone,
			PreferredContactMethod: current.PreferredContactMethod,
			Body:                   current.Body,
		}
		applyValue(&in.SenderName, patch.SenderName)
		applyValue(&in.SenderEmail, patch.SenderEmail)
		applyNullable(&in.Phone, patch.Phone)
		applyNullable(&in.PreferredContactMethod, patch.PreferredContactMethod)
		applyValue(&in.Body, patch.Body)
		in.normalize()
		if err := s.check(&in); err != nil {
			return err
		}

		in.apply(current)
		if _, err := sess.UpdateContactMessage(ctx, current); err != nil {
			return err
		}
		msg = current
		return nil
	})
	if err != nil {
		return nil, translate(err, fmt.Sprintf("contact message %d", id), false)
	}
	return msg, nil
}

// DeleteContactMessage removes a contact message.
func (s *Service) DeleteContactMessage(ctx context.Context, id int64) error {
	err := s.db.Transaction(ctx, func(ctx context.Context, sess *database.Session) error {
		deleted, err := sess.DeleteContactMessage(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return notFound("contact message", id)
		}
		return nil
	})
	return translate(err, fmt.Sprintf("contact message %d", id), true)
}
