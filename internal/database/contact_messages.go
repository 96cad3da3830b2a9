package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ContactMessage is a message submitted through the website contact form.
type ContactMessage struct {
	ID                     int64     `json:"id"`
	SenderName             string    `json:"sender_name"`
	SenderEmail            string    `json:"sender_email"`
	Phone                  *string   `json:"phone"`
	PreferredContactMethod *string   `json:"preferred_contact_method"`
	Body                   string    `json:"body"`
	CreatedAt              time.Time `json:"created_at"`
}

const contactMessageColumns = `id, sender_name, sender_email, phone, preferred_contact_method, body, created_at`

// CreateContactMessage inserts a message and stamps created_at.
func (s *Session) CreateContactMessage(ctx context.Context, msg *ContactMessage) error {
	now := time.Now().UTC()
	err := s.queryRow(ctx, `
		INSERT INTO contact_messages (sender_name, sender_email, phone, preferred_contact_method, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`, msg.SenderName, msg.SenderEmail, msg.Phone, msg.PreferredContactMethod, msg.Body, now).Scan(&msg.ID)
	if err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}

	msg.CreatedAt = now
	return nil
}

// GetContactMessage retrieves a message by ID; nil when absent.
func (s *Session) GetContactMessage(ctx context.Context, id int64) (*ContactMessage, error) {
	msg, err := scanContactMessage(s.queryRow(ctx, `SELECT `+contactMessageColumns+` FROM contact_messages WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact message: %w", err)
	}
	return msg, nil
}

// ListContactMessages returns every message in insertion order.
func (s *Session) ListContactMessages(ctx context.Context) ([]*ContactMessage, error) {
	rows, err := s.query(ctx, `SELECT `+contactMessageColumns+` FROM contact_messages ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer rows.Close()

	messages := []*ContactMessage{}
	for rows.Next() {
		msg, err := scanContactMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// UpdateContactMessage writes every mutable column; created_at never
// changes. It reports false when no row has msg.ID.
func (s *Session) UpdateContactMessage(ctx context.Context, msg *ContactMessage) (bool, error) {
	result, err := s.exec(ctx, `
		UPDATE contact_messages
		SET sender_name = ?, sender_email = ?, phone = ?, preferred_contact_method = ?, body = ?
		WHERE id = ?
	`, msg.SenderName, msg.SenderEmail, msg.Phone, msg.PreferredContactMethod, msg.Body, msg.ID)
	if err != nil {
		return false, fmt.Errorf("failed to update contact message: %w", err)
	}
	return affected(result)
}

// DeleteContactMessage removes a message. It reports false when absent.
func (s *Session) DeleteContactMessage(ctx context.Context, id int64) (bool, error) {
	result, err := s.exec(ctx, "DELETE FROM contact_messages WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete contact message: %w", err)
	}
	return affected(result)
}

func scanContactMessage(r row) (*ContactMessage, error) {
	var (
		msg                    ContactMessage
		phone                  sql.NullString
		preferredContactMethod sql.NullString
	)

	if err := r.Scan(&msg.ID, &msg.SenderName, &msg.SenderEmail, &phone, &preferredContactMethod, &msg.Body, &msg.CreatedAt); err != nil {
		return nil, err
	}

	msg.Phone = nullStringToPtr(phone)
	msg.PreferredContactMethod = nullStringToPtr(preferredContactMethod)
	return &msg, nil
}
