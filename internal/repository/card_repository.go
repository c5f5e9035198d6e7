package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mpetrovskiy/reward-service/internal/domain"
)

// cardRepository implements CardRepository interface
type cardRepository struct {
	q Querier
}

// NewCardRepository creates a new card repository
func NewCardRepository(q Querier) CardRepository {
	return &cardRepository{q: q}
}

// Create stores a newly attached card.
func (r *cardRepository) Create(ctx context.Context, card *domain.Card) error {
	query := `
		INSERT INTO cards (id, user_id, stripe_card_id, last4, exp_month, exp_year, brand, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if card.ID == "" {
		card.ID = uuid.New().String()
	}
	now := time.Now()
	if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}
	card.UpdatedAt = now

	_, err := r.q.ExecContext(ctx, query,
		card.ID,
		card.UserID,
		card.StripeCardID,
		card.Last4,
		card.ExpMonth,
		card.ExpYear,
		card.Brand,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}

	return nil
}

// GetByID retrieves a card by ID
func (r *cardRepository) GetByID(ctx context.Context, id string) (*domain.Card, error) {
	query := `
		SELECT id, user_id, stripe_card_id, last4, exp_month, exp_year, brand,
			transaction_id, amount, status, client_secret, created_at, updated_at
		FROM cards
		WHERE id = $1
	`

	card := &domain.Card{}
	var (
		transactionID sql.NullString
		amount        sql.NullInt64
		status        sql.NullString
		clientSecret  sql.NullString
	)

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&card.ID,
		&card.UserID,
		&card.StripeCardID,
		&card.Last4,
		&card.ExpMonth,
		&card.ExpYear,
		&card.Brand,
		&transactionID,
		&amount,
		&status,
		&clientSecret,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("card with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get card by id: %w", err)
	}

	if transactionID.Valid {
		card.TransactionID = &transactionID.String
	}
	if amount.Valid {
		card.Amount = &amount.Int64
	}
	if status.Valid {
		card.Status = &status.String
	}
	if clientSecret.Valid {
		card.ClientSecret = &clientSecret.String
	}

	return card, nil
}

// ListByUser returns a user's stored cards, newest first.
func (r *cardRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Card, error) {
	query := `
		SELECT id, user_id, stripe_card_id, last4, exp_month, exp_year, brand,
			transaction_id, amount, status, client_secret, created_at, updated_at
		FROM cards
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []*domain.Card
	for rows.Next() {
		card := &domain.Card{}
		var (
			transactionID sql.NullString
			amount        sql.NullInt64
			status        sql.NullString
			clientSecret  sql.NullString
		)
		err := rows.Scan(
			&card.ID,
			&card.UserID,
			&card.StripeCardID,
			&card.Last4,
			&card.ExpMonth,
			&card.ExpYear,
			&card.Brand,
			&transactionID,
			&amount,
			&status,
			&clientSecret,
			&card.CreatedAt,
			&card.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		if transactionID.Valid {
			card.TransactionID = &transactionID.String
		}
		if amount.Valid {
			card.Amount = &amount.Int64
		}
		if status.Valid {
			card.Status = &status.String
		}
		if clientSecret.Valid {
			card.ClientSecret = &clientSecret.String
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}

	return cards, nil
}

// UpdateTransaction persists the outcome of a charge attempt against the
// card record, failed attempts included.
func (r *cardRepository) UpdateTransaction(ctx context.Context, card *domain.Card) error {
	query := `
		UPDATE cards
		SET transaction_id = $2, amount = $3, status = $4, client_secret = $5, updated_at = $6
		WHERE id = $1
	`

	card.UpdatedAt = time.Now()

	result, err := r.q.ExecContext(ctx, query,
		card.ID,
		card.TransactionID,
		card.Amount,
		card.Status,
		card.ClientSecret,
		card.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update card transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("card with id %s not found: %w", card.ID, ErrNotFound)
	}

	return nil
}
