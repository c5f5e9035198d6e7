package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mpetrovskiy/reward-service/internal/domain"
	"github.com/mpetrovskiy/reward-service/internal/dto"
	"github.com/mpetrovskiy/reward-service/internal/repository"
	"go.uber.org/zap"
)

type paymentService struct {
	repos   *repository.Repositories
	tx      Transactor
	gateway PaymentGateway
	logger  *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(repos *repository.Repositories, tx Transactor, gateway PaymentGateway, logger *zap.Logger) PaymentService {
	return &paymentService{
		repos:   repos,
		tx:      tx,
		gateway: gateway,
		logger:  logger,
	}
}

// CreateCustomer registers the user with the payment provider. A user has at
// most one provider customer.
func (s *paymentService) CreateCustomer(ctx context.Context, userID string, req *dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	user, err := s.repos.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.StripeCustomerID != nil {
		return nil, fmt.Errorf("customer already exists: %w", ErrConflict)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = user.FullName()
	}

	customerID, err := s.gateway.CreateCustomer(ctx, name, user.Email)
	if err != nil {
		return nil, fmt.Errorf("payment provider rejected customer creation: %w", ErrExternalService)
	}

	err = s.tx.Transact(ctx, func(tx *repository.Repositories) error {
		current, err := tx.User.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if current.StripeCustomerID != nil {
			return fmt.Errorf("customer already exists: %w", ErrConflict)
		}
		current.StripeCustomerID = &customerID
		return tx.User.Update(ctx, current)
	})
	if err != nil {
		return nil, err
	}

	return &dto.CustomerResponse{StripeCustomerID: customerID}, nil
}

// AttachCard exchanges a provider card token for a stored payment method.
func (s *paymentService) AttachCard(ctx context.Context, userID string, req *dto.AddCardRequest) (*dto.CardResponse, error) {
	if strings.TrimSpace(req.CardToken) == "" {
		return nil, fmt.Errorf("card token is required: %w", ErrValidation)
	}

	user, err := s.repos.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.StripeCustomerID == nil {
		return nil, fmt.Errorf("no payment customer for user, create one first: %w", ErrNotFound)
	}

	details, err := s.gateway.AttachCard(ctx, *user.StripeCustomerID, req.CardToken)
	if err != nil {
		return nil, fmt.Errorf("payment provider rejected card: %w", ErrExternalService)
	}

	card := &domain.Card{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		StripeCardID: details.PaymentMethodID,
		Last4:        details.Last4,
		ExpMonth:     details.ExpMonth,
		ExpYear:      details.ExpYear,
		Brand:        details.Brand,
	}

	if err := s.repos.Card.Create(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to store card: %w", err)
	}

	return &dto.CardResponse{
		ID:       card.ID,
		Last4:    card.Last4,
		ExpMonth: card.ExpMonth,
		ExpYear:  card.ExpYear,
		Brand:    card.Brand,
	}, nil
}

// Charge runs a payment against a stored card. Transaction metadata is
// persisted for failed attempts too, so the ledger mirrors everything the
// provider saw.
func (s *paymentService) Charge(ctx context.Context, userID string, req *dto.ChargeRequest) (*dto.ChargeResponse, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", ErrValidation)
	}

	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "usd"
	}

	user, err := s.repos.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.StripeCustomerID == nil {
		return nil, fmt.Errorf("no payment customer for user, create one first: %w", ErrNotFound)
	}

	card, err := s.repos.Card.GetByID(ctx, req.CardID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("card not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	if card.UserID != user.ID {
		return nil, fmt.Errorf("card not found: %w", ErrNotFound)
	}

	result, chargeErr := s.gateway.Charge(ctx, *user.StripeCustomerID, card.StripeCardID, req.Amount, currency)
	if result != nil {
		card.TransactionID = &result.TransactionID
		card.Amount = &req.Amount
		card.Status = &result.Status
		if result.ClientSecret != "" {
			card.ClientSecret = &result.ClientSecret
		}
		if err := s.repos.Card.UpdateTransaction(ctx, card); err != nil {
			s.logger.Error("failed to persist transaction metadata",
				zap.String("card_id", card.ID),
				zap.Error(err),
			)
		}
	}

	if chargeErr != nil {
		return nil, fmt.Errorf("payment provider declined charge: %w", ErrExternalService)
	}

	return &dto.ChargeResponse{
		TransactionID: result.TransactionID,
		Amount:        req.Amount,
		Currency:      currency,
		Status:        result.Status,
		ClientSecret:  result.ClientSecret,
	}, nil
}
