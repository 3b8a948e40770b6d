package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mnavarro-dev/storefront-backend/pkg/db/models"
	"github.com/mnavarro-dev/storefront-backend/pkg/enums"
	pkgerrors "github.com/mnavarro-dev/storefront-backend/pkg/errors"
	"github.com/mnavarro-dev/storefront-backend/pkg/types"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type notifier interface {
	Notify(ctx context.Context, sessionID uuid.UUID, kind enums.AlertKind, message string)
}

// Service exposes the cart ledger operations backed by per-session persistence.
type Service interface {
	Get(ctx context.Context, sessionID uuid.UUID) (Snapshot, error)
	Add(ctx context.Context, sessionID uuid.UUID, product types.Product) (Snapshot, error)
	SetOfferPrice(ctx context.Context, sessionID uuid.UUID, productID string, price float64) (Snapshot, error)
	Remove(ctx context.Context, sessionID uuid.UUID, productID string) (Snapshot, error)
	Clear(ctx context.Context, sessionID uuid.UUID) error
}

type service struct {
	repo     Repository
	tx       txRunner
	notifier notifier
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, tx txRunner, notifier notifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{repo: repo, tx: tx, notifier: notifier}, nil
}

func (s *service) Get(ctx context.Context, sessionID uuid.UUID) (Snapshot, error) {
	ledger, err := s.load(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return ledger.Snapshot(), nil
}

func (s *service) Add(ctx context.Context, sessionID uuid.UUID, product types.Product) (Snapshot, error) {
	if sessionID == uuid.Nil {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if product.ID == "" {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if product.Price < 0 {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "product price cannot be negative")
	}

	snapshot, err := s.mutate(ctx, sessionID, func(ledger *Ledger) {
		ledger.Add(product)
	})
	if err != nil {
		return Snapshot{}, err
	}

	s.notifier.Notify(ctx, sessionID, enums.AlertKindSuccess, fmt.Sprintf("%s added to cart", product.Name))
	return snapshot, nil
}

func (s *service) SetOfferPrice(ctx context.Context, sessionID uuid.UUID, productID string, price float64) (Snapshot, error) {
	if sessionID == uuid.Nil {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return s.mutate(ctx, sessionID, func(ledger *Ledger) {
		ledger.SetOfferPrice(productID, price)
	})
}

func (s *service) Remove(ctx context.Context, sessionID uuid.UUID, productID string) (Snapshot, error) {
	if sessionID == uuid.Nil {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return s.mutate(ctx, sessionID, func(ledger *Ledger) {
		ledger.Remove(productID)
	})
}

func (s *service) Clear(ctx context.Context, sessionID uuid.UUID) error {
	if sessionID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.repo.DeleteForSession(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) load(ctx context.Context, sessionID uuid.UUID) (*Ledger, error) {
	rows, err := s.repo.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return NewLedger(linesFromModels(rows)), nil
}

func (s *service) mutate(ctx context.Context, sessionID uuid.UUID, apply func(*Ledger)) (Snapshot, error) {
	var snapshot Snapshot
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		rows, err := txRepo.FindBySession(ctx, sessionID)
		if err != nil {
			return err
		}
		ledger := NewLedger(linesFromModels(rows))
		apply(ledger)
		if err := txRepo.ReplaceForSession(ctx, sessionID, linesToModels(sessionID, ledger.Lines())); err != nil {
			return err
		}
		snapshot = ledger.Snapshot()
		return nil
	})
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return snapshot, nil
}

func linesFromModels(rows []models.CartLine) []Line {
	lines := make([]Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, Line{
			Product: types.Product{
				ID:       row.ProductID,
				Name:     row.Name,
				Price:    row.Price,
				Category: row.Category,
				Image:    row.Image,
			},
			Quantity:   row.Quantity,
			OfferPrice: row.OfferPrice,
		})
	}
	return lines
}

func linesToModels(sessionID uuid.UUID, lines []Line) []models.CartLine {
	rows := make([]models.CartLine, 0, len(lines))
	for i, line := range lines {
		rows = append(rows, models.CartLine{
			SessionID:  sessionID,
			ProductID:  line.Product.ID,
			Name:       line.Product.Name,
			Price:      line.Product.Price,
			Category:   line.Product.Category,
			Image:      line.Product.Image,
			Quantity:   line.Quantity,
			OfferPrice: line.OfferPrice,
			Position:   i,
		})
	}
	return rows
}
