package service

import (
	"context"
	"errors"
	"fmt"

	"stocktrack/internal/model"
	"stocktrack/internal/repository"
	"stocktrack/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Actor identifies the authenticated user performing a mutation. Built from
// JWT claims by the handler; services trust it as already authorized.
type Actor struct {
	ID       uuid.UUID
	Username string
	FullName string
	Role     string
}

// MovementMeta carries the optional fields of a ledger entry.
type MovementMeta struct {
	RecipientName  *string
	DocumentNumber *string
	Comment        string
}

// StockService is the only component allowed to change a material's quantity.
// Every mutation is one transaction: row-lock the material, re-check
// availability, apply the delta, append the ledger entry. The notification
// fan-out happens after commit and can never fail the mutation.
type StockService interface {
	ApplyMovement(ctx context.Context, materialID uuid.UUID, direction string, quantity decimal.Decimal, actor Actor, meta MovementMeta) (*model.StockMovement, error)
	// ApplyMovementTx is called within an enclosing transaction (supply
	// intake) — requires a live *gorm.DB tx and sends no notification.
	ApplyMovementTx(tx *gorm.DB, materialID uuid.UUID, direction string, quantity decimal.Decimal, actor Actor, meta MovementMeta) (*model.StockMovement, error)
	History(ctx context.Context, materialID uuid.UUID, limit int) ([]model.StockMovement, error)
}

type stockService struct {
	materials  repository.MaterialRepository
	movements  repository.MovementRepository
	dispatcher *worker.Dispatcher
}

func NewStockService(materials repository.MaterialRepository, movements repository.MovementRepository, dispatcher *worker.Dispatcher) StockService {
	return &stockService{materials: materials, movements: movements, dispatcher: dispatcher}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *stockService) ApplyMovement(ctx context.Context, materialID uuid.UUID, direction string, quantity decimal.Decimal, actor Actor, meta MovementMeta) (*model.StockMovement, error) {
	var mov *model.StockMovement
	txErr := runTx(ctx, s.materials.DB(), func(tx *gorm.DB) error {
		var err error
		mov, err = s.ApplyMovementTx(tx, materialID, direction, quantity, actor, meta)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	// Post-commit fan-out — best-effort, a failure here never fails the
	// movement that already committed.
	s.notifyMovement(ctx, mov, actor)
	return mov, nil
}

func (s *stockService) ApplyMovementTx(tx *gorm.DB, materialID uuid.UUID, direction string, quantity decimal.Decimal, actor Actor, meta MovementMeta) (*model.StockMovement, error) {
	if !quantity.IsPositive() {
		return nil, NewValidationError("quantity", "must be greater than zero")
	}
	if direction != model.DirectionIn && direction != model.DirectionOut {
		return nil, NewValidationError("direction", "must be \"in\" or \"out\"")
	}

	// Re-read under FOR UPDATE: the availability check below must see the
	// latest committed quantity, not a snapshot taken before the lock.
	material, err := s.materials.FindByIDForUpdateTx(tx, materialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	delta := quantity
	if direction == model.DirectionOut {
		if material.Quantity.LessThan(quantity) {
			return nil, ErrInsufficientStock
		}
		delta = quantity.Neg()
	}

	if err := s.materials.AdjustQuantityTx(tx, materialID, delta); err != nil {
		return nil, err
	}

	mov := &model.StockMovement{
		MaterialID:     materialID,
		Direction:      direction,
		Quantity:       quantity,
		QuantityBefore: material.Quantity,
		QuantityAfter:  material.Quantity.Add(delta),
		UserID:         actor.ID,
		RecipientName:  meta.RecipientName,
		DocumentNumber: meta.DocumentNumber,
		Comment:        meta.Comment,
	}
	if err := s.movements.CreateTx(tx, mov); err != nil {
		return nil, err
	}

	mov.Material = material
	return mov, nil
}

func (s *stockService) History(ctx context.Context, materialID uuid.UUID, limit int) ([]model.StockMovement, error) {
	if _, err := s.materials.FindByID(ctx, materialID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.movements.History(ctx, materialID, limit)
}

// movementNotification builds the fan-out payload for a committed movement.
// The material arrives with its unit preloaded from the locked read.
func movementNotification(mov *model.StockMovement, actor Actor) worker.NotificationJobPayload {
	materialName := ""
	unitShort := ""
	if mov.Material != nil {
		materialName = mov.Material.Name
		if mov.Material.Unit != nil {
			unitShort = " " + mov.Material.Unit.ShortName
		}
	}

	title := "Material received"
	ntype := model.NotificationMaterial
	verb := "received"
	if mov.Direction == model.DirectionOut {
		title = "Material written off"
		ntype = model.NotificationWriteoff
		verb = "wrote off"
	}

	return worker.NotificationJobPayload{
		Roles:    []string{model.RoleAdmin, model.RoleManager},
		SenderID: actor.ID.String(),
		Title:    title,
		Message:  fmt.Sprintf("%s %s %s%s of %q", actor.FullName, verb, mov.Quantity.String(), unitShort, materialName),
		Type:     ntype,
	}
}

func (s *stockService) notifyMovement(ctx context.Context, mov *model.StockMovement, actor Actor) {
	if s.dispatcher == nil || mov == nil {
		return
	}
	if err := s.dispatcher.EnqueueNotification(ctx, movementNotification(mov, actor)); err != nil {
		log.Error().Err(err).
			Str("material_id", mov.MaterialID.String()).
			Str("direction", mov.Direction).
			Msg("failed to enqueue movement notification")
	}
}
