package service

import (
	"context"
	"errors"
	"fmt"

	"stocktrack/internal/dto"
	"stocktrack/internal/model"
	"stocktrack/internal/repository"
	"stocktrack/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MaterialService interface {
	Create(ctx context.Context, req dto.CreateMaterialRequest, actor Actor) (*dto.MaterialResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.MaterialResponse, error)
	List(ctx context.Context) ([]dto.MaterialResponse, error)
	ListLowStock(ctx context.Context) ([]dto.MaterialResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateMaterialRequest) (*dto.MaterialResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	Receive(ctx context.Context, id uuid.UUID, req dto.ReceiptRequest, actor Actor) (*dto.MovementResponse, error)
	Writeoff(ctx context.Context, id uuid.UUID, req dto.WriteoffRequest, actor Actor) (*dto.MovementResponse, error)
	Movements(ctx context.Context, id uuid.UUID, limit int) ([]dto.MovementResponse, error)
}

type materialService struct {
	repo       repository.MaterialRepository
	units      repository.UnitRepository
	movements  repository.MovementRepository
	stock      StockService
	dispatcher *worker.Dispatcher
}

func NewMaterialService(
	repo repository.MaterialRepository,
	units repository.UnitRepository,
	movements repository.MovementRepository,
	stock StockService,
	dispatcher *worker.Dispatcher,
) MaterialService {
	return &materialService{
		repo:       repo,
		units:      units,
		movements:  movements,
		stock:      stock,
		dispatcher: dispatcher,
	}
}

// Create registers a material. A non-zero initial quantity is applied as an
// "in" movement inside the same transaction, so the ledger covers the opening
// balance and the sum-of-movements invariant holds from day one.
func (s *materialService) Create(ctx context.Context, req dto.CreateMaterialRequest, actor Actor) (*dto.MaterialResponse, error) {
	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		return nil, NewValidationError("unit_id", "invalid uuid")
	}
	if _, err := s.units.FindByID(ctx, unitID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("unit_id", "unknown unit")
		}
		return nil, err
	}

	minQty := decimal.Zero
	if req.MinQuantity != nil {
		minQty = *req.MinQuantity
	}
	initial := decimal.Zero
	if req.Quantity != nil {
		initial = *req.Quantity
	}
	if initial.IsNegative() || minQty.IsNegative() {
		return nil, NewValidationError("quantity", "must not be negative")
	}

	material := &model.Material{
		Name:        req.Name,
		UnitID:      unitID,
		Quantity:    decimal.Zero,
		MinQuantity: minQty,
		Comment:     req.Comment,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, material); err != nil {
			return err
		}
		if initial.IsPositive() {
			_, err := s.stock.ApplyMovementTx(tx, material.ID, model.DirectionIn, initial, actor, MovementMeta{
				Comment: "Opening balance",
			})
			return err
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifyCreated(ctx, material.Name, actor)

	return s.Get(ctx, material.ID)
}

func (s *materialService) notifyCreated(ctx context.Context, name string, actor Actor) {
	if s.dispatcher == nil {
		return
	}
	payload := worker.NotificationJobPayload{
		Roles:    []string{model.RoleAdmin, model.RoleManager},
		SenderID: actor.ID.String(),
		Title:    "New material",
		Message:  fmt.Sprintf("%s added material %q", actor.FullName, name),
		Type:     model.NotificationMaterial,
	}
	if err := s.dispatcher.EnqueueNotification(ctx, payload); err != nil {
		log.Error().Err(err).Str("material", name).Msg("failed to enqueue material notification")
	}
}

func (s *materialService) Get(ctx context.Context, id uuid.UUID) (*dto.MaterialResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return materialToResponse(m), nil
}

func (s *materialService) List(ctx context.Context) ([]dto.MaterialResponse, error) {
	materials, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaterialResponse, 0, len(materials))
	for i := range materials {
		out = append(out, *materialToResponse(&materials[i]))
	}
	return out, nil
}

func (s *materialService) ListLowStock(ctx context.Context) ([]dto.MaterialResponse, error) {
	materials, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaterialResponse, 0, len(materials))
	for i := range materials {
		out = append(out, *materialToResponse(&materials[i]))
	}
	return out, nil
}

// Update touches metadata only. Quantity is owned by the stock engine and
// cannot be set here under any circumstances.
func (s *materialService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.UnitID != nil {
		unitID, err := uuid.Parse(*req.UnitID)
		if err != nil {
			return nil, NewValidationError("unit_id", "invalid uuid")
		}
		if _, err := s.units.FindByID(ctx, unitID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewValidationError("unit_id", "unknown unit")
			}
			return nil, err
		}
		m.UnitID = unitID
		m.Unit = nil
	}
	if req.MinQuantity != nil {
		if req.MinQuantity.IsNegative() {
			return nil, NewValidationError("min_quantity", "must not be negative")
		}
		m.MinQuantity = *req.MinQuantity
	}
	if req.Comment != nil {
		m.Comment = *req.Comment
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete refuses to drop a material that has ledger history: movements are
// immutable, so removing their material would orphan the audit trail.
func (s *materialService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	count, err := s.movements.CountByMaterial(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrConflict
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Receive books an incoming delivery outside of a supply document.
func (s *materialService) Receive(ctx context.Context, id uuid.UUID, req dto.ReceiptRequest, actor Actor) (*dto.MovementResponse, error) {
	mov, err := s.stock.ApplyMovement(ctx, id, model.DirectionIn, req.Quantity, actor, MovementMeta{
		Comment: req.Comment,
	})
	if err != nil {
		return nil, err
	}
	return movementToResponse(mov), nil
}

// Writeoff issues stock to a recipient. The stock engine rejects the movement
// when the material does not hold enough quantity.
func (s *materialService) Writeoff(ctx context.Context, id uuid.UUID, req dto.WriteoffRequest, actor Actor) (*dto.MovementResponse, error) {
	mov, err := s.stock.ApplyMovement(ctx, id, model.DirectionOut, req.Quantity, actor, MovementMeta{
		RecipientName: req.RecipientName,
		Comment:       req.Comment,
	})
	if err != nil {
		return nil, err
	}
	return movementToResponse(mov), nil
}

func (s *materialService) Movements(ctx context.Context, id uuid.UUID, limit int) ([]dto.MovementResponse, error) {
	movements, err := s.stock.History(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		out = append(out, *movementToResponse(&movements[i]))
	}
	return out, nil
}

func materialToResponse(m *model.Material) *dto.MaterialResponse {
	unitName, unitShort := "", ""
	if m.Unit != nil {
		unitName = m.Unit.Name
		unitShort = m.Unit.ShortName
	}
	return &dto.MaterialResponse{
		ID:          m.ID.String(),
		Name:        m.Name,
		UnitID:      m.UnitID.String(),
		UnitName:    unitName,
		UnitShort:   unitShort,
		Quantity:    m.Quantity,
		MinQuantity: m.MinQuantity,
		Comment:     m.Comment,
		LowStock:    m.IsLowStock(),
		CreatedAt:   m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func movementToResponse(mov *model.StockMovement) *dto.MovementResponse {
	materialName, unitShort := "", ""
	if mov.Material != nil {
		materialName = mov.Material.Name
		if mov.Material.Unit != nil {
			unitShort = mov.Material.Unit.ShortName
		}
	}
	username, fullName := "", ""
	if mov.User != nil {
		username = mov.User.Username
		fullName = mov.User.FullName
	}
	return &dto.MovementResponse{
		ID:             mov.ID.String(),
		MaterialID:     mov.MaterialID.String(),
		MaterialName:   materialName,
		UnitShort:      unitShort,
		Direction:      mov.Direction,
		Quantity:       mov.Quantity,
		QuantityBefore: mov.QuantityBefore,
		QuantityAfter:  mov.QuantityAfter,
		Username:       username,
		FullName:       fullName,
		RecipientName:  mov.RecipientName,
		DocumentNumber: mov.DocumentNumber,
		Comment:        mov.Comment,
		CreatedAt:      mov.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
