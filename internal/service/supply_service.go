package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stocktrack/internal/dto"
	"stocktrack/internal/infra"
	"stocktrack/internal/model"
	"stocktrack/internal/repository"
	"stocktrack/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const supplyDateLayout = "2006-01-02"

type SupplyService interface {
	Create(ctx context.Context, req dto.CreateSupplyRequest, actor Actor) (*dto.SupplyResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SupplyResponse, error)
	List(ctx context.Context) ([]dto.SupplyResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateSupplyRequest) (*dto.SupplyResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AttachFile(ctx context.Context, supplyID uuid.UUID, name, contentType string, data []byte) (*dto.SupplyFileResponse, error)
	OpenFile(ctx context.Context, supplyID, fileID uuid.UUID) (*model.SupplyFile, string, error)
	DeleteFile(ctx context.Context, supplyID, fileID uuid.UUID) error
}

type supplyService struct {
	repo       repository.SupplyRepository
	stock      StockService
	files      *infra.FileStore
	dispatcher *worker.Dispatcher
}

func NewSupplyService(
	repo repository.SupplyRepository,
	stock StockService,
	files *infra.FileStore,
	dispatcher *worker.Dispatcher,
) SupplyService {
	return &supplyService{
		repo:       repo,
		stock:      stock,
		files:      files,
		dispatcher: dispatcher,
	}
}

// Create is the supply intake transaction script: document row, line items,
// and one "in" movement per non-zero line item — all or nothing. A line item
// referencing a missing material aborts the whole document.
func (s *supplyService) Create(ctx context.Context, req dto.CreateSupplyRequest, actor Actor) (*dto.SupplyResponse, error) {
	supplyDate, err := time.Parse(supplyDateLayout, req.SupplyDate)
	if err != nil {
		return nil, NewValidationError("supply_date", "expected YYYY-MM-DD")
	}

	type resolvedItem struct {
		materialID uuid.UUID
		req        dto.SupplyItemRequest
	}
	resolved := make([]resolvedItem, 0, len(req.Items))
	for i, item := range req.Items {
		mid, err := uuid.Parse(item.MaterialID)
		if err != nil {
			return nil, NewValidationError(fmt.Sprintf("items[%d].material_id", i), "invalid uuid")
		}
		if item.Quantity.IsNegative() {
			return nil, NewValidationError(fmt.Sprintf("items[%d].quantity", i), "must not be negative")
		}
		resolved = append(resolved, resolvedItem{materialID: mid, req: item})
	}

	supply := &model.Supply{
		DocumentNumber: req.DocumentNumber,
		Supplier:       req.Supplier,
		Buyer:          req.Buyer,
		Receiver:       req.Receiver,
		SupplyDate:     supplyDate,
		Comment:        req.Comment,
		CreatedBy:      actor.ID,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, supply); err != nil {
			return err
		}
		docNum := supply.DocumentNumber
		for _, r := range resolved {
			item := &model.SupplyItem{
				SupplyID:   supply.ID,
				MaterialID: r.materialID,
				Quantity:   r.req.Quantity,
				UnitPrice:  r.req.UnitPrice,
			}
			if err := s.repo.CreateItemTx(tx, item); err != nil {
				return err
			}
			// Zero-quantity lines are recorded on the document but produce
			// no ledger entry.
			if !r.req.Quantity.IsPositive() {
				continue
			}
			if _, err := s.stock.ApplyMovementTx(tx, r.materialID, model.DirectionIn, r.req.Quantity, actor, MovementMeta{
				DocumentNumber: &docNum,
				Comment:        fmt.Sprintf("Supply %s", docNum),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// One fan-out for the whole document, not one per line item.
	s.notifyCreated(ctx, supply, actor)

	return s.Get(ctx, supply.ID)
}

func (s *supplyService) notifyCreated(ctx context.Context, supply *model.Supply, actor Actor) {
	if s.dispatcher == nil {
		return
	}
	payload := worker.NotificationJobPayload{
		Roles:    []string{model.RoleAdmin, model.RoleManager},
		SenderID: actor.ID.String(),
		Title:    "New supply",
		Message: fmt.Sprintf("%s created supply %q dated %s", actor.FullName,
			supply.DocumentNumber, supply.SupplyDate.Format(supplyDateLayout)),
		Type: model.NotificationSupply,
	}
	if err := s.dispatcher.EnqueueNotification(ctx, payload); err != nil {
		log.Error().Err(err).
			Str("supply_id", supply.ID.String()).
			Msg("failed to enqueue supply notification")
	}
}

func (s *supplyService) Get(ctx context.Context, id uuid.UUID) (*dto.SupplyResponse, error) {
	supply, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return supplyToResponse(supply, true), nil
}

func (s *supplyService) List(ctx context.Context) ([]dto.SupplyResponse, error) {
	supplies, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplyResponse, 0, len(supplies))
	for i := range supplies {
		out = append(out, *supplyToResponse(&supplies[i], false))
	}
	return out, nil
}

// Update mutates document metadata only; the stock effect of the original
// intake is frozen in the ledger.
func (s *supplyService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateSupplyRequest) (*dto.SupplyResponse, error) {
	supply, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.DocumentNumber != nil {
		supply.DocumentNumber = *req.DocumentNumber
	}
	if req.Supplier != nil {
		supply.Supplier = *req.Supplier
	}
	if req.Buyer != nil {
		supply.Buyer = *req.Buyer
	}
	if req.Receiver != nil {
		supply.Receiver = *req.Receiver
	}
	if req.SupplyDate != nil {
		d, err := time.Parse(supplyDateLayout, *req.SupplyDate)
		if err != nil {
			return nil, NewValidationError("supply_date", "expected YYYY-MM-DD")
		}
		supply.SupplyDate = d
	}
	if req.Comment != nil {
		supply.Comment = *req.Comment
	}

	// Save only the document row; associations are frozen.
	supply.Items = nil
	supply.Files = nil
	supply.Creator = nil
	if err := s.repo.Update(ctx, supply); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the document, its line items, and its attached files.
// Stock increments from the original intake stay in place: reversing them
// silently would falsify the ledger. Disk cleanup is best-effort.
func (s *supplyService) Delete(ctx context.Context, id uuid.UUID) error {
	supply, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	for _, f := range supply.Files {
		if err := s.files.Remove(f.FilePath); err != nil {
			log.Warn().Err(err).Str("path", f.FilePath).Msg("failed to remove supply file from disk")
		}
	}
	return nil
}

// AttachFile is the non-transactional follow-up to intake: a failure here
// never touches the already-committed document.
func (s *supplyService) AttachFile(ctx context.Context, supplyID uuid.UUID, name, contentType string, data []byte) (*dto.SupplyFileResponse, error) {
	if _, err := s.repo.FindByID(ctx, supplyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	storedName, err := s.files.Save(name, data)
	if err != nil {
		return nil, err
	}

	file := &model.SupplyFile{
		SupplyID: supplyID,
		FileName: name,
		FilePath: storedName,
		FileType: contentType,
		FileSize: int64(len(data)),
	}
	if err := s.repo.AddFile(ctx, file); err != nil {
		// Metadata row failed — don't leave an orphan on disk.
		if rmErr := s.files.Remove(storedName); rmErr != nil {
			log.Warn().Err(rmErr).Str("path", storedName).Msg("failed to clean up orphaned upload")
		}
		return nil, err
	}

	return &dto.SupplyFileResponse{
		ID:       file.ID.String(),
		FileName: file.FileName,
		FileType: file.FileType,
		FileSize: file.FileSize,
	}, nil
}

// OpenFile returns the file row plus its absolute path for streaming.
func (s *supplyService) OpenFile(ctx context.Context, supplyID, fileID uuid.UUID) (*model.SupplyFile, string, error) {
	file, err := s.repo.FindFile(ctx, supplyID, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	path, err := s.files.Path(file.FilePath)
	if err != nil {
		return nil, "", ErrNotFound
	}
	return file, path, nil
}

func (s *supplyService) DeleteFile(ctx context.Context, supplyID, fileID uuid.UUID) error {
	file, err := s.repo.FindFile(ctx, supplyID, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.files.Remove(file.FilePath); err != nil {
		log.Warn().Err(err).Str("path", file.FilePath).Msg("failed to remove supply file from disk")
	}
	return s.repo.DeleteFile(ctx, fileID)
}

func supplyToResponse(s *model.Supply, withItems bool) *dto.SupplyResponse {
	creatorName := ""
	if s.Creator != nil {
		creatorName = s.Creator.FullName
	}

	files := make([]dto.SupplyFileResponse, 0, len(s.Files))
	for _, f := range s.Files {
		files = append(files, dto.SupplyFileResponse{
			ID:       f.ID.String(),
			FileName: f.FileName,
			FileType: f.FileType,
			FileSize: f.FileSize,
		})
	}

	resp := &dto.SupplyResponse{
		ID:             s.ID.String(),
		DocumentNumber: s.DocumentNumber,
		Supplier:       s.Supplier,
		Buyer:          s.Buyer,
		Receiver:       s.Receiver,
		SupplyDate:     s.SupplyDate.Format(supplyDateLayout),
		Comment:        s.Comment,
		CreatedBy:      s.CreatedBy.String(),
		CreatorName:    creatorName,
		CreatedAt:      s.CreatedAt.Format("2006-01-02T15:04:05Z"),
		Files:          files,
	}

	if withItems {
		items := make([]dto.SupplyItemResponse, 0, len(s.Items))
		for _, item := range s.Items {
			materialName, unitShort := "", ""
			if item.Material != nil {
				materialName = item.Material.Name
				if item.Material.Unit != nil {
					unitShort = item.Material.Unit.ShortName
				}
			}
			items = append(items, dto.SupplyItemResponse{
				ID:           item.ID.String(),
				MaterialID:   item.MaterialID.String(),
				MaterialName: materialName,
				UnitShort:    unitShort,
				Quantity:     item.Quantity,
				UnitPrice:    item.UnitPrice,
			})
		}
		resp.Items = items
	}
	return resp
}
