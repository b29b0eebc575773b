package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SupplyItemRequest struct {
	MaterialID string          `json:"material_id" validate:"required,uuid"`
	Quantity   decimal.Decimal `json:"quantity"    validate:"min=0"`
	UnitPrice  decimal.Decimal `json:"unit_price"  validate:"min=0"`
}

type CreateSupplyRequest struct {
	DocumentNumber string              `json:"document_number" validate:"required,max=100"`
	Supplier       string              `json:"supplier"        validate:"required,max=200"`
	Buyer          string              `json:"buyer"           validate:"required,max=200"`
	Receiver       string              `json:"receiver"        validate:"required,max=200"`
	SupplyDate     string              `json:"supply_date"     validate:"required,datetime=2006-01-02"`
	Comment        string              `json:"comment"`
	Items          []SupplyItemRequest `json:"items"           validate:"omitempty,dive"`
}

// UpdateSupplyRequest mutates document metadata only. Line items are frozen
// once their stock effect has been applied.
type UpdateSupplyRequest struct {
	DocumentNumber *string `json:"document_number" validate:"omitempty,max=100"`
	Supplier       *string `json:"supplier"        validate:"omitempty,max=200"`
	Buyer          *string `json:"buyer"           validate:"omitempty,max=200"`
	Receiver       *string `json:"receiver"        validate:"omitempty,max=200"`
	SupplyDate     *string `json:"supply_date"     validate:"omitempty,datetime=2006-01-02"`
	Comment        *string `json:"comment"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SupplyItemResponse struct {
	ID           string          `json:"id"`
	MaterialID   string          `json:"material_id"`
	MaterialName string          `json:"material_name"`
	UnitShort    string          `json:"unit_short"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

type SupplyFileResponse struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
}

type SupplyResponse struct {
	ID             string               `json:"id"`
	DocumentNumber string               `json:"document_number"`
	Supplier       string               `json:"supplier"`
	Buyer          string               `json:"buyer"`
	Receiver       string               `json:"receiver"`
	SupplyDate     string               `json:"supply_date"`
	Comment        string               `json:"comment"`
	CreatedBy      string               `json:"created_by"`
	CreatorName    string               `json:"creator_name"`
	CreatedAt      string               `json:"created_at"`
	Items          []SupplyItemResponse `json:"items,omitempty"`
	Files          []SupplyFileResponse `json:"files"`
}
