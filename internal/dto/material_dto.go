package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateMaterialRequest struct {
	Name        string           `json:"name"         validate:"required,min=2,max=200"`
	UnitID      string           `json:"unit_id"      validate:"required,uuid"`
	Quantity    *decimal.Decimal `json:"quantity"     validate:"omitempty,min=0"`
	MinQuantity *decimal.Decimal `json:"min_quantity" validate:"omitempty,min=0"`
	Comment     string           `json:"comment"`
}

// UpdateMaterialRequest deliberately has no quantity field: quantity moves
// only through receipts and write-offs so the ledger stays authoritative.
type UpdateMaterialRequest struct {
	Name        *string          `json:"name"         validate:"omitempty,min=2,max=200"`
	UnitID      *string          `json:"unit_id"      validate:"omitempty,uuid"`
	MinQuantity *decimal.Decimal `json:"min_quantity" validate:"omitempty,min=0"`
	Comment     *string          `json:"comment"`
}

type ReceiptRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"required,gt=0"`
	Comment  string          `json:"comment"`
}

type WriteoffRequest struct {
	Quantity      decimal.Decimal `json:"quantity"       validate:"required,gt=0"`
	RecipientName *string         `json:"recipient_name" validate:"omitempty,max=200"`
	Comment       string          `json:"comment"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MaterialResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	UnitID      string          `json:"unit_id"`
	UnitName    string          `json:"unit_name"`
	UnitShort   string          `json:"unit_short"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	Comment     string          `json:"comment"`
	LowStock    bool            `json:"low_stock"`
	CreatedAt   string          `json:"created_at"`
}

type MovementResponse struct {
	ID             string          `json:"id"`
	MaterialID     string          `json:"material_id"`
	MaterialName   string          `json:"material_name"`
	UnitShort      string          `json:"unit_short"`
	Direction      string          `json:"direction"`
	Quantity       decimal.Decimal `json:"quantity"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	Username       string          `json:"username"`
	FullName       string          `json:"full_name"`
	RecipientName  *string         `json:"recipient_name"`
	DocumentNumber *string         `json:"document_number"`
	Comment        string          `json:"comment"`
	CreatedAt      string          `json:"created_at"`
}
