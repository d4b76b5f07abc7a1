package request

import (
	"github.com/google/uuid"
)

type AddItem struct {
	ProductId   *uuid.UUID        `json:"product_id"   validate:"required_without=GangSheetId"`
	VariantId   string            `json:"variant_id"`
	GangSheetId *uuid.UUID        `json:"gang_sheet_id" validate:"required_without=ProductId"`
	Quantity    int32             `json:"quantity"      validate:"required,gt=0"`
	Options     map[string]string `json:"options"`
}

type UpdateItem struct {
	Quantity int32 `json:"quantity"`
}
