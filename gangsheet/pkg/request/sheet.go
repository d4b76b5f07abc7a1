package request

type CreateGangSheet struct {
	TemplateId string `json:"template_id" validate:"required"`
	UserId     string `json:"user_id"`
}

type UploadDesign struct {
	Name     string   `json:"name"      validate:"required"`
	FileData string   `json:"file_data" validate:"required"`
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	Quantity *int32   `json:"quantity"  validate:"omitempty,gt=0"`
}

// UpdateDesign updates only the fields that are set; absent fields keep their
// value. Unknown fields are rejected when the request body is decoded.
type UpdateDesign struct {
	Name     *string  `json:"name"`
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	Width    *float64 `json:"width"`
	Height   *float64 `json:"height"`
	Rotation *float64 `json:"rotation"`
	Quantity *int32   `json:"quantity" validate:"omitempty,gt=0"`
}

type UpdateStatus struct {
	Status string `json:"status" validate:"required"`
}
