package dto

type CreatePromptRequest struct {
	Name        string `json:"name" validate:"required"`
	Template    string `json:"template" validate:"required"`
	Description string `json:"description,omitempty"`
	SetActive   bool   `json:"set_active,omitempty"`
}

type SetActivePromptRequest struct {
	Version int64 `json:"version" validate:"required,min=1"`
}
