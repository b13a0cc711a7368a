package dto

type SelectMediaRequest struct {
	MediaID string `json:"media_id" validate:"required"`
}

type NavigateRequest struct {
	Direction string                `json:"direction" validate:"required,oneof=next prev"`
	Filters   GalleryFiltersPayload `json:"filters"`
}

type ModalResponse struct {
	Open    bool   `json:"open"`
	MediaID string `json:"media_id,omitempty"`
	HasNext bool   `json:"has_next"`
	HasPrev bool   `json:"has_prev"`
}
