package dto

type ImageUploadResponse struct {
	ImageURL string `json:"imageUrl"`
}
