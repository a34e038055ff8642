package dto

import "time"

type DocumentResponse struct {
	Id         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	FileName   string    `json:"file_name"`
	Status     string    `json:"status"`
	ChunkCount int       `json:"chunk_count"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type UploadDocumentResponse struct {
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
}
