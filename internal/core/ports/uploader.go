package ports

import (
	"context"
	"io"
)

// Blob storage folders, keyed by entity type.
const (
	FolderPhotos    = "patients/photos"
	FolderDocuments = "patients/documents"
)

// UploadFile is one incoming multipart file. Content is streamed, not
// buffered, so Size and ContentType come from the multipart headers.
type UploadFile struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// Uploader streams a file to durable blob storage and returns a stable
// retrieval URL.
type Uploader interface {
	Upload(ctx context.Context, folder string, file UploadFile) (string, error)
}
