package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// StandardSheetKey builds the object key for an uploaded time-standard
// sheet image, grouping sheets by upload date.
func StandardSheetKey(runID, filename string) string {
	return fmt.Sprintf("standard-sheets/%s/%s%s",
		time.Now().UTC().Format("2006-01-02"), runID, path.Ext(filename))
}
