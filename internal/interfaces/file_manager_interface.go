package interfaces

import (
	"context"
	"io"
)

type FileManager interface {
	UploadFile(ctx context.Context, fileName string, file io.Reader, fileSize int64, contentType string) (string, error)
}
