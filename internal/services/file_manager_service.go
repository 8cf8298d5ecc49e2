package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"rentalChat/internal/errs"
	"rentalChat/internal/interfaces"
	"strings"
	"time"
)

type FileManagerService struct {
	fileManager interfaces.FileManager
	maxBytes    int64
	now         func() time.Time
}

func NewFileManagerService(fileManager interfaces.FileManager, maxBytes int64) *FileManagerService {
	return &FileManagerService{
		fileManager: fileManager,
		maxBytes:    maxBytes,
		now:         time.Now,
	}
}

// UploadAttachment stores a file sent by userID and returns its public
// URL, which clients embed in a message body.
func (fs *FileManagerService) UploadAttachment(ctx context.Context, userID uint, originalName string, file io.Reader, fileSize int64, contentType string) (string, error) {
	if fs.fileManager == nil {
		return "", errs.ErrObjectStorageDisabled
	}
	if fs.maxBytes > 0 && fileSize > fs.maxBytes {
		return "", errs.ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	fileName := fmt.Sprintf("user_%d/%d%s", userID, fs.now().UnixNano(), ext)
	url, err := fs.fileManager.UploadFile(ctx, fileName, file, fileSize, contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrUnableToUploadFile, err)
	}
	return url, nil
}
