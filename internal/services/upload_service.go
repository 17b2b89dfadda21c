package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"storefront/internal/apperrors"
)

// MaxProofSize caps payment proof uploads at 5 MiB.
const MaxProofSize = 5 << 20

// UploadService stores payment proof files on local disk under a directory
// that is static-served at /uploads.
type UploadService struct {
	uploadDir string
}

// NewUploadService creates a new UploadService rooted at uploadDir.
func NewUploadService(uploadDir string) *UploadService {
	return &UploadService{
		uploadDir: uploadDir,
	}
}

// SavePaymentProof validates and stores a single uploaded proof file for an
// order. Only images and PDFs up to MaxProofSize are accepted; the type
// check sniffs file content rather than trusting the client's headers.
// Returns the relative path to record on the order.
func (s *UploadService) SavePaymentProof(orderID string, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > MaxProofSize {
		return "", fmt.Errorf("file size %d exceeds the %d byte limit: %w",
			fileHeader.Size, MaxProofSize, apperrors.ErrValidation)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %v: %w", err, apperrors.ErrStorage)
	}
	defer file.Close()

	// Sniff the leading bytes for the real content type.
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read uploaded file: %v: %w", err, apperrors.ErrStorage)
	}
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") && contentType != "application/pdf" {
		return "", fmt.Errorf("content type %s is not an image or PDF: %w", contentType, apperrors.ErrValidation)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind uploaded file: %v: %w", err, apperrors.ErrStorage)
	}

	dir := filepath.Join(s.uploadDir, orderID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %v: %w", err, apperrors.ErrStorage)
	}

	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), sanitizeFilename(fileHeader.Filename))
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create proof file: %v: %w", err, apperrors.ErrStorage)
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(dstPath) // Drop the partial file
		return "", fmt.Errorf("failed to write proof file: %v: %w", err, apperrors.ErrStorage)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("failed to close proof file: %v: %w", err, apperrors.ErrStorage)
	}

	return filepath.ToSlash(filepath.Join("/uploads", orderID, name)), nil
}

// sanitizeFilename keeps the base name and replaces anything outside a
// conservative character set.
func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "upload"
	}
	return b.String()
}
