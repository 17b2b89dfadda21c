package services_test

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storefront/internal/apperrors"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeFileHeader builds a *multipart.FileHeader the way Fiber's FormFile
// would produce it from a real request.
func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("paymentProof", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	reader := multipart.NewReader(&buf, w.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)

	files := form.File["paymentProof"]
	require.Len(t, files, 1)
	return files[0]
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestUploadService_SavePaymentProof_PNG(t *testing.T) {
	dir := t.TempDir()
	svc := services.NewUploadService(dir)

	fh := makeFileHeader(t, "receipt.png", append(pngHeader, []byte("fakepixels")...))
	path, err := svc.SavePaymentProof("order-1", fh)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "/uploads/order-1/"))
	assert.True(t, strings.HasSuffix(path, "_receipt.png"))

	// The file landed under <dir>/<orderID> with the returned name
	onDisk := filepath.Join(dir, strings.TrimPrefix(path, "/uploads/"))
	data, err := os.ReadFile(onDisk)
	assert.NoError(t, err)
	assert.Equal(t, append(pngHeader, []byte("fakepixels")...), data)
}

func TestUploadService_SavePaymentProof_PDF(t *testing.T) {
	svc := services.NewUploadService(t.TempDir())

	fh := makeFileHeader(t, "receipt.pdf", []byte("%PDF-1.4\nfake pdf body"))
	path, err := svc.SavePaymentProof("order-2", fh)
	assert.NoError(t, err)
	assert.Contains(t, path, "/uploads/order-2/")
}

func TestUploadService_SavePaymentProof_RejectsWrongType(t *testing.T) {
	svc := services.NewUploadService(t.TempDir())

	// Plain text sniffs as text/plain regardless of the .png name
	fh := makeFileHeader(t, "notes.png", []byte("just some text pretending to be an image"))
	_, err := svc.SavePaymentProof("order-3", fh)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "not an image or PDF")
}

func TestUploadService_SavePaymentProof_RejectsOversized(t *testing.T) {
	svc := services.NewUploadService(t.TempDir())

	big := make([]byte, services.MaxProofSize+1)
	copy(big, pngHeader)
	fh := makeFileHeader(t, "huge.png", big)
	_, err := svc.SavePaymentProof("order-4", fh)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestUploadService_SavePaymentProof_SanitizesFilename(t *testing.T) {
	dir := t.TempDir()
	svc := services.NewUploadService(dir)

	fh := makeFileHeader(t, "../../etc/pass wd.png", append(pngHeader, []byte("x")...))
	path, err := svc.SavePaymentProof("order-5", fh)
	assert.NoError(t, err)
	assert.NotContains(t, path, "..")
	assert.NotContains(t, path, " ")
	assert.Contains(t, path, "/uploads/order-5/")
}
