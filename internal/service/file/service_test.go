package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/service/servicetest"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func upload(name string, data []byte) Upload {
	return Upload{Reader: bytes.NewReader(data), FileName: name, Size: int64(len(data))}
}

func TestCheck(t *testing.T) {
	pdf := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")
	docx := append([]byte("PK\x03\x04"), bytes.Repeat([]byte{0}, 40)...)

	tests := []struct {
		name    string
		upload  Upload
		policy  Policy
		wantErr error
		want    string
	}{
		{"pdf document", upload("contract.PDF", pdf), DocumentPolicy, nil, "application/pdf"},
		{"docx document", upload("resume.docx", docx), DocumentPolicy, nil, "application/zip"},
		{"extension not allowed", upload("run.exe", pdf), DocumentPolicy, ErrInvalidFileType, ""},
		{"content does not match", upload("photo.png", []byte("just some text")), AvatarPolicy, ErrInvalidFileType, ""},
		{"declared size too large", Upload{Reader: bytes.NewReader(pdf), FileName: "a.pdf", Size: MaxDocumentSize + 1}, DocumentPolicy, ErrFileTooLarge, ""},
		{"actual size too large", upload("a.pdf", append(pdf, bytes.Repeat([]byte("x"), MaxLeaveFileSize)...)), LeavePolicy, ErrFileTooLarge, ""},
		{"empty", upload("a.pdf", nil), DocumentPolicy, ErrEmptyFile, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, contentType, err := Check(tt.upload, tt.policy)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, contentType)
			assert.NotEmpty(t, data)
		})
	}
}

func TestUploadAvatar_ResizesToJPEG(t *testing.T) {
	store := servicetest.NewStorage()
	svc := NewFileService(store)

	stored, err := svc.UploadAvatar(context.Background(), "emp-1", upload("me.png", pngBytes(t, 1024, 256)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.Path, "avatars/emp-1/"))
	assert.True(t, strings.HasSuffix(stored.Path, ".jpg"))
	assert.Equal(t, "image/jpeg", stored.ContentType)

	img, err := jpeg.Decode(bytes.NewReader(store.Files[stored.Path]))
	require.NoError(t, err)
	assert.Equal(t, 512, img.Bounds().Dx())
	assert.Equal(t, 128, img.Bounds().Dy())
}

func TestUploadAvatar_SmallImageKeepsSize(t *testing.T) {
	store := servicetest.NewStorage()
	svc := NewFileService(store)

	stored, err := svc.UploadAvatar(context.Background(), "emp-1", upload("me.png", pngBytes(t, 100, 80)))
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(store.Files[stored.Path]))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())
}

func TestUploadDocumentAndDelete(t *testing.T) {
	store := servicetest.NewStorage()
	svc := NewFileService(store)
	ctx := context.Background()

	stored, err := svc.UploadDocument(ctx, "emp-1", "resume", upload("../../cv.pdf", []byte("%PDF-1.7 body")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.Path, "documents/emp-1/resume/"))
	assert.Equal(t, "cv.pdf", stored.FileName)
	assert.Equal(t, "/uploads/"+stored.Path, svc.URL(stored.Path))

	require.NoError(t, svc.DeleteFiles(ctx, []string{stored.Path}))
	exists, err := store.Exists(ctx, stored.Path)
	require.NoError(t, err)
	assert.False(t, exists)
}
