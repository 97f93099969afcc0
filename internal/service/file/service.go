package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	MB = 1 << 20

	MaxAvatarSize     = 5 * MB
	MaxDocumentSize   = 10 * MB
	MaxAttachmentSize = 10 * MB
	MaxLeaveFileSize  = 5 * MB
	MaxVideoSize      = 10 * MB

	avatarMaxDimension = 512
	avatarQuality      = 85
)

var (
	ErrFileTooLarge    = errors.New("file exceeds the maximum allowed size")
	ErrInvalidFileType = errors.New("file type is not allowed")
	ErrEmptyFile       = errors.New("file is empty")
)

// Policy restricts what an upload may contain. Extensions maps a lower-case
// extension to the sniffed content types accepted for it.
type Policy struct {
	MaxSize    int64
	Extensions map[string][]string
}

var (
	imageTypes = map[string][]string{
		".jpg":  {"image/jpeg"},
		".jpeg": {"image/jpeg"},
		".png":  {"image/png"},
	}

	// .doc is an OLE container and .docx a zip archive to the sniffer.
	documentTypes = map[string][]string{
		".pdf":  {"application/pdf"},
		".jpg":  {"image/jpeg"},
		".jpeg": {"image/jpeg"},
		".png":  {"image/png"},
		".doc":  {"application/msword", "application/octet-stream"},
		".docx": {"application/zip", "application/octet-stream"},
	}

	leaveTypes = map[string][]string{
		".pdf":  {"application/pdf"},
		".jpg":  {"image/jpeg"},
		".jpeg": {"image/jpeg"},
		".png":  {"image/png"},
	}

	videoTypes = map[string][]string{
		".mp4":  {"video/mp4"},
		".webm": {"video/webm"},
		".mov":  {"video/mp4", "video/quicktime", "application/octet-stream"},
	}

	AvatarPolicy     = Policy{MaxSize: MaxAvatarSize, Extensions: imageTypes}
	DocumentPolicy   = Policy{MaxSize: MaxDocumentSize, Extensions: documentTypes}
	AttachmentPolicy = Policy{MaxSize: MaxAttachmentSize, Extensions: documentTypes}
	LeavePolicy      = Policy{MaxSize: MaxLeaveFileSize, Extensions: leaveTypes}
	VideoPolicy      = Policy{MaxSize: MaxVideoSize, Extensions: videoTypes}
)

// Upload is one file received from a client.
type Upload struct {
	Reader   io.Reader
	FileName string
	Size     int64
}

// Stored describes a file written to storage.
type Stored struct {
	Path        string
	FileName    string
	Size        int64
	ContentType string
}

type FileService interface {
	UploadAvatar(ctx context.Context, employeeID string, upload Upload) (Stored, error)
	UploadDocument(ctx context.Context, employeeID, documentType string, upload Upload) (Stored, error)
	UploadTaskAttachment(ctx context.Context, taskID string, upload Upload) (Stored, error)
	UploadLeaveAttachment(ctx context.Context, employeeID string, upload Upload) (Stored, error)
	UploadBroadcastAttachment(ctx context.Context, upload Upload) (Stored, error)
	UploadWelcomeVideo(ctx context.Context, upload Upload) (Stored, error)

	DeleteFile(ctx context.Context, path string) error
	// DeleteFiles removes every path and returns the joined failures.
	DeleteFiles(ctx context.Context, paths []string) error
	URL(path string) string
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// Check reads the upload into memory and enforces policy on its size,
// extension and sniffed content type.
func Check(upload Upload, policy Policy) ([]byte, string, error) {
	if upload.Size > policy.MaxSize {
		return nil, "", ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(upload.FileName))
	allowed, ok := policy.Extensions[ext]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrInvalidFileType, ext)
	}

	data, err := io.ReadAll(io.LimitReader(upload.Reader, policy.MaxSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > policy.MaxSize {
		return nil, "", ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, "", ErrEmptyFile
	}

	contentType := http.DetectContentType(data)
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	for _, a := range allowed {
		if a == contentType {
			return data, contentType, nil
		}
	}
	return nil, "", fmt.Errorf("%w: %s content detected", ErrInvalidFileType, contentType)
}

func (s *fileServiceImpl) store(ctx context.Context, dir string, upload Upload, policy Policy) (Stored, error) {
	data, contentType, err := Check(upload, policy)
	if err != nil {
		return Stored{}, err
	}

	ext := strings.ToLower(filepath.Ext(upload.FileName))
	p := path.Join(dir, uuid.NewString()+ext)

	uploaded, err := s.storage.Upload(ctx, bytes.NewReader(data), p, contentType)
	if err != nil {
		return Stored{}, fmt.Errorf("failed to store file: %w", err)
	}

	return Stored{
		Path:        uploaded,
		FileName:    filepath.Base(upload.FileName),
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}

// UploadAvatar validates, resizes and stores an employee avatar as JPEG
func (s *fileServiceImpl) UploadAvatar(ctx context.Context, employeeID string, upload Upload) (Stored, error) {
	data, _, err := Check(upload, AvatarPolicy)
	if err != nil {
		return Stored{}, err
	}

	resized, err := resizeImage(data, avatarMaxDimension)
	if err != nil {
		return Stored{}, fmt.Errorf("%w: %v", ErrInvalidFileType, err)
	}

	p := path.Join("avatars", employeeID, uuid.NewString()+".jpg")
	uploaded, err := s.storage.Upload(ctx, bytes.NewReader(resized), p, "image/jpeg")
	if err != nil {
		return Stored{}, fmt.Errorf("failed to upload avatar: %w", err)
	}

	return Stored{
		Path:        uploaded,
		FileName:    filepath.Base(upload.FileName),
		Size:        int64(len(resized)),
		ContentType: "image/jpeg",
	}, nil
}

// UploadDocument stores an onboarding document
func (s *fileServiceImpl) UploadDocument(ctx context.Context, employeeID, documentType string, upload Upload) (Stored, error) {
	return s.store(ctx, path.Join("documents", employeeID, documentType), upload, DocumentPolicy)
}

func (s *fileServiceImpl) UploadTaskAttachment(ctx context.Context, taskID string, upload Upload) (Stored, error) {
	return s.store(ctx, path.Join("tasks", taskID), upload, AttachmentPolicy)
}

func (s *fileServiceImpl) UploadLeaveAttachment(ctx context.Context, employeeID string, upload Upload) (Stored, error) {
	return s.store(ctx, path.Join("leave", employeeID), upload, LeavePolicy)
}

func (s *fileServiceImpl) UploadBroadcastAttachment(ctx context.Context, upload Upload) (Stored, error) {
	return s.store(ctx, "broadcasts", upload, AttachmentPolicy)
}

func (s *fileServiceImpl) UploadWelcomeVideo(ctx context.Context, upload Upload) (Stored, error) {
	return s.store(ctx, "welcome", upload, VideoPolicy)
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

func (s *fileServiceImpl) DeleteFiles(ctx context.Context, paths []string) error {
	var errs []error
	for _, p := range paths {
		if err := s.storage.Delete(ctx, p); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}

func (s *fileServiceImpl) URL(path string) string {
	return s.storage.URL(path)
}

// ==================== HELPER FUNCTIONS ====================

// resizeImage scales the image down so neither side exceeds maxDim and
// re-encodes it as JPEG. Smaller images keep their dimensions.
func resizeImage(buffer []byte, maxDim int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width > maxDim || height > maxDim {
		if width >= height {
			height = height * maxDim / width
			width = maxDim
		} else {
			width = width * maxDim / height
			height = maxDim
		}
		if width < 1 {
			width = 1
		}
		if height < 1 {
			height = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, dst, &jpeg.Options{Quality: avatarQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
