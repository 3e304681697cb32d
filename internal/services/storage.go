package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

var ErrUnsupportedFileType = errors.New("unsupported file type")

var resumeMimeTypes = map[string]string{
	".pdf":  MimePDF,
	".docx": MimeDOCX,
	".txt":  MimeText,
}

type StoredFile struct {
	Key          string
	OriginalName string
	MimeType     string
	Size         int64
}

// StorageService keeps uploaded resumes. Keys are relative and use forward
// slashes regardless of backend.
type StorageService interface {
	SaveResume(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader) (*StoredFile, error)
	ReadFile(ctx context.Context, key string) ([]byte, error)
	DeleteFile(ctx context.Context, key string) error
}

// ResumeMimeType maps a filename to the mime type we accept for it.
func ResumeMimeType(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	mime, ok := resumeMimeTypes[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}
	return mime, nil
}

func resumeKey(userID uuid.UUID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join("resumes", userID.String(), uuid.New().String()+ext)
}

type localStorageService struct {
	uploadPath string
}

func NewLocalStorageService(uploadPath string) (StorageService, error) {
	if err := os.MkdirAll(uploadPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &localStorageService{uploadPath: uploadPath}, nil
}

func (s *localStorageService) SaveResume(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader) (*StoredFile, error) {
	mime, err := ResumeMimeType(file.Filename)
	if err != nil {
		return nil, err
	}

	key := resumeKey(userID, file.Filename)
	dstPath := s.filePath(key)
	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create resume directory: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &StoredFile{
		Key:          key,
		OriginalName: file.Filename,
		MimeType:     mime,
		Size:         written,
	}, nil
}

func (s *localStorageService) ReadFile(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.filePath(key))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func (s *localStorageService) DeleteFile(ctx context.Context, key string) error {
	if err := os.Remove(s.filePath(key)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *localStorageService) filePath(key string) string {
	return filepath.Join(s.uploadPath, filepath.FromSlash(key))
}
