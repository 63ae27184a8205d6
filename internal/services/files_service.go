package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"teslo/internal/apperrors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var allowedImageExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true,
}

// FilesService stores and serves product images on local disk.
type FilesService struct {
	staticDir string
	hostAPI   string
}

// NewFilesService creates a new FilesService rooted at staticDir. Public
// URLs are built on hostAPI.
func NewFilesService(staticDir, hostAPI string) *FilesService {
	return &FilesService{
		staticDir: staticDir,
		hostAPI:   strings.TrimRight(hostAPI, "/"),
	}
}

// GetStaticProductImage returns the path of a stored image.
func (s *FilesService) GetStaticProductImage(imageName string) (string, error) {
	path := filepath.Join(s.staticDir, filepath.Base(imageName))
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", apperrors.BadRequest(fmt.Sprintf("No product found with image %s", imageName))
	}
	return path, nil
}

// SaveProductImage checks that the upload is an image, stores it under a
// fresh name and returns the URL it is served from.
func (s *FilesService) SaveProductImage(fileHeader *multipart.FileHeader) (string, error) {
	notAnImage := apperrors.BadRequest("Make sure that the file is an image")
	if fileHeader == nil {
		return "", notAnImage
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", notAnImage
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", notAnImage
	}
	ext := strings.TrimPrefix(mtype.Extension(), ".")
	if !strings.HasPrefix(mtype.String(), "image/") || !allowedImageExtensions[ext] {
		return "", notAnImage
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", apperrors.Internal("Please check server logs", err)
	}

	if err := os.MkdirAll(s.staticDir, 0o755); err != nil {
		zap.L().Error("failed to create static dir", zap.String("dir", s.staticDir), zap.Error(err))
		return "", apperrors.Internal("Please check server logs", err)
	}

	name := fmt.Sprintf("%s.%s", uuid.New().String(), ext)
	dst, err := os.Create(filepath.Join(s.staticDir, name))
	if err != nil {
		zap.L().Error("failed to create image file", zap.String("name", name), zap.Error(err))
		return "", apperrors.Internal("Please check server logs", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		zap.L().Error("failed to write image file", zap.String("name", name), zap.Error(err))
		return "", apperrors.Internal("Please check server logs", err)
	}
	return fmt.Sprintf("%s/files/product/%s", s.hostAPI, name), nil
}
