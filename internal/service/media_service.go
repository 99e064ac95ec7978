package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"loyalty-platform/internal/config"
	"loyalty-platform/internal/domain"
	"loyalty-platform/internal/repository"
)

type MediaService interface {
	UploadLogo(ctx context.Context, callerID uuid.UUID, fileName string, fileSize int64, mimeType string, reader io.Reader) (*domain.Business, error)
	DeleteLogo(ctx context.Context, callerID uuid.UUID) error
	LogoURL(business *domain.Business) string
}

type mediaService struct {
	repos       *repository.Repositories
	minioClient *minio.Client
	cfg         *config.Config
}

func NewMediaService(repos *repository.Repositories, minioClient *minio.Client, cfg *config.Config) MediaService {
	return &mediaService{
		repos:       repos,
		minioClient: minioClient,
		cfg:         cfg,
	}
}

func (s *mediaService) UploadLogo(ctx context.Context, callerID uuid.UUID, fileName string, fileSize int64, mimeType string, reader io.Reader) (*domain.Business, error) {
	business, err := s.repos.Business.GetByOwnerID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, ErrBusinessNotFound
	}

	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("unsupported logo content type %q", mimeType)
	}

	storagePath := fmt.Sprintf("logos/%s/%s-%s", time.Now().Format("2006/01"), business.ID, fileName)

	_, err = s.minioClient.PutObject(ctx, s.cfg.MinIOBucket, storagePath, reader, fileSize, minio.PutObjectOptions{
		ContentType: mimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to MinIO: %w", err)
	}

	oldPath := business.LogoPath
	if err := s.repos.Business.SetLogoPath(ctx, business.ID, &storagePath); err != nil {
		_ = s.minioClient.RemoveObject(ctx, s.cfg.MinIOBucket, storagePath, minio.RemoveObjectOptions{})
		return nil, err
	}
	if oldPath != nil {
		_ = s.minioClient.RemoveObject(ctx, s.cfg.MinIOBucket, *oldPath, minio.RemoveObjectOptions{})
	}

	business.LogoPath = &storagePath
	business.LogoURL = s.LogoURL(business)
	return business, nil
}

func (s *mediaService) DeleteLogo(ctx context.Context, callerID uuid.UUID) error {
	business, err := s.repos.Business.GetByOwnerID(ctx, callerID)
	if err != nil {
		return err
	}
	if business == nil {
		return ErrBusinessNotFound
	}
	if business.LogoPath == nil {
		return nil
	}

	if err := s.repos.Business.SetLogoPath(ctx, business.ID, nil); err != nil {
		return err
	}

	_ = s.minioClient.RemoveObject(ctx, s.cfg.MinIOBucket, *business.LogoPath, minio.RemoveObjectOptions{})
	return nil
}

func (s *mediaService) LogoURL(business *domain.Business) string {
	if business == nil || business.LogoPath == nil {
		return ""
	}
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.MinIOPublicEndpoint, s.cfg.MinIOBucket, url.PathEscape(*business.LogoPath))
}
