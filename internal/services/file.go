package services

import (
	"context"
	"database/sql"
	"io"
	"mime/multipart"

	"go.uber.org/zap"

	"customer-portal/internal/dto"
	"customer-portal/internal/entities"
	"customer-portal/internal/events"
	"customer-portal/internal/repositories"
	"customer-portal/pkg/config"
	"customer-portal/pkg/constants"
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/filestorage"
	"customer-portal/pkg/types"
	"customer-portal/pkg/utils"
)

type FileServiceInterface interface {
	// GetFiles returns the catalogue visible to the caller: customers
	// and moderators see only files whose allowed roles include theirs,
	// admins see everything.
	GetFiles(ctx context.Context, actor *entities.User, filter types.Filter) ([]dto.DownloadFileDTO, uint64, error)
	FindFile(ctx context.Context, actor *entities.User, id uint64) (*dto.DownloadFileDTO, error)
	Upload(ctx context.Context, actor *entities.User, payload dto.CreateDownloadFileDTO, header *multipart.FileHeader) (*dto.DownloadFileDTO, error)
	UpdateFile(ctx context.Context, actor *entities.User, id uint64, payload dto.UpdateDownloadFileDTO) (*dto.DownloadFileDTO, error)
	DeleteFile(ctx context.Context, actor *entities.User, id uint64) error
	// Download opens the blob after the role check and records the
	// download. Callers must close the reader.
	Download(ctx context.Context, actor *entities.User, id uint64) (io.ReadCloser, *entities.DownloadFile, error)
}

type FileService struct {
	fileRepository    repositories.FileRepositoryInterface
	historyRepository repositories.DownloadHistoryRepositoryInterface
	storage           filestorage.FileStorageInterface
	auditService      AuditLogServiceInterface
	broadcaster       BroadcasterInterface
	uploadConfig      config.UploadConfig
	logger            *zap.Logger
}

func NewFileService(
	fileRepository repositories.FileRepositoryInterface,
	historyRepository repositories.DownloadHistoryRepositoryInterface,
	storage filestorage.FileStorageInterface,
	auditService AuditLogServiceInterface,
	broadcaster BroadcasterInterface,
	uploadConfig config.UploadConfig,
	logger *zap.Logger,
) FileServiceInterface {
	return &FileService{
		fileRepository:    fileRepository,
		historyRepository: historyRepository,
		storage:           storage,
		auditService:      auditService,
		broadcaster:       broadcaster,
		uploadConfig:      uploadConfig,
		logger:            logger,
	}
}

// canAccess reports whether the user may see or download the file.
// Admins bypass the role list.
func canAccess(user *entities.User, file *entities.DownloadFile) bool {
	if user.Role == constants.RoleAdmin {
		return true
	}
	return constants.ContainsRole(file.AllowedRoles, user.Role)
}

func (s *FileService) GetFiles(ctx context.Context, actor *entities.User, filter types.Filter) ([]dto.DownloadFileDTO, uint64, error) {
	role := actor.Role
	if role == constants.RoleAdmin {
		role = ""
	}
	return s.fileRepository.GetFiles(ctx, filter, role)
}

func (s *FileService) FindFile(ctx context.Context, actor *entities.User, id uint64) (*dto.DownloadFileDTO, error) {
	file, err := s.fileRepository.FindFile(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(actor, file) {
		// Hidden files read as absent.
		return nil, apperrors.ErrNotFound
	}

	result := fileToDTO(file)
	tags, err := s.fileRepository.GetTags(ctx, id)
	if err != nil {
		return nil, err
	}
	result.Tags = tags
	return &result, nil
}

func fileToDTO(file *entities.DownloadFile) dto.DownloadFileDTO {
	return dto.DownloadFileDTO{
		ID:           file.ID,
		Name:         file.Name,
		Description:  utils.NullStringToString(file.Description),
		OriginalName: file.OriginalName,
		SizeBytes:    file.SizeBytes,
		MimeType:     file.MimeType,
		AllowedRoles: file.AllowedRoles,
		UploadedBy:   file.UploadedBy,
		CreatedAt:    utils.FormatTime(file.CreatedAt),
		UpdatedAt:    utils.NullTimeToEmptyString(file.UpdatedAt),
	}
}

func (s *FileService) Upload(ctx context.Context, actor *entities.User, payload dto.CreateDownloadFileDTO, header *multipart.FileHeader) (*dto.DownloadFileDTO, error) {
	if header.Size > s.uploadConfig.MaxSizeBytes {
		return nil, apperrors.ErrFileTooLarge
	}

	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	blobPath, err := s.storage.Save(src, header.Filename, "files")
	if err != nil {
		return nil, err
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	file := &entities.DownloadFile{
		Name:         payload.Name,
		Description:  sql.NullString{String: payload.Description, Valid: payload.Description != ""},
		OriginalName: header.Filename,
		BlobPath:     blobPath,
		SizeBytes:    header.Size,
		MimeType:     mimeType,
		AllowedRoles: payload.AllowedRoles,
		UploadedBy:   actor.ID,
	}

	created, err := s.fileRepository.CreateFile(ctx, file)
	if err != nil {
		// The row never made it; do not leave the blob orphaned.
		if delErr := s.storage.Delete(blobPath); delErr != nil {
			s.logger.Error("orphan blob cleanup failed", zap.String("blob", blobPath), zap.Error(delErr))
		}
		return nil, err
	}

	s.auditService.Record(ctx, actor.ID, "file.upload", "file", &created.ID)
	s.broadcaster.Broadcast(ctx, events.FileUploaded, created)
	return created, nil
}

func (s *FileService) UpdateFile(ctx context.Context, actor *entities.User, id uint64, payload dto.UpdateDownloadFileDTO) (*dto.DownloadFileDTO, error) {
	var name *string
	if payload.Name.Valid {
		name = &payload.Name.String
	}
	var description *string
	if payload.Description.Valid {
		description = &payload.Description.String
	}

	updated, err := s.fileRepository.UpdateFile(ctx, id, name, description, payload.AllowedRoles)
	if err != nil {
		return nil, err
	}

	if payload.TagIDs != nil {
		if err := s.fileRepository.SetTags(ctx, id, payload.TagIDs); err != nil {
			return nil, err
		}
	}
	tags, err := s.fileRepository.GetTags(ctx, id)
	if err != nil {
		return nil, err
	}
	updated.Tags = tags

	s.auditService.Record(ctx, actor.ID, "file.update", "file", &id)
	s.broadcaster.Broadcast(ctx, events.FileUpdated, updated)
	return updated, nil
}

func (s *FileService) DeleteFile(ctx context.Context, actor *entities.User, id uint64) error {
	file, err := s.fileRepository.FindFile(ctx, id)
	if err != nil {
		return err
	}
	if err := s.fileRepository.DeleteFile(ctx, id); err != nil {
		return err
	}
	if err := s.storage.Delete(file.BlobPath); err != nil {
		// The record is gone; an unreferenced blob is only disk waste.
		s.logger.Error("blob delete failed", zap.String("blob", file.BlobPath), zap.Error(err))
	}

	s.auditService.Record(ctx, actor.ID, "file.delete", "file", &id)
	s.broadcaster.Broadcast(ctx, events.FileDeleted, events.DeletedPayload{ID: id})
	return nil
}

func (s *FileService) Download(ctx context.Context, actor *entities.User, id uint64) (io.ReadCloser, *entities.DownloadFile, error) {
	file, err := s.fileRepository.FindFile(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !canAccess(actor, file) {
		return nil, nil, apperrors.ErrForbidden
	}

	reader, err := s.storage.Open(file.BlobPath)
	if err != nil {
		return nil, nil, err
	}

	record, err := s.historyRepository.RecordDownload(ctx, file.ID, actor.ID)
	if err != nil {
		reader.Close()
		return nil, nil, err
	}
	s.broadcaster.Broadcast(ctx, events.DownloadRecorded, record)
	return reader, file, nil
}
