package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GoArmGo/PortfolioApp/internal/core/ports"
	"github.com/GoArmGo/PortfolioApp/internal/domain"
	"github.com/GoArmGo/PortfolioApp/internal/imageproc"
	"github.com/GoArmGo/PortfolioApp/internal/messaging/payloads"
	"github.com/google/uuid"
)

// UploadInput — уже прочитанный файл и необязательные метаданные для записи Image.
type UploadInput struct {
	Data []byte
	// BaseURL — схема и хост запроса, например https://api.example.com.
	BaseURL string

	// Если CategorySlug задан, после сохранения файла создаётся запись Image.
	CategorySlug string
	FolderID     *string
	Alt          *string
	Tags         []string
}

// UploadResult — ответ на загрузку.
type UploadResult struct {
	URL                string        `json:"url"`
	Filename           string        `json:"filename"`
	OriginalSizeBytes  int64         `json:"original_size_bytes"`
	ProcessedSizeBytes int64         `json:"processed_size_bytes"`
	ContentType        string        `json:"content_type"`
	MaxSidePx          int           `json:"max_side_px"`
	Quality            int           `json:"quality"`
	Width              int           `json:"width"`
	Height             int           `json:"height"`
	Image              *domain.Image `json:"image,omitempty"`
}

// uploadUseCase implements UploadUseCase
type uploadUseCase struct {
	store       ports.DocumentStore
	fileStorage ports.FileStorage
	publisher   ports.EventPublisher
	opts        imageproc.Options
	logger      *slog.Logger
}

func NewUploadUseCase(
	store ports.DocumentStore,
	fileStorage ports.FileStorage,
	publisher ports.EventPublisher,
	opts imageproc.Options,
	logger *slog.Logger,
) UploadUseCase {
	return &uploadUseCase{
		store:       store,
		fileStorage: fileStorage,
		publisher:   publisher,
		opts:        opts,
		logger:      logger,
	}
}

// Upload декодирует и обрабатывает изображение, записывает файл под случайным именем
// и, если переданы метаданные, создаёт запись Image. При ошибке создания записи
// файл удаляется.
func (uc *uploadUseCase) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	if input.CategorySlug == "" && (input.FolderID != nil || input.Alt != nil || len(input.Tags) > 0) {
		return nil, domain.NewValidationError(errors.New("category_slug: required when folder_id, alt or tags are given"))
	}

	src, err := imageproc.Decode(input.Data, uc.opts.MaxPixels)
	if err != nil {
		uc.logger.Warn("upload rejected", "reason", err)
		return nil, fmt.Errorf("%w: invalid or unsupported image", domain.ErrUnsupportedMedia)
	}

	processed, err := imageproc.Process(src, uc.opts)
	if err != nil {
		if errors.Is(err, imageproc.ErrInvalidImage) {
			return nil, fmt.Errorf("%w: invalid or unsupported image", domain.ErrUnsupportedMedia)
		}
		return nil, fmt.Errorf("process image: %w", err)
	}

	filename := uuid.NewString() + processed.Ext
	result := &UploadResult{
		URL:                strings.TrimRight(input.BaseURL, "/") + UploadsPath + filename,
		Filename:           filename,
		OriginalSizeBytes:  int64(len(input.Data)),
		ProcessedSizeBytes: int64(len(processed.Data)),
		ContentType:        processed.MIME,
		MaxSidePx:          uc.opts.MaxSidePx,
		Quality:            processed.Quality,
		Width:              processed.Width,
		Height:             processed.Height,
	}

	var record *domain.Image
	if input.CategorySlug != "" {
		width, height := processed.Width, processed.Height
		record = &domain.Image{
			URL:          result.URL,
			Alt:          input.Alt,
			Width:        &width,
			Height:       &height,
			CategorySlug: input.CategorySlug,
			FolderID:     input.FolderID,
			Tags:         input.Tags,
			File:         &filename,
		}
		// Ссылки проверяются до записи файла, чтобы не оставлять сирот.
		if err := checkImage(ctx, uc.store, record); err != nil {
			return nil, err
		}
	}

	if _, err := uc.fileStorage.SaveFile(ctx, filename, bytes.NewReader(processed.Data)); err != nil {
		return nil, fmt.Errorf("save processed image: %w", err)
	}

	uc.logger.Info("image processed",
		"filename", filename,
		"source_format", src.Format,
		"original_size_bytes", result.OriginalSizeBytes,
		"processed_size_bytes", result.ProcessedSizeBytes,
		"content_type", result.ContentType,
		"resized", processed.Resized,
		"width", processed.Width,
		"height", processed.Height,
	)

	if record != nil {
		created, err := createImage(ctx, uc.store, uc.logger, *record)
		if err != nil {
			if delErr := uc.fileStorage.DeleteFile(context.WithoutCancel(ctx), filename); delErr != nil {
				uc.logger.Error("failed to remove orphaned upload", "filename", filename, "error", delErr)
			}
			return nil, err
		}
		result.Image = created
	}

	event := payloads.ImageUploaded{
		Filename:     filename,
		URL:          result.URL,
		ContentType:  result.ContentType,
		SizeBytes:    result.ProcessedSizeBytes,
		CategorySlug: input.CategorySlug,
	}
	if result.Image != nil {
		event.ImageID = result.Image.ID
	}
	publish(ctx, uc.publisher, uc.logger, payloads.NewEvent(payloads.EventImageUploaded, event))

	return result, nil
}
