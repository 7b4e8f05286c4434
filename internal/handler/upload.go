package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/GoArmGo/PortfolioApp/internal/domain"
	"github.com/GoArmGo/PortfolioApp/internal/imageproc"
	"github.com/GoArmGo/PortfolioApp/internal/usecase"
)

const (
	// uploadChunkSize — размер порции при чтении файла из multipart.
	uploadChunkSize = 32 << 10
	// maxFieldBytes ограничивает текстовые поля формы загрузки.
	maxFieldBytes = 4 << 10
	// multipartOverhead — запас на заголовки частей и текстовые поля сверх лимита файла.
	multipartOverhead = 1 << 20
)

// UploadHandler принимает файл, отдаёт его на обработку и возвращает публичный URL.
type UploadHandler struct {
	uploadUseCase usecase.UploadUseCase
	maxBytes      int64
	logger        *slog.Logger
}

func NewUploadHandler(uc usecase.UploadUseCase, maxBytes int64, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{uploadUseCase: uc, maxBytes: maxBytes, logger: logger}
}

// Upload — POST /upload (multipart/form-data, поле file и необязательные
// category_slug, folder_id, alt, tags). Части читаются потоком, поэтому
// неподходящий тип отклоняется до чтения тела файла, а превышение лимита
// обнаруживается до того, как тело прочитано целиком.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		respondWithDomainError(w, domain.NewValidationError(fmt.Errorf("expected multipart/form-data: %v", err)), h.logger, "endpoint", "Upload")
		return
	}

	input := usecase.UploadInput{BaseURL: baseURL(r)}
	gotFile := false

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			respondWithDomainError(w, h.readError(err), h.logger, "endpoint", "Upload")
			return
		}

		err = h.readPart(part, &input, &gotFile)
		part.Close()
		if err != nil {
			respondWithDomainError(w, err, h.logger, "endpoint", "Upload")
			return
		}
	}

	if !gotFile {
		respondWithDomainError(w, domain.NewValidationError(errors.New("file: field is required")), h.logger, "endpoint", "Upload")
		return
	}

	result, err := h.uploadUseCase.Upload(r.Context(), input)
	if err != nil {
		respondWithDomainError(w, err, h.logger, "endpoint", "Upload", "size_bytes", len(input.Data))
		return
	}

	h.logger.Info("upload stored", "filename", result.Filename, "content_type", result.ContentType)
	respondWithJSON(w, http.StatusCreated, result, h.logger)
}

func (h *UploadHandler) readPart(part *multipart.Part, input *usecase.UploadInput, gotFile *bool) error {
	switch part.FormName() {
	case "file":
		contentType := part.Header.Get("Content-Type")
		if !imageproc.IsAllowedMIME(contentType) {
			return fmt.Errorf("%w: %q is not an allowed image type (jpeg, png, webp)", domain.ErrUnsupportedMedia, contentType)
		}
		data, err := readLimited(part, h.maxBytes)
		if err != nil {
			if errors.Is(err, domain.ErrPayloadTooLarge) {
				return fmt.Errorf("%w: file exceeds %d MB", domain.ErrPayloadTooLarge, h.maxBytes>>20)
			}
			return h.readError(err)
		}
		input.Data = data
		*gotFile = true

	case "category_slug", "folder_id", "alt", "tags":
		raw, err := readLimited(part, maxFieldBytes)
		if err != nil {
			if errors.Is(err, domain.ErrPayloadTooLarge) {
				return domain.NewValidationError(fmt.Errorf("%s: value is too long", part.FormName()))
			}
			return h.readError(err)
		}
		value := strings.TrimSpace(string(raw))
		switch part.FormName() {
		case "category_slug":
			input.CategorySlug = value
		case "folder_id":
			input.FolderID = optional(value)
		case "alt":
			input.Alt = optional(value)
		case "tags":
			input.Tags = splitTags(value)
		}
	}
	return nil
}

// readError переводит ошибки чтения тела запроса в доменные.
func (h *UploadHandler) readError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return fmt.Errorf("%w: request body exceeds %d bytes", domain.ErrPayloadTooLarge, mbe.Limit)
	}
	return domain.NewValidationError(fmt.Errorf("malformed multipart body: %v", err))
}

// readLimited читает r порциями и прекращает чтение, как только объём превысил limit.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	var buf bytes.Buffer
	chunk := make([]byte, uploadChunkSize)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			if int64(buf.Len()+n) > limit {
				return nil, domain.ErrPayloadTooLarge
			}
			buf.Write(chunk[:n])
		}
		if err == io.EOF {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// baseURL собирает схему и хост запроса с учётом TLS и X-Forwarded-Proto.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		proto = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
		if proto == "http" || proto == "https" {
			scheme = proto
		}
	}
	return scheme + "://" + r.Host
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
