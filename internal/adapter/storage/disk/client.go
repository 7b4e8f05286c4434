package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Client хранит обработанные изображения в локальной директории,
// которую роутер раздаёт по пути /uploads.
type Client struct {
	baseDir string
	logger  *slog.Logger
}

// NewClient создаёт директорию для загрузок, если её ещё нет.
func NewClient(baseDir string, logger *slog.Logger) (*Client, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("upload directory must be set")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", baseDir, err)
	}
	logger.Info("upload directory ready", "path", baseDir)

	return &Client{baseDir: baseDir, logger: logger}, nil
}

// Dir возвращает директорию с файлами.
func (c *Client) Dir() string {
	return c.baseDir
}

// SaveFile записывает файл через временный файл и rename, чтобы частично
// записанный файл никогда не был виден по публичному URL.
func (c *Client) SaveFile(ctx context.Context, name string, content io.Reader) (int64, error) {
	target, err := c.path(name)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(c.baseDir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, content)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("failed to write file %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close file %s: %w", name, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return 0, fmt.Errorf("failed to chmod file %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return 0, fmt.Errorf("failed to move file %s into place: %w", name, err)
	}

	c.logger.Info("file saved", "name", name, "size_bytes", n)
	return n, nil
}

// DeleteFile удаляет файл. Отсутствующий файл ошибкой не считается.
func (c *Client) DeleteFile(ctx context.Context, name string) error {
	target, err := c.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.logger.Debug("file already absent", "name", name)
			return nil
		}
		return fmt.Errorf("failed to delete file %s: %w", name, err)
	}

	c.logger.Info("file deleted", "name", name)
	return nil
}

// path допускает только имя файла без каталогов.
func (c *Client) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return filepath.Join(c.baseDir, name), nil
}
