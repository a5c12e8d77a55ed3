// Package clipboard copies an assembled preview to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

const (
	copyErrorFormat = "copy preview to clipboard: %w"
	copiedMessage   = "copied preview to clipboard"
	bytesFieldName  = "bytes"
)

// ErrEmptyText is returned when there is nothing to copy.
var ErrEmptyText = errors.New("nothing to copy")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// WriteFunc writes text to a clipboard.
type WriteFunc func(text string) error

// Service implements Copier using github.com/atotto/clipboard.
type Service struct {
	write  WriteFunc
	logger *zap.Logger
}

// NewService constructs a clipboard service backed by the system clipboard.
func NewService(logger *zap.Logger) *Service {
	return NewServiceWithWriter(clipboard.WriteAll, logger)
}

// NewServiceWithWriter constructs a service that writes through write.
func NewServiceWithWriter(write WriteFunc, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{write: write, logger: logger}
}

// Copy writes text to the clipboard.
func (service *Service) Copy(text string) error {
	if text == "" {
		return ErrEmptyText
	}
	if writeErr := service.write(text); writeErr != nil {
		return fmt.Errorf(copyErrorFormat, writeErr)
	}
	service.logger.Debug(copiedMessage, zap.Int(bytesFieldName, len(text)))
	return nil
}

// Unsupported reports whether the platform has no usable clipboard utility.
func Unsupported() bool {
	return clipboard.Unsupported
}

var _ Copier = (*Service)(nil)
