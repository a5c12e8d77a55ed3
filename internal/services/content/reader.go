// Package content reads selected files for a preview.
package content

import (
	"context"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/ctxpick/internal/preview"
)

const (
	// ReadErrorPrefix starts the content substituted for an unreadable file.
	ReadErrorPrefix = "Error reading file: "

	readFailedMessage = "failed to read file"
	readBatchMessage  = "read preview files"
	pathFieldName     = "path"
	filesFieldName    = "files"
	workersFieldName  = "workers"
)

// ReadFunc reads a whole file.
type ReadFunc func(path string) ([]byte, error)

// Reader fetches file contents concurrently with a bounded number of workers.
type Reader struct {
	workers int
	read    ReadFunc
	logger  *zap.Logger
}

// NewReader constructs a Reader over the local filesystem. A non-positive
// worker count means one read at a time.
func NewReader(workers int, logger *zap.Logger) *Reader {
	return NewReaderWithFunc(workers, os.ReadFile, logger)
}

// NewReaderWithFunc constructs a Reader that reads through read.
func NewReaderWithFunc(workers int, read ReadFunc, logger *zap.Logger) *Reader {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{workers: workers, read: read, logger: logger}
}

// ReadFiles returns one entry per path in request order. A file that cannot be
// read, or that is not reached before ctx is done, carries the error message
// as its content.
func (reader *Reader) ReadFiles(ctx context.Context, paths []string) []preview.FileContent {
	results := make([]preview.FileContent, len(paths))
	var group errgroup.Group
	group.SetLimit(reader.workers)

	for index, path := range paths {
		group.Go(func() error {
			results[index] = preview.FileContent{Path: path, Content: reader.readOne(ctx, path)}
			return nil
		})
	}
	_ = group.Wait()

	reader.logger.Debug(readBatchMessage, zap.Int(filesFieldName, len(paths)), zap.Int(workersFieldName, reader.workers))
	return results
}

func (reader *Reader) readOne(ctx context.Context, path string) string {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ReadErrorPrefix + ctxErr.Error()
	}
	data, readErr := reader.read(path)
	if readErr != nil {
		reader.logger.Warn(readFailedMessage, zap.String(pathFieldName, path), zap.Error(readErr))
		return ReadErrorPrefix + readErr.Error()
	}
	return string(data)
}

var _ preview.ContentFetcher = (*Reader)(nil)
