// Package loader copies a generated pattern file into a destination
// buffer file or device node, enforcing a size limit and reporting
// progress. Large files are moved in fixed-size chunks so progress can
// be observed on multi-gigabyte transfers.
package loader

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// DefaultChunkSize is the transfer block size, 1 GiB.
const DefaultChunkSize = 1 << 30

// ErrTooLarge indicates the source file does not fit the size limit.
var ErrTooLarge = errors.New("file too big to fit into buffer")

// Loader copies files in chunks with progress logging.
type Loader struct {
	chunkSize int64
	log       *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithChunkSize overrides the transfer block size. Values below one byte
// are ignored.
func WithChunkSize(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.chunkSize = n
		}
	}
}

// WithLogger sets the progress logger.
func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) {
		l.log = log
	}
}

// New returns a Loader with the default chunk size.
func New(opts ...Option) *Loader {
	l := &Loader{
		chunkSize: DefaultChunkSize,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load copies the file at src into dst, which may be a regular file or a
// writable device node. The source size is checked against sizeLimit
// before any byte moves; a too-large file fails outright rather than
// being truncated.
func (l *Loader) Load(src, dst string, sizeLimit int64) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("sizing %s: %w", src, err)
	}
	fileSize := info.Size()
	if fileSize > sizeLimit {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, src, fileSize, sizeLimit)
	}

	// No O_TRUNC: the destination may be a device that cannot be truncated.
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dst, err)
	}
	defer out.Close()

	l.log.Info("loading file into buffer", "src", src, "dst", dst, "bytes", fileSize)

	buf := make([]byte, l.chunkSize)
	var loaded int64
	for loaded < fileSize {
		block := fileSize - loaded
		if block > l.chunkSize {
			block = l.chunkSize
		}
		if _, err := io.ReadFull(in, buf[:block]); err != nil {
			return fmt.Errorf("reading %s: %w", src, err)
		}
		if _, err := out.Write(buf[:block]); err != nil {
			return fmt.Errorf("writing %s: %w", dst, err)
		}
		loaded += block
		l.log.Info("load progress", "percent", 100*loaded/fileSize)
	}

	if err := out.Sync(); err != nil {
		// Device nodes may not support fsync; the copy itself succeeded.
		l.log.Debug("sync after load", "dst", dst, "err", err)
	}
	return nil
}
