package utils

import (
	"io"
	"sync"
)

// flushable is the optional interface buffered writers expose.
type flushable interface {
	Flush() error
}

// FlushingWriter forwards writes to the wrapped writer and flushes it after
// every write, keeping progress rows and step output visible through buffered
// pipes. Writes are serialized.
type FlushingWriter struct {
	destination io.Writer
	writeGuard  sync.Mutex
}

// NewFlushingWriter wraps a writer in flush-after-write behavior. A writer
// that is already a FlushingWriter is returned as is.
func NewFlushingWriter(destination io.Writer) io.Writer {
	if destination == nil {
		return nil
	}
	if alreadyFlushing, wrapped := destination.(*FlushingWriter); wrapped {
		return alreadyFlushing
	}
	return &FlushingWriter{destination: destination}
}

// Write writes data to the destination and flushes it when supported.
func (writer *FlushingWriter) Write(data []byte) (int, error) {
	if writer == nil || writer.destination == nil {
		return 0, nil
	}

	writer.writeGuard.Lock()
	defer writer.writeGuard.Unlock()

	writtenCount, writeError := writer.destination.Write(data)
	if writeError != nil {
		return writtenCount, writeError
	}

	if flushableDestination, supportsFlush := writer.destination.(flushable); supportsFlush {
		writeError = flushableDestination.Flush()
	}
	return writtenCount, writeError
}
