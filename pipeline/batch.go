// Package pipeline implements the four-stage asynchronous batch pipeline
// (§4.7 C7): preprocess, XML generate, compress, and output, each with its
// own worker pool and bounded inter-stage queue.
package pipeline

import (
	"time"

	"github.com/google/uuid"
	"github.com/xlsxcore/engine/cellbuf"
)

// Batch is a single unit of work flowing through the pipeline: one
// worksheet's (or worksheet fragment's) cells, on their way to becoming a
// serialized, compressed SpreadsheetML part.
type Batch struct {
	ID      uint64
	TraceID uuid.UUID

	Cells   *cellbuf.Buffer
	Strings []string

	BinaryPayload []byte
	EstimatedSize int

	// ContentHash is a "b2sum:"-prefixed, base32-encoded blake2b-256 digest
	// of the final BinaryPayload, stamped by OutputStage. Sinks that can
	// address content by hash (dedup, integrity verification on read-back)
	// use this instead of re-hashing the payload themselves.
	ContentHash string

	SubmittedAt time.Time
}

// NewBatch wraps cells (and the batch-local strings it references) into a
// Batch ready for submission, stamping it with a fresh trace id for
// cross-stage log correlation.
func NewBatch(id uint64, cells *cellbuf.Buffer, strings []string) *Batch {
	return &Batch{
		ID:          id,
		TraceID:     uuid.New(),
		Cells:       cells,
		Strings:     strings,
		SubmittedAt: time.Now(),
	}
}
