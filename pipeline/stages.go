package pipeline

import (
	"encoding/base32"

	"golang.org/x/crypto/blake2b"

	"github.com/xlsxcore/engine/compr"
	"github.com/xlsxcore/engine/strpool"
	"github.com/xlsxcore/engine/xerr"
	"github.com/xlsxcore/engine/xmlwriter"
)

// PreprocessStage validates batch size, deduplicates the batch's embedded
// string list against the shared pool, reserves columnar capacity, and
// records an estimated serialized size (§4.7 "Preprocess").
type PreprocessStage struct {
	Pool         *strpool.Pool
	MinBatchSize int
	MaxBatchSize int
}

func (s *PreprocessStage) Name() string { return StagePreprocess.String() }

func (s *PreprocessStage) Process(b *Batch) (*Batch, error) {
	n := b.Cells.Len()
	if n < s.MinBatchSize || n > s.MaxBatchSize {
		return nil, errBatchSizeOutOfRange
	}

	seen := make(map[string]struct{}, len(b.Strings))
	deduped := b.Strings[:0]
	for _, str := range b.Strings {
		if _, ok := seen[str]; ok {
			continue
		}
		seen[str] = struct{}{}
		deduped = append(deduped, str)
		s.Pool.Intern(str)
	}
	b.Strings = deduped

	b.Cells.SortByCoord()
	b.EstimatedSize = xmlwriter.Estimate(b.Cells)
	b.Cells.Reserve(n)
	return b, nil
}

// XMLGenerateStage calls the zero-copy serializer to produce the batch's
// worksheet XML into its BinaryPayload (§4.7 "XML generate").
type XMLGenerateStage struct {
	Pool *strpool.Pool
}

func (s *XMLGenerateStage) Name() string { return StageXMLGenerate.String() }

func (s *XMLGenerateStage) Process(b *Batch) (*Batch, error) {
	w := xmlwriter.NewSize(b.EstimatedSize)
	xmlwriter.WriteWorksheet(w, b.Cells, s.Pool)
	b.BinaryPayload = w.Bytes()
	return b, nil
}

// CompressStage compresses BinaryPayload in place with the configured
// codec, skipping payloads smaller than Threshold (§4.7 "Compress").
type CompressStage struct {
	Codec     compr.Compressor
	Threshold int
}

// DefaultCompressThreshold is the 1 KiB default below which compression is
// skipped.
const DefaultCompressThreshold = 1024

func (s *CompressStage) Name() string { return StageCompress.String() }

func (s *CompressStage) Process(b *Batch) (*Batch, error) {
	if len(b.BinaryPayload) < s.Threshold {
		return b, nil
	}
	codec := s.Codec
	if codec == nil {
		codec = compr.Compression("deflate")
	}
	b.BinaryPayload = codec.Compress(b.BinaryPayload, nil)
	return b, nil
}

// Sink is the external collaborator the output stage writes a finished
// batch's payload to: a ZIP writer, a file path builder, or an in-memory
// collector (§4.7 "Output").
type Sink interface {
	WriteBatch(id uint64, payload []byte) error
}

// OutputStage writes the (possibly compressed) payload to Dest, optionally
// verifying its size, and releases the batch's transient fields on
// success (§4.7 "Output").
type OutputStage struct {
	Dest         Sink
	VerifyMinLen int
}

func (s *OutputStage) Name() string { return StageOutput.String() }

func (s *OutputStage) Process(b *Batch) (*Batch, error) {
	if s.VerifyMinLen > 0 && len(b.BinaryPayload) < s.VerifyMinLen {
		return nil, xerr.New(xerr.SerializationError, "pipeline.Output", "payload shorter than expected minimum")
	}
	b.ContentHash = contentHash(b.BinaryPayload)
	if err := s.Dest.WriteBatch(b.ID, b.BinaryPayload); err != nil {
		return nil, xerr.Wrap(xerr.IoError, "pipeline.Output", "sink write failed", err)
	}
	b.BinaryPayload = nil
	b.Cells = nil
	b.Strings = nil
	return b, nil
}

// contentHash returns a "b2sum:"-prefixed, base32-encoded blake2b-256
// digest of payload, the same addressing scheme the teacher's blockfmt
// uploader stamps onto finished objects.
func contentHash(payload []byte) string {
	sum := blake2b.Sum256(payload)
	return "b2sum:" + base32.StdEncoding.EncodeToString(sum[:])
}
