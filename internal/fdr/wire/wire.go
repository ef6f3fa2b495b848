// Package wire defines the binary layout of the trace file: the fixed
// 32-byte file header, the 16-byte metadata records, and the 8-byte packed
// function records. Everything is little-endian and byte-exact; downstream
// decoders depend on these layouts, so none of the constants here may
// change.
//
// Record layouts:
//
//	metadata record (16 bytes)
//	  byte 0      bit 0 = 1 (metadata), bits 1-7 = kind
//	  bytes 1-15  kind-specific body, zero padded
//
//	function record (8 bytes)
//	  word 0      bit 0 = 0 (function), bits 1-3 = entry kind,
//	              bits 4-31 = function id (28 bits)
//	  word 1      TSC delta since the previous record in this buffer
package wire

import "encoding/binary"

var order = binary.LittleEndian

// File header constants.
const (
	// HeaderSize is the byte length of the trace file header.
	HeaderSize = 32

	// HeaderVersion is the trace format version emitted by this runtime.
	HeaderVersion = 1

	// HeaderTypeFDR tags the file as a flight-data-recorder trace.
	HeaderTypeFDR = 1

	// headerTSCFlags asserts both the constant-TSC and nonstop-TSC bits.
	// Always set pending real capability detection.
	headerTSCFlags = 0x03
)

// Record sizes.
const (
	MetadataRecordSize = 16
	FunctionRecordSize = 8
)

// Metadata record kinds (bits 1-7 of the first byte).
const (
	kindNewBuffer = iota
	kindEndOfBuffer
	kindNewCPUID
	kindTSCWrap
	kindWalltimeMarker
)

// Function record packing.
const (
	metadataTypeBit = 0x01

	funcKindShift = 1
	funcIDShift   = 4

	// MaxFunctionID is the largest function id representable in the
	// 28-bit field of a function record.
	MaxFunctionID = 1<<28 - 1
)

// NanosecondsPerSecond is the cycle frequency recorded when no hardware
// timestamp counter is available and timestamps are wall-clock reads.
const NanosecondsPerSecond uint64 = 1e9

// PutHeader writes the trace file header into b and returns HeaderSize.
// cycleFrequency is the tick rate of the recorded timestamps and bufferSize
// the configured per-buffer byte size.
func PutHeader(b []byte, cycleFrequency, bufferSize uint64) int {
	_ = b[HeaderSize-1]
	for i := 0; i < HeaderSize; i++ {
		b[i] = 0
	}
	order.PutUint16(b[0:], HeaderVersion)
	order.PutUint16(b[2:], HeaderTypeFDR)
	b[4] = headerTSCFlags
	order.PutUint64(b[8:], cycleFrequency)
	order.PutUint64(b[16:], bufferSize)
	return HeaderSize
}

// putMetadata clears a 16-byte record in b and stamps the kind byte.
func putMetadata(b []byte, kind byte) []byte {
	_ = b[MetadataRecordSize-1]
	for i := 1; i < MetadataRecordSize; i++ {
		b[i] = 0
	}
	b[0] = kind<<1 | metadataTypeBit
	return b
}

// PutNewBuffer writes a new-buffer record carrying the id of the writer
// lane that owns the buffer. Always the first record in a buffer.
func PutNewBuffer(b []byte, lane int32) int {
	r := putMetadata(b, kindNewBuffer)
	order.PutUint32(r[1:], uint32(lane))
	return MetadataRecordSize
}

// PutEndOfBuffer writes the record that terminates a buffer's byte stream.
func PutEndOfBuffer(b []byte) int {
	putMetadata(b, kindEndOfBuffer)
	return MetadataRecordSize
}

// PutNewCPUID writes a CPU-migration record: the executing CPU and a full
// timestamp re-anchoring subsequent deltas.
func PutNewCPUID(b []byte, cpu uint16, tsc uint64) int {
	r := putMetadata(b, kindNewCPUID)
	order.PutUint16(r[1:], cpu)
	order.PutUint64(r[3:], tsc)
	return MetadataRecordSize
}

// PutTSCWrap writes a full timestamp record, emitted when the delta to the
// previous record does not fit in 32 bits or the counter moved backwards.
func PutTSCWrap(b []byte, tsc uint64) int {
	r := putMetadata(b, kindTSCWrap)
	order.PutUint64(r[1:], tsc)
	return MetadataRecordSize
}

// PutWalltimeMarker writes the wall-clock anchor recorded when a buffer is
// set up, correlating cycle timestamps with real time.
func PutWalltimeMarker(b []byte, sec int64, usec uint32) int {
	r := putMetadata(b, kindWalltimeMarker)
	order.PutUint64(r[1:], uint64(sec))
	order.PutUint32(r[9:], usec)
	return MetadataRecordSize
}

// PutFunctionRecord writes one packed entry/exit event. kind uses the
// entry-kind codes shared with the control surface (entry=0, exit=1,
// tail-exit=2); funcID is truncated to its low 28 bits.
func PutFunctionRecord(b []byte, funcID int32, kind uint8, tscDelta uint32) int {
	_ = b[FunctionRecordSize-1]
	word := uint32(funcID&MaxFunctionID)<<funcIDShift | uint32(kind)<<funcKindShift
	order.PutUint32(b[0:], word)
	order.PutUint32(b[4:], tscDelta)
	return FunctionRecordSize
}
