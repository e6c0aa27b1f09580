// Package simdops implements the batch SIMD processor (§4.5): stateless
// bulk operations over one or more cellbuf.Buffers.
//
// No cgo or assembly intrinsics are used. Operations instead process fixed-
// width groups ("lanes") of float64 values in plain Go loops, the same
// software-emulation approach the teacher pack's internal/simd package
// takes for its own AVX512 vector types (Vec64x8 etc. are plain [N]uint64
// arrays manipulated with ordinary Go arithmetic, not real vector
// registers). golang.org/x/sys/cpu is used only to pick the lane width a
// machine should target, the same field-probing idiom internal/aes uses
// for cpu.X86.HasAVX512VAES.
package simdops

import "golang.org/x/sys/cpu"

// LaneWidth is the number of float64 elements processed per inner-loop
// iteration before falling back to scalar handling of the remainder
// (§4.5 "target: 4-wide doubles on SSE2, 8-wide on AVX-512").
func LaneWidth() int {
	if cpu.X86.HasAVX512F {
		return 8
	}
	return 4
}
