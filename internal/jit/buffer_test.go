package jit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOutputBuffer_emitAndPatch(t *testing.T) {
	var b outputBuffer
	b.emit(0x90)
	off := b.emitPlaceholder32()
	require.Equal(t, uint32(1), off)
	require.Len(t, b.bytes(), 5)

	b.patchU32LE(off, 0xdeadbeef)
	require.Equal(t, []byte{0xef, 0xbe, 0xad, 0xde}, b.bytes()[off:off+4])
}

func TestOutputBuffer_patchRel32(t *testing.T) {
	var b outputBuffer
	site := b.emitPlaceholder32()
	b.emit(0x00, 0x00, 0x00, 0x00, 0x00) // pad five bytes
	target := b.offset()

	b.patchRel32(site, target)
	rel := int32(uint32(b.bytes()[0]) | uint32(b.bytes()[1])<<8 | uint32(b.bytes()[2])<<16 | uint32(b.bytes()[3])<<24)
	require.Equal(t, int32(target-(site+4)), rel)
}

func TestOutputBuffer_emitPlaceholder64(t *testing.T) {
	var b outputBuffer
	off := b.emitPlaceholder64()
	require.Equal(t, uint64(placeholderImm64), uint64(b.bytes()[off])|
		uint64(b.bytes()[off+1])<<8|uint64(b.bytes()[off+2])<<16|uint64(b.bytes()[off+3])<<24|
		uint64(b.bytes()[off+4])<<32|uint64(b.bytes()[off+5])<<40|uint64(b.bytes()[off+6])<<48|uint64(b.bytes()[off+7])<<56)
}
