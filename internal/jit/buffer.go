package jit

import "encoding/binary"

// placeholderImm64 is written wherever a Relocation defers an absolute
// 8-byte immediate to the loader. Left unpatched, it segfaults loudly
// rather than silently reading near address zero.
const placeholderImm64 = 0x9090909090909090

// outputBuffer accumulates emitted machine code. It never shrinks; branch
// back-patching happens in place via patchU32LE/patchRel32 after the offset of
// the site being patched is already known.
type outputBuffer struct {
	buf []byte
}

func (o *outputBuffer) offset() uint32 {
	return uint32(len(o.buf))
}

func (o *outputBuffer) bytes() []byte {
	return o.buf
}

func (o *outputBuffer) emit(bs ...byte) {
	o.buf = append(o.buf, bs...)
}

func (o *outputBuffer) emitBytes(bs []byte) {
	o.buf = append(o.buf, bs...)
}

func (o *outputBuffer) emitU8(v uint8) {
	o.buf = append(o.buf, v)
}

func (o *outputBuffer) emitU32LE(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	o.buf = append(o.buf, tmp[:]...)
}

func (o *outputBuffer) emitI32LE(v int32) {
	o.emitU32LE(uint32(v))
}

func (o *outputBuffer) emitU64LE(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	o.buf = append(o.buf, tmp[:]...)
}

// emitPlaceholder32 reserves 4 bytes to be back-patched later (a branch
// displacement or a relocation-deferred 32-bit value) and returns the
// offset of the reserved region.
func (o *outputBuffer) emitPlaceholder32() uint32 {
	off := o.offset()
	o.emitU32LE(0x90909090)
	return off
}

// emitPlaceholder64 reserves 8 bytes for a relocation-deferred absolute
// pointer immediate and returns the offset of the reserved region.
func (o *outputBuffer) emitPlaceholder64() uint32 {
	off := o.offset()
	o.emitU64LE(placeholderImm64)
	return off
}

// patchU32LE overwrites the 4 bytes at off, previously reserved by
// emitPlaceholder32, with v.
func (o *outputBuffer) patchU32LE(off uint32, v uint32) {
	binary.LittleEndian.PutUint32(o.buf[off:off+4], v)
}

// patchRel32 computes the PC-relative displacement from the end of the
// 4-byte field at siteOff to target and patches it in place. siteOff must
// point at the start of the 4-byte field, and the field is assumed to be
// the final bytes of its containing instruction (the common case for jcc
// and jmp rel32 forms used throughout this package).
func (o *outputBuffer) patchRel32(siteOff, target uint32) {
	rel := int64(target) - int64(siteOff+4)
	o.patchU32LE(siteOff, uint32(int32(rel)))
}
