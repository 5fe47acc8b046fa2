package rtasm

// MaxSegmentSizeLog2 bounds the total size of a loaded segment on 32-bit
// x86, per spec: 24 (16 MiB).
const MaxSegmentSizeLog2 = 24
