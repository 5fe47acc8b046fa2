package rtasm

// MaxSegmentSizeLog2 bounds the total size of a loaded segment on 64-bit
// x86, per spec: 30 (1 GiB).
const MaxSegmentSizeLog2 = 30
