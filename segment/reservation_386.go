package segment

// 32-bit targets have a much smaller address space to spend on reserved
// RWX mappings, so the stride shrinks to 192 KiB.
const reservationStride = 192 << 10
