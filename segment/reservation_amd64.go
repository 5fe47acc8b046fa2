package segment

// On 64-bit targets the shared small/medium reservation grows in 12 MiB
// strides: large enough to amortize the mmap syscall across hundreds of
// small allocations, small enough that an idle pool doesn't hold an
// unreasonable amount of address space hostage.
const reservationStride = 12 << 20
