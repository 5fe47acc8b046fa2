package segment

const reservationStride = 192 << 10
