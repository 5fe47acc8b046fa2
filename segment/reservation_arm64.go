package segment

const reservationStride = 12 << 20
