package kernel

// Memset sets all bytes of the supplied slice to the given value. The
// implementation is based on bytes.Repeat; instead of using a for loop, this
// function uses log2(len(buf)) copy calls which should give us a speed boost
// as frame-sized buffers are always a power of two.
func Memset(buf []byte, value byte) {
	if len(buf) == 0 {
		return
	}

	// Set first element and make log2(len(buf)) optimized copies
	buf[0] = value
	for index := 1; index < len(buf); index *= 2 {
		copy(buf[index:], buf[:index])
	}
}
