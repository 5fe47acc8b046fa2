//go:build freebsd || darwin

package segment

// prefetch is a no-op outside Linux; jit-asm.cc leaves the WILLNEED hint
// out on FreeBSD too, so pages fault in lazily on first touch there.
func prefetch(b []byte) {}
