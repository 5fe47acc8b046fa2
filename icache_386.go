package rtasm

func flushICache(b []byte) {}
