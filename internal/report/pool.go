package report

import "sync"

// payloadPool hands out scratch buffers sized for the largest possible
// report payload (255 bytes, one length byte). A single size class is
// enough since report payloads have exactly one ceiling.
var payloadPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, maxPayloadLen)
		return &buf
	},
}

const maxPayloadLen = 255

// getPayloadBuffer returns a zero-length, maxPayloadLen-capacity buffer.
func getPayloadBuffer() []byte {
	p := payloadPool.Get().(*[]byte)
	return (*p)[:0]
}

// putPayloadBuffer returns a buffer obtained from getPayloadBuffer.
func putPayloadBuffer(buf []byte) {
	buf = buf[:0]
	payloadPool.Put(&buf)
}
