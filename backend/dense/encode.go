package dense

import "encoding/binary"
import "math"

// The float32 codecs are function variables so platforms with wide vector
// units can swap in an unrolled path at init time.
var encodeFloat32 func(dst []byte, src []float32) = encodeFloat32Scalar
var decodeFloat32 func(dst []float32, src []byte) = decodeFloat32Scalar

// EncodeLanes reports how many float32 lanes the selected codec touches
// per iteration. Can't return 0.
func EncodeLanes() int {
	return encodeLanes
}

var encodeLanes int = 1

func encodeFloat32Scalar(dst []byte, src []float32) {
	for i, v := range src {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}

func decodeFloat32Scalar(dst []float32, src []byte) {
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
	}
}

func encodeInt64(dst []byte, src []int64) {
	for i, v := range src {
		binary.LittleEndian.PutUint64(dst[i*8:], uint64(v))
	}
}

func decodeInt64(dst []int64, src []byte) {
	for i := range dst {
		dst[i] = int64(binary.LittleEndian.Uint64(src[i*8:]))
	}
}
