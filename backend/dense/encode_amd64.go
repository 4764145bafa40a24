//go:build amd64

package dense

import "encoding/binary"
import "math"

import "github.com/klauspost/cpuid/v2"

func init() {
	// Unrolled path only pays off with wide vector units
	if cpuid.CPU.Supports(cpuid.AVX2) {
		encodeFloat32 = encodeFloat32Unrolled
		decodeFloat32 = decodeFloat32Unrolled
		encodeLanes = 8
	}
}

func encodeFloat32Unrolled(dst []byte, src []float32) {
	i := 0
	for ; i+8 <= len(src); i += 8 {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(src[i]))
		binary.LittleEndian.PutUint32(dst[i*4+4:], math.Float32bits(src[i+1]))
		binary.LittleEndian.PutUint32(dst[i*4+8:], math.Float32bits(src[i+2]))
		binary.LittleEndian.PutUint32(dst[i*4+12:], math.Float32bits(src[i+3]))
		binary.LittleEndian.PutUint32(dst[i*4+16:], math.Float32bits(src[i+4]))
		binary.LittleEndian.PutUint32(dst[i*4+20:], math.Float32bits(src[i+5]))
		binary.LittleEndian.PutUint32(dst[i*4+24:], math.Float32bits(src[i+6]))
		binary.LittleEndian.PutUint32(dst[i*4+28:], math.Float32bits(src[i+7]))
	}
	encodeFloat32Scalar(dst[i*4:], src[i:])
}

func decodeFloat32Unrolled(dst []float32, src []byte) {
	i := 0
	for ; i+8 <= len(dst); i += 8 {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
		dst[i+1] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4+4:]))
		dst[i+2] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4+8:]))
		dst[i+3] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4+12:]))
		dst[i+4] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4+16:]))
		dst[i+5] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4+20:]))
		dst[i+6] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4+24:]))
		dst[i+7] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4+28:]))
	}
	decodeFloat32Scalar(dst[i:], src[i*4:])
}
