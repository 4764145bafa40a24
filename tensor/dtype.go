package tensor

// Dtype is an opaque element type tag. The contract layer compares tags for
// equality and never interprets element bytes.
type Dtype uint8

const (
	Invalid Dtype = iota
	F32
	F64
	I32
	I64
	U8
	Bool
)

// Size returns the element width in bytes, or 0 for Invalid.
func (d Dtype) Size() int {
	switch d {
	case F32, I32:
		return 4
	case F64, I64:
		return 8
	case U8, Bool:
		return 1
	}
	return 0
}

func (d Dtype) String() string {
	switch d {
	case F32:
		return "f32"
	case F64:
		return "f64"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case U8:
		return "u8"
	case Bool:
		return "bool"
	}
	return "invalid"
}

// DtypeOf parses the tags produced by String. It is the inverse used by the
// checkpoint backend.
func DtypeOf(s string) Dtype {
	switch s {
	case "f32":
		return F32
	case "f64":
		return F64
	case "i32":
		return I32
	case "i64":
		return I64
	case "u8":
		return U8
	case "bool":
		return Bool
	}
	return Invalid
}
