// Package cellbuf implements the compact, structure-of-arrays cell buffer
// (§4.4): a columnar container of parallel arrays that stores a worksheet's
// live cells densely enough to keep large sheets cache- and SIMD-friendly.
package cellbuf

// CellType discriminates the tagged union a buffer slot holds.
type CellType uint8

const (
	TypeEmpty CellType = iota
	TypeNumber
	TypeString
	TypeBool
	TypeFormula
)

func (t CellType) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeFormula:
		return "formula"
	default:
		return "empty"
	}
}

// Value is a single cell's tagged payload, used at the append_mixed/set
// boundary where a caller hands in one logical cell at a time. The buffer
// itself never stores Value; it decomposes one into its columnar arrays.
type Value struct {
	Type      CellType
	Number    float64 // number payload, or cached formula result, or 0/1 for bool
	StringIdx uint32  // pool index of the string (TypeString) or formula expression (TypeFormula)
}
