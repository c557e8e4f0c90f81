package model

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Kind is the inferred data type of a column.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindString
	KindDatetime
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindDatetime:
		return "datetime"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// InferKinds sets s.Kinds from the current cells. Empty cells count as
// nulls: a column of integers with a null becomes float, a column of
// nulls only is float. With no rows every column is a string.
func (s *Series) InferKinds() {
	s.Kinds = make([]Kind, len(s.Columns))
	for i, name := range s.Columns {
		if name == ColDatetime {
			s.Kinds[i] = KindDatetime
			continue
		}
		s.Kinds[i] = inferColumn(s.Bars, i)
	}
}

func inferColumn(bars []Bar, col int) Kind {
	if len(bars) == 0 {
		return KindString
	}
	allInt, anyNull := true, false
	for _, b := range bars {
		v := b.Cells[col]
		if v == "" {
			anyNull = true
			continue
		}
		if _, err := strconv.ParseInt(v, 10, 64); err == nil {
			continue
		}
		allInt = false
		if _, err := decimal.NewFromString(v); err != nil {
			return KindString
		}
	}
	if allInt && !anyNull {
		return KindInt
	}
	return KindFloat
}
