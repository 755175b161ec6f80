// Package rule implements the rule grammar: a hand-written recursive
// descent parser turns a rule string into an AST, and a pure evaluator
// walks that AST against a bar vector and its precomputed indicator
// series to produce a bool at a given bar index.
package rule

import "fmt"

// OperandKind tags which shape an Operand carries.
type OperandKind int

const (
	OperandPrice OperandKind = iota
	OperandConst
	OperandIndicator
)

// PriceField names one of the five fields an operand can read directly
// off a bar.
type PriceField int

const (
	FieldClose PriceField = iota
	FieldOpen
	FieldHigh
	FieldLow
	FieldVolume
)

func (f PriceField) String() string {
	switch f {
	case FieldClose:
		return "close"
	case FieldOpen:
		return "open"
	case FieldHigh:
		return "high"
	case FieldLow:
		return "low"
	case FieldVolume:
		return "volume"
	default:
		return "unknown"
	}
}

// IndicatorKind tags which indicator family an indicator operand draws
// from. Field selects which output of that family the operand resolves
// to (e.g. the upper band of a Bollinger series, or R1 of a Pivot).
type IndicatorKind int

const (
	IndicatorSMA IndicatorKind = iota
	IndicatorEMA
	IndicatorRSI
	IndicatorATR
	IndicatorMACD
	IndicatorBollinger
	IndicatorPivot
)

// IndicatorField selects which scalar output of a multi-output indicator
// an operand resolves to. Zero value (FieldValue) is correct for the
// single-output families (SMA/EMA/RSI/ATR).
type IndicatorField int

const (
	FieldValue IndicatorField = iota
	FieldMACDLine
	FieldMACDSignal
	FieldMACDHistogram
	FieldBollingerUpper
	FieldBollingerMiddle
	FieldBollingerLower
	FieldPivotP
	FieldPivotR1
	FieldPivotR2
	FieldPivotR3
	FieldPivotS1
	FieldPivotS2
	FieldPivotS3
)

// Operand is a tagged union over the three things a rule can compare:
// a raw bar field, a numeric constant, or a computed indicator value.
type Operand struct {
	Kind OperandKind

	Field PriceField // OperandPrice
	Const float64    // OperandConst

	// OperandIndicator.
	Indicator IndicatorKind
	IField    IndicatorField
	Period    int
	Period2   int // MACD slow period
	Period3   int // MACD signal period
	Mult      float64
}

// FingerprintKey returns the string used to de-duplicate indicator
// computation across rules referencing the same (kind, period, param2,
// param3) tuple. Price/const operands have no fingerprint and panic if
// asked for one.
func (o Operand) FingerprintKey() string {
	if o.Kind != OperandIndicator {
		panic("rule: FingerprintKey called on a non-indicator operand")
	}
	switch o.Indicator {
	case IndicatorMACD:
		return fmt.Sprintf("MACD:%d:%d:%d", o.Period, o.Period2, o.Period3)
	case IndicatorBollinger:
		return fmt.Sprintf("BOLLINGER:%d:%d", o.Period, int(o.Mult*100))
	case IndicatorPivot:
		return "PIVOT"
	default:
		return fmt.Sprintf("%d:%d", o.Indicator, o.Period)
	}
}

// NodeKind tags the shape of a rule tree node.
type NodeKind int

const (
	NodeAbove NodeKind = iota
	NodeBelow
	NodeEquals
	NodeCrossAbove
	NodeCrossBelow
	NodeBetween
	NodeAnd
	NodeOr
	NodeNot
	NodeConsecutive
	NodeAnyOf
)

// Node is the tagged union over every rule tree shape the grammar
// produces. Only the fields relevant to Kind are populated.
type Node struct {
	Kind NodeKind

	// ABOVE, BELOW, EQUALS, CROSS_ABOVE, CROSS_BELOW.
	A, B Operand

	// BETWEEN.
	V      Operand
	Lo, Hi float64

	// AND, OR.
	Children []*Node

	// NOT, CONSECUTIVE, ANY_OF.
	Child *Node
	Len   int // CONSECUTIVE, ANY_OF
}

// Equality tolerance for the EQUALS comparator.
const epsilon = 1e-9
