package rule

import (
	"math"

	"github.com/contactkeval/ruletest-backtest/internal/bar"
	"github.com/contactkeval/ruletest-backtest/internal/indicator"
)

// Evaluate walks a rule tree against a bar vector and its precomputed
// indicator series, returning the node's truth value at bar index i.
// indicators maps an indicator operand's FingerprintKey to the series
// computed for it; Evaluate never mutates bars or indicators.
func Evaluate(node *Node, bars []bar.Bar, indicators map[string]indicator.Series, i int) bool {
	if node == nil || i < 0 || i >= len(bars) {
		return false
	}
	switch node.Kind {
	case NodeAbove:
		a, aok := operandValue(node.A, bars, indicators, i)
		b, bok := operandValue(node.B, bars, indicators, i)
		return aok && bok && a > b
	case NodeBelow:
		a, aok := operandValue(node.A, bars, indicators, i)
		b, bok := operandValue(node.B, bars, indicators, i)
		return aok && bok && a < b
	case NodeEquals:
		a, aok := operandValue(node.A, bars, indicators, i)
		b, bok := operandValue(node.B, bars, indicators, i)
		return aok && bok && math.Abs(a-b) < epsilon
	case NodeCrossAbove:
		if i < 1 {
			return false
		}
		aPrev, aPrevOK := operandValue(node.A, bars, indicators, i-1)
		bPrev, bPrevOK := operandValue(node.B, bars, indicators, i-1)
		aNow, aNowOK := operandValue(node.A, bars, indicators, i)
		bNow, bNowOK := operandValue(node.B, bars, indicators, i)
		if !aPrevOK || !bPrevOK || !aNowOK || !bNowOK {
			return false
		}
		return aPrev <= bPrev && aNow > bNow
	case NodeCrossBelow:
		if i < 1 {
			return false
		}
		aPrev, aPrevOK := operandValue(node.A, bars, indicators, i-1)
		bPrev, bPrevOK := operandValue(node.B, bars, indicators, i-1)
		aNow, aNowOK := operandValue(node.A, bars, indicators, i)
		bNow, bNowOK := operandValue(node.B, bars, indicators, i)
		if !aPrevOK || !bPrevOK || !aNowOK || !bNowOK {
			return false
		}
		return aPrev >= bPrev && aNow < bNow
	case NodeBetween:
		v, ok := operandValue(node.V, bars, indicators, i)
		return ok && node.Lo <= v && v <= node.Hi
	case NodeAnd:
		for _, c := range node.Children {
			if !Evaluate(c, bars, indicators, i) {
				return false
			}
		}
		return true
	case NodeOr:
		for _, c := range node.Children {
			if Evaluate(c, bars, indicators, i) {
				return true
			}
		}
		return false
	case NodeNot:
		return !Evaluate(node.Child, bars, indicators, i)
	case NodeConsecutive:
		if i < node.Len-1 {
			return false
		}
		for j := i - node.Len + 1; j <= i; j++ {
			if !Evaluate(node.Child, bars, indicators, j) {
				return false
			}
		}
		return true
	case NodeAnyOf:
		start := i - node.Len + 1
		if start < 0 {
			start = 0
		}
		for j := start; j <= i; j++ {
			if Evaluate(node.Child, bars, indicators, j) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// operandValue resolves an operand's value at bar index i. The bool
// return is false whenever an indicator operand is still in warmup (or
// has no matching series), per the "rule is false at i" rule for
// invalid indicator reads.
func operandValue(op Operand, bars []bar.Bar, indicators map[string]indicator.Series, i int) (float64, bool) {
	switch op.Kind {
	case OperandPrice:
		b := bars[i]
		switch op.Field {
		case FieldClose:
			return b.Close, true
		case FieldOpen:
			return b.Open, true
		case FieldHigh:
			return b.High, true
		case FieldLow:
			return b.Low, true
		case FieldVolume:
			return b.Volume, true
		default:
			return 0, false
		}
	case OperandConst:
		return op.Const, true
	case OperandIndicator:
		series, ok := indicators[op.FingerprintKey()]
		if !ok || i >= len(series.Values) {
			return 0, false
		}
		v := series.Values[i]
		if !v.Valid {
			return 0, false
		}
		switch op.IField {
		case FieldValue:
			return v.Value, true
		case FieldMACDLine:
			return v.Line, true
		case FieldMACDSignal:
			return v.Signal, true
		case FieldMACDHistogram:
			return v.Histogram, true
		case FieldBollingerUpper:
			return v.Upper, true
		case FieldBollingerMiddle:
			return v.Middle, true
		case FieldBollingerLower:
			return v.Lower, true
		case FieldPivotP:
			return v.Pivot, true
		case FieldPivotR1:
			return v.R1, true
		case FieldPivotR2:
			return v.R2, true
		case FieldPivotR3:
			return v.R3, true
		case FieldPivotS1:
			return v.S1, true
		case FieldPivotS2:
			return v.S2, true
		case FieldPivotS3:
			return v.S3, true
		default:
			return 0, false
		}
	default:
		return 0, false
	}
}
