package profile

import (
	"errors"
	"fmt"
	"math"
)

// ErrRegisterIndexOutOfRange is returned when a rule references a register
// beyond the end of the snapshot it was given.
var ErrRegisterIndexOutOfRange = errors.New("register index out of range")

// RuleKind selects the arithmetic shape of a DecodeRule.
type RuleKind string

const (
	// RuleScale divides a single register by a power of ten:
	// value = raw[Index] / 10^Decimals, rounded to Decimals places.
	RuleScale RuleKind = "scale"
	// RuleMultiply multiplies a single register by an integer factor:
	// value = raw[Index] * Factor.
	RuleMultiply RuleKind = "multiply"
	// RuleComposite32 joins two registers into one unsigned 32-bit value,
	// low word first: value = raw[Low] + raw[High]*65536.
	RuleComposite32 RuleKind = "composite32"
	// RuleWeightedSum combines two registers with independent integer
	// weights: value = raw[A]*WeightA + raw[B]*WeightB.
	RuleWeightedSum RuleKind = "weighted_sum"
)

// DecodeRule maps a register snapshot to one scaled numeric value.
// Rules are plain data so a profile table can be inspected and tested
// without evaluating anything.
type DecodeRule struct {
	Kind RuleKind

	// scale / multiply
	Index    uint16
	Decimals int
	Factor   uint32

	// composite32
	Low  uint16
	High uint16

	// weighted_sum
	A       uint16
	B       uint16
	WeightA uint32
	WeightB uint32
}

// Scale builds a rule dividing raw[index] by 10^decimals.
func Scale(index uint16, decimals int) DecodeRule {
	return DecodeRule{Kind: RuleScale, Index: index, Decimals: decimals}
}

// Multiply builds a rule multiplying raw[index] by factor.
func Multiply(index uint16, factor uint32) DecodeRule {
	return DecodeRule{Kind: RuleMultiply, Index: index, Factor: factor}
}

// Composite32 builds a rule joining raw[low] and raw[high] into a u32.
func Composite32(low, high uint16) DecodeRule {
	return DecodeRule{Kind: RuleComposite32, Low: low, High: high}
}

// WeightedSum builds a rule computing raw[a]*weightA + raw[b]*weightB.
func WeightedSum(a uint16, weightA uint32, b uint16, weightB uint32) DecodeRule {
	return DecodeRule{Kind: RuleWeightedSum, A: a, WeightA: weightA, B: b, WeightB: weightB}
}

// Decode evaluates the rule against a snapshot. It is a pure function:
// the same snapshot always yields the same value, and the snapshot is
// never modified. Any index beyond the snapshot length returns
// ErrRegisterIndexOutOfRange.
func (r DecodeRule) Decode(regs []uint16) (float64, error) {
	switch r.Kind {
	case RuleScale:
		v, err := at(regs, r.Index)
		if err != nil {
			return 0, err
		}
		return roundTo(float64(v)/math.Pow10(r.Decimals), r.Decimals), nil
	case RuleMultiply:
		v, err := at(regs, r.Index)
		if err != nil {
			return 0, err
		}
		return float64(uint32(v) * r.Factor), nil
	case RuleComposite32:
		lo, err := at(regs, r.Low)
		if err != nil {
			return 0, err
		}
		hi, err := at(regs, r.High)
		if err != nil {
			return 0, err
		}
		// max is 65535 + 65535*65536 = 4294967295, exactly a u32
		return float64(uint32(lo) + uint32(hi)*65536), nil
	case RuleWeightedSum:
		a, err := at(regs, r.A)
		if err != nil {
			return 0, err
		}
		b, err := at(regs, r.B)
		if err != nil {
			return 0, err
		}
		return float64(uint32(a)*r.WeightA + uint32(b)*r.WeightB), nil
	default:
		return 0, fmt.Errorf("unsupported rule kind: %s", r.Kind)
	}
}

// maxIndex reports the highest register index the rule touches.
func (r DecodeRule) maxIndex() uint16 {
	switch r.Kind {
	case RuleComposite32:
		return max16(r.Low, r.High)
	case RuleWeightedSum:
		return max16(r.A, r.B)
	default:
		return r.Index
	}
}

func at(regs []uint16, i uint16) (uint16, error) {
	if int(i) >= len(regs) {
		return 0, fmt.Errorf("%w: index %d, snapshot length %d", ErrRegisterIndexOutOfRange, i, len(regs))
	}
	return regs[i], nil
}

// roundTo rounds to n decimal places so a divide-by-ten of an integer
// register never leaks float noise into the reported value.
func roundTo(v float64, n int) float64 {
	p := math.Pow10(n)
	return math.Round(v*p) / p
}

func max16(a, b uint16) uint16 {
	if a > b {
		return a
	}
	return b
}
