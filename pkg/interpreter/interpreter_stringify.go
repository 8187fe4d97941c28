package interpreter

import (
	"fmt"
	"math"
	"strconv"

	"flex/interpreter-go/pkg/runtime"
)

// stringify renders a value the way `print` shows it.
func stringify(val runtime.Value) string {
	switch v := val.(type) {
	case nil, runtime.NilValue:
		return "null"
	case runtime.BoolValue:
		if v.Val {
			return "true"
		}
		return "false"
	case runtime.NumberValue:
		return formatNumber(v.Val)
	case runtime.StringValue:
		return v.Val
	case *runtime.FunctionValue:
		if v.Name == "" {
			return "<fn>"
		}
		return fmt.Sprintf("<fn %s>", v.Name)
	case *runtime.NativeFunctionValue:
		return fmt.Sprintf("<native fn %s>", v.Name)
	case *runtime.ClassValue:
		return fmt.Sprintf("<class %s>", v.Name)
	case *runtime.InstanceValue:
		return fmt.Sprintf("<%s instance>", v.Class.Name)
	default:
		return fmt.Sprintf("<%s>", val.Kind())
	}
}

// formatNumber prints the shortest decimal that round-trips, so integral
// values have no fractional part.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// valuesEqual compares scalars by value and everything else by identity.
// null is equal only to null.
func valuesEqual(a, b runtime.Value) bool {
	switch av := a.(type) {
	case runtime.NilValue:
		_, ok := b.(runtime.NilValue)
		return ok
	case runtime.BoolValue:
		bv, ok := b.(runtime.BoolValue)
		return ok && av.Val == bv.Val
	case runtime.NumberValue:
		bv, ok := b.(runtime.NumberValue)
		return ok && av.Val == bv.Val
	case runtime.StringValue:
		bv, ok := b.(runtime.StringValue)
		return ok && av.Val == bv.Val
	default:
		return a == b
	}
}
