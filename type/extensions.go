package typex

import (
	"fmt"
	"strconv"
)

// NullableBool is a boolean flag value that remembers whether it was set at all,
// so an absent flag can fall back to the configuration file.
type NullableBool struct {
	Value *bool
}

func (nb *NullableBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("invalid boolean %q", s)
	}
	nb.Value = &v
	return nil
}

func (nb *NullableBool) String() string {
	if nb.Value == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v", *nb.Value)
}

// Type names the value in pflag usage output.
func (nb *NullableBool) Type() string {
	return "bool"
}

func (nb *NullableBool) Val(defaultValue bool) bool {
	if nb.Value == nil {
		return defaultValue
	}
	return *nb.Value
}

func (nb *NullableBool) IsBoolFlag() bool {
	return true
}
