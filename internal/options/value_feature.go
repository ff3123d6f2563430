// SPDX-License-Identifier: MPL-2.0

package options

// Feature option states.
const (
	FeatureEnabled  = "enabled"
	FeatureDisabled = "disabled"
	FeatureAuto     = "auto"
)

// FeatureChoices is the fixed three-valued choice set of feature options.
var FeatureChoices = []string{FeatureEnabled, FeatureDisabled, FeatureAuto}

// FeatureValue is a combo fixed to the enabled/disabled/auto tristate.
type FeatureValue struct {
	ComboValue
}

// NewFeature constructs a feature option value.
func NewFeature(desc string, yielding bool, val string) *FeatureValue {
	return &FeatureValue{ComboValue: *NewCombo(desc, yielding, FeatureChoices, val)}
}

// Kind returns KindFeature.
func (v *FeatureValue) Kind() Kind { return KindFeature }

// IsEnabled reports whether the feature is explicitly enabled.
func (v *FeatureValue) IsEnabled() bool { return v.val == FeatureEnabled }

// IsDisabled reports whether the feature is explicitly disabled.
func (v *FeatureValue) IsDisabled() bool { return v.val == FeatureDisabled }

// IsAuto reports whether the feature is left to automatic detection.
func (v *FeatureValue) IsAuto() bool { return v.val == FeatureAuto }
