package domain

// ModeMeasure is the device mode for plain temperature measurement (no recipe).
const ModeMeasure = "measure"

// DesiredState is the configuration the controller wants the device to adopt.
// Nil numbers are sent as JSON null, which clears the setting on the device.
type DesiredState struct {
	AlarmHigh    *float64 `json:"alarm_high"`
	AlarmLow     *float64 `json:"alarm_low"`
	TimerSeconds *float64 `json:"timer"`
	Mode         string   `json:"mode"`
	Step         int      `json:"step"`
}

// IdleDesired is the configuration written when a recipe ends, is cancelled or stopped:
// alarms explicitly zeroed, no timer, measure mode and step 0.
func IdleDesired() *DesiredState {
	return &DesiredState{
		AlarmHigh: Float(0),
		AlarmLow:  Float(0),
		Mode:      ModeMeasure,
		Step:      0,
	}
}

// ReportedState is the last snapshot the device published about itself.
type ReportedState struct {
	Mode        string   `json:"mode,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Step        *int     `json:"step,omitempty"`
	AlarmHigh   *float64 `json:"alarm_high,omitempty"`
	AlarmLow    *float64 `json:"alarm_low,omitempty"`
	Units       string   `json:"units,omitempty"` // "celsius" (default) or "fahrenheit"
}

// Apply merges a desired configuration into the reported snapshot,
// the way a device acknowledges a shadow delta. Temperature is untouched.
func (r *ReportedState) Apply(d *DesiredState) {
	r.Mode = d.Mode
	r.AlarmHigh = nonZero(d.AlarmHigh)
	r.AlarmLow = nonZero(d.AlarmLow)
	if d.Step > 0 {
		r.Step = Int(d.Step)
	} else {
		r.Step = nil
	}
}

func nonZero(v *float64) *float64 {
	if v == nil || *v == 0 {
		return nil
	}
	return copyFloat(v)
}

// Clone returns a deep copy.
func (r *ReportedState) Clone() *ReportedState {
	if r == nil {
		return nil
	}
	c := *r
	c.Temperature = copyFloat(r.Temperature)
	c.AlarmHigh = copyFloat(r.AlarmHigh)
	c.AlarmLow = copyFloat(r.AlarmLow)
	if r.Step != nil {
		c.Step = Int(*r.Step)
	}
	return &c
}

// Clone returns a deep copy.
func (d *DesiredState) Clone() *DesiredState {
	if d == nil {
		return nil
	}
	c := *d
	c.AlarmHigh = copyFloat(d.AlarmHigh)
	c.AlarmLow = copyFloat(d.AlarmLow)
	c.TimerSeconds = copyFloat(d.TimerSeconds)
	return &c
}
