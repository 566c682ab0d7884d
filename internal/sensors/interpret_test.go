package sensors

import (
	"math"
	"testing"
)

func TestInterpretStatusPriority(t *testing.T) {
	tests := []struct {
		name string
		bag  Bag
		want Status
	}{
		{"empty bag is OK", Bag{}, StatusOK},
		{"warning low", Bag{"WarningAlarmLow": BoolValue(true)}, StatusWarning},
		{"warning high", Bag{"WarningAlarmHigh": BoolValue(true)}, StatusWarning},
		{"critical beats warning", Bag{
			"CriticalAlarmHigh": BoolValue(true),
			"WarningAlarmLow":   BoolValue(true),
		}, StatusCritical},
		{"fatal beats critical", Bag{
			"FatalAlarmHigh":    BoolValue(true),
			"CriticalAlarmHigh": BoolValue(true),
			"WarningAlarmLow":   BoolValue(true),
		}, StatusFatal},
		{"alarm false is not raised", Bag{"CriticalAlarmLow": BoolValue(false)}, StatusOK},
		{"mistyped alarm is not raised", Bag{"CriticalAlarmLow": Int64Value(1)}, StatusOK},
		{"unavailable gates alarms", Bag{
			"Available":      BoolValue(false),
			"FatalAlarmHigh": BoolValue(true),
		}, StatusUnavailable},
		{"non-functional gates everything", Bag{
			"Functional":     BoolValue(false),
			"Available":      BoolValue(false),
			"FatalAlarmHigh": BoolValue(true),
		}, StatusFailed},
		{"functional true falls through", Bag{
			"Functional": BoolValue(true),
			"Available":  BoolValue(true),
		}, StatusOK},
	}
	for _, tc := range tests {
		if got := Interpret(tc.bag).Status; got != tc.want {
			t.Errorf("%s: status = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestInterpretGateSuppressesValue(t *testing.T) {
	bag := Bag{
		"Functional": BoolValue(false),
		"Value":      Int64Value(42),
	}
	v := Interpret(bag)
	if v.Status != StatusFailed {
		t.Errorf("status = %v, want %v", v.Status, StatusFailed)
	}
	if v.Value != NotAvailable {
		t.Errorf("value = %q, want %q", v.Value, NotAvailable)
	}
	if v.Status.String() != "FAIL" {
		t.Errorf("status label = %q, want FAIL", v.Status.String())
	}
}

func TestInterpretValueFormatting(t *testing.T) {
	tests := []struct {
		name string
		bag  Bag
		want string
	}{
		{"scaled integer below 1000", Bag{
			"Value": Int64Value(12345),
			"Scale": Int64Value(-2),
		}, "123.450"},
		{"scaled integer at or above 1000", Bag{
			"Value": Int64Value(5),
			"Scale": Int64Value(3),
		}, "5000"},
		{"integer without scale", Bag{"Value": Int64Value(42)}, "42.000"},
		{"negative scaled integer", Bag{
			"Value": Int64Value(-1250),
			"Scale": Int64Value(-3),
		}, "-1.250"},
		{"float is pre-scaled", Bag{
			"Value": Float64Value(48.125),
			"Scale": Int64Value(-3),
		}, "48.125"},
		{"large float", Bag{"Value": Float64Value(12600)}, "12600"},
		{"NaN float", Bag{"Value": Float64Value(math.NaN())}, "N/A"},
		{"missing value", Bag{}, "N/A"},
		{"mistyped value", Bag{"Value": StringValue("9000")}, "N/A"},
	}
	for _, tc := range tests {
		if got := Interpret(tc.bag).Value; got != tc.want {
			t.Errorf("%s: value = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestInterpretThresholds(t *testing.T) {
	bag := Bag{
		"Value":       Int64Value(4500),
		"Scale":       Int64Value(-2),
		"CriticalLow": Int64Value(500),
		"WarningLow":  Int64Value(1000),
		"WarningHigh": Int64Value(8000),
		"FatalHigh":   Float64Value(95),
	}
	v := Interpret(bag)

	if v.CriticalLow != "5.000" {
		t.Errorf("CriticalLow = %q, want 5.000", v.CriticalLow)
	}
	if v.WarningLow != "10.000" {
		t.Errorf("WarningLow = %q, want 10.000", v.WarningLow)
	}
	if v.WarningHigh != "80.000" {
		t.Errorf("WarningHigh = %q, want 80.000", v.WarningHigh)
	}
	if v.FatalHigh != "95.000" {
		t.Errorf("FatalHigh = %q, want 95.000", v.FatalHigh)
	}
	// CriticalHigh is absent and must degrade alone.
	if v.CriticalHigh != NotAvailable {
		t.Errorf("CriticalHigh = %q, want %q", v.CriticalHigh, NotAvailable)
	}
	if v.Value != "45.000" {
		t.Errorf("Value = %q, want 45.000", v.Value)
	}
}

func TestInterpretUnits(t *testing.T) {
	tests := []struct {
		unit Variant
		want string
	}{
		{StringValue("xyz.openbmc_project.Sensor.Value.Unit.Volts"), "V"},
		{StringValue("xyz.openbmc_project.Sensor.Value.Unit.DegreesC"), "°C"},
		{StringValue("xyz.openbmc_project.Sensor.Value.Unit.Amperes"), "A"},
		{StringValue("xyz.openbmc_project.Sensor.Value.Unit.RPMS"), "RPM"},
		{StringValue("xyz.openbmc_project.Sensor.Value.Unit.Watts"), "W"},
		{StringValue("xyz.openbmc_project.Sensor.Value.Unit.Joules"), "J"},
		{StringValue("xyz.openbmc_project.Sensor.Value.Unit.Meters"), "m"},
		{StringValue("xyz.openbmc_project.Sensor.Value.Unit.Percent"), "%"},
		// Unrecognized enumerants pass through rather than erroring.
		{StringValue("xyz.openbmc_project.Sensor.Value.Unit.Pascals"), "Pascals"},
		{StringValue("Watts"), "W"},
		{Int64Value(7), UnknownUnit},
	}
	for _, tc := range tests {
		got := Interpret(Bag{"Unit": tc.unit}).Unit
		if got != tc.want {
			t.Errorf("unit %v: got %q, want %q", tc.unit, got, tc.want)
		}
	}

	if got := Interpret(Bag{}).Unit; got != UnknownUnit {
		t.Errorf("missing unit: got %q, want %q", got, UnknownUnit)
	}
}

func TestVariantAccessors(t *testing.T) {
	v := Int64Value(5)
	if _, ok := v.Float64(); ok {
		t.Error("Float64 on int variant reported ok")
	}
	if _, ok := v.Bool(); ok {
		t.Error("Bool on int variant reported ok")
	}
	if n, ok := v.Int64(); !ok || n != 5 {
		t.Errorf("Int64 = %d,%v, want 5,true", n, ok)
	}

	var zero Variant
	if zero.Kind() != KindInvalid {
		t.Errorf("zero variant kind = %v, want KindInvalid", zero.Kind())
	}
	if _, ok := zero.Str(); ok {
		t.Error("Str on zero variant reported ok")
	}

	if _, ok := FromRaw(struct{}{}); ok {
		t.Error("FromRaw accepted an unsupported type")
	}
	if got, ok := FromRaw(uint16(12)); !ok {
		t.Error("FromRaw rejected uint16")
	} else if n, _ := got.Int64(); n != 12 {
		t.Errorf("FromRaw(uint16(12)) = %d, want 12", n)
	}
}
