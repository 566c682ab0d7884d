package sensors

import (
	"math"
	"strconv"
	"strings"
)

// NotAvailable is the sentinel printed for anything that cannot be shown:
// absent properties, NaN readings, gated-off values.
const NotAvailable = "N/A"

// UnknownUnit is the sentinel for a missing or non-string Unit property.
const UnknownUnit = "Unknown"

// Status is the health classification of one sensor reading.
type Status uint8

const (
	// StatusOK - functional, available, no alarms raised.
	StatusOK Status = iota
	// StatusWarning - a warning alarm (low or high) is raised.
	StatusWarning
	// StatusCritical - a critical alarm (low or high) is raised.
	StatusCritical
	// StatusFatal - the fatal high alarm is raised.
	StatusFatal
	// StatusUnavailable - the sensor reports Available=false.
	StatusUnavailable
	// StatusFailed - the sensor reports Functional=false.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusWarning:
		return "Warning"
	case StatusCritical:
		return "Critical"
	case StatusFatal:
		return "Fatal"
	case StatusUnavailable:
		return "N/A"
	case StatusFailed:
		return "FAIL"
	}
	return "Unknown"
}

// View is the display-ready derivation of one property bag. All fields are
// canonical strings; column padding belongs to the table layout. A View is
// built once per fetch and discarded after printing.
type View struct {
	Status Status
	Value  string
	Unit   string

	CriticalLow  string
	CriticalHigh string
	WarningLow   string
	WarningHigh  string
	FatalHigh    string
}

// unitSymbols maps the final segment of the canonical unit enumerant
// (xyz.openbmc_project.Sensor.Value.Unit.*) to its display symbol.
var unitSymbols = map[string]string{
	"Volts":    "V",
	"DegreesC": "°C",
	"Amperes":  "A",
	"RPMS":     "RPM",
	"Watts":    "W",
	"Joules":   "J",
	"Meters":   "m",
	"Percent":  "%",
}

// Interpret derives a View from one property bag. It is pure: no side
// effects, no dependence on prior calls, and it never fails - every missing
// or mistyped property resolves to a sentinel.
//
// Status is gated first: Functional=false wins over everything and yields
// FAIL, then Available=false yields N/A. A non-OK gate suppresses both the
// alarm evaluation and the Value lookup. With the gate open, boolean alarm
// properties decide the status in strict priority order Fatal > Critical >
// Warning; an absent alarm is simply not raised.
func Interpret(bag Bag) View {
	scale := scaleFactor(bag)
	v := View{
		Unit:         unitSymbol(bag),
		CriticalLow:  formatProperty(bag, "CriticalLow", scale),
		CriticalHigh: formatProperty(bag, "CriticalHigh", scale),
		WarningLow:   formatProperty(bag, "WarningLow", scale),
		WarningHigh:  formatProperty(bag, "WarningHigh", scale),
		FatalHigh:    formatProperty(bag, "FatalHigh", scale),
	}

	if functional, ok := bag.Bool("Functional"); ok && !functional {
		v.Status = StatusFailed
		v.Value = NotAvailable
		return v
	}
	if available, ok := bag.Bool("Available"); ok && !available {
		v.Status = StatusUnavailable
		v.Value = NotAvailable
		return v
	}

	v.Status = alarmStatus(bag)
	v.Value = formatProperty(bag, "Value", scale)
	return v
}

func alarmStatus(bag Bag) Status {
	switch {
	case raised(bag, "FatalAlarmHigh"):
		return StatusFatal
	case raised(bag, "CriticalAlarmLow"), raised(bag, "CriticalAlarmHigh"):
		return StatusCritical
	case raised(bag, "WarningAlarmLow"), raised(bag, "WarningAlarmHigh"):
		return StatusWarning
	}
	return StatusOK
}

func raised(bag Bag, key string) bool {
	v, ok := bag.Bool(key)
	return ok && v
}

// scaleFactor returns 10^Scale. Scale is supplied as an integer exponent;
// when absent the factor is 1.
func scaleFactor(bag Bag) float64 {
	exp, ok := bag.Int64("Scale")
	if !ok {
		return 1
	}
	return math.Pow(10, float64(exp))
}

// formatProperty renders a numeric property. Float properties arrive
// pre-scaled and are used as-is; integer properties are raw and get
// multiplied by the scale factor first. Either way the display rule is the
// same: three decimals below a magnitude of 1000, integer above.
func formatProperty(bag Bag, key string, scale float64) string {
	v, ok := bag[key]
	if !ok {
		return NotAvailable
	}
	switch v.Kind() {
	case KindFloat64:
		f, _ := v.Float64()
		return formatScaled(f)
	case KindInt64:
		n, _ := v.Int64()
		return formatScaled(float64(n) * scale)
	}
	return NotAvailable
}

func formatScaled(f float64) string {
	if math.IsNaN(f) {
		return NotAvailable
	}
	if math.Abs(f) < 1000 {
		return strconv.FormatFloat(f, 'f', 3, 64)
	}
	return strconv.FormatFloat(f, 'f', 0, 64)
}

// unitSymbol maps the Unit enumerant to its display symbol. Only the final
// dotted segment matters; an enumerant outside the known table passes
// through unchanged so new units remain visible instead of erroring.
func unitSymbol(bag Bag) string {
	raw, ok := bag.Str("Unit")
	if !ok {
		return UnknownUnit
	}
	seg := raw
	if i := strings.LastIndexByte(raw, '.'); i >= 0 {
		seg = raw[i+1:]
	}
	if sym, ok := unitSymbols[seg]; ok {
		return sym
	}
	return seg
}
