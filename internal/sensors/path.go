package sensors

import "strings"

// Sensor object paths look like /xyz/openbmc_project/sensors/<type>/<name>.
// These helpers never fail; a path without enough segments yields "".

// Name returns the final path segment, the sensor's short name.
func Name(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// TypeSegment returns the segment immediately preceding the final one,
// the sensor-type group a sensor belongs to (temperature, voltage, ...).
func TypeSegment(path string) string {
	end := strings.LastIndexByte(path, '/')
	if end <= 0 {
		return ""
	}
	start := strings.LastIndexByte(path[:end], '/')
	return path[start+1 : end]
}
