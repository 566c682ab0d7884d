package config

import "time"

// Central place for the well-known bus names and application-wide timing
// constants. Changing a value here immediately affects all components that
// import github.com/YADRO-KNS/obmc-yadro-lssensors/internal/config.

const (
	// Sensor tree
	SensorsPath          = "/xyz/openbmc_project/sensors"
	SensorValueInterface = "xyz.openbmc_project.Sensor.Value"
	UnitPrefix           = "xyz.openbmc_project.Sensor.Value.Unit."

	// Object mapper
	MapperService   = "xyz.openbmc_project.ObjectMapper"
	MapperPath      = "/xyz/openbmc_project/object_mapper"
	MapperInterface = "xyz.openbmc_project.ObjectMapper"

	// Standard properties access
	PropertiesInterface = "org.freedesktop.DBus.Properties"

	// Watch mode
	DefaultWatchInterval = 5 // seconds

	// Operation time-outs (to avoid blocking goroutines)
	CallTimeout = 10 * time.Second // one bus method call
	MQTTTimeout = 5 * time.Second  // MQTT publish
)
