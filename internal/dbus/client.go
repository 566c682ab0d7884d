package dbus

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	godbus "github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"

	"github.com/YADRO-KNS/obmc-yadro-lssensors/internal/config"
	"github.com/YADRO-KNS/obmc-yadro-lssensors/internal/sensors"
)

// ErrNotFound is returned by Enumerate when no sensors exist under the
// requested scope.
var ErrNotFound = errors.New("no sensors found under scope")

// Bus error names the object mapper uses for an empty or unknown subtree.
var notFoundErrorNames = []string{
	"xyz.openbmc_project.Common.Error.ResourceNotFound",
	"org.freedesktop.DBus.Error.FileNotFound",
	"org.freedesktop.DBus.Error.UnknownObject",
}

// Client talks to the platform management service over D-Bus: the object
// mapper for sensor discovery and the per-sensor Properties interface for
// readings.
type Client struct {
	conn   *godbus.Conn
	logger *logrus.Logger
}

// System connects to the local system bus.
func System(logger *logrus.Logger) (*Client, error) {
	conn, err := godbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect to system bus: %w", err)
	}
	return &Client{conn: conn, logger: logger}, nil
}

// Remote connects to a bus on another host. The argument is either a full
// D-Bus address ("tcp:host=bmc,port=55556") or a bare host name, which is
// dialed on the conventional TCP bus port.
func Remote(host string, logger *logrus.Logger) (*Client, error) {
	address := host
	if !strings.Contains(host, "=") {
		address = fmt.Sprintf("tcp:host=%s,port=55556", host)
	}
	conn, err := godbus.Connect(address)
	if err != nil {
		return nil, fmt.Errorf("connect to bus at %s: %w", address, err)
	}
	logger.WithField("address", address).Debug("Connected to remote bus")
	return &Client{conn: conn, logger: logger}, nil
}

// Close releases the bus connection.
func (c *Client) Close() error { return c.conn.Close() }

// Enumerate asks the object mapper for every object under scope that
// implements the sensor value interface. The result maps each sensor path
// to the bus names serving it, sorted for determinism. An empty subtree is
// reported as ErrNotFound; other failures surface as transport errors.
// Enumeration is never retried internally.
func (c *Client) Enumerate(ctx context.Context, scope string) (map[string][]string, error) {
	obj := c.conn.Object(config.MapperService, godbus.ObjectPath(config.MapperPath))

	var tree map[string]map[string][]string
	call := obj.CallWithContext(ctx, config.MapperInterface+".GetSubTree", 0,
		scope, int32(0), []string{config.SensorValueInterface})
	if call.Err != nil {
		if isNotFound(call.Err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mapper GetSubTree(%s): %w", scope, call.Err)
	}
	if err := call.Store(&tree); err != nil {
		return nil, fmt.Errorf("decode GetSubTree reply: %w", err)
	}

	result := make(map[string][]string, len(tree))
	for path, services := range tree {
		names := make([]string, 0, len(services))
		for service := range services {
			names = append(names, service)
		}
		sort.Strings(names)
		result[path] = names
	}
	if len(result) == 0 {
		return nil, ErrNotFound
	}

	c.logger.WithFields(logrus.Fields{
		"scope":   scope,
		"sensors": len(result),
	}).Debug("Enumerated sensors")

	return result, nil
}

// Properties fetches the sensor value property bag for one object from the
// named service. Values with types a property bag cannot hold are dropped
// with a debug log rather than failing the whole sensor.
func (c *Client) Properties(ctx context.Context, service, path string) (sensors.Bag, error) {
	obj := c.conn.Object(service, godbus.ObjectPath(path))

	var props map[string]godbus.Variant
	call := obj.CallWithContext(ctx, config.PropertiesInterface+".GetAll", 0,
		config.SensorValueInterface)
	if call.Err != nil {
		return nil, fmt.Errorf("get properties for %s: %w", path, call.Err)
	}
	if err := call.Store(&props); err != nil {
		return nil, fmt.Errorf("decode properties for %s: %w", path, err)
	}

	bag := make(sensors.Bag, len(props))
	for key, variant := range props {
		value, ok := sensors.FromRaw(variant.Value())
		if !ok {
			c.logger.WithFields(logrus.Fields{
				"path":     path,
				"property": key,
			}).Debug("Skipping property with unsupported type")
			continue
		}
		bag[key] = value
	}
	return bag, nil
}

func isNotFound(err error) bool {
	var derr godbus.Error
	if !errors.As(err, &derr) {
		return false
	}
	for _, name := range notFoundErrorNames {
		if derr.Name == name {
			return true
		}
	}
	return false
}
