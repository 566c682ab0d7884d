package transmission

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/YADRO-KNS/obmc-yadro-lssensors/internal/cache"
	"github.com/YADRO-KNS/obmc-yadro-lssensors/internal/mqtt"
	"github.com/YADRO-KNS/obmc-yadro-lssensors/internal/sensors"
)

// MQTTTransmitter publishes interpreted sensor readings to an MQTT broker.
// Each reading goes to <base>/sensor/<type>/<name> as a retained JSON
// document. Publication is change-gated: a snapshot identical to the
// previous one is skipped entirely.
type MQTTTransmitter struct {
	client  *mqtt.Client
	changes *cache.Manager
	logger  *logrus.Logger
}

// NewMQTTTransmitter wires a transmitter on top of a connected client.
func NewMQTTTransmitter(client *mqtt.Client, logger *logrus.Logger) *MQTTTransmitter {
	return &MQTTTransmitter{
		client:  client,
		changes: cache.NewManager(),
		logger:  logger,
	}
}

// readingPayload is the wire form of one reading.
type readingPayload struct {
	Path         string    `json:"path"`
	Status       string    `json:"status"`
	Value        string    `json:"value"`
	Unit         string    `json:"unit"`
	CriticalLow  string    `json:"critical_low,omitempty"`
	CriticalHigh string    `json:"critical_high,omitempty"`
	WarningLow   string    `json:"warning_low,omitempty"`
	WarningHigh  string    `json:"warning_high,omitempty"`
	FatalHigh    string    `json:"fatal_high,omitempty"`
	Taken        time.Time `json:"taken"`
}

// Transmit publishes every reading of the snapshot. Per-reading publish
// failures abort the cycle; the next changed snapshot retries naturally
// because the change gate stored this one already.
func (t *MQTTTransmitter) Transmit(snap *sensors.Snapshot) error {
	if snap == nil || len(snap.Readings) == 0 {
		return nil
	}
	if !t.changes.Changed(snap) {
		t.logger.Debug("Snapshot unchanged, skipping MQTT publish")
		return nil
	}

	for _, r := range snap.Readings {
		payload, err := json.Marshal(readingPayload{
			Path:         r.Path,
			Status:       r.View.Status.String(),
			Value:        r.View.Value,
			Unit:         r.View.Unit,
			CriticalLow:  omitSentinel(r.View.CriticalLow),
			CriticalHigh: omitSentinel(r.View.CriticalHigh),
			WarningLow:   omitSentinel(r.View.WarningLow),
			WarningHigh:  omitSentinel(r.View.WarningHigh),
			FatalHigh:    omitSentinel(r.View.FatalHigh),
			Taken:        snap.Taken,
		})
		if err != nil {
			return fmt.Errorf("marshal reading %s: %w", r.Path, err)
		}

		topic := mqtt.BuildCleanTopic(t.client.BaseTopic(), "sensor",
			sensors.TypeSegment(r.Path), sensors.Name(r.Path))
		if err := t.client.Publish(topic, payload, true); err != nil {
			return fmt.Errorf("publish reading %s: %w", r.Path, err)
		}
	}

	t.logger.WithField("readings", len(snap.Readings)).Debug("Snapshot published to MQTT")
	return nil
}

// omitSentinel maps the N/A sentinel to an empty string so absent
// thresholds drop out of the JSON instead of carrying a placeholder.
func omitSentinel(s string) string {
	if s == sensors.NotAvailable {
		return ""
	}
	return s
}
