package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/YADRO-KNS/obmc-yadro-lssensors/internal/app"
	"github.com/YADRO-KNS/obmc-yadro-lssensors/internal/config"
	"github.com/YADRO-KNS/obmc-yadro-lssensors/internal/dbus"
	"github.com/YADRO-KNS/obmc-yadro-lssensors/internal/mqtt"
	"github.com/YADRO-KNS/obmc-yadro-lssensors/internal/table"
	"github.com/YADRO-KNS/obmc-yadro-lssensors/internal/transmission"
)

// version is injected at build time via ldflags
var version = "dev"

func main() {
	cfg := parseFlags()
	logger := setupLogger(cfg.Verbose)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n\n", err)
		flag.Usage()
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Debug("Shutdown signal received")
		cancel()
	}()

	client, err := connect(cfg, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to the bus")
		os.Exit(1)
	}
	defer client.Close()

	var tx app.Transmitter
	if cfg.HasMQTT() {
		nodeID, _ := os.Hostname()
		if nodeID == "" {
			nodeID = "bmc"
		}
		mqttClient, err := mqtt.NewClient(cfg.MQTTUrl, nodeID, logger)
		if err != nil {
			logger.WithError(err).Error("Failed to create MQTT client")
			os.Exit(1)
		}
		defer mqttClient.Disconnect(250)
		tx = transmission.NewMQTTTransmitter(mqttClient, logger)
	}

	layout := table.List
	if cfg.Watching() {
		layout = table.Watch
	}
	printer := table.NewPrinter(os.Stdout, layout)

	a := app.New(cfg, client, printer, tx, logger)
	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, dbus.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "No sensors found under %s\n", cfg.RootScope())
		} else {
			logger.WithError(err).Error("Run failed")
		}
		os.Exit(1)
	}
}

func parseFlags() *config.Config {
	cfg := config.Default()

	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.StringVar(&cfg.Host, "host", getEnv("LSSENSORS_HOST", ""),
		"Operate on a remote host (D-Bus address or host name)")
	flag.StringVar(&cfg.MQTTUrl, "mqtt-url", getEnv("LSSENSORS_MQTT_URL", ""),
		"Publish readings to this MQTT broker")
	flag.IntVar(&cfg.Interval, "interval", cfg.Interval,
		"Watch polling interval in seconds")
	flag.BoolVar(&cfg.Verbose, "verbose", getEnv("LSSENSORS_VERBOSE", "false") == "true",
		"Verbose logging")
	watchList := flag.String("watch", "",
		"Comma-separated sensor names to watch periodically")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [options] [sensor-type]\n"+
				"  Shows all sensors of the specified type.\n"+
				"  If the type is not specified shows all found sensors.\n"+
				"Options:\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("lssensors %s\n", version)
		os.Exit(0)
	}

	if *watchList != "" {
		for _, name := range strings.Split(*watchList, ",") {
			cfg.WatchNames = append(cfg.WatchNames, strings.TrimSpace(name))
		}
	}

	switch flag.NArg() {
	case 0:
	case 1:
		cfg.TypeFilter = flag.Arg(0)
	default:
		fmt.Fprintln(os.Stderr, "At most one sensor type may be specified!")
		flag.Usage()
		os.Exit(1)
	}

	return cfg
}

func connect(cfg *config.Config, logger *logrus.Logger) (*dbus.Client, error) {
	if cfg.Host != "" {
		return dbus.Remote(cfg.Host, logger)
	}
	return dbus.System(logger)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func setupLogger(verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}
