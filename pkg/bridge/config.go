package bridge

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Tschucker/radZone/pkg/ld303"
	"github.com/Tschucker/radZone/pkg/mqtt"
)

// Config defines the configurations for the bridge.
type Config struct {
	// LinkURL specifies the radar stream, e.g. serial:///dev/ttyUSB0?baud=115200.
	LinkURL string
	// MQTTURL specifies the broker, e.g. mqtt://host:port/topic-prefix.
	MQTTURL string
	// Node is the topic segment of this radar, defaults to the machine based node ID.
	Node     string
	Encoding string
	// PollInterval sends measurement queries periodically when > 0.
	PollInterval time.Duration
	// InitCommands are sent once the link is open.
	InitCommands Commands
}

// Commands is a flag.Value collecting CODE=PARAM commands.
type Commands []ld303.Command

// String implements flag.Value.
func (c *Commands) String() string {
	items := make([]string, len(*c))
	for n, cmd := range *c {
		items[n] = fmt.Sprintf("%s=%d", cmd.Code, cmd.Param)
	}
	return strings.Join(items, ",")
}

// Set implements flag.Value.
func (c *Commands) Set(val string) error {
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item == "" {
			continue
		}
		parts := strings.SplitN(item, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid command %q, expect CODE=PARAM", item)
		}
		cmd, err := ld303.ParseCommand(parts[0], parts[1])
		if err != nil {
			return err
		}
		*c = append(*c, cmd)
	}
	return nil
}

var defaultConfig = Config{
	LinkURL:  "serial:///dev/ttyUSB0",
	MQTTURL:  "mqtt://localhost:1883/radzone/",
	Encoding: "hex",
}

func init() {
	if val := os.Getenv("RADZONE_LINK"); val != "" {
		defaultConfig.LinkURL = val
	}
	if val := os.Getenv("RADZONE_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
	if val := os.Getenv("RADZONE_NODE"); val != "" {
		defaultConfig.Node = val
	}
	if val := os.Getenv("RADZONE_ENCODING"); val != "" {
		defaultConfig.Encoding = val
	}
	if val := os.Getenv("RADZONE_POLL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			defaultConfig.PollInterval = d
		}
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.LinkURL, "link", defaultConfig.LinkURL, "Radar link URL (serial://, tcp://, ws://).")
	flag.StringVar(&defaultConfig.MQTTURL, "mqtt", defaultConfig.MQTTURL, "MQTT broker URL.")
	flag.StringVar(&defaultConfig.Node, "node", defaultConfig.Node, "Node ID used in topics, default from machine ID.")
	flag.StringVar(&defaultConfig.Encoding, "encoding", defaultConfig.Encoding,
		"Frame encoding: "+strings.Join(mqtt.EncodingNames(), ", ")+".")
	flag.DurationVar(&defaultConfig.PollInterval, "poll", defaultConfig.PollInterval, "Measurement query interval, 0 to disable.")
	flag.Var(&defaultConfig.InitCommands, "init", "Commands CODE=PARAM sent on start, e.g. protocol-type=7.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	conf.InitCommands = append(Commands(nil), defaultConfig.InitCommands...)
	return &conf
}

// NodeID returns the configured node or the machine based one.
func (c *Config) NodeID() string {
	if c.Node != "" {
		return c.Node
	}
	return mqtt.NodeID()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.LinkURL == "" {
		return fmt.Errorf("link URL must be specified")
	}
	if c.MQTTURL == "" {
		return fmt.Errorf("MQTT URL must be specified")
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("invalid poll interval %v", c.PollInterval)
	}
	if _, err := mqtt.EncoderByName(c.Encoding); err != nil {
		return err
	}
	return nil
}

// MustNewBridge creates a Bridge and fails on error.
func (c *Config) MustNewBridge() *Bridge {
	b, err := c.NewBridge()
	if err != nil {
		log.Fatalln(err)
	}
	return b
}
