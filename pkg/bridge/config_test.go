package bridge

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Tschucker/radZone/pkg/ld303"
)

func TestCommandsFlag(t *testing.T) {
	var cmds Commands
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(&cmds, "init", "")
	require.NoError(t, fs.Parse([]string{"-init", "protocol-type=7,E5=0xFA", "-init", "reset=0"}))
	require.Equal(t, Commands{
		{Code: ld303.CmdProtocolType, Param: 7},
		{Code: ld303.CmdMaxDetectionDistance, Param: 250},
		{Code: ld303.CmdReset, Param: 0},
	}, cmds)
	require.Equal(t, "protocol-type=7,max-detection-distance=250,reset=0", cmds.String())

	for _, in := range []string{"reset", "bogus=1", "reset=x"} {
		var c Commands
		require.Error(t, c.Set(in), in)
	}
}

func TestConfigValidate(t *testing.T) {
	conf := NewConfig()
	require.NoError(t, conf.Validate())

	testCases := []struct {
		name   string
		modify func(*Config)
	}{
		{"no link", func(c *Config) { c.LinkURL = "" }},
		{"no mqtt", func(c *Config) { c.MQTTURL = "" }},
		{"negative poll", func(c *Config) { c.PollInterval = -time.Second }},
		{"bad encoding", func(c *Config) { c.Encoding = "xml" }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewConfig()
			tc.modify(c)
			require.Error(t, c.Validate())
			_, err := c.NewBridge()
			require.Error(t, err)
		})
	}
}

func TestNewConfigCopies(t *testing.T) {
	conf := NewConfig()
	conf.LinkURL = "tcp://radar:4001"
	conf.InitCommands = append(conf.InitCommands, ld303.Command{Code: ld303.CmdReset})
	require.NotEqual(t, conf.LinkURL, Default().LinkURL)
	require.Empty(t, Default().InitCommands)
}

func TestConfigNodeID(t *testing.T) {
	conf := NewConfig()
	conf.Node = "hall"
	require.Equal(t, "hall", conf.NodeID())
	conf.Node = ""
	require.NotEmpty(t, conf.NodeID())
}
