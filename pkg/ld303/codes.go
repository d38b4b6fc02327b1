package ld303

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CommandCode identifies a parameter of a command frame.
type CommandCode byte

// Documented command codes. The unit of the parameter is per code.
const (
	CmdOperatingMode        CommandCode = 0xB1
	CmdFittingCoefficient   CommandCode = 0xB3
	CmdOffsetCorrection     CommandCode = 0xB4
	CmdDelayTime            CommandCode = 0xD1
	CmdCloseTreatment       CommandCode = 0xD2
	CmdMeasurement          CommandCode = 0xD3
	CmdBaudRate             CommandCode = 0xD4
	CmdTriggerThreshold     CommandCode = 0xD5
	CmdOutputTarget         CommandCode = 0xD9
	CmdSignalInterval       CommandCode = 0xDA
	CmdReset                CommandCode = 0xDE
	CmdFirmwareUpgrade      CommandCode = 0xDF
	CmdMinDetectionDistance CommandCode = 0xE0
	CmdSensitivity          CommandCode = 0xE1
	CmdMaxDetectionDistance CommandCode = 0xE5
	CmdReportInterval       CommandCode = 0xE6
	CmdExtremeValueStats    CommandCode = 0xE7
	CmdExtremeFilterTimes   CommandCode = 0xE8
	CmdNumberOfSwipes       CommandCode = 0xE9
	CmdProtocolType         CommandCode = 0xF6
	CmdProportionStatistic  CommandCode = 0xF9
	CmdInvalidDistance      CommandCode = 0xFA
	CmdPercentage           CommandCode = 0xFB
	CmdQueryParameters      CommandCode = 0xFE
)

// Parameter values of CmdProtocolType.
const (
	ProtocolASCII     uint16 = 0
	ProtocolHex       uint16 = 1
	ProtocolStandard  uint16 = 6
	ProtocolAutomatic uint16 = 7
)

// CommandInfo describes a documented command code.
type CommandInfo struct {
	Code        CommandCode
	Name        string
	Description string
}

var commandInfos = map[CommandCode]CommandInfo{
	CmdOperatingMode:        {Name: "operating-mode", Description: "0 = sensitive, 1 = stable"},
	CmdFittingCoefficient:   {Name: "fitting-coefficient", Description: "unit 0.001"},
	CmdOffsetCorrection:     {Name: "offset-correction", Description: "unit 0.01 cm"},
	CmdDelayTime:            {Name: "delay-time", Description: "presence hold time after detection, ms"},
	CmdCloseTreatment:       {Name: "close-treatment", Description: "0 = keep last distance, 1 = clear distance"},
	CmdMeasurement:          {Name: "measurement", Description: "measurement query"},
	CmdBaudRate:             {Name: "baud-rate", Description: "unit 100 bps, applied on next power-up"},
	CmdTriggerThreshold:     {Name: "trigger-threshold", Description: "unit k"},
	CmdOutputTarget:         {Name: "output-target", Description: "0 = nearest, 1 = maximum"},
	CmdSignalInterval:       {Name: "signal-interval", Description: "5-20, unit 40 ms"},
	CmdReset:                {Name: "reset", Description: "0, immediate"},
	CmdFirmwareUpgrade:      {Name: "firmware-upgrade", Description: "1"},
	CmdMinDetectionDistance: {Name: "min-detection-distance", Description: "unit cm"},
	CmdSensitivity:          {Name: "sensitivity", Description: "60-2000, unit k, default 300"},
	CmdMaxDetectionDistance: {Name: "max-detection-distance", Description: "unit cm"},
	CmdReportInterval:       {Name: "report-interval", Description: "0-20, unit 40 ms"},
	CmdExtremeValueStats:    {Name: "extreme-value-stats", Description: "unit times"},
	CmdExtremeFilterTimes:   {Name: "extreme-filter-times", Description: "unit times"},
	CmdNumberOfSwipes:       {Name: "number-of-swipes", Description: "unit times"},
	CmdProtocolType:         {Name: "protocol-type", Description: "0 = ASCII, 1 = hex, 6 = standard (query), 7 = automatic"},
	CmdProportionStatistic:  {Name: "proportion-statistic", Description: "0-100"},
	CmdInvalidDistance:      {Name: "invalid-distance", Description: "unit cm"},
	CmdPercentage:           {Name: "percentage", Description: "unit %"},
	CmdQueryParameters:      {Name: "query-parameters", Description: "0, query all parameters"},
}

var commandsByName = make(map[string]CommandCode)

func init() {
	for code, info := range commandInfos {
		info.Code = code
		commandInfos[code] = info
		commandsByName[info.Name] = code
	}
}

// CommandCodes lists documented command codes ordered by code.
func CommandCodes() []CommandInfo {
	infos := make([]CommandInfo, 0, len(commandInfos))
	for _, info := range commandInfos {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Code < infos[j].Code })
	return infos
}

// Info returns the description of a documented code.
func (c CommandCode) Info() (CommandInfo, bool) {
	info, ok := commandInfos[c]
	return info, ok
}

// String implements fmt.Stringer.
func (c CommandCode) String() string {
	if info, ok := commandInfos[c]; ok {
		return info.Name
	}
	return fmt.Sprintf("0x%02X", byte(c))
}

// ParseCommandCode parses a command name (e.g. "protocol-type") or a
// hex code with or without 0x prefix (e.g. "F6", "0xf6").
// Hex codes are accepted even when undocumented.
func ParseCommandCode(s string) (CommandCode, error) {
	s = strings.TrimSpace(s)
	if code, ok := commandsByName[strings.ToLower(s)]; ok {
		return code, nil
	}
	hex := s
	if strings.HasPrefix(hex, "0x") || strings.HasPrefix(hex, "0X") {
		hex = hex[2:]
	}
	v, err := strconv.ParseUint(hex, 16, 8)
	if err != nil {
		return 0, &CommandCodeError{Input: s}
	}
	return CommandCode(v), nil
}

// ParseCommand parses a command code and a parameter. The parameter
// follows Go integer literal syntax, so "7", "0x0007" are the same.
func ParseCommand(code, param string) (Command, error) {
	cmd, err := ParseCommandCode(code)
	if err != nil {
		return Command{}, err
	}
	v, err := strconv.ParseUint(strings.TrimSpace(param), 0, 16)
	if err != nil {
		return Command{}, fmt.Errorf("invalid parameter %q: %v", param, err)
	}
	return Command{Code: cmd, Param: uint16(v)}, nil
}
