package config

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/herlein/isdbfe/pkg/registers"
	"gopkg.in/yaml.v3"
)

// HexBytes is a register block that serialises as a spaced hex string
type HexBytes []byte

// MarshalYAML implements yaml.Marshaler
func (h HexBytes) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("% X", []byte(h)), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (h *HexBytes) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	data, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*h = data
	return nil
}

// DumpRange names one block of registers to capture. Slave is "T" or "X".
type DumpRange struct {
	Slave  string `yaml:"slave"`
	Bank   uint8  `yaml:"bank"`
	Start  uint8  `yaml:"start"`
	Length int    `yaml:"length"`
}

// BankDump is the captured content of one DumpRange
type BankDump struct {
	DumpRange `yaml:",inline"`
	Data      HexBytes `yaml:"data"`
}

// RegisterDump is a snapshot of demodulator register banks
type RegisterDump struct {
	Slaves    registers.Slaves `yaml:"slaves"`
	Timestamp time.Time        `yaml:"timestamp"`
	Banks     []BankDump       `yaml:"banks"`
}

// DefaultDumpRanges covers the banks touched by the tune sequences.
// Register 0x00 is the bank select and is never captured.
var DefaultDumpRanges = []DumpRange{
	{Slave: "X", Bank: 0x00, Start: 0x01, Length: 0xFF},
	{Slave: "X", Bank: 0x10, Start: 0x01, Length: 0xFF},
	{Slave: "T", Bank: 0x00, Start: 0x01, Length: 0xFF},
	{Slave: "T", Bank: 0x10, Start: 0x01, Length: 0xFF},
	{Slave: "T", Bank: 0x40, Start: 0x01, Length: 0xFF},
	{Slave: "T", Bank: 0x60, Start: 0x01, Length: 0xFF},
	{Slave: "T", Bank: 0xA0, Start: 0x01, Length: 0xFF},
	{Slave: "T", Bank: 0xC0, Start: 0x01, Length: 0xFF},
	{Slave: "T", Bank: 0xD0, Start: 0x01, Length: 0xFF},
}

func slaveAddr(s registers.Slaves, name string) (uint8, error) {
	switch name {
	case "T", "t":
		return s.T, nil
	case "X", "x":
		return s.X, nil
	}
	return 0, fmt.Errorf("%w: unknown slave %q", ErrInvalidDump, name)
}

func checkRange(r DumpRange) error {
	if r.Start == registers.RegBank {
		return fmt.Errorf("%w: range %s/%02X starts at the bank register", ErrInvalidDump, r.Slave, r.Bank)
	}
	if r.Length <= 0 || int(r.Start)+r.Length > 0x100 {
		return fmt.Errorf("%w: range %s/%02X %02X+%d out of bounds", ErrInvalidDump, r.Slave, r.Bank, r.Start, r.Length)
	}
	return nil
}

// DumpRegisters reads every range from the demodulator
func DumpRegisters(c *registers.Client, slaves registers.Slaves, ranges []DumpRange) (*RegisterDump, error) {
	dump := &RegisterDump{Slaves: slaves, Timestamp: time.Now()}

	for _, r := range ranges {
		if err := checkRange(r); err != nil {
			return nil, err
		}
		addr, err := slaveAddr(slaves, r.Slave)
		if err != nil {
			return nil, err
		}
		if err := c.SelectBank(addr, r.Bank); err != nil {
			return nil, fmt.Errorf("failed to select bank %02X on %s: %w", r.Bank, r.Slave, err)
		}
		data, err := c.Read(addr, r.Start, r.Length)
		if err != nil {
			return nil, fmt.Errorf("failed to read bank %02X on %s: %w", r.Bank, r.Slave, err)
		}
		dump.Banks = append(dump.Banks, BankDump{DumpRange: r, Data: data})
	}

	return dump, nil
}

// ApplyDump writes a snapshot back. The slave map of the dump is used,
// so a dump only applies to the board it was taken from.
func ApplyDump(c *registers.Client, dump *RegisterDump) error {
	for _, b := range dump.Banks {
		if len(b.Data) != b.Length {
			return fmt.Errorf("%w: bank %02X on %s holds %d bytes, want %d", ErrInvalidDump, b.Bank, b.Slave, len(b.Data), b.Length)
		}
		if err := checkRange(b.DumpRange); err != nil {
			return err
		}
		addr, err := slaveAddr(dump.Slaves, b.Slave)
		if err != nil {
			return err
		}
		if err := c.SelectBank(addr, b.Bank); err != nil {
			return fmt.Errorf("failed to select bank %02X on %s: %w", b.Bank, b.Slave, err)
		}
		if err := c.Write(addr, b.Start, b.Data...); err != nil {
			return fmt.Errorf("failed to write bank %02X on %s: %w", b.Bank, b.Slave, err)
		}
	}
	return nil
}

// LoadDump reads a RegisterDump written by SaveToFile
func LoadDump(path string) (*RegisterDump, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var dump RegisterDump
	if err := yaml.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("failed to unmarshal register dump: %w", err)
	}
	return &dump, nil
}
