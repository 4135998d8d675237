package registers

import (
	"fmt"
	"sync"
)

// Transfer is one recorded bus operation on a Memory
type Transfer struct {
	Write bool
	Addr  uint8
	Bank  uint8 // bank selected on Addr when the transfer started
	Reg   uint8
	Data  []byte
}

func (t Transfer) String() string {
	op := "R"
	if t.Write {
		op = "W"
	}
	return fmt.Sprintf("%s 0x%02X [%02X] 0x%02X % X", op, t.Addr, t.Bank, t.Reg, t.Data)
}

type cell struct {
	addr uint8
	bank uint8
	reg  uint8
}

// Memory is an in-process register file implementing Bus. Writes to
// register 0x00 switch the bank of that slave address, like the
// demodulator does. Every transfer is recorded in order.
type Memory struct {
	mu        sync.Mutex
	values    map[cell]uint8
	banks     map[uint8]uint8
	transfers []Transfer

	// Fault, when set, is consulted before each transfer. A non-nil
	// return fails the transfer without applying it.
	Fault func(t Transfer) error
}

// NewMemory returns an empty register file; unset registers read as 0
func NewMemory() *Memory {
	return &Memory{
		values: make(map[cell]uint8),
		banks:  make(map[uint8]uint8),
	}
}

// Write implements Bus
func (m *Memory) Write(addr uint8, reg uint8, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := Transfer{Write: true, Addr: addr, Bank: m.banks[addr], Reg: reg, Data: append([]byte(nil), data...)}
	if m.Fault != nil {
		if err := m.Fault(t); err != nil {
			return err
		}
	}
	m.transfers = append(m.transfers, t)

	for i, b := range data {
		r := reg + uint8(i)
		if r == RegBank {
			m.banks[addr] = b
		}
		m.values[cell{addr, m.banks[addr], r}] = b
	}
	return nil
}

// Read implements Bus
func (m *Memory) Read(addr uint8, reg uint8, length int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bank := m.banks[addr]
	data := make([]byte, length)
	for i := range data {
		data[i] = m.values[cell{addr, bank, reg + uint8(i)}]
	}

	t := Transfer{Addr: addr, Bank: bank, Reg: reg, Data: data}
	if m.Fault != nil {
		if err := m.Fault(t); err != nil {
			return nil, err
		}
	}
	m.transfers = append(m.transfers, Transfer{Addr: addr, Bank: bank, Reg: reg, Data: append([]byte(nil), data...)})
	return data, nil
}

// Set presets consecutive registers without recording a transfer
func (m *Memory) Set(addr uint8, bank uint8, reg uint8, values ...byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, v := range values {
		m.values[cell{addr, bank, reg + uint8(i)}] = v
	}
}

// Get returns the current value of one register
func (m *Memory) Get(addr uint8, bank uint8, reg uint8) uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[cell{addr, bank, reg}]
}

// Bank returns the bank currently selected on addr
func (m *Memory) Bank(addr uint8) uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.banks[addr]
}

// Transfers returns a copy of the transfer log
func (m *Memory) Transfers() []Transfer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Transfer(nil), m.transfers...)
}

// Count returns how many recorded transfers satisfy match
func (m *Memory) Count(match func(t Transfer) bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.transfers {
		if match(t) {
			n++
		}
	}
	return n
}

// ClearLog drops the recorded transfers but keeps register contents
func (m *Memory) ClearLog() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfers = nil
}
