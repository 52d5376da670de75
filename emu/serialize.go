package emu

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
)

// Save state format constants
const (
	stateVersion    = 1
	stateMagic      = "eSWP30State\x00"
	stateHeaderSize = 22 // magic(12) + version(2) + romCRC(4) + dataCRC(4)
)

var (
	ErrStateTooShort = errors.New("save state too short")
	ErrStateMagic    = errors.New("invalid save state magic")
	ErrStateVersion  = errors.New("unsupported save state version")
	ErrStateROM      = errors.New("save state is for a different ROM")
	ErrStateCorrupt  = errors.New("save state data is corrupted")
)

// checksummer is implemented by ROM images that can identify themselves.
type checksummer interface {
	CRC32() uint32
}

// romCRC returns the checksum of the backing ROM, or 0 when it has none.
func (c *SWP30) romCRC() uint32 {
	if cs, ok := c.rom.Source().(checksummer); ok {
		return cs.CRC32()
	}
	return 0
}

// StateSize returns the total size in bytes of a save state.
func (c *SWP30) StateSize() int {
	return stateHeaderSize + SWP30SerializeSize
}

// SaveState creates a save state and returns it as a byte slice.
func (c *SWP30) SaveState() ([]byte, error) {
	data := make([]byte, c.StateSize())

	copy(data[0:12], stateMagic)
	binary.LittleEndian.PutUint16(data[12:14], stateVersion)
	binary.LittleEndian.PutUint32(data[14:18], c.romCRC())

	if err := c.Serialize(data[stateHeaderSize:]); err != nil {
		return nil, err
	}

	dataCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	binary.LittleEndian.PutUint32(data[18:22], dataCRC)
	return data, nil
}

// LoadState restores chip state from a save state byte slice.
func (c *SWP30) LoadState(data []byte) error {
	if err := c.VerifyState(data); err != nil {
		return err
	}
	return c.Deserialize(data[stateHeaderSize:])
}

// VerifyState checks if a save state is valid without loading it.
func (c *SWP30) VerifyState(data []byte) error {
	if len(data) < c.StateSize() {
		return ErrStateTooShort
	}
	if string(data[0:12]) != stateMagic {
		return ErrStateMagic
	}
	if binary.LittleEndian.Uint16(data[12:14]) > stateVersion {
		return ErrStateVersion
	}
	if binary.LittleEndian.Uint32(data[14:18]) != c.romCRC() {
		return ErrStateROM
	}
	expectedCRC := binary.LittleEndian.Uint32(data[18:22])
	if expectedCRC != crc32.ChecksumIEEE(data[stateHeaderSize:]) {
		return ErrStateCorrupt
	}
	return nil
}
