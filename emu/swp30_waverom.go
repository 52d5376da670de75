package emu

import "github.com/user-none/emswp/rom"

// waveROMState tracks a host read of the wave ROM.
type waveROMState uint8

const (
	waveROMIdle waveROMState = iota
	waveROMPending
	waveROMReady
)

// waveROM is the host-side wave ROM access port. A read is started by
// writing the access register and completes a configurable number of
// ticks later; software polls the busy register in between. It has its
// own address and value registers and never touches voice fetch state.
type waveROM struct {
	adr       uint32
	mode      uint32 // Bit 0: post-increment adr after each read
	val       uint32
	access    uint16
	state     waveROMState
	countdown int32
}

// startAccess latches an access register write. Bit 15 starts a read.
func (w *waveROM) startAccess(data uint16, r rom.Reader, latency int) {
	w.access = data
	if data&0x8000 == 0 {
		return
	}
	w.state = waveROMPending
	w.countdown = int32(latency)
	if latency == 0 {
		w.complete(r)
	}
}

// tick counts down a pending read.
func (w *waveROM) tick(r rom.Reader) {
	if w.state != waveROMPending {
		return
	}
	w.countdown--
	if w.countdown <= 0 {
		w.complete(r)
	}
}

func (w *waveROM) complete(r rom.Reader) {
	w.val = r.ReadWord(w.adr & rom.AddressMask)
	w.state = waveROMReady
	w.countdown = 0
	if w.mode&1 != 0 {
		w.adr = (w.adr + 1) & rom.AddressMask
	}
}

// busy reads 0 while a read is in flight and 0x8000 once it is done.
func (w *waveROM) busy() uint16 {
	if w.state == waveROMPending {
		return 0
	}
	return 0x8000
}
