package report

import "github.com/holmestyler/pensel/internal/sensor"

// handlerFunc matches the original (in_ptr, in_len, out_ptr, &mut out_len)
// -> retcode signature, adapted to Go: it appends its output to out
// (capacity maxPayloadLen, length 0) and returns the retcode plus the
// filled slice.
type handlerFunc func(e *Engine, in []byte, out []byte) (Code, []byte)

// dispatchTable is the sparse id -> handler map standing in for the
// original's flat 256-entry function-pointer array; the dense table was an
// implementation convenience there, not a contract. Unassigned ids fall
// through to handleUnknownReport.
var dispatchTable = map[uint8]handlerFunc{
	0x10: handleGetTimeoutCount,
	0x11: handleGetInvalidCharsCount,
	0x20: handleLSMChangeConfig,
	0x21: handleLSMGetTemp,
	0x22: handleLSMGetAccel,
	0x23: handleLSMGetMag,
	0x24: handleLSMGetErrors,
	0x30: handlePenselGetVersion,
	0x31: handlePenselGetTimestamp,
	0x32: handlePenselGetComsErrors,
	0x33: handlePenselGetButtonSwitchState,
}

func handleUnknownReport(e *Engine, in []byte, out []byte) (Code, []byte) {
	return NoReportError, out
}

func handleGetTimeoutCount(e *Engine, in []byte, out []byte) (Code, []byte) {
	return Ok, widenCounter16to32LE(out, e.timeouts)
}

func handleGetInvalidCharsCount(e *Engine, in []byte, out []byte) (Code, []byte) {
	return Ok, widenCounter16to32LE(out, e.invalidChars)
}

func handleLSMChangeConfig(e *Engine, in []byte, out []byte) (Code, []byte) {
	if len(in) != 4 {
		return InvalidArgsError, out
	}
	cfg := sensor.Config{
		AccelODR:         in[0],
		AccelSensitivity: in[1],
		MagODR:           in[2],
		MagSensitivity:   in[3],
	}
	// The driver's own retcode goes on the wire verbatim.
	if err := e.deps.Source.Configure(cfg); err != nil {
		return CodeOf(err), out
	}
	return Ok, out
}

func handleLSMGetTemp(e *Engine, in []byte, out []byte) (Code, []byte) {
	ts, ok := e.deps.Source.(sensor.TempSource)
	if !ok {
		return GenError, out
	}
	temp, err := ts.Temp()
	if err != nil {
		return GenError, out
	}
	return Ok, putI16LE(out, temp)
}

// lsmFlags decodes the 0x22/0x23 flags byte. peek is bit-tested; block is
// compared against the literal value 0b10, not bit-tested. The
// inconsistency is preserved verbatim from reports.c for wire
// compatibility rather than normalized.
func lsmFlags(flags uint8) (peek, block bool) {
	peek = flags&0b01 != 0
	block = flags == 0b10
	return
}

func handleLSMGetAccel(e *Engine, in []byte, out []byte) (Code, []byte) {
	if len(in) != 1 {
		return InvalidArgsError, out
	}
	peek, block := lsmFlags(in[0])

	for block && !e.deps.Source.AccelDataAvailable() {
	}

	if !e.deps.Source.AccelDataAvailable() {
		return Ok, out
	}

	var pkt sensor.Packet
	if err := e.deps.Source.AccelGetPacket(&pkt, peek); err != nil {
		return GenError, out
	}
	return Ok, appendPacket(out, pkt)
}

func handleLSMGetMag(e *Engine, in []byte, out []byte) (Code, []byte) {
	if len(in) != 1 {
		return InvalidArgsError, out
	}
	peek, block := lsmFlags(in[0])

	for block && !e.deps.Source.MagDataAvailable() {
	}

	if !e.deps.Source.MagDataAvailable() {
		return Ok, out
	}

	var pkt sensor.Packet
	if err := e.deps.Source.MagGetPacket(&pkt, peek); err != nil {
		return GenError, out
	}
	return Ok, appendPacket(out, pkt)
}

func appendPacket(out []byte, pkt sensor.Packet) []byte {
	out = putI16LE(out, pkt.X)
	out = putI16LE(out, pkt.Y)
	out = putI16LE(out, pkt.Z)
	out = putU32LE(out, pkt.Seq)
	var rate [2]byte
	rate[0] = byte(pkt.RateHz)
	rate[1] = byte(pkt.RateHz >> 8)
	return append(out, rate[:]...)
}

func handleLSMGetErrors(e *Engine, in []byte, out []byte) (Code, []byte) {
	out = putU32LE(out, e.deps.Source.AccelPacketOverwriteCount())
	out = putU32LE(out, e.deps.Source.MagPacketOverwriteCount())
	out = putU32LE(out, e.deps.Source.AccelHardwareOverwriteCount())
	out = putU32LE(out, e.deps.Source.MagHardwareOverwriteCount())
	return Ok, out
}

func handlePenselGetVersion(e *Engine, in []byte, out []byte) (Code, []byte) {
	out = append(out, e.deps.VersionMajor, e.deps.VersionMinor)
	return Ok, out
}

func handlePenselGetTimestamp(e *Engine, in []byte, out []byte) (Code, []byte) {
	return Ok, putU32LE(out, e.lastNowMs)
}

func handlePenselGetComsErrors(e *Engine, in []byte, out []byte) (Code, []byte) {
	return Ok, append(out, e.deps.Port.DroppedPackets())
}

func handlePenselGetButtonSwitchState(e *Engine, in []byte, out []byte) (Code, []byte) {
	if e.deps.Buttons == nil {
		return Ok, append(out, 0, 0, 0)
	}
	sw, mainBtn, auxBtn := e.deps.Buttons.SwitchState()
	return Ok, append(out, sw, mainBtn, auxBtn)
}
