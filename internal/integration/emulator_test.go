package integration

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"periph.io/x/conn/v3/gpio"

	"github.com/oshokin/door-alarm/internal/clock"
)

const ctrlZ = 0x1a

// emulator plays a SIM900-class modem behind the modem.Transport and
// modem.PowerKey interfaces. Responses come back as two chunks, the echo
// and the answer, to exercise receive re-arming.
type emulator struct {
	mu sync.Mutex

	on      bool
	keyHigh bool
	// simReady answers AT+CPIN? with READY.
	simReady bool
	// submitFailures is how many submits answer +CMS ERROR before one succeeds.
	submitFailures int

	pending   [][]byte
	commands  []string
	submitted []string
	pulses    int
}

func newEmulator() *emulator {
	return &emulator{simReady: true}
}

func (e *emulator) Write(p []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pending = nil

	if !e.on {
		return nil
	}

	if i := bytes.IndexByte(p, ctrlZ); i >= 0 {
		pdu := string(p[:i])
		e.commands = append(e.commands, "<pdu>")
		e.reply(pdu+"\x1a\r\n", e.submit(pdu))

		return nil
	}

	cmd := strings.TrimRight(string(p), "\r\n")
	e.commands = append(e.commands, cmd)

	echo := cmd + "\r\r\n"

	switch {
	case cmd == "AT", cmd == "AT+CMGF=0", cmd == "AT+CBST=71,0,1":
		e.reply(echo, "OK\r\n")
	case cmd == "AT+CPIN?" && e.simReady:
		e.reply(echo, "+CPIN: READY\r\n\r\nOK\r\n")
	case cmd == "AT+CPIN?":
		e.reply(echo, "+CME ERROR: 10\r\n")
	case strings.HasPrefix(cmd, "AT+CMGS="):
		e.reply(echo, "> ")
	default:
		e.reply(echo, "ERROR\r\n")
	}

	return nil
}

func (e *emulator) submit(pdu string) string {
	if e.submitFailures > 0 {
		e.submitFailures--
		return "+CMS ERROR: 500\r\n"
	}

	e.submitted = append(e.submitted, pdu)

	return fmt.Sprintf("+CMGS: %d\r\n\r\nOK\r\n", len(e.submitted))
}

func (e *emulator) reply(echo, answer string) {
	e.pending = [][]byte{[]byte(echo), []byte(answer)}
}

func (*emulator) BeginReceive() {}

func (e *emulator) PollReceive() ([]byte, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.pending) == 0 {
		return nil, false
	}

	chunk := e.pending[0]
	e.pending = e.pending[1:]

	return chunk, true
}

func (e *emulator) ReceiveWithTimeout(clock.Duration) ([]byte, bool) {
	return e.PollReceive()
}

// Out toggles the modem power on every release of the power key.
func (e *emulator) Out(l gpio.Level) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.keyHigh && l == gpio.Low {
		e.on = !e.on
		e.pulses++
	}

	e.keyHigh = l == gpio.High

	return nil
}

func (e *emulator) powered() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.on
}

func (e *emulator) setSIM(ready bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.simReady = ready
}

func (e *emulator) failSubmits(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.submitFailures = n
}

func (e *emulator) submittedPDUs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]string(nil), e.submitted...)
}
