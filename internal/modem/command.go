package modem

import (
	"strconv"
)

// maxRequest is the capacity of the command buffer.
const maxRequest = 400

const (
	cmdProbe     = "AT"
	cmdPDUMode   = "AT+CMGF=0"
	cmdLinkMode  = "AT+CBST=71,0,1"
	cmdSimStatus = "AT+CPIN?"
	cmdSendPDU   = "AT+CMGS="

	lineEnd = "\r\n"
	ctrlZ   = 0x1a
)

// request is a fixed-capacity command buffer.
type request struct {
	buf [maxRequest]byte
	n   int
	// overflow is set once anything failed to fit.
	overflow bool
}

func (r *request) add(s string) *request {
	if r.overflow || r.n+len(s) > len(r.buf) {
		r.overflow = true
		return r
	}

	r.n += copy(r.buf[r.n:], s)

	return r
}

func (r *request) addByte(b byte) *request {
	if r.overflow || r.n == len(r.buf) {
		r.overflow = true
		return r
	}

	r.buf[r.n] = b
	r.n++

	return r
}

// bytes returns the encoded command or ErrBadRequest on overflow.
func (r *request) bytes() ([]byte, error) {
	if r.overflow {
		return nil, ErrBadRequest
	}

	return r.buf[:r.n], nil
}

func command(cmd string) ([]byte, error) {
	var r request

	return r.add(cmd).add(lineEnd).bytes()
}

func sendHeader(tpduLength int) ([]byte, error) {
	var r request

	return r.add(cmdSendPDU).add(strconv.Itoa(tpduLength)).add(lineEnd).bytes()
}

func sendPayload(pdu string) ([]byte, error) {
	var r request

	return r.add(pdu).addByte(ctrlZ).bytes()
}
