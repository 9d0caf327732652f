// Package alert turns the configured alert text into submit-ready SMS PDUs.
package alert

import (
	"errors"
	"fmt"
	"strings"

	"github.com/warthog618/sms"
	"github.com/warthog618/sms/encoding/pdumode"

	"github.com/oshokin/door-alarm/internal/modem"
)

var (
	// ErrPhoneRequired is returned when no recipient is configured.
	ErrPhoneRequired = errors.New("alert phone number must be provided")
	// ErrMessageRequired is returned when the alert text is empty.
	ErrMessageRequired = errors.New("alert message must be provided")
)

// Encode builds the alert for phone. Long or non-GSM texts are split into
// concatenated segments using whichever character set fits.
func Encode(phone, text string) (modem.Message, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return modem.Message{}, ErrPhoneRequired
	}

	if text == "" {
		return modem.Message{}, ErrMessageRequired
	}

	tpdus, err := sms.Encode([]byte(text), sms.To(phone), sms.WithAllCharsets)
	if err != nil {
		return modem.Message{}, fmt.Errorf("encode alert: %w", err)
	}

	msg := modem.Message{Segments: make([]modem.Segment, 0, len(tpdus))}

	for i, p := range tpdus {
		tpdu, err := p.MarshalBinary()
		if err != nil {
			return modem.Message{}, fmt.Errorf("marshal alert segment %d: %w", i+1, err)
		}

		// Empty SMSC: the modem uses the one stored on the SIM.
		pdu := pdumode.PDU{TPDU: tpdu}

		hex, err := pdu.MarshalHexString()
		if err != nil {
			return modem.Message{}, fmt.Errorf("hex-encode alert segment %d: %w", i+1, err)
		}

		msg.Segments = append(msg.Segments, modem.Segment{
			TPDULength: len(tpdu),
			PDU:        hex,
		})
	}

	return msg, nil
}
