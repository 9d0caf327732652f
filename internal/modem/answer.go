package modem

import (
	"bytes"
)

// AnswerKind classifies a modem response.
type AnswerKind uint8

const (
	// AnswerNoDevice means the response contains no line break.
	AnswerNoDevice AnswerKind = iota
	// AnswerNoAnswer means the response ends right after the echo line.
	AnswerNoAnswer
	// AnswerOK means a line after the echo reads OK.
	AnswerOK
	// AnswerPrompt means the modem waits for a message body.
	AnswerPrompt
	// AnswerError means the modem reported an error.
	AnswerError
	// AnswerUnknown means none of the above matched.
	AnswerUnknown
)

var answerKindNames = map[AnswerKind]string{
	AnswerNoDevice: "no device",
	AnswerNoAnswer: "no answer",
	AnswerOK:       "ok",
	AnswerPrompt:   "prompt",
	AnswerError:    "error",
	AnswerUnknown:  "unknown",
}

// String returns the kind name.
func (k AnswerKind) String() string {
	if name, ok := answerKindNames[k]; ok {
		return name
	}

	return "invalid"
}

// Answer is a classified response.
type Answer struct {
	// Kind is the classification.
	Kind AnswerKind
	// Raw is the response text, kept for unknown answers and SIM checks.
	Raw string
}

// Final reports whether no further bytes are expected for this command.
func (a Answer) Final() bool {
	switch a.Kind {
	case AnswerOK, AnswerPrompt, AnswerError:
		return true
	default:
		return false
	}
}

// Err maps the answer onto the error taxonomy. OK and prompt answers yield nil.
func (a Answer) Err() error {
	switch a.Kind {
	case AnswerOK, AnswerPrompt:
		return nil
	case AnswerNoDevice:
		return ErrNoDevice
	case AnswerNoAnswer:
		return ErrNoAnswer
	case AnswerError:
		return ErrAnswerError
	default:
		return &UnknownAnswerError{Raw: a.Raw}
	}
}

var (
	lineOK       = []byte("OK")
	lineError    = []byte("ERROR")
	lineCMEError = []byte("+CME ERROR")
	lineCMSError = []byte("+CMS ERROR")
	linePrompt   = []byte(">")
)

// Classify inspects the first n bytes of resp. The first line is the echo
// of the command; the lines after it decide the answer, first match wins.
func Classify(resp []byte, n int) Answer {
	if n > len(resp) {
		n = len(resp)
	}

	if n < 0 {
		n = 0
	}

	resp = resp[:n]
	raw := string(resp)

	echoEnd := bytes.IndexByte(resp, '\n')
	if echoEnd < 0 {
		return Answer{Kind: AnswerNoDevice, Raw: raw}
	}

	if echoEnd == n-1 {
		return Answer{Kind: AnswerNoAnswer, Raw: raw}
	}

	for line := range bytes.SplitSeq(resp[echoEnd+1:], []byte("\n")) {
		line = bytes.TrimSpace(line)

		switch {
		case len(line) == 0:
			continue
		case bytes.Equal(line, lineOK):
			return Answer{Kind: AnswerOK, Raw: raw}
		case bytes.Equal(line, lineError),
			bytes.HasPrefix(line, lineCMEError),
			bytes.HasPrefix(line, lineCMSError):
			return Answer{Kind: AnswerError, Raw: raw}
		case bytes.Equal(line, linePrompt):
			return Answer{Kind: AnswerPrompt, Raw: raw}
		}
	}

	return Answer{Kind: AnswerUnknown, Raw: raw}
}
