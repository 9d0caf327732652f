// Package modem drives a SIM900-class GSM modem over AT commands.
//
// The driver owns the modem's power key and a byte transport. Every exchange
// arms a receive, writes one command and classifies whatever came back within
// the command window. Failures never panic: they are reported as errors and
// folded into the driver's Status.
package modem
