// Package alarm contains the display states of the door alarm and the
// snapshot published to operators.
//
// Display is what the indicators show. It is a superset of the security
// states: Nothing blanks the indicators and Alerting covers an alert in
// progress.
package alarm
