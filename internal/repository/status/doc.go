// Package status keeps the last published alarm snapshot in a JSON file for
// dashboards and the status command. The controller only writes it; nothing
// is restored from it at boot.
package status
