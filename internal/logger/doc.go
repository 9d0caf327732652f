// Package logger wraps zap for the controller.
//
// Services carry a named sugared logger in their context and log through the
// package helpers, e.g. logger.InfoKV(ctx, "state changed", "to", next).
// Without one in the context the global logger is used.
package logger
