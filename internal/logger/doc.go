// Package logger wraps zap to offer:
//   - a global sugared logger with a console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration and parsing utilities,
//   - leveled convenience functions (Infof, ErrorKV, etc.).
//
// Services receive a context and pull the logger from it, so every timer
// operation logs under the name of the component that performed it.
package logger
