// Package logging provides structured logging for healthdash.
//
// # Overview
//
// Logging package wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Stderr output (stdout stays reserved for command output) plus optional OpenTelemetry
//   - Automatic context field injection (trace_id, request.id, user.id)
//   - Secret redaction (bearer tokens, passwords)
//   - Level-aware sampling (errors never sampled)
//
// # Usage
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg, nil)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithUserID(ctx, user.ID)
//	logger.Info(ctx, "records fetched", zap.Int("count", n))
//
// # Secret Redaction
//
// Field names such as token, password and authorization are replaced with
// [REDACTED] at the encoder. Values matching a bearer pattern are replaced too.
// Use RedactedString when a secret must be acknowledged in a log line:
//
//	logger.Debug(ctx, "session loaded", logging.RedactedString("token", s.Token))
//
// # Testing
//
//	tl := logging.NewTestLogger()
//	svc := NewThing(tl.Logger)
//	tl.AssertLogged(t, zapcore.WarnLevel, "fetch failed")
//	tl.AssertNoSecrets(t)
package logging
