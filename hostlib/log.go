package hostlib

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/lua-bridge/bridge"
)

// Log returns the log module bound to the given logger:
//
//	log.debug(message [, fields])
//	log.info(message [, fields])
//	log.warn(message [, fields])
//	log.error(message [, fields])
//
// fields is an optional table whose entries become structured log
// fields. The functions return nothing on success and the usual
// nil, message pair when the message is not a string.
func Log(logger *zap.Logger) Module {
	return Module{
		Name: "log",
		Funcs: map[string]bridge.HostFunc{
			"debug": logAt(logger, zapcore.DebugLevel),
			"info":  logAt(logger, zapcore.InfoLevel),
			"warn":  logAt(logger, zapcore.WarnLevel),
			"error": logAt(logger, zapcore.ErrorLevel),
		},
	}
}

func logAt(logger *zap.Logger, level zapcore.Level) bridge.HostFunc {
	return func(st *bridge.State, args []bridge.Value) ([]bridge.Value, *bridge.State, error) {
		if len(args) < 1 {
			return failure(st, "log expects a message")
		}
		msg, err := args[0].AsString()
		if err != nil {
			return failure(st, err.Error())
		}
		var fields []zap.Field
		if len(args) > 1 && !args[1].IsNil() {
			fields, err = logFields(args[1])
			if err != nil {
				return failure(st, err.Error())
			}
		}
		if ce := logger.Check(level, msg); ce != nil {
			ce.Write(fields...)
		}
		return nil, st, nil
	}
}

func logFields(v bridge.Value) ([]zap.Field, error) {
	entries, err := v.Entries()
	if err != nil {
		return nil, err
	}
	fields := make([]zap.Field, 0, len(entries))
	for _, e := range entries {
		key, err := e.Key.AsString()
		if err != nil {
			return nil, err
		}
		val, err := e.Value.Interface()
		if err != nil {
			return nil, err
		}
		fields = append(fields, zap.Any(key, val))
	}
	return fields, nil
}
