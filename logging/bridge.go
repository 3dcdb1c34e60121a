package logging

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// LineFunc receives one fully formatted log line. Each call carries a whole
// message; the receiver is responsible only for ordering on its side.
type LineFunc func(line string)

// uiCore mirrors the log stream into the UI at Info level and above. It is
// injected into the logger the application builds, not registered globally,
// so it dies with the window.
type uiCore struct {
	zapcore.LevelEnabler
	send LineFunc
}

// NewUICore returns a core that formats entries as
// "2006-01-02 15:04:05 - LEVEL - message" and hands each line to send.
func NewUICore(send LineFunc) zapcore.Core {
	return &uiCore{LevelEnabler: zapcore.InfoLevel, send: send}
}

// With drops structured fields: the log pane shows messages only, the file
// core keeps the full structured record.
func (c *uiCore) With([]zapcore.Field) zapcore.Core { return c }

func (c *uiCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *uiCore) Write(ent zapcore.Entry, _ []zapcore.Field) error {
	c.send(FormatEntry(ent))
	return nil
}

func (c *uiCore) Sync() error { return nil }

// FormatEntry renders an entry the way the log pane displays it.
func FormatEntry(ent zapcore.Entry) string {
	return ent.Time.Format("2006-01-02 15:04:05") +
		" - " + strings.ToUpper(ent.Level.String()) +
		" - " + ent.Message
}
