package core

// Logger is the application-wide logging contract. Implementations may ship
// entries to an external error tracker on top of the standard logger.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Actor identifies the authenticated caller an error or event belongs to.
// Loggers may use it to attach the person to a report.
type Actor struct {
	ID    string
	Name  string
	Email string
}
