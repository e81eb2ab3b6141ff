package audit

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/loandesk/loandesk/pkg/logger"
)

// AppName is the RFC5424 APP-NAME of every audit message.
const AppName = "loandesk"

// SDID constants for structured data IDs (RFC5424). 32473 is the
// enterprise number reserved for documentation and private use.
const (
	PEN         = 32473
	SDIDAuth    = "auth@32473"
	SDIDSubject = "subject@32473"
	SDIDAction  = "action@32473"
	SDIDClient  = "client@32473"
)

// Syslog facility constants
const (
	FacilityAuth     = 4  // LOG_AUTH - security/authorization messages
	FacilityAuthPriv = 10 // LOG_AUTHPRIV - security/authorization messages (private)
)

// Severity levels matching syslog (RFC5424)
type Severity int

const (
	SeverityEmergency Severity = iota // 0
	SeverityAlert                     // 1
	SeverityCritical                  // 2
	SeverityError                     // 3
	SeverityWarning                   // 4
	SeverityNotice                    // 5
	SeverityInfo                      // 6
	SeverityDebug                     // 7
)

// Event represents an audit event
type Event interface {
	MessageID() string
	Message() string
	Severity() Severity
	Facility() int
	StructuredData() map[string]map[string]string
}

// Logger handles audit logging in RFC5424 syslog format
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	hostname string
	appName  string
	pid      int
	now      func() time.Time
}

// NewLogger creates a new audit logger
func NewLogger() *Logger {
	hostname, _ := os.Hostname()
	return &Logger{
		writer:   os.Stdout,
		hostname: hostname,
		appName:  AppName,
		pid:      os.Getpid(),
		now:      time.Now,
	}
}

// SetWriter sets the output writer for the logger
func (l *Logger) SetWriter(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = w
}

// Format renders an event as one RFC5424 line without the trailing newline.
// Format: <PRI>VERSION TIMESTAMP HOSTNAME APP-NAME PROCID MSGID SD MSG
func (l *Logger) Format(event Event) string {
	pri := event.Facility()*8 + int(event.Severity())
	timestamp := l.now().UTC().Format("2006-01-02T15:04:05.000Z")

	sd := formatStructuredData(event.StructuredData())
	if sd == "" {
		sd = "-"
	}

	hostname := l.hostname
	if hostname == "" {
		hostname = "-"
	}

	return fmt.Sprintf("<%d>1 %s %s %s %d %s %s %s",
		pri,
		timestamp,
		hostname,
		l.appName,
		l.pid,
		event.MessageID(),
		sd,
		event.Message(),
	)
}

// Log writes an audit event
func (l *Logger) Log(event Event) {
	line := l.Format(event) + "\n"

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.writer.Write([]byte(line))
}

// formatStructuredData formats the structured data according to RFC5424
// Format: [sdid param1="value1" param2="value2"][sdid2 ...]
// Elements and params are sorted so output is stable.
func formatStructuredData(sd map[string]map[string]string) string {
	if len(sd) == 0 {
		return ""
	}

	sdids := make([]string, 0, len(sd))
	for sdid := range sd {
		sdids = append(sdids, sdid)
	}
	sort.Strings(sdids)

	var b strings.Builder
	for _, sdid := range sdids {
		params := sd[sdid]
		keys := make([]string, 0, len(params))
		for key := range params {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		b.WriteString("[")
		b.WriteString(sdid)
		for _, key := range keys {
			b.WriteString(" ")
			b.WriteString(key)
			b.WriteString("=")
			b.WriteString(escapeSDValue(params[key]))
		}
		b.WriteString("]")
	}
	return b.String()
}

// escapeSDValue escapes special characters in structured data values per RFC5424
func escapeSDValue(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	value = strings.ReplaceAll(value, "]", "\\]")
	return "\"" + value + "\""
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// Default logger instance
var DefaultLogger = NewLogger()

// Default store for database persistence (nil if AUDIT_DATABASE_URL not set)
var DefaultStore *Store

// Audit is enabled unless LOANDESK_AUDIT_ENABLED says otherwise.
var (
	enabledMu        sync.RWMutex
	auditEnabled     = true
	auditEnabledOnce sync.Once
	storeInitOnce    sync.Once
)

// IsEnabled returns whether audit logging is enabled
func IsEnabled() bool {
	auditEnabledOnce.Do(func() {
		if env := os.Getenv("LOANDESK_AUDIT_ENABLED"); env != "" {
			enabledMu.Lock()
			auditEnabled = env != "false" && env != "0" && env != "no"
			enabledMu.Unlock()
		}
	})
	enabledMu.RLock()
	defer enabledMu.RUnlock()
	return auditEnabled
}

// SetEnabled allows programmatic control of audit logging
func SetEnabled(enabled bool) {
	auditEnabledOnce.Do(func() {})
	enabledMu.Lock()
	defer enabledMu.Unlock()
	auditEnabled = enabled
}

// Log writes an event to the default logger and store (if audit is enabled)
func Log(event Event) {
	if !IsEnabled() {
		return
	}
	DefaultLogger.Log(event)

	storeInitOnce.Do(func() {
		var err error
		DefaultStore, err = NewStore()
		if err != nil {
			// the audit database is optional
			logger.Default().Warn().Err(err).Msg("audit: failed to connect to audit database")
		}
	})

	if DefaultStore != nil {
		if err := DefaultStore.Save(event); err != nil {
			logger.Default().Warn().Err(err).Str("msgid", event.MessageID()).Msg("audit: failed to save event")
		}
	}
}
