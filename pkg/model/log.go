package model

import (
	"fmt"
	"strings"
	"time"
)

// LogTimeFormat is the layout of timestamps in the commit log
const LogTimeFormat = "2006/01/02 15:04:05"

// LogRecord is one line of the append-only commit log
type LogRecord struct {
	ID        string
	Timestamp time.Time
	Message   string
}

var messageFolder = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

// NewLogRecord builds a log record, with a timestamp in UTC truncated to the second
func NewLogRecord(id string, t time.Time, message string) LogRecord {
	return LogRecord{
		ID:        id,
		Timestamp: t.UTC().Truncate(time.Second),
		Message:   messageFolder.Replace(message),
	}
}

// String renders the record as a log line, without line terminator
func (r LogRecord) String() string {
	return strings.Join([]string{
		r.ID,
		r.Timestamp.UTC().Format(LogTimeFormat),
		messageFolder.Replace(r.Message),
	}, "\t")
}

// ParseLogRecord reads back a log line
func ParseLogRecord(line string) (LogRecord, error) {
	parts := strings.SplitN(strings.TrimRight(line, "\r\n"), "\t", 3)
	if len(parts) != 3 {
		return LogRecord{}, fmt.Errorf("malformed log line %q", line)
	}
	if parts[0] == "" {
		return LogRecord{}, fmt.Errorf("log line without commit id %q", line)
	}
	ts, err := time.ParseInLocation(LogTimeFormat, parts[1], time.UTC)
	if err != nil {
		return LogRecord{}, fmt.Errorf("malformed timestamp in log line %q: %v", line, err)
	}
	return LogRecord{ID: parts[0], Timestamp: ts, Message: parts[2]}, nil
}
