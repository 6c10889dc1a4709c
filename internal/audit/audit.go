// Package audit appends an Avro-encoded record of every served query to
// an append-only log file, for deployments that need a queryable
// record of what was looked up and how many results came back.
package audit

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/linkedin/goavro/v2"
)

const schemaJSON = `{
	"type": "record",
	"name": "QueryEvent",
	"fields": [
		{"name": "time_unix_ms", "type": "long"},
		{"name": "query", "type": "string"},
		{"name": "results", "type": "int"},
		{"name": "remote_addr", "type": "string"}
	]
}`

// Event is one served query, as recorded to the audit log.
type Event struct {
	Time       time.Time
	Query      string
	Results    int
	RemoteAddr string
}

// Logger appends length-prefixed, Avro-binary-encoded Events to a file
// opened in append mode. Nil-safe: a nil *Logger's Log is a no-op, so
// callers don't need to branch on whether auditing is configured.
type Logger struct {
	mu    sync.Mutex
	file  *os.File
	codec *goavro.Codec
}

// Open compiles the event schema and opens path for appending, creating
// it if necessary.
func Open(path string) (*Logger, error) {
	codec, err := goavro.NewCodec(schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("audit: compile schema: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("audit: open %q: %w", path, err)
	}
	return &Logger{file: f, codec: codec}, nil
}

// Log appends ev to the log. A nil Logger silently does nothing.
func (l *Logger) Log(ev Event) error {
	if l == nil {
		return nil
	}
	native := map[string]interface{}{
		"time_unix_ms": ev.Time.UnixMilli(),
		"query":        ev.Query,
		"results":      int32(ev.Results),
		"remote_addr":  ev.RemoteAddr,
	}
	enc, err := l.codec.BinaryFromNative(nil, native)
	if err != nil {
		return fmt.Errorf("audit: encode: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(enc)))
	if _, err := l.file.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("audit: write length: %w", err)
	}
	if _, err := l.file.Write(enc); err != nil {
		return fmt.Errorf("audit: write record: %w", err)
	}
	return nil
}

// Close closes the underlying file. Safe to call on a nil Logger.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	return l.file.Close()
}

// ReadAll decodes every event in path, in append order. Intended for
// offline inspection (a CLI or test), not the hot path.
func ReadAll(path string) ([]Event, error) {
	codec, err := goavro.NewCodec(schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("audit: compile schema: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("audit: read %q: %w", path, err)
	}

	var events []Event
	pos := 0
	for pos < len(data) {
		if pos+4 > len(data) {
			return nil, fmt.Errorf("audit: truncated length prefix at offset %d", pos)
		}
		n := int(binary.LittleEndian.Uint32(data[pos:]))
		pos += 4
		if n < 0 || pos+n > len(data) {
			return nil, fmt.Errorf("audit: truncated record at offset %d", pos)
		}
		native, _, err := codec.NativeFromBinary(data[pos : pos+n])
		if err != nil {
			return nil, fmt.Errorf("audit: decode record at offset %d: %w", pos, err)
		}
		pos += n

		rec := native.(map[string]interface{})
		events = append(events, Event{
			Time:       time.UnixMilli(rec["time_unix_ms"].(int64)),
			Query:      rec["query"].(string),
			Results:    int(rec["results"].(int32)),
			RemoteAddr: rec["remote_addr"].(string),
		})
	}
	return events, nil
}
