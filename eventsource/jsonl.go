package eventsource

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSONL writes events to w as JSON Lines, one event per line, suitable
// for shipping an audit trail to external tooling.
func WriteJSONL(w io.Writer, events []*Event) error {
	enc := json.NewEncoder(w)
	for _, e := range events {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("encode event %s: %w", e.ID, err)
		}
	}
	return nil
}

// ReadJSONL parses events from a JSON Lines reader. Blank lines are skipped;
// a malformed line fails the whole read with its line number.
func ReadJSONL(r io.Reader) ([]*Event, error) {
	var out []*Event
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Event
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		out = append(out, &e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading: %w", err)
	}
	return out, nil
}
