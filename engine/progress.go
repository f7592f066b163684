package engine

import (
	"strconv"
	"strings"
	"time"
)

// ProgressEvent is one parsed block of the encoder's machine-readable
// progress stream.
type ProgressEvent struct {
	OutTime time.Duration // encoded input time so far
	Fps     float64
	Kbps    float64
	End     bool
}

// ProgressParser turns ffmpeg's "-progress" key=value stream into typed
// events. ffmpeg emits repeating blocks of lines (fps=…, bitrate=…,
// out_time_us=…) terminated by a "progress=continue|end" line; one event is
// emitted per block. Unparseable lines are skipped and last-known values
// kept, so a garbled stream degrades progress reporting without failing the
// job.
type ProgressParser struct {
	cur ProgressEvent
}

// ParseLine consumes a single line. The returned bool is true when the line
// completed a block and an event should be applied.
func (p *ProgressParser) ParseLine(line string) (ProgressEvent, bool) {
	key, value, found := strings.Cut(strings.TrimSpace(line), "=")
	if !found {
		return ProgressEvent{}, false
	}
	value = strings.TrimSpace(value)

	switch key {
	case "fps":
		if v, err := strconv.ParseFloat(value, 64); err == nil && v > 0 {
			p.cur.Fps = v
		}
	case "bitrate":
		// e.g. "1279.4kbits/s"; "N/A" early in the encode
		if v, err := strconv.ParseFloat(strings.TrimSuffix(value, "kbits/s"), 64); err == nil && v > 0 {
			p.cur.Kbps = v
		}
	case "out_time_us", "out_time_ms":
		// both fields carry microseconds
		if v, err := strconv.ParseInt(value, 10, 64); err == nil && v >= 0 {
			p.cur.OutTime = time.Duration(v) * time.Microsecond
		}
	case "out_time":
		if d, ok := parseClockTime(value); ok {
			p.cur.OutTime = d
		}
	case "progress":
		p.cur.End = value == "end"
		event := p.cur
		return event, true
	}
	return ProgressEvent{}, false
}

// parseClockTime parses ffmpeg's HH:MM:SS.micros timestamps.
func parseClockTime(value string) (time.Duration, bool) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, false
	}
	hours, err1 := strconv.Atoi(parts[0])
	minutes, err2 := strconv.Atoi(parts[1])
	seconds, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil || hours < 0 {
		return 0, false
	}
	total := float64(hours)*3600 + float64(minutes)*60 + seconds
	return time.Duration(total * float64(time.Second)), true
}
