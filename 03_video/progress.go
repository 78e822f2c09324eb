package video

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Observer receives encoder events. Start is sent once the encoder launches;
// exactly one of End or Error comes last.
type Observer interface {
	Start(command string)
	Progress(percent float64)
	End(output string)
	Error(detail string)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnStart    func(command string)
	OnProgress func(percent float64)
	OnEnd      func(output string)
	OnError    func(detail string)
}

func (o ObserverFuncs) Start(command string) {
	if o.OnStart != nil {
		o.OnStart(command)
	}
}

func (o ObserverFuncs) Progress(percent float64) {
	if o.OnProgress != nil {
		o.OnProgress(percent)
	}
}

func (o ObserverFuncs) End(output string) {
	if o.OnEnd != nil {
		o.OnEnd(output)
	}
}

func (o ObserverFuncs) Error(detail string) {
	if o.OnError != nil {
		o.OnError(detail)
	}
}

// readProgress parses ffmpeg "-progress" key=value output and reports the
// percentage of totalSec encoded. Percentages never decrease and are capped
// at 100.
func readProgress(r io.Reader, totalSec float64, report func(float64)) {
	last := -1.0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}

		var percent float64
		switch key {
		case "out_time_us", "out_time_ms":
			// both keys carry microseconds
			us, err := strconv.ParseInt(value, 10, 64)
			if err != nil || totalSec <= 0 {
				continue
			}
			percent = float64(us) / 1e6 / totalSec * 100
		case "progress":
			if value != "end" {
				continue
			}
			percent = 100
		default:
			continue
		}

		percent = min(max(percent, 0), 100)
		if percent > last {
			last = percent
			report(percent)
		}
	}
}
