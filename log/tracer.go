package log

import (
	"fmt"

	"github.com/harlequix/secded/internal/encoding"
	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
)

// AddTracer mirrors trace, info and warning records into JSON files next to
// path (path.trace, path.info, path.warn).
func AddTracer(path string) {
	pathMap := lfshook.PathMap{
		log.TraceLevel: path + ".trace",
		log.InfoLevel:  path + ".info",
		log.WarnLevel:  path + ".warn",
	}
	hook := lfshook.NewHook(
		pathMap,
		&log.JSONFormatter{
			TimestampFormat: "Jan _2 2006 15:04:05.000000",
		},
	)
	base.Hooks.Add(hook)
}

// StepTracer turns codec steps into trace records on logger.
func StepTracer(logger *Logger) encoding.Tracer {
	return encoding.TracerFunc(func(s encoding.Step) {
		entry := logger.WithField("op", s.Op).WithField("stage", s.Stage)
		if s.Input != nil {
			entry = entry.WithField("in", fmt.Sprint(s.Input))
		}
		if s.Output != nil {
			entry = entry.WithField("out", fmt.Sprint(s.Output))
		}
		entry.Trace("step")
	})
}
