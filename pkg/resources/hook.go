package resources

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/rs/zerolog"
	otelog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
)

var severities = map[zerolog.Level]otelog.Severity{
	zerolog.TraceLevel: otelog.SeverityTrace,
	zerolog.DebugLevel: otelog.SeverityDebug,
	zerolog.InfoLevel:  otelog.SeverityInfo,
	zerolog.WarnLevel:  otelog.SeverityWarn,
	zerolog.ErrorLevel: otelog.SeverityError,
	zerolog.FatalLevel: otelog.SeverityFatal,
	zerolog.PanicLevel: otelog.SeverityFatal4,
}

// ZerologHook forwards every zerolog record to the global OTel logger provider.
// Console output is untouched.
type ZerologHook struct {
	logger otelog.Logger
}

func NewZerologHook(serviceName string, serviceVersion string) *ZerologHook {
	return &ZerologHook{
		logger: global.GetLoggerProvider().Logger(serviceName, otelog.WithInstrumentationVersion(serviceVersion)),
	}
}

func (h *ZerologHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	fields, ok := eventFields(e)
	if !ok {
		return
	}

	severity, ok := severities[level]
	if !ok {
		severity = otelog.SeverityInfo
	}

	var rec otelog.Record

	rec.SetTimestamp(recordTime(fields))
	rec.SetSeverity(severity)
	rec.SetSeverityText(level.String())
	rec.SetBody(otelog.StringValue(msg))
	rec.AddAttributes(toAttributes(fields)...)

	h.logger.Emit(e.GetCtx(), rec)
}

// eventFields decodes the fields already written into the event. zerolog does not
// expose its buffer, so it is read through reflection and closed if still open.
func eventFields(e *zerolog.Event) (map[string]any, bool) {
	if e == nil {
		return nil, false
	}

	buf := reflect.ValueOf(e).Elem().FieldByName("buf")
	if !buf.IsValid() || buf.Kind() != reflect.Slice || buf.Type().Elem().Kind() != reflect.Uint8 {
		return nil, false
	}

	b := append([]byte(nil), buf.Bytes()...)
	if len(b) == 0 {
		return nil, false
	}

	if b[len(b)-1] != '}' {
		b = append(b, '}')
	}

	var fields map[string]any

	err := json.Unmarshal(b, &fields)
	if err != nil {
		return nil, false
	}

	return fields, true
}

func toAttributes(fields map[string]any) []otelog.KeyValue {
	kvs := make([]otelog.KeyValue, 0, len(fields))

	for k, v := range fields {
		switch x := v.(type) {
		case string:
			kvs = append(kvs, otelog.String(k, x))
		case bool:
			kvs = append(kvs, otelog.Bool(k, x))
		case float64:
			if x == float64(int64(x)) {
				kvs = append(kvs, otelog.Int64(k, int64(x)))
			} else {
				kvs = append(kvs, otelog.Float64(k, x))
			}
		default:
			kvs = append(kvs, otelog.String(k, fmt.Sprintf("%v", x)))
		}
	}

	return kvs
}

func recordTime(fields map[string]any) time.Time {
	s, ok := fields[zerolog.TimestampFieldName].(string)
	if !ok {
		return time.Now()
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		ts, err := time.Parse(layout, s)
		if err == nil {
			return ts
		}
	}

	return time.Now()
}
