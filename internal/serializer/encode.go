package serializer

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Marshal renders payload with the given indent width. Zero produces compact
// output.
func Marshal(payload any, indent int) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// DateTime encodes as ISO-8601 with millisecond precision, using Z for UTC.
type DateTime time.Time

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(FormatDateTime(time.Time(d)))
}

// Date encodes as YYYY-MM-DD.
type Date time.Time

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(time.DateOnly))
}

// FormatDateTime formats t the way the CMS JSON encoder does: fractional
// seconds are truncated to milliseconds and only printed when the time has
// a sub-second part, and a zero UTC offset is written as Z.
func FormatDateTime(t time.Time) string {
	var b strings.Builder
	b.WriteString(t.Format("2006-01-02T15:04:05"))
	if micros := t.Nanosecond() / int(time.Microsecond); micros != 0 {
		b.WriteString(t.Format(".000"))
	}
	if _, offset := t.Zone(); offset == 0 {
		b.WriteByte('Z')
	} else {
		b.WriteString(t.Format("-07:00"))
	}
	return b.String()
}
