package api

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/chrisdamba/flavormetrics/internal/service"
)

const (
	dateLayout   = "2006-01-02"
	maxRangeDays = 366
)

func parseDate(v ValidationError, field, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		v.add(field, "must be a YYYY-MM-DD date")
		return time.Time{}, false
	}
	return t, true
}

// parseRange reads inclusive start and end dates. Missing bounds fall back to
// def, keeping its length when only one side is given.
func parseRange(q url.Values, def service.DateRange) (service.DateRange, error) {
	v := ValidationError{}
	r := def
	span := def.End.Sub(def.Start)

	start, hasStart := parseDate(v, "start", q.Get("start"))
	end, hasEnd := parseDate(v, "end", q.Get("end"))
	switch {
	case hasStart && hasEnd:
		r = service.DateRange{Start: start, End: end}
	case hasStart:
		r = service.DateRange{Start: start, End: start.Add(span)}
	case hasEnd:
		r = service.DateRange{Start: end.Add(-span), End: end}
	}
	if err := v.err(); err != nil {
		return service.DateRange{}, err
	}
	if r.End.Before(r.Start) {
		v.add("end", "must not be before start")
	} else if r.Days() > maxRangeDays {
		v.add("end", fmt.Sprintf("range must not exceed %d days", maxRangeDays))
	}
	if err := v.err(); err != nil {
		return service.DateRange{}, err
	}
	return r, nil
}

func parseInt(v ValidationError, q url.Values, field string, def, min, max int) int {
	raw := q.Get(field)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		v.add(field, "must be an integer")
		return def
	}
	if n < min || n > max {
		v.add(field, fmt.Sprintf("must be between %d and %d", min, max))
		return def
	}
	return n
}

func parseFloat(v ValidationError, q url.Values, field string, def, min, max float64) float64 {
	raw := q.Get(field)
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		v.add(field, "must be a number")
		return def
	}
	if f < min || f > max {
		v.add(field, fmt.Sprintf("must be between %g and %g", min, max))
		return def
	}
	return f
}
