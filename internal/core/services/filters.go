package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
)

// Limits bounds the per-kind result count.
type Limits struct {
	Default int
	Max     int
}

// DefaultLimits are the limits used when none are configured.
var DefaultLimits = Limits{Default: domain.DefaultSearchLimit, Max: domain.MaxSearchLimit}

// NormalizeSearch turns raw parameters into a canonical SearchRequest using DefaultLimits.
func NormalizeSearch(callerID string, raw domain.RawSearchParams) (domain.SearchRequest, error) {
	return DefaultLimits.Normalize(callerID, raw)
}

// Normalize turns raw parameters into a canonical SearchRequest.
// It performs no I/O; every error wraps domain.ErrInvalidInput.
func (l Limits) Normalize(callerID string, raw domain.RawSearchParams) (domain.SearchRequest, error) {
	req := domain.SearchRequest{
		CallerID:    strings.TrimSpace(callerID),
		WorkspaceID: strings.TrimSpace(raw.WorkspaceID),
		Query:       domain.TextPattern(strings.TrimSpace(raw.Query)),
	}
	if req.CallerID == "" {
		return req, fmt.Errorf("%w: caller is required", domain.ErrInvalidInput)
	}
	if req.WorkspaceID == "" {
		return req, fmt.Errorf("%w: workspace is required", domain.ErrInvalidInput)
	}

	f := domain.SearchFilters{
		ChannelID:  strings.TrimSpace(raw.Channel),
		SenderName: strings.TrimSpace(raw.From),
		FileType:   strings.TrimSpace(raw.FileType),
		Limit:      l.limit(raw.Limit),
	}

	var err error
	if f.DateBefore, err = parseDate("before", raw.Before); err != nil {
		return req, err
	}
	if f.DateAfter, err = parseDate("after", raw.After); err != nil {
		return req, err
	}
	if f.DateOn, err = parseDate("on", raw.On); err != nil {
		return req, err
	}

	flags := []struct {
		name  string
		value string
		dst   *bool
	}{
		{"has_file", raw.HasFile, &f.HasFile},
		{"has_link", raw.HasLink, &f.HasLink},
		{"is_dm", raw.IsDirectMessage, &f.IsDirectMessage},
		{"is_thread_reply", raw.IsThreadReply, &f.IsThreadReply},
		{"is_saved", raw.IsSaved, &f.IsSaved},
		{"is_pinned", raw.IsPinned, &f.IsPinned},
	}
	for _, flag := range flags {
		if *flag.dst, err = parseFlag(flag.name, flag.value); err != nil {
			return req, err
		}
	}

	if f.DateRange().IsEmpty() {
		return req, fmt.Errorf("%w: date filters select an empty range", domain.ErrInvalidInput)
	}

	req.Filters = f
	return req, nil
}

// limit falls back to the default for missing, malformed or non-positive values.
func (l Limits) limit(raw string) int {
	def, ceiling := l.Default, l.Max
	if def <= 0 {
		def = domain.DefaultSearchLimit
	}
	if ceiling <= 0 {
		ceiling = domain.MaxSearchLimit
	}
	if def > ceiling {
		def = ceiling
	}

	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	if n > ceiling {
		return ceiling
	}
	return n
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02"}

func parseDate(name, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD or RFC 3339, got %q", domain.ErrInvalidInput, name, raw)
}

func parseFlag(name, raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean, got %q", domain.ErrInvalidInput, name, raw)
	}
	return v, nil
}
