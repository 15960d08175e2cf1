// This file implements utilities for parsing and validating HTTP request data.
// Bodies may be JSON or form-encoded.

package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"expenso/internal/core"
)

const maxBodyBytes = 64 << 10

// RequestBodyParser reads the body once and exposes its fields as strings.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]any
	formData url.Values
	parsed   bool
	err      error
}

// NewRequestBodyParser reads up to maxBodyBytes of the request body.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	body := bytes.TrimSpace(p.body)
	if len(body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if body[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(body))
		// Keep numbers exact so amounts are not routed through float64.
		dec.UseNumber()
		if err := dec.Decode(&p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(body))
	return p.err
}

// Get returns a sanitized string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// Has reports whether key was present in the body.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		_, ok := p.jsonData[key]
		return ok
	}
	return p.formData != nil && p.formData.Has(key)
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseDraft reads the user-entered fields of an expense. A missing date
// defaults to today.
func ParseDraft(p *RequestBodyParser, today core.Date) (core.Draft, error) {
	amount, err := core.ParseAmount(p.Get("amount"))
	if err != nil {
		return core.Draft{}, fmt.Errorf("parse amount: %w", err)
	}
	date := today
	if v := p.Get("date"); v != "" {
		if date, err = core.ParseDate(v); err != nil {
			return core.Draft{}, err
		}
	}
	return core.Draft{
		Amount:      amount,
		Date:        date,
		Description: p.Get("description"),
		Category:    p.Get("category"),
	}, nil
}

// SelectionParams is an optional period/date override from the query string.
type SelectionParams struct {
	Period core.Period
	Date   core.Date
}

// ParseSelectionParams reads ?period= and ?date=, falling back to def.
func ParseSelectionParams(query url.Values, def SelectionParams) (SelectionParams, error) {
	out := def
	if v := strings.TrimSpace(query.Get("period")); v != "" {
		p, err := core.ParsePeriod(v)
		if err != nil {
			return out, err
		}
		out.Period = p
	}
	if v := strings.TrimSpace(query.Get("date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return out, err
		}
		out.Date = d
	}
	return out, nil
}
