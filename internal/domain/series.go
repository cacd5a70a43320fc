package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// UnmarshalJSON accepts the shapes the analytics backend has been seen to emit:
// [[label, value], ...], [{"label":..,"value":..}, ...] (also name/y), a
// {label: value} object, or null.
func (s *Series) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}

	switch data[0] {
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("series: %w", err)
		}
		out := make(Series, 0, len(raw))
		for i, item := range raw {
			p, err := decodePoint(item)
			if err != nil {
				return fmt.Errorf("series point %d: %w", i, err)
			}
			out = append(out, p)
		}
		*s = out
		return nil

	case '{':
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("series: %w", err)
		}
		labels := make([]string, 0, len(raw))
		for label := range raw {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		out := make(Series, 0, len(raw))
		for _, label := range labels {
			v, err := decodeValue(raw[label])
			if err != nil {
				return fmt.Errorf("series point %q: %w", label, err)
			}
			out = append(out, Point{Label: label, Value: v})
		}
		*s = out
		return nil
	}

	return fmt.Errorf("series: unexpected JSON %q", truncate(data, 32))
}

func decodePoint(item json.RawMessage) (Point, error) {
	item = bytes.TrimSpace(item)
	if len(item) == 0 {
		return Point{}, fmt.Errorf("empty point")
	}

	switch item[0] {
	case '[':
		var pair []json.RawMessage
		if err := json.Unmarshal(item, &pair); err != nil {
			return Point{}, err
		}
		if len(pair) != 2 {
			return Point{}, fmt.Errorf("expected [label, value], got %d elements", len(pair))
		}
		label, err := decodeLabel(pair[0])
		if err != nil {
			return Point{}, err
		}
		v, err := decodeValue(pair[1])
		if err != nil {
			return Point{}, err
		}
		return Point{Label: label, Value: v}, nil

	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil {
			return Point{}, err
		}
		var p Point
		for _, k := range []string{"label", "name", "x"} {
			if raw, ok := obj[k]; ok {
				label, err := decodeLabel(raw)
				if err != nil {
					return Point{}, err
				}
				p.Label = label
				break
			}
		}
		for _, k := range []string{"value", "y", "count"} {
			if raw, ok := obj[k]; ok {
				v, err := decodeValue(raw)
				if err != nil {
					return Point{}, err
				}
				p.Value = v
				break
			}
		}
		return p, nil
	}

	return Point{}, fmt.Errorf("unexpected point %q", truncate(item, 32))
}

// decodeLabel accepts strings and numbers, since month buckets may arrive as epoch values
func decodeLabel(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("label %q is neither string nor number", truncate(raw, 32))
}

func decodeValue(raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, perr := strconv.ParseFloat(s, 64)
		if perr != nil {
			return 0, fmt.Errorf("value %q: %w", s, perr)
		}
		return v, nil
	}
	return 0, fmt.Errorf("value %q is not numeric", truncate(raw, 32))
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
