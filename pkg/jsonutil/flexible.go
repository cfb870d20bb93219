// Package jsonutil coerces loosely-typed JSON values. Clients built on
// spreadsheet tooling send numbers as strings and vice versa; these
// helpers accept either form instead of failing the request.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexibleStringValue converts a raw JSON value to a string, accepting
// strings, numbers and booleans. Returns empty string for null/empty.
func FlexibleStringValue(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		return strVal
	}

	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		if numVal == float64(int64(numVal)) {
			return fmt.Sprintf("%d", int64(numVal))
		}
		return fmt.Sprintf("%g", numVal)
	}

	var boolVal bool
	if err := json.Unmarshal(raw, &boolVal); err == nil {
		return fmt.Sprintf("%t", boolVal)
	}

	return string(raw)
}

// FlexibleIntValue converts a raw JSON value to an int, accepting
// numbers ("2019", 2019, 2019.0). Returns false when the value does not
// represent an integer.
func FlexibleIntValue(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		if numVal != float64(int64(numVal)) {
			return 0, false
		}
		return int(numVal), true
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		strVal = strings.TrimSpace(strVal)
		if v, err := strconv.Atoi(strVal); err == nil {
			return v, true
		}
		// Spreadsheet-formatted integers carry a float suffix.
		if f, err := strconv.ParseFloat(strVal, 64); err == nil && f == float64(int64(f)) {
			return int(f), true
		}
	}

	return 0, false
}

// FlexibleIntSlice converts a raw JSON array to ints, dropping elements
// that do not represent integers. A null or absent array yields nil.
func FlexibleIntSlice(raw json.RawMessage) []int {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}

	out := make([]int, 0, len(elems))
	for _, e := range elems {
		if v, ok := FlexibleIntValue(e); ok {
			out = append(out, v)
		}
	}
	return out
}
