package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultNumberPrefix is used when no prefix is configured
const DefaultNumberPrefix = "FAC"

// NextInvoiceNumber returns the next number in format "PREFIX-YYYY-NNN" for the given year.
// The sequence is one past the highest suffix among that year's invoices; earlier years are ignored.
// A suffix without leading digits counts as 0.
func NextInvoiceNumber(prefix string, year int, invoices []*Invoice) string {
	if prefix == "" {
		prefix = DefaultNumberPrefix
	}
	yearPrefix := fmt.Sprintf("%s-%04d-", prefix, year)

	maxSeq := 0
	for _, inv := range invoices {
		if !strings.HasPrefix(inv.Number, yearPrefix) {
			continue
		}
		if seq := parseSequence(strings.TrimPrefix(inv.Number, yearPrefix)); seq > maxSeq {
			maxSeq = seq
		}
	}

	// %03d widens past 999 instead of wrapping
	return fmt.Sprintf("%s%03d", yearPrefix, maxSeq+1)
}

// parseSequence reads the leading decimal digits of a suffix
func parseSequence(suffix string) int {
	end := 0
	for end < len(suffix) && suffix[end] >= '0' && suffix[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(suffix[:end])
	if err != nil {
		return 0
	}
	return n
}
