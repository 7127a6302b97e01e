package billing

import (
	"fmt"
	"strconv"
	"strings"
)

// NumberPrefix is the fixed leading token of every invoice number.
const NumberPrefix = "INV"

// minSequenceWidth is the minimum zero-padded width of the sequence part.
const minSequenceWidth = 3

// FormatInvoiceNumber renders INV-<SCOPE>-<YEAR>-<SEQ>, zero-padding the
// sequence to at least three digits.
func FormatInvoiceNumber(scope string, year, seq int) string {
	return fmt.Sprintf("%s-%s-%d-%0*d", NumberPrefix, scope, year, minSequenceWidth, seq)
}

// NextInvoiceNumber scans existing invoice numbers for the given scope and
// year, takes the largest numeric suffix, and returns that plus one.
// Numbers with a different scope or year, or an unparseable suffix, are
// ignored. The result is not guaranteed unique under concurrent callers;
// the invoices table carries a unique constraint that rejects the loser.
func NextInvoiceNumber(scope string, year int, existing []string) string {
	prefix := fmt.Sprintf("%s-%s-%d-", NumberPrefix, scope, year)

	max := 0
	for _, num := range existing {
		if !strings.HasPrefix(num, prefix) {
			continue
		}
		seq, err := strconv.Atoi(strings.TrimPrefix(num, prefix))
		if err != nil || seq < 0 {
			continue
		}
		if seq > max {
			max = seq
		}
	}

	return FormatInvoiceNumber(scope, year, max+1)
}
