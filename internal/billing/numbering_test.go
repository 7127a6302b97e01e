package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextInvoiceNumber_FreshYear(t *testing.T) {
	num := NextInvoiceNumber("TDS", 2025, nil)
	assert.Equal(t, "INV-TDS-2025-001", num)
}

func TestNextInvoiceNumber_IncrementsMax(t *testing.T) {
	existing := []string{
		"INV-TDS-2025-001",
		"INV-TDS-2025-003",
		"INV-TDS-2025-002",
	}
	num := NextInvoiceNumber("TDS", 2025, existing)
	assert.Equal(t, "INV-TDS-2025-004", num)
}

func TestNextInvoiceNumber_GapsAreNotReused(t *testing.T) {
	existing := []string{"INV-TDS-2025-001", "INV-TDS-2025-009"}
	num := NextInvoiceNumber("TDS", 2025, existing)
	assert.Equal(t, "INV-TDS-2025-010", num)
}

func TestNextInvoiceNumber_IgnoresOtherScopesAndYears(t *testing.T) {
	existing := []string{
		"INV-TDS-2024-044",
		"INV-ACME-2025-017",
		"INV-TDS-2025-002",
	}
	num := NextInvoiceNumber("TDS", 2025, existing)
	assert.Equal(t, "INV-TDS-2025-003", num)
}

func TestNextInvoiceNumber_IgnoresMalformedSuffixes(t *testing.T) {
	existing := []string{
		"INV-TDS-2025-abc",
		"INV-TDS-2025-",
		"INV-TDS-2025-005",
	}
	num := NextInvoiceNumber("TDS", 2025, existing)
	assert.Equal(t, "INV-TDS-2025-006", num)
}

func TestNextInvoiceNumber_WidthGrowsPastThreeDigits(t *testing.T) {
	existing := []string{"INV-TDS-2025-999"}
	num := NextInvoiceNumber("TDS", 2025, existing)
	assert.Equal(t, "INV-TDS-2025-1000", num)
}

// Two callers reading the same state compute the same next number; the
// unique constraint on (user_id, invoice_number) is what rejects the loser.
func TestNextInvoiceNumber_ConcurrentReadersCollide(t *testing.T) {
	existing := []string{"INV-TDS-2025-041"}

	first := NextInvoiceNumber("TDS", 2025, existing)
	second := NextInvoiceNumber("TDS", 2025, existing)

	assert.Equal(t, first, second)
}
