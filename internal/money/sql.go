package money

import "database/sql/driver"

// Scan and Value delegate to shopspring/decimal so Money and Hours columns
// map onto NUMERIC without float round-trips.

func (m *Money) Scan(src interface{}) error {
	return m.d.Scan(src)
}

func (m Money) Value() (driver.Value, error) {
	return m.d.Round(CurrencyPlaces).Value()
}

func (h *Hours) Scan(src interface{}) error {
	return h.d.Scan(src)
}

func (h Hours) Value() (driver.Value, error) {
	return h.d.Value()
}
