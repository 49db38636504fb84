package http

import (
	"fmt"
	"strconv"

	"gigbook/internal/core"
)

// formatAmount formats money as a currency string (e.g., "$12.34").
func formatAmount(m core.Money) string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	units := cents / 100
	rem := cents % 100
	s := strconv.FormatInt(units, 10) + "." + fmt.Sprintf("%02d", rem)
	if neg {
		return "-$" + s
	}
	return "$" + s
}
