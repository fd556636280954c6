package utils

import (
	"strconv"
)

// FormatRupiah formats a whole-rupiah amount for display.
// Example: 1250000 -> "Rp 1.250.000", -5000 -> "-Rp 5.000"
func FormatRupiah(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)

	// sisipkan titik setiap tiga digit dari kanan
	out := make([]byte, 0, len(digits)+len(digits)/3)
	for i := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, digits[i])
	}

	return sign + "Rp " + string(out)
}
