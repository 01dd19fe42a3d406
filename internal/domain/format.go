package domain

import (
	"strconv"
	"strings"
)

// FormatCoins formatea un importe en coins como "12.5M" o "1.234B",
// quitando ceros finales.
func FormatCoins(coins float64) string {
	millions := coins / 1_000_000
	if millions >= 1000 || millions <= -1000 {
		return trimZeros(strconv.FormatFloat(millions/1000, 'f', 3, 64)) + "B"
	}
	return trimZeros(strconv.FormatFloat(millions, 'f', 2, 64)) + "M"
}

// FormatPrice formatea un precio opcional; los desconocidos se muestran como "N/A".
func FormatPrice(p Price) string {
	if !p.Known {
		return "N/A"
	}
	return FormatCoins(p.Coins)
}

// trimZeros quita ceros decimales sobrantes: "12.50" → "12.5", "3.00" → "3".
func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
