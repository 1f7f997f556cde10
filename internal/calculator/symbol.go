package calculator

import (
	"fmt"
	"strconv"
	"strings"
)

type codeRange struct {
	min, max int
	exchange string
}

// board ranges on the raw six digit code. Anything numeric outside these
// is assumed to be Shenzhen.
var codeRanges = []codeRange{
	{600000, 699999, "SH"}, // main board + STAR (688)
	{900000, 900999, "SH"}, // B shares
	{0, 3999, "SZ"},        // main board incl. 002 SME
	{200000, 209999, "SZ"}, // B shares
	{300000, 309999, "SZ"}, // ChiNext
	{430000, 439999, "BJ"},
	{830000, 899999, "BJ"},
	{920000, 920999, "BJ"},
}

const defaultExchange = "SZ"

var exchanges = map[string]bool{"SH": true, "SZ": true, "BJ": true}

// NormalizeSymbol converts a raw disclosure code into its exchange qualified
// form, e.g. "600519" -> "600519.SH" and "1" -> "000001.SZ". A code that
// already names its exchange keeps it but is zero padded the same way, so
// "1.sz" and "1" agree. ok is false for empty or non-numeric codes and for
// unknown exchanges.
func NormalizeSymbol(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	code, exchange, qualified := strings.Cut(raw, ".")

	n, ok := parseCode(code)
	if !ok {
		return "", false
	}

	if qualified {
		exchange = strings.ToUpper(exchange)
		if !exchanges[exchange] {
			return "", false
		}
		return fmt.Sprintf("%06d.%s", n, exchange), true
	}

	exchange = defaultExchange
	for _, r := range codeRanges {
		if n >= r.min && n <= r.max {
			exchange = r.exchange
			break
		}
	}
	return fmt.Sprintf("%06d.%s", n, exchange), true
}

func parseCode(code string) (int, bool) {
	if code == "" || len(code) > 6 {
		return 0, false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return 0, false
	}
	return n, true
}
