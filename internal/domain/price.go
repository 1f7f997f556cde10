package domain

// DailyPriceRecord is a daily bar for a stock, or a daily NAV row for a fund.
// Any numeric field may be absent in provider data.
type DailyPriceRecord struct {
	Symbol    string
	TradeDate Date
	Close     *float64
	PctChg    *float64 // percent, 2.0 means +2%
	Nav       *float64
}

type NetValuePoint struct {
	Date     Date    `json:"date"`
	NetValue float64 `json:"netValue"`
}
