package aladhan

// Wire types for the Al Adhan timings endpoint. Only the fields the
// service consumes are mapped; the API returns far more.

type timingsResponse struct {
	Code   int         `json:"code"`
	Status string      `json:"status"`
	Data   timingsData `json:"data"`
}

type timingsData struct {
	Timings map[string]string `json:"timings"`
	Date    dateInfo          `json:"date"`
}

type dateInfo struct {
	Hijri     hijriInfo     `json:"hijri"`
	Gregorian gregorianInfo `json:"gregorian"`
}

type hijriInfo struct {
	Day   string     `json:"day"`
	Month hijriMonth `json:"month"`
	Year  string     `json:"year"`
}

type hijriMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"`
}

type gregorianInfo struct {
	Date string `json:"date"` // "DD-MM-YYYY"
}
