package model

// Occupation is a reference occupation keyed by its classification code
// (O*NET-SOC style, e.g. "15-1252.00").
type Occupation struct {
	Code                  string  `json:"code"`
	Title                 string  `json:"title"`
	InterestCode          string  `json:"interest_code"`
	SecondaryInterestCode *string `json:"secondary_interest_code,omitempty"`
}
