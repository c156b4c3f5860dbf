// Package dtos holds the request and response shapes of the HTTP API.
// Storage entities never cross the wire; internal/mapping converts between the two.
// Dates travel as YYYY-MM-DD strings (see timeutil.DateLayout).
package dtos

import "github.com/shopspring/decimal"

func init() {
	// Prices travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}
