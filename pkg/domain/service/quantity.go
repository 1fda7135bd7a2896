package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	msgNotANumber         = "Not a number. Please enter a non-negative quantity to order."
	msgNegativeNonInteger = "Negative inventory and not an integer. Please enter a non-negative quantity."
	msgNegative           = "Negative inventory. Please enter a non-negative quantity to order."
	msgNotAnInteger       = "Not an integer. Please enter a non-negative quantity to order."
	msgNotAvailableFmt    = "We do not have %s available."
)

// ValidateQuantity checks one requested quantity against the stock on
// hand and returns an error message, or "" when the line is acceptable.
// The rules form an ordered first-match list; at most one message is
// produced per line even when several rules would apply, and the
// precedence below is load-bearing for callers that render the message:
//
//  1. not parseable (or empty)      -> not a number
//  2. negative and not an integer   -> combined message
//  3. negative integer              -> negative inventory
//  4. non-zero and not an integer   -> not an integer
//  5. more than available           -> availability message
//
// A quantity of zero is always valid, whatever the availability: it
// simply means the item is not being ordered.
func ValidateQuantity(raw string, available int) string {
	qty, ok := parseQuantity(raw)
	switch {
	case !ok:
		return msgNotANumber
	case qty < 0 && !isInteger(qty):
		return msgNegativeNonInteger
	case qty < 0:
		return msgNegative
	case qty != 0 && !isInteger(qty):
		return msgNotAnInteger
	case qty > float64(available):
		return fmt.Sprintf(msgNotAvailableFmt, strconv.FormatFloat(qty, 'f', -1, 64))
	}
	return ""
}

func parseQuantity(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	qty, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(qty) || math.IsInf(qty, 0) {
		// ParseFloat accepts the literals "NaN" and "Inf", which are
		// not quantities; they fall under the not-a-number rule.
		return 0, false
	}
	return qty, true
}

func isInteger(qty float64) bool {
	return qty == math.Trunc(qty)
}
