// Package advisor contains the deterministic text-generation helpers that
// back the ai_feedback, description, and ai_summary fields of the API.
// Everything here is a pure function over its inputs: same input, same
// output, no I/O.
package advisor

import (
	"fmt"
	"strings"
)

// AllChecksPassed is the single affirmative message returned when a
// password satisfies every strength check.
const AllChecksPassed = "Excellent! Your password meets all security requirements"

const specialChars = `!@#$%^&*(),.?":{}|<>`

var commonPatterns = []string{"password", "123456", "qwerty"}

// PasswordFeedback evaluates a password and returns an ordered list of
// improvement tips. When all checks pass the list contains exactly the
// AllChecksPassed message.
func PasswordFeedback(password string) []string {
	var tips []string

	if len(password) < 8 {
		tips = append(tips, "Use at least 8 characters")
	}

	if !strings.ContainsAny(password, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		tips = append(tips, "Add an uppercase letter")
	}
	if !strings.ContainsAny(password, "abcdefghijklmnopqrstuvwxyz") {
		tips = append(tips, "Add a lowercase letter")
	}
	if !strings.ContainsAny(password, "0123456789") {
		tips = append(tips, "Add a number")
	}
	if !strings.ContainsAny(password, specialChars) {
		tips = append(tips, "Use a special character (!@#$%^&*)")
	}

	if hasRepeatedRun(password, 3) {
		tips = append(tips, `Avoid repeating characters (e.g., "aaa", "111")`)
	}

	lower := strings.ToLower(password)
	for _, pattern := range commonPatterns {
		if strings.Contains(lower, pattern) {
			tips = append(tips, `Avoid common patterns like "password" or "123456"`)
			break
		}
	}

	if len(tips) == 0 {
		tips = append(tips, AllChecksPassed)
	}
	return tips
}

// hasRepeatedRun reports whether s contains a run of n or more identical
// runes. Go's RE2 regexp has no backreferences, so this is a plain scan.
func hasRepeatedRun(s string, n int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
		} else {
			prev = r
			run = 1
		}
		if run >= n {
			return true
		}
	}
	return false
}

// ResetHint is the advisory line attached to password-reset responses.
func ResetHint() string {
	return "Use a passphrase with numbers and symbols for better security."
}

var riskDescriptions = map[string]string{
	"low":      "conservative investment with stable returns and minimal volatility",
	"moderate": "balanced investment offering moderate risk with steady growth potential",
	"high":     "aggressive investment with higher volatility but significant growth opportunities",
}

var typeDescriptions = map[string]string{
	"bond":  "government or corporate bonds providing fixed income",
	"fd":    "fixed deposit offering guaranteed returns with capital protection",
	"mf":    "mutual fund providing diversified exposure across asset classes",
	"etf":   "exchange-traded fund tracking market indices with low costs",
	"other": "alternative investment vehicle with unique risk-return profile",
}

var riskGoals = map[string]string{
	"low":  "capital preservation",
	"high": "aggressive growth",
}

// ProductDescription synthesizes a catalog description for a product that
// was created without one.
func ProductDescription(name, investmentType, riskLevel string) string {
	riskDesc, ok := riskDescriptions[riskLevel]
	if !ok {
		riskDesc = "moderate risk"
	}
	typeDesc, ok := typeDescriptions[investmentType]
	if !ok {
		typeDesc = "investment product"
	}
	goal, ok := riskGoals[riskLevel]
	if !ok {
		goal = "balanced returns"
	}

	return fmt.Sprintf("%s is a %s designed as a %s. This investment opportunity is suitable for investors seeking %s and can be an excellent addition to a well-diversified portfolio. The product offers professional management and follows industry best practices for risk management.",
		name, typeDesc, riskDesc, goal)
}

var riskAdvice = map[string]string{
	"low":      "provides stability and capital preservation",
	"moderate": "offers balanced growth with manageable risk",
	"high":     "seeks aggressive growth but requires careful monitoring",
}

// RiskSlice describes one risk bucket of a portfolio.
type RiskSlice struct {
	Risk       string
	Percentage float64
}

// PortfolioAdvice renders the portfolio analysis paragraph from the
// aggregated totals. Slices should be in a stable order.
func PortfolioAdvice(total float64, slices []RiskSlice, diversificationScore int, avgReturn float64) string {
	parts := make([]string, 0, len(slices))
	for _, s := range slices {
		advice, ok := riskAdvice[s.Risk]
		if !ok {
			advice = "carries an unclassified risk profile"
		}
		parts = append(parts, fmt.Sprintf("%.1f%% in %s-risk investments (%s)", s.Percentage, s.Risk, advice))
	}

	diversification := "Consider diversifying across different risk levels for better portfolio balance"
	if diversificationScore >= 2 {
		diversification = "Good diversification across risk levels"
	}

	return fmt.Sprintf("Portfolio Analysis: Your total investment of ₹%.2f is distributed as %s. %s. Expected average return: ₹%.2f. Consider rebalancing quarterly and maintaining an emergency fund equivalent to 3-6 months of expenses.",
		total, strings.Join(parts, ", "), diversification, avgReturn)
}
