package jobs

import (
	"regexp"
	"strings"
)

const (
	UnknownTitle    = "Unknown Title"
	UnknownCompany  = "Unknown Company"
	UnknownLocation = "Unknown"
	RemoteLocation  = "Remote"

	companyHandleMarker = "@"
	// Number of tokens right before the handle taken as the company name.
	companyTokens = 2
)

var (
	salaryPattern   = regexp.MustCompile(`[€$¥£]\d+[KkMm]?\s*-\s*[€$¥£]?\d+[KkMm]?(\s+per\s+(year|month|hour))?`)
	locationPattern = regexp.MustCompile(`(?i)remote[^€$¥£]*`)
)

// Fields are the values parsed from a listing label.
type Fields struct {
	Title       string
	Company     string
	Location    string
	SalaryRange string
}

// NormalizeLabel collapses whitespace runs to single spaces and trims.
func NormalizeLabel(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ParseLabel extracts job fields from a label shaped like
// "Title Company @Handle Location Salary".
//
// Labels without a handle are split in half by tokens. The result is always
// complete; malformed input only degrades it.
func ParseLabel(label string) Fields {
	normalized := NormalizeLabel(label)

	at := strings.Index(normalized, companyHandleMarker)
	if at == -1 {
		return splitPositional(normalized)
	}

	before := strings.Fields(normalized[:at])
	after := strings.TrimSpace(normalized[at:])

	companyStart := max(len(before)-companyTokens, 0)

	fields := Fields{
		Title:       strings.Join(before[:companyStart], " "),
		Company:     strings.Join(before[companyStart:], " "),
		Location:    ExtractLocation(after),
		SalaryRange: ExtractSalary(after),
	}

	if fields.Title == "" {
		fields.Title = UnknownTitle
	}
	if fields.Company == "" {
		fields.Company = UnknownCompany
	}

	return fields
}

func splitPositional(normalized string) Fields {
	parts := strings.Fields(normalized)
	half := len(parts) / 2

	location := UnknownLocation
	if strings.Contains(strings.ToLower(normalized), "remote") {
		location = RemoteLocation
	}

	fields := Fields{
		Title:       strings.Join(parts[:half], " "),
		Company:     strings.Join(parts[half:], " "),
		Location:    location,
		SalaryRange: ExtractSalary(normalized),
	}
	if len(parts) == 0 {
		fields.Title = UnknownTitle
		fields.Company = UnknownCompany
	}

	return fields
}

// ExtractLocation returns the text from "Remote" up to the next currency
// symbol. Without a remote keyword it still answers "Remote".
func ExtractLocation(s string) string {
	if match := locationPattern.FindString(s); match != "" {
		if location := strings.TrimSpace(match); location != "" {
			return location
		}
	}
	return RemoteLocation
}

// ExtractSalary returns a range like "€60K - €80K per year" or "".
func ExtractSalary(s string) string {
	return strings.TrimSpace(salaryPattern.FindString(s))
}
