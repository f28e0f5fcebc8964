package fit

import (
	"regexp"
	"strings"
)

const VagueSalaryFlag = `Vague salary ("competitive" or "based on experience")`

type redFlag struct {
	pattern *regexp.Regexp
	flag    string
}

var redFlags = []redFlag{
	{pattern: regexp.MustCompile(`(?i)unpaid|no salary|volunteer`), flag: "Unpaid position"},
	{pattern: regexp.MustCompile(`(?i)crypto|web3|blockchain`), flag: "Crypto/Web3 (high volatility)"},
	{pattern: regexp.MustCompile(`(?i)10\+ years.*required`), flag: "Unrealistic experience requirements"},
	{pattern: regexp.MustCompile(`(?i)rockstar|ninja|guru`), flag: "Unprofessional job title terminology"},
	{pattern: regexp.MustCompile(`(?i)equity only|stock options only`), flag: "No base salary, equity only"},
	{pattern: regexp.MustCompile(`(?i)work.*family`), flag: `"Work family" culture (red flag phrase)`},
}

var digitPattern = regexp.MustCompile(`\d`)

// RedFlags lists the low quality posting signals found in the job.
// A missing salary is not a signal.
func RedFlags(extract *Extract) []string {
	flags := make([]string, 0)
	text := strings.ToLower(extract.Basic.Title + " " + extract.Details.Description)

	for _, rf := range redFlags {
		if rf.pattern.MatchString(text) {
			flags = append(flags, rf.flag)
		}
	}

	salary := strings.ToLower(extract.Basic.SalaryRange)
	if salary != "" && !digitPattern.MatchString(salary) &&
		(strings.Contains(salary, "competitive") || strings.Contains(salary, "based on experience")) {
		flags = append(flags, VagueSalaryFlag)
	}

	return flags
}
