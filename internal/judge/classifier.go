package judge

import (
	"regexp"
	"strings"

	"github.com/nmilosev/evalgate/internal/domain"
)

// verdictLineRegex matches a "Verdict: PASS" / "Verdict: FAIL" marker
// anywhere in the judge output, case-insensitive.
var verdictLineRegex = regexp.MustCompile(`(?i)verdict:\s*(pass|fail)\b`)

// firstLineTokenRegex matches standalone yes/no/pass/fail tokens.
var firstLineTokenRegex = regexp.MustCompile(`(?i)\b(yes|no|pass|fail)\b`)

// Classify parses a judge model's free-text response into a verdict plus the
// retained reasoning. It is total: unparseable input yields Uncertain, never
// an error. No model calls are made.
func Classify(judgeOutput string) (domain.Verdict, string) {
	text := strings.TrimSpace(judgeOutput)
	if text == "" {
		return domain.VerdictUncertain, ""
	}

	// Explicit "Verdict:" marker wins; the first occurrence breaks ties.
	if m := verdictLineRegex.FindStringSubmatchIndex(text); m != nil {
		token := strings.ToLower(text[m[2]:m[3]])
		reasoning := stripLeadingVerdictLine(text, m[0])
		if token == "pass" {
			return domain.VerdictPass, reasoning
		}
		return domain.VerdictFail, reasoning
	}

	// Fall back to standalone tokens on the first line only.
	firstLine := text
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		firstLine = text[:idx]
	}
	if m := firstLineTokenRegex.FindStringSubmatch(firstLine); m != nil {
		switch strings.ToLower(m[1]) {
		case "yes", "pass":
			return domain.VerdictPass, text
		case "no", "fail":
			return domain.VerdictFail, text
		}
	}

	return domain.VerdictUncertain, text
}

// stripLeadingVerdictLine drops the verdict line from the reasoning when the
// marker sits on the first line; a marker buried mid-text leaves the full
// output intact.
func stripLeadingVerdictLine(text string, matchStart int) string {
	lineEnd := strings.IndexByte(text, '\n')
	if lineEnd < 0 {
		// Single-line output: everything after the marker line is reasoning.
		if matchStart == 0 {
			return ""
		}
		return text
	}
	if matchStart < lineEnd {
		return strings.TrimSpace(text[lineEnd+1:])
	}
	return text
}
