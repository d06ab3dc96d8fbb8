package relevance

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

// Parsed holds the fields read from a model reply.
type Parsed struct {
	Summary        string
	Relevance      int
	Recommendation domain.Recommendation

	// HasRelevance is false when the reply carried no Relevance line.
	HasRelevance bool
}

var (
	summaryLine        = regexp.MustCompile(`(?i)summary:([^\r\n]*)`)
	relevanceLine      = regexp.MustCompile(`(?i)relevance:([^\r\n]*)`)
	recommendationLine = regexp.MustCompile(`(?i)recommendation:([^\r\n]*)`)
	firstNumber        = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
)

// ParseResponse reads the three labelled lines of a model reply.
// It never fails: a missing summary is empty, a missing or non-numeric
// relevance is 0, and a missing recommendation is SKIP. A reply without
// a relevance line is always SKIP.
func ParseResponse(text string) Parsed {
	var p Parsed

	p.Summary = labelValue(summaryLine, text)

	if m := relevanceLine.FindStringSubmatch(text); m != nil {
		p.HasRelevance = true
		p.Relevance = parseScore(m[1])
	}

	p.Recommendation = domain.RecommendationSkip
	if p.HasRelevance {
		if rec := labelValue(recommendationLine, text); rec != "" {
			p.Recommendation = domain.ParseRecommendation(rec)
		}
	}

	return p
}

// labelValue returns the trimmed rest of the first line matching re.
func labelValue(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// parseScore reads the first number of s, rounded and clamped to [0,100].
func parseScore(s string) int {
	num := firstNumber.FindString(s)
	if num == "" {
		return 0
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	return domain.ClampScore(int(math.Round(f)))
}
