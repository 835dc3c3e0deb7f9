package compare

import "strings"

// positiveKeywords and negativeKeywords score the textual polarity of a
// reason's summary. This is the same bag-of-keywords approach the teacher uses for
// Chinese-language news (analyzeSentiment in pkg/collector/news_collector.go),
// translated to the English-language filings/news this system ingests.
var positiveKeywords = []string{
	"beat", "beats", "surge", "surged", "rally", "rallied", "upgrade", "upgraded",
	"record high", "profit", "profits", "growth", "breakthrough", "outperform",
	"raises guidance", "raised guidance", "buyback", "approval", "approved",
	"expansion", "partnership", "strong demand", "exceeds", "exceeded",
}

var negativeKeywords = []string{
	"miss", "missed", "plunge", "plunged", "slump", "slumped", "downgrade", "downgraded",
	"record low", "loss", "losses", "recall", "lawsuit", "investigation", "fraud",
	"cuts guidance", "cut guidance", "layoffs", "bankruptcy", "default", "warning",
	"shortfall", "weak demand", "delisting", "sanctions",
}

// polarity returns a score in [-1, 1]: the normalized (positive - negative)
// keyword hit count. Zero means neutral or no hits at all.
func polarity(text string) float64 {
	lower := strings.ToLower(text)
	pos, neg := 0, 0
	for _, kw := range positiveKeywords {
		if strings.Contains(lower, kw) {
			pos++
		}
	}
	for _, kw := range negativeKeywords {
		if strings.Contains(lower, kw) {
			neg++
		}
	}
	total := pos + neg
	if total == 0 {
		return 0
	}
	return float64(pos-neg) / float64(total)
}
