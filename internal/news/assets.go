package news

import (
	"regexp"
	"sort"
	"strings"
)

// AssetLexicon maps a recognized token (lower case) to the canonical asset
// identifier it stands for. Tokens that are aliases (ticker symbols) map to the
// asset's full name; full names map to themselves. The table is plain data so
// tracked assets can be extended without touching extraction logic.
type AssetLexicon map[string]string

// DefaultAssetLexicon returns the built-in keyword table.
func DefaultAssetLexicon() AssetLexicon {
	return AssetLexicon{
		"bitcoin":   "bitcoin",
		"btc":       "bitcoin",
		"ethereum":  "ethereum",
		"eth":       "ethereum",
		"dogecoin":  "dogecoin",
		"doge":      "dogecoin",
		"cardano":   "cardano",
		"ada":       "cardano",
		"solana":    "solana",
		"sol":       "solana",
		"polkadot":  "polkadot",
		"dot":       "polkadot",
		"chainlink": "chainlink",
		"link":      "chainlink",
		"litecoin":  "litecoin",
		"ltc":       "litecoin",
		"polygon":   "polygon",
		"matic":     "polygon",
		"avalanche": "avalanche",
		"avax":      "avalanche",
		"uniswap":   "uniswap",
		"uni":       "uniswap",
	}
}

// Extractor finds canonical asset identifiers in free text. Matching is
// whole-word and case-insensitive; a token never matches inside a longer word.
type Extractor struct {
	lexicon AssetLexicon
	pattern *regexp.Regexp
}

// NewExtractor compiles an extractor for the given lexicon. A nil lexicon
// falls back to the default table.
func NewExtractor(lexicon AssetLexicon) *Extractor {
	if len(lexicon) == 0 {
		lexicon = DefaultAssetLexicon()
	}

	tokens := make([]string, 0, len(lexicon))
	for token := range lexicon {
		tokens = append(tokens, regexp.QuoteMeta(strings.ToLower(token)))
	}
	// Longest alternative first so "bitcoin" wins over "btc"-style prefixes.
	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) > len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})

	pattern := regexp.MustCompile(`\b(` + strings.Join(tokens, "|") + `)\b`)
	return &Extractor{lexicon: lexicon, pattern: pattern}
}

// Extract returns the sorted, deduplicated set of canonical identifiers
// referenced by text. An empty result is a normal outcome.
func (e *Extractor) Extract(text string) []string {
	text = strings.ToLower(text)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	matched := make(map[string]struct{}, 4)
	for _, token := range e.pattern.FindAllString(text, -1) {
		canonical, ok := e.lexicon[token]
		if !ok || canonical == "" {
			continue
		}
		matched[canonical] = struct{}{}
	}
	if len(matched) == 0 {
		return nil
	}

	out := make([]string, 0, len(matched))
	for asset := range matched {
		out = append(out, asset)
	}
	sort.Strings(out)
	return out
}

// Tracked reports whether asset is a canonical identifier in the lexicon.
func (e *Extractor) Tracked(asset string) bool {
	for _, canonical := range e.lexicon {
		if canonical == strings.ToLower(strings.TrimSpace(asset)) {
			return true
		}
	}
	return false
}

// Assets returns the sorted canonical identifiers the extractor recognizes.
func (e *Extractor) Assets() []string {
	seen := make(map[string]struct{}, len(e.lexicon))
	out := make([]string, 0, len(e.lexicon))
	for _, canonical := range e.lexicon {
		if _, ok := seen[canonical]; ok {
			continue
		}
		seen[canonical] = struct{}{}
		out = append(out, canonical)
	}
	sort.Strings(out)
	return out
}
