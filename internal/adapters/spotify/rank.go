package spotify

import "strings"

// Reissue noise that shows up in album titles but rarely in what a user
// types into the search box.
var albumSuffixTokens = map[string]struct{}{
	"anniversary": {},
	"deluxe":      {},
	"edition":     {},
	"expanded":    {},
	"explicit":    {},
	"live":        {},
	"mono":        {},
	"remaster":    {},
	"remastered":  {},
	"reissue":     {},
	"stereo":      {},
	"version":     {},
}

// scoreAlbum returns a similarity score in [0,1] between the user's query
// and an album candidate, comparing against both the bare album name and
// the artist-plus-name form so either style of query ranks well.
func scoreAlbum(query string, candidate spotifyAlbum) float64 {
	target := normalizeQuery(query)
	if target == "" {
		return 0
	}

	name := normalizeQuery(candidate.Name)
	full := normalizeQuery(strings.TrimSpace(joinArtistNames(candidate) + " " + candidate.Name))

	score := similarity(target, name)
	if s := similarity(target, full); s > score {
		score = s
	}
	return score
}

// normalizeQuery cleans a search string for comparison: lowercase, noise
// suffixes like "(Deluxe Edition)" stripped, separators collapsed.
func normalizeQuery(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}

	lowered := strings.ToLower(strings.TrimSpace(input))
	trimmed := stripCommonSuffixes(lowered)
	cleaned := cleanSeparators(trimmed)

	return strings.Join(strings.Fields(cleaned), " ")
}

func stripCommonSuffixes(input string) string {
	trimmed := strings.TrimSpace(input)
	for {
		next := trimBracketedSuffix(trimmed)
		next = trimDashSuffix(next)
		if next == trimmed {
			return trimmed
		}
		trimmed = strings.TrimSpace(next)
	}
}

func trimBracketedSuffix(input string) string {
	trimmed := strings.TrimSpace(input)
	for _, pair := range [][2]string{{"(", ")"}, {"[", "]"}} {
		if !strings.HasSuffix(trimmed, pair[1]) {
			continue
		}
		if idx := strings.LastIndex(trimmed, pair[0]); idx != -1 && idx < len(trimmed)-1 {
			suffix := trimmed[idx+1 : len(trimmed)-1]
			if suffixHasToken(suffix) {
				return strings.TrimSpace(trimmed[:idx])
			}
		}
	}
	return input
}

func trimDashSuffix(input string) string {
	trimmed := strings.TrimSpace(input)
	idx := strings.LastIndex(trimmed, " - ")
	if idx == -1 {
		return input
	}
	if suffixHasToken(strings.TrimSpace(trimmed[idx+3:])) {
		return strings.TrimSpace(trimmed[:idx])
	}
	return input
}

func suffixHasToken(input string) bool {
	if strings.TrimSpace(input) == "" {
		return false
	}
	cleaned := cleanSeparators(strings.ToLower(input))
	for _, token := range strings.Fields(cleaned) {
		if _, ok := albumSuffixTokens[token]; ok {
			return true
		}
	}
	return false
}

func cleanSeparators(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshteinDistance(a, b))/float64(maxLen)
}

func levenshteinDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		copy(prev, curr)
	}

	return prev[len(rb)]
}
