package services

import (
	"sort"
	"strings"

	"membergate/models"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

const (
	searchMatchThreshold = 0.6
	searchSubstringScore = 0.9
)

type ScoredMember struct {
	models.MemberSummary
	Score float64 `json:"score"`
}

type MemberSearchResult struct {
	Matches []ScoredMember `json:"matches"`
	// Suggestion is the code of the closest member when nothing matched.
	Suggestion string `json:"suggestion,omitempty"`
}

// normalizeInput folds case and diacritics: "Åsa Öberg" becomes "asa oberg".
func normalizeInput(input string) string {
	input = strings.TrimSpace(input)
	return strings.ToLower(unidecode.Unidecode(input))
}

func createMatcher(keywords []string) *closestmatch.ClosestMatch {
	return closestmatch.New(keywords, []int{2, 3})
}

func calculateSimilarity(a, b string) float64 {
	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptionsWithSub)
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

func scoreMember(query string, member models.MemberSummary) float64 {
	best := 0.0
	for _, field := range []string{member.Code, member.DisplayName} {
		normalized := normalizeInput(field)
		if normalized == "" {
			continue
		}
		score := calculateSimilarity(query, normalized)
		if strings.Contains(normalized, query) && score < searchSubstringScore {
			score = searchSubstringScore
		}
		if score > best {
			best = score
		}
	}
	return best
}

func searchMembers(query string, members []models.MemberSummary) MemberSearchResult {
	normalizedQuery := normalizeInput(query)
	result := MemberSearchResult{Matches: []ScoredMember{}}

	for _, member := range members {
		if normalizedQuery == "" {
			result.Matches = append(result.Matches, ScoredMember{MemberSummary: member, Score: 1})
			continue
		}
		if score := scoreMember(normalizedQuery, member); score >= searchMatchThreshold {
			result.Matches = append(result.Matches, ScoredMember{MemberSummary: member, Score: score})
		}
	}

	sort.SliceStable(result.Matches, func(i, j int) bool {
		if result.Matches[i].Score != result.Matches[j].Score {
			return result.Matches[i].Score > result.Matches[j].Score
		}
		return result.Matches[i].Code < result.Matches[j].Code
	})

	if len(result.Matches) == 0 && normalizedQuery != "" && len(members) > 0 {
		result.Suggestion = suggestCode(normalizedQuery, members)
	}
	return result
}

func suggestCode(query string, members []models.MemberSummary) string {
	owners := make(map[string]string, len(members)*2)
	keywords := make([]string, 0, len(members)*2)
	for _, member := range members {
		for _, field := range []string{member.Code, member.DisplayName} {
			normalized := normalizeInput(field)
			if normalized == "" {
				continue
			}
			if _, seen := owners[normalized]; !seen {
				owners[normalized] = member.Code
				keywords = append(keywords, normalized)
			}
		}
	}
	if len(keywords) == 0 {
		return ""
	}
	return owners[createMatcher(keywords).Closest(query)]
}
