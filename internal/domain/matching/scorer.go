// Package matching scores tutor/job compatibility by region and declared
// child gender. Everything here is pure: same inputs, same ordering.
package matching

import (
	"sort"
	"strings"
)

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

const (
	regionWeight = 0.7
	genderWeight = 0.3

	regionExact   = 1.0
	regionPartial = 0.8

	genderMatch    = 1.0
	genderMismatch = 0.3
	genderUnknown  = 0.5
)

// JobProfile is the slice of a job the scorer needs.
type JobProfile struct {
	Region string
	Target string
}

// TutorProfile is the slice of a tutor the scorer needs. Regions keep the
// order the tutor declared them in; the first matching one wins.
type TutorProfile struct {
	ID      string
	Gender  Gender
	Regions []string
}

type Candidate struct {
	TutorID     string
	RegionScore float64
	GenderScore float64
	Score       float64
}

// Administrative qualifiers stripped before region comparison, longest first
// so 특별자치시 is not half-eaten by 특별시.
var regionQualifiers = []string{
	"특별자치도",
	"특별자치시",
	"특별시",
	"광역시",
}

// NormalizeRegion strips metropolitan-city and province qualifiers from each
// whitespace token, leaving the bare city/district names for comparison:
// "서울특별시 강남구" becomes "서울 강남구".
func NormalizeRegion(region string) string {
	fields := strings.Fields(region)
	result := make([]string, 0, len(fields))
	for _, field := range fields {
		result = append(result, normalizeToken(field))
	}
	return strings.Join(result, " ")
}

func normalizeToken(token string) string {
	for _, qualifier := range regionQualifiers {
		if trimmed := strings.TrimSuffix(token, qualifier); trimmed != token && trimmed != "" {
			return trimmed
		}
	}
	// Province suffix 도, but only on longer names so districts such as
	// 도봉구 or short tokens are left alone.
	if strings.HasSuffix(token, "도") {
		runes := []rune(token)
		if len(runes) >= 3 {
			return string(runes[:len(runes)-1])
		}
	}
	return token
}

func regionPairScore(a, b string) float64 {
	na := NormalizeRegion(a)
	nb := NormalizeRegion(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return regionExact
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return regionPartial
	}
	return 0
}

// RegionScore compares a job region against a tutor's declared regions. The
// first region with a non-zero score wins; there is no averaging.
func RegionScore(jobRegion string, tutorRegions []string) float64 {
	for _, region := range tutorRegions {
		if score := regionPairScore(jobRegion, region); score > 0 {
			return score
		}
	}
	return 0
}

var (
	femaleKeywords = []string{"여아", "딸", "여학생", "여자아이", "여자 아이", "girl", "daughter", "female"}
	maleKeywords   = []string{"남아", "아들", "남학생", "남자아이", "남자 아이", "boy", "son", "male"}
)

// ExtractChildGender inspects a job's free-text target description for
// gender keywords. Ambiguous or silent descriptions come back unknown.
func ExtractChildGender(target string) Gender {
	lower := strings.ToLower(target)

	female := containsAny(lower, femaleKeywords)

	// Strip female keywords first so "male" inside "female" (and similar
	// overlaps) cannot produce a phantom male hit.
	stripped := lower
	for _, keyword := range femaleKeywords {
		stripped = strings.ReplaceAll(stripped, keyword, "")
	}
	male := containsAny(stripped, maleKeywords)

	switch {
	case male && !female:
		return GenderMale
	case female && !male:
		return GenderFemale
	default:
		return GenderUnknown
	}
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

// NormalizeGender maps free-form gender strings (Korean or English) onto the
// scorer's three-valued Gender.
func NormalizeGender(value string) Gender {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "male", "m", "남", "남자", "남성":
		return GenderMale
	case "female", "f", "여", "여자", "여성":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

// GenderScore treats gender as a soft preference: unknown on either side is
// neutral, a known mismatch is penalized but not excluded.
func GenderScore(child, tutor Gender) float64 {
	if child == GenderUnknown || tutor == GenderUnknown {
		return genderUnknown
	}
	if child == tutor {
		return genderMatch
	}
	return genderMismatch
}

// Score computes the weighted composite for a single tutor against a job.
func Score(job JobProfile, tutor TutorProfile) Candidate {
	region := RegionScore(job.Region, tutor.Regions)
	gender := GenderScore(ExtractChildGender(job.Target), tutor.Gender)
	return Candidate{
		TutorID:     tutor.ID,
		RegionScore: region,
		GenderScore: gender,
		Score:       regionWeight*region + genderWeight*gender,
	}
}

// Rank scores every tutor, drops zero-composite candidates, and sorts
// descending. The sort is stable, so ties keep their input order.
func Rank(job JobProfile, tutors []TutorProfile) []Candidate {
	candidates := make([]Candidate, 0, len(tutors))
	for _, tutor := range tutors {
		candidate := Score(job, tutor)
		if candidate.Score == 0 {
			continue
		}
		candidates = append(candidates, candidate)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return candidates
}
