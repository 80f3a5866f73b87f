package meeting

import "strings"

// classificationKeywords are checked in order; the first match wins
var classificationKeywords = []struct {
	keyword        string
	classification string
}{
	{"advisory", AdvisoryCommittee},
	{"board", Board},
	{"council", CityCouncil},
	{"commission", Commission},
	{"committee", Committee},
	{"forum", Forum},
	{"hearing", Forum},
	{"beat", PoliceBeat},
}

// Classify maps free text such as a meeting title to a classification.
// Text matching no keyword is NotClassified.
func Classify(text string) string {
	lower := strings.ToLower(text)
	for _, k := range classificationKeywords {
		if strings.Contains(lower, k.keyword) {
			return k.classification
		}
	}
	return NotClassified
}
