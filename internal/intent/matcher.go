package intent

import (
	"strings"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
)

// Detection is the outcome of classifying a question. The zero value means
// nothing matched and the question should go to a generative model.
type Detection struct {
	Key    domain.IntentKey
	Memory *domain.MemoryRecord
}

func (d Detection) Matched() bool {
	return d.Key != "" || d.Memory != nil
}

// Detect runs the memory pass over memory in stored order, then the rule
// pass. The first taught pattern contained in the question wins regardless
// of pattern length.
func Detect(text string, memory []domain.MemoryRecord) Detection {
	q := Normalize(text)

	for i := range memory {
		pattern := Normalize(memory[i].Pattern)
		if pattern == "" {
			continue
		}
		if strings.Contains(q, pattern) {
			m := memory[i]
			return Detection{Key: m.Intent, Memory: &m}
		}
	}

	if key, ok := Classify(q); ok {
		return Detection{Key: key}
	}
	return Detection{}
}

// Classify runs only the rule pass against an already normalized question.
func Classify(normalized string) (domain.IntentKey, bool) {
	for i := range table {
		if table[i].matches(normalized) {
			return table[i].key, true
		}
	}
	return "", false
}
