package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"
)

const (
	VerdictSafe    = "Safe"
	VerdictUnsafe  = "Unsafe"
	VerdictUnknown = "Unknown"
	VerdictError   = "Error"
)

// SafetyResult is the oracle's judgement on a product
type SafetyResult struct {
	Verdict     string `json:"verdict"`
	Explanation string `json:"explanation"`
	// Err is set when Verdict is VerdictError
	Err error `json:"-"`
}

var listMarker = regexp.MustCompile(`^\s*(?:[-*\x{2022}]+|\d+[.)])\s*`)

// OracleService turns free text into allergen candidates and judges products
// against a user's allergies using a generative model.
type OracleService struct {
	generator Generator
	logger    *slog.Logger
}

func NewOracleService(generator Generator, logger *slog.Logger) *OracleService {
	return &OracleService{generator: generator, logger: logger}
}

func extractPrompt(text string) string {
	return fmt.Sprintf("Extract all allergens from the following text: %s. Return only the allergens as a list, one per line.", text)
}

func productPrompt(product string, allergies []string) string {
	list := "none recorded"
	if len(allergies) > 0 {
		list = strings.Join(allergies, ", ")
	}
	return fmt.Sprintf(`A person is allergic to the following: %s.
Is the product "%s" safe for them to consume or use?
Answer in exactly this format:
Verdict: <Safe or Unsafe>
Explanation: <short explanation>`, list, product)
}

// ExtractAllergens asks the oracle for the allergens mentioned in text. The
// reply is parsed best-effort; on failure the result is empty.
func (s *OracleService) ExtractAllergens(ctx context.Context, text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	reply, err := s.generator.Generate(ctx, extractPrompt(text))
	if err != nil {
		s.logger.Error("allergen extraction failed", "error", err)
		return []string{}
	}
	return ParseAllergenList(reply)
}

// ParseAllergenList splits an oracle reply into candidate names, dropping
// list markers and blank lines.
func ParseAllergenList(reply string) []string {
	out := []string{}
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// CheckProductSafety never fails; transport problems come back as a result
// with VerdictError.
func (s *OracleService) CheckProductSafety(ctx context.Context, product string, allergies []string) SafetyResult {
	reply, err := s.generator.Generate(ctx, productPrompt(product, allergies))
	if err != nil {
		s.logger.Error("product safety check failed", "product", product, "error", err)
		return SafetyResult{
			Verdict:     VerdictError,
			Explanation: fmt.Sprintf("AI request failed: %v", err),
			Err:         err,
		}
	}
	return ParseSafetyVerdict(reply)
}

// ParseSafetyVerdict reads the "Verdict:" and "Explanation:" lines of a
// reply. Anything else yields VerdictUnknown with the raw reply as the
// explanation.
func ParseSafetyVerdict(reply string) SafetyResult {
	var verdict, explanation string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "*"))
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "verdict:"):
			verdict = strings.TrimSpace(line[len("verdict:"):])
		case strings.HasPrefix(lower, "explanation:"):
			explanation = strings.TrimSpace(line[len("explanation:"):])
		}
	}

	word, rest := splitVerdict(verdict)
	switch word {
	case "safe":
		verdict = VerdictSafe
	case "unsafe":
		verdict = VerdictUnsafe
	default:
		verdict = ""
	}
	if explanation == "" {
		explanation = rest
	}

	if verdict == "" || explanation == "" {
		return SafetyResult{Verdict: VerdictUnknown, Explanation: strings.TrimSpace(reply)}
	}
	return SafetyResult{Verdict: verdict, Explanation: explanation}
}

// splitVerdict returns the lower-cased leading word of a verdict value and
// whatever follows it, so "Unsafe (contains soy)" yields "unsafe" and
// "contains soy".
func splitVerdict(value string) (string, string) {
	value = strings.TrimLeft(value, " *:")
	end := strings.IndexFunc(value, func(r rune) bool { return !unicode.IsLetter(r) })
	if end < 0 {
		end = len(value)
	}
	word := strings.ToLower(value[:end])
	rest := strings.Trim(value[end:], " ()[]-:,.*")
	return word, rest
}

// IsDeadline reports whether a failed result was caused by the request
// running out of time.
func (r SafetyResult) IsDeadline() bool {
	return r.Err != nil && errors.Is(r.Err, context.DeadlineExceeded)
}
