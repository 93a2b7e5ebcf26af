package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

var ErrSamePair = errors.New("from and to currencies must be different")

type FunFact struct {
	Title          string `json:"title"`
	Fact           string `json:"fact"`
	HistoricalNote string `json:"historical_note"`
	Emoji          string `json:"emoji"`
}

type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// FunFactService produces best-effort currency trivia. Provider failures and
// unparseable replies collapse into a templated fallback; they never reach
// the caller as errors.
type FunFactService struct {
	generator TextGenerator
	log       zerolog.Logger
}

func NewFunFactService(generator TextGenerator, log zerolog.Logger) *FunFactService {
	return &FunFactService{
		generator: generator,
		log:       log,
	}
}

const funFactPrompt = `Generate a fun fact about the relationship between %s and %s currencies.
Return the response in this exact JSON format:

{
  "title": "A catchy title about the currencies",
  "fact": "An interesting fact about the relationship between these currencies",
  "historical_note": "A brief historical context or interesting historical fact",
  "emoji": "A relevant emoji for the currencies"
}

Keep the fact concise, interesting, and educational. Focus on economic, historical, or cultural aspects.`

// CurrencyFunFact validates the pair and always returns a usable fact.
func (s *FunFactService) CurrencyFunFact(ctx context.Context, from, to string) (FunFact, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return FunFact{}, ErrSamePair
	}

	text, err := s.generator.GenerateText(ctx, fmt.Sprintf(funFactPrompt, from, to))
	if err != nil {
		s.log.Warn().Err(err).Str("from", from).Str("to", to).Msg("fun fact generation failed, using fallback")
		return FunFact{
			Title:          fmt.Sprintf("Currency Insight: %s & %s", from, to),
			Fact:           fmt.Sprintf("The exchange rate between %s and %s reflects global economic dynamics.", from, to),
			HistoricalNote: "Currency exchange rates have evolved significantly over time.",
			Emoji:          "💱",
		}, nil
	}

	if fact, ok := parseFunFact(text); ok {
		return fact, nil
	}

	fallbackFact := strings.TrimSpace(text)
	if fallbackFact == "" {
		fallbackFact = fmt.Sprintf("Interesting relationship between %s and %s currencies", from, to)
	}
	return FunFact{
		Title:          fmt.Sprintf("Fun Fact: %s & %s", from, to),
		Fact:           fallbackFact,
		HistoricalNote: "Currency exchange has fascinating historical roots.",
		Emoji:          "💱",
	}, nil
}

// parseFunFact finds the outermost JSON object in the model's free-form reply
// and accepts it only when all four fields are present.
func parseFunFact(text string) (FunFact, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return FunFact{}, false
	}

	var fact FunFact
	if err := json.Unmarshal([]byte(text[start:end+1]), &fact); err != nil {
		return FunFact{}, false
	}
	if fact.Title == "" || fact.Fact == "" || fact.HistoricalNote == "" || fact.Emoji == "" {
		return FunFact{}, false
	}
	return fact, true
}
