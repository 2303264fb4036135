// Package parser разбирает свободный текст команды на название покупки и сумму.
package parser

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/purchase-bridge/internal/models"
)

// ErrNoMatch возвращается, если текст не удалось разобрать.
var ErrNoMatch = errors.New("input does not match purchase format")

// Шаблоны проверяются по порядку, побеждает первый совпавший.
// Первая группа — название, вторая — сумма.
var patterns = []*regexp.Regexp{
	// "ChatGPT Plus 20000", "Claude Pro $20", "Tool 20,000.50", "Midjourney 10달러", "Figma 15 USD"
	regexp.MustCompile(`^(.+?)\s+\$?([\d,]+(?:\.\d{2})?)\s*(?:달러|원|(?i:USD|KRW))?$`),
	// "Tool 1.5"
	regexp.MustCompile(`^(.+?)\s+(\d+(?:\.\d+)?)$`),
}

// Parse возвращает название и сумму покупки или ErrNoMatch.
func Parse(text string) (models.ParsedInput, error) {
	text = normalize(text)

	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		item := strings.TrimSpace(m[1])
		if item == "" {
			return models.ParsedInput{}, ErrNoMatch
		}

		amount, err := parseAmount(m[2])
		if err != nil {
			return models.ParsedInput{}, ErrNoMatch
		}

		return models.ParsedInput{Item: item, Amount: amount}, nil
	}

	return models.ParsedInput{}, ErrNoMatch
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(s)), " ")
}

func parseAmount(s string) (float64, error) {
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	return strconv.ParseFloat(s, 64)
}
