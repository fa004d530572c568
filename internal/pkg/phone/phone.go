package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "BR"

// NormalizeE164 приводит номер к E.164 без ведущего «+» — формат, который
// принимает канал сообщений. Невалидный номер возвращается как есть (trimmed),
// решение об отказе остается за вызывающим кодом.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return strings.TrimPrefix(phonenumbers.Format(number, phonenumbers.E164), "+")
}

// Equal сравнивает два номера после нормализации.
func Equal(a, b string) bool {
	return NormalizeE164(a) == NormalizeE164(b)
}
