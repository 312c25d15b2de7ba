package extract

import (
	"regexp"
	"strconv"
)

// Номер счета - целое число в диапазоне [1, 20000].
// Диапазон отсекает случайные числа в тексте (даты, суммы, ИНН)
const (
	minAccountNumber = 1
	maxAccountNumber = 20000
)

var (
	narrationRe = regexp.MustCompile(`(?i)(счет|сч|сч\.|№|No|N|по\s+счету|на\s+оплату)?\s*№?\s*(\d{1,5})`)
	registryRe  = regexp.MustCompile(`0(\d+)$`)
)

// FromNarration извлекает номер счета из назначения платежа.
// Используется первое совпадение в тексте
func FromNarration(text string) (string, bool) {
	match := narrationRe.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return normalize(match[2])
}

// FromRegistryNumber извлекает номер счета из номера реестра.
// Схема нумерации реестра: префикс, ноль-разделитель, номер счета
func FromRegistryNumber(text string) (string, bool) {
	match := registryRe.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return normalize(match[1])
}

func normalize(digits string) (string, bool) {
	number, err := strconv.Atoi(digits)
	if err != nil {
		return "", false
	}
	if number < minAccountNumber || number > maxAccountNumber {
		return "", false
	}
	return strconv.Itoa(number), true
}
