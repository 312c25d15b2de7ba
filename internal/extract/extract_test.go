package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromNarration(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		number string
		ok     bool
	}{
		{"счет с маркером", "оплата по счету № 123", "123", true},
		{"счет без маркера", "Оплата за услуги, счет 4567", "4567", true},
		{"на оплату", "на оплату 77 от 01.02.2025", "77", true},
		{"ведущие нули", "счет № 0042", "42", true},
		{"верхняя граница", "счет № 20000", "20000", true},
		{"вне диапазона", "счет № 20001", "", false},
		{"шесть цифр", "платежное поручение 999999", "", false},
		{"итог оборотов", "Итог оборотов за период", "", false},
		{"без цифр", "оплата по договору", "", false},
		{"пустая строка", "", "", false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			number, ok := FromNarration(test.text)
			require.Equal(t, test.ok, ok)
			require.Equal(t, test.number, number)
		})
	}
}

func TestFromRegistryNumber(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		number string
		ok     bool
	}{
		{"реестр с префиксом", "K00123", "123", true},
		{"ноль-разделитель", "СЧ017", "17", true},
		{"ноль внутри префикса", "2025017", "", false}, // берется первый ноль, хвост не проходит диапазон
		{"вне диапазона", "A099999", "", false},
		{"без хвоста", "1230", "", false},
		{"без цифр", "договор", "", false},
		{"пустая строка", "", "", false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			number, ok := FromRegistryNumber(test.text)
			require.Equal(t, test.ok, ok)
			require.Equal(t, test.number, number)
		})
	}
}
