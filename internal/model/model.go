package model

import "github.com/shopspring/decimal"

// Строка банковской выписки (первая таблица)

type PaymentRow struct {
	Date         string
	DocNumber    string
	Counterparty string
	Narration    string
	Credit       decimal.NullDecimal // пустой кредит - строка не является платежом
	Extracted    string              // нормализованный номер счета, "" если не распознан
}

// Строка реестра счетов (вторая таблица)

type RegistryRow struct {
	RawNumber string // номер реестра, оканчивается номером счета через ноль-разделитель
	Author    string
	Client    string
	Extracted string
}

// Результаты сверки

type MatchResult struct {
	Author    string
	Client    string
	Amount    decimal.Decimal
	Narration string
}

type UnmatchedEntry struct {
	Counterparty string
	Amount       decimal.Decimal
	Narration    string
}

// Запись об оплаченном счете.
// Ключ (Date, DocNumber, Contractor) защищает от повторной загрузки той же выписки

type OrderRecord struct {
	Date          string
	DocNumber     string
	Amount        decimal.Decimal
	AccountNumber string
	Contractor    string
	Manager       string
	Status        string
	Color         string
}

const (
	OrderStatusPaid   = "Оплачен"
	OrderColorDefault = "#FFFF00"
)
