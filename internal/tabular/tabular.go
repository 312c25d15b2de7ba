package tabular

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/net/html"

	"github.com/avolkov/paynotify/internal/model"
)

// Колонки банковской выписки
const (
	ColDate         = "Дата"
	ColDocNumber    = "№ документа"
	ColCounterparty = "Контрагент"
	ColNarration    = "Назначение"
	ColCredit       = "Кредит"
)

// Колонки реестра счетов
const (
	ColRegistryNumber = "Номер"
	ColAuthor         = "Автор"
	ColClient         = "Клиент"
)

var (
	PaymentColumns  = []string{ColNarration, ColCredit, ColCounterparty, ColDate, ColDocNumber}
	RegistryColumns = []string{ColRegistryNumber, ColAuthor, ColClient}
)

var (
	ErrEmptyTable    = errors.New("empty table")
	ErrMissingColumn = errors.New("missing column")
)

// Таблица с именованными колонками. Первая строка источника - заголовок
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// Require проверяет наличие обязательных колонок
func (table Table) Require(columns ...string) error {
	for _, column := range columns {
		if !slices.Contains(table.Columns, column) {
			return fmt.Errorf("%w: %s", ErrMissingColumn, column)
		}
	}
	return nil
}

// Decode разбирает загруженный файл в таблицу.
// Банковские выгрузки часто присылают HTML под именем .xls,
// поэтому формат определяется по содержимому, а не по расширению
func Decode(data []byte) (Table, error) {
	if looksLikeHTML(data) {
		return decodeHTML(data)
	}
	return decodeXLSX(data)
}

func looksLikeHTML(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n\xef\xbb\xbf")
	return bytes.HasPrefix(trimmed, []byte("<"))
}

func decodeXLSX(data []byte) (Table, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Table{}, err
	}
	defer file.Close()

	rows, err := file.GetRows(file.GetSheetName(0))
	if err != nil {
		return Table{}, err
	}
	return fromRows(rows)
}

func decodeHTML(data []byte) (Table, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return Table{}, err
	}

	tableNode := findElement(doc, "table")
	if tableNode == nil {
		return Table{}, ErrEmptyTable
	}

	var rows [][]string
	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "tr" {
			var cells []string
			for cell := node.FirstChild; cell != nil; cell = cell.NextSibling {
				if cell.Type == html.ElementNode && (cell.Data == "td" || cell.Data == "th") {
					cells = append(cells, nodeText(cell))
				}
			}
			rows = append(rows, cells)
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(tableNode)

	return fromRows(rows)
}

func findElement(node *html.Node, name string) *html.Node {
	if node.Type == html.ElementNode && node.Data == name {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, name); found != nil {
			return found
		}
	}
	return nil
}

func nodeText(node *html.Node) string {
	var builder strings.Builder
	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			builder.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return strings.TrimSpace(builder.String())
}

func fromRows(rows [][]string) (Table, error) {
	if len(rows) == 0 {
		return Table{}, ErrEmptyTable
	}

	columns := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		columns[i] = strings.TrimSpace(cell)
	}

	table := Table{Columns: columns}
	for _, row := range rows[1:] {
		cells := make(map[string]string, len(columns))
		for i, column := range columns {
			if i < len(row) {
				cells[column] = strings.TrimSpace(row[i])
			} else {
				cells[column] = ""
			}
		}
		table.Rows = append(table.Rows, cells)
	}
	return table, nil
}

// PaymentsFromTable преобразует таблицу выписки в строки платежей
func PaymentsFromTable(table Table) ([]model.PaymentRow, error) {
	if err := table.Require(PaymentColumns...); err != nil {
		return nil, err
	}

	var payments []model.PaymentRow
	for _, row := range table.Rows {
		payments = append(payments, model.PaymentRow{
			Date:         row[ColDate],
			DocNumber:    row[ColDocNumber],
			Counterparty: row[ColCounterparty],
			Narration:    row[ColNarration],
			Credit:       parseAmount(row[ColCredit]),
		})
	}
	return payments, nil
}

// RegistryFromTable преобразует таблицу реестра в строки реестра
func RegistryFromTable(table Table) ([]model.RegistryRow, error) {
	if err := table.Require(RegistryColumns...); err != nil {
		return nil, err
	}

	var registry []model.RegistryRow
	for _, row := range table.Rows {
		registry = append(registry, model.RegistryRow{
			RawNumber: row[ColRegistryNumber],
			Author:    row[ColAuthor],
			Client:    row[ColClient],
		})
	}
	return registry, nil
}

// parseAmount разбирает сумму из ячейки.
// Пустая или нечисловая ячейка означает отсутствие кредита
func parseAmount(cell string) decimal.NullDecimal {
	cleaned := strings.NewReplacer(" ", "", "\u00a0", "", ",", ".").Replace(cell)
	if cleaned == "" {
		return decimal.NullDecimal{}
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: amount, Valid: true}
}
