package store

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/avolkov/paynotify/internal/model"
	"github.com/avolkov/paynotify/internal/store/config"
)

type Store interface {
	ExistsByKey(ctx context.Context, date string, docNumber string, contractor string) (bool, error)
	InsertOrders(ctx context.Context, orders []model.OrderRecord) (int, error)
	GetOrders(ctx context.Context, contractor string) ([]model.OrderRecord, error)
}

var ErrNoRows = errors.New("no rows")

type store struct {
	database *sql.DB
}

func NewStore(cfg config.Config) (Store, error) {
	db, err := sql.Open("pgx", cfg.DBDsn)
	if err != nil {
		return nil, err
	}

	// Таблица оплаченных счетов.
	// Естественный ключ (дата, номер документа, контрагент) не дает записать
	// один платеж дважды при повторной загрузке выписки
	_, err = db.Exec(
		"CREATE TABLE IF NOT EXISTS orders (" +
			" payment_date VARCHAR (20)," +
			" doc_number VARCHAR (30)," +
			" amount NUMERIC (15, 2) NOT NULL," +
			" account_number VARCHAR (10) NOT NULL," +
			" contractor VARCHAR (200)," +
			" manager VARCHAR (100) NOT NULL," +
			" status VARCHAR (30) NOT NULL," +
			" color VARCHAR (10) NOT NULL," +
			" PRIMARY KEY (payment_date, doc_number, contractor)" +
			" );")
	if err != nil {
		return nil, err
	}

	return &store{database: db}, nil
}

func (store *store) ExistsByKey(ctx context.Context, date string, docNumber string, contractor string) (bool, error) {
	// Проверка: платеж уже записан
	row := store.database.QueryRowContext(ctx,
		"SELECT 1 FROM orders"+
			" WHERE payment_date = $1"+
			"   AND doc_number = $2"+
			"   AND contractor = $3",
		date,
		docNumber,
		contractor)
	var one int
	err := row.Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (store *store) InsertOrders(ctx context.Context, orders []model.OrderRecord) (int, error) {
	// Запись пакета счетов. Конфликт по ключу молча пропускается,
	// поэтому гонка проверка-запись между сессиями не приводит к дублям
	inserted := 0
	for _, order := range orders {
		result, err := store.database.ExecContext(ctx,
			"INSERT INTO orders (payment_date, doc_number, amount, account_number, contractor, manager, status, color)"+
				" VALUES ($1, $2, $3, $4, $5, $6, $7, $8)"+
				" ON CONFLICT (payment_date, doc_number, contractor) DO NOTHING",
			order.Date,
			order.DocNumber,
			order.Amount,
			order.AccountNumber,
			order.Contractor,
			order.Manager,
			order.Status,
			order.Color)
		if err != nil {
			return inserted, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return inserted, err
		}
		inserted += int(affected)
	}
	return inserted, nil
}

func (store *store) GetOrders(ctx context.Context, contractor string) ([]model.OrderRecord, error) {
	// Чтение счетов контрагента
	rows, err := store.database.QueryContext(ctx,
		"SELECT payment_date, doc_number, amount, account_number, contractor, manager, status, color"+
			" FROM orders"+
			" WHERE contractor = $1",
		contractor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []model.OrderRecord
	for rows.Next() {
		var order model.OrderRecord
		err := rows.Scan(&order.Date,
			&order.DocNumber,
			&order.Amount,
			&order.AccountNumber,
			&order.Contractor,
			&order.Manager,
			&order.Status,
			&order.Color)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
