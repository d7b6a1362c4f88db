package database

import (
	"context"
	"database/sql"
	"fmt"
	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"regbot/entity"
	"regbot/internal/config"
	"sync"
	"time"
)

const tableSchema = `CREATE TABLE IF NOT EXISTS %s (
	id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	chat_id BIGINT NOT NULL,
	flow VARCHAR(32) NOT NULL,
	full_name VARCHAR(255) NOT NULL DEFAULT '',
	school VARCHAR(255) NOT NULL DEFAULT '',
	grade INT NOT NULL DEFAULT 0,
	subjects VARCHAR(1024) NOT NULL DEFAULT '',
	phone VARCHAR(32) NOT NULL DEFAULT '',
	is_subscribed TINYINT(1) NOT NULL DEFAULT 0,
	state VARCHAR(32) NOT NULL DEFAULT 'start',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE KEY uq_chat_id (chat_id)
) DEFAULT CHARSET=utf8mb4`

type MySql struct {
	db         *sql.DB
	statements map[string]*sql.Stmt
	mu         sync.Mutex
}

func NewSQLClient(conf *config.Config) (*MySql, error) {
	if !conf.MySql.Enabled {
		return nil, fmt.Errorf("mysql client is disabled in configuration")
	}
	connectionURI := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4",
		conf.MySql.UserName, conf.MySql.Password, conf.MySql.HostName, conf.MySql.Port, conf.MySql.Database)
	db, err := sql.Open("mysql", connectionURI)
	if err != nil {
		return nil, fmt.Errorf("sql connect: %w", err)
	}

	// try to ping three times with a 10-second interval; wait for a database to start
	for i := 0; i < 3; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		if i == 2 {
			return nil, fmt.Errorf("ping database: %w", err)
		}
		time.Sleep(10 * time.Second)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &MySql{
		db:         db,
		statements: make(map[string]*sql.Stmt),
	}
	for _, table := range []string{collectionRegistrations, collectionStudyCenterRegistrations} {
		if _, err = db.Exec(fmt.Sprintf(tableSchema, table)); err != nil {
			return nil, fmt.Errorf("create table %s: %w", table, err)
		}
	}
	return sdb, nil
}

func (s *MySql) Close() {
	s.closeStmt()
	_ = s.db.Close()
}

func scanRegistration(row interface{ Scan(dest ...any) error }) (*entity.Registration, error) {
	var reg entity.Registration
	var flow, state string
	if err := row.Scan(
		&reg.ChatId,
		&flow,
		&reg.FullName,
		&reg.School,
		&reg.Grade,
		&reg.Subjects,
		&reg.Phone,
		&reg.IsSubscribed,
		&state,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	reg.Flow = entity.Flow(flow)
	reg.State = entity.State(state)
	return &reg, nil
}

// GetOrCreate inserts a fresh record unless one exists, then reads it back.
func (s *MySql) GetOrCreate(ctx context.Context, flow entity.Flow, chatId int64) (*entity.Registration, error) {
	table, err := tableFor(flow)
	if err != nil {
		return nil, err
	}
	insert, err := s.stmtInsertIgnore(table)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if _, err = insert.ExecContext(ctx, chatId, string(flow), string(entity.StateStart), now, now); err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}

	selectOne, err := s.stmtSelectByChat(table)
	if err != nil {
		return nil, err
	}
	reg, err := scanRegistration(selectOne.QueryRowContext(ctx, chatId))
	if err != nil {
		return nil, fmt.Errorf("select registration: %w", err)
	}
	return reg, nil
}

func (s *MySql) UpdateRegistration(ctx context.Context, reg *entity.Registration) error {
	table, err := tableFor(reg.Flow)
	if err != nil {
		return err
	}
	stmt, err := s.stmtUpdate(table)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx,
		reg.FullName,
		reg.School,
		reg.Grade,
		reg.Subjects,
		reg.Phone,
		reg.IsSubscribed,
		string(reg.State),
		time.Now(),
		reg.ChatId,
	)
	return err
}

func (s *MySql) SubscribedRegistrations(ctx context.Context, flow entity.Flow) ([]*entity.Registration, error) {
	table, err := tableFor(flow)
	if err != nil {
		return nil, err
	}
	stmt, err := s.stmtSelectSubscribed(table)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var list []*entity.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, reg)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *MySql) CountRegistrations(ctx context.Context, flow entity.Flow, subscribed bool) (int64, error) {
	table, err := tableFor(flow)
	if err != nil {
		return 0, err
	}
	stmt, err := s.stmtCount(table)
	if err != nil {
		return 0, err
	}
	var count int64
	if err = stmt.QueryRowContext(ctx, subscribed).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
