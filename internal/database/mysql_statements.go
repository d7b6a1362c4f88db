package database

import (
	"database/sql"
	"fmt"
)

const registrationColumns = `chat_id, flow, full_name, school, grade, subjects, phone, is_subscribed, state, created_at, updated_at`

func (s *MySql) prepareStmt(name, query string) (*sql.Stmt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stmt, ok := s.statements[name]; ok {
		return stmt, nil
	}

	stmt, err := s.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("prepare statement [%s]: %w", name, err)
	}

	s.statements[name] = stmt
	return stmt, nil
}

func (s *MySql) closeStmt() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, stmt := range s.statements {
		_ = stmt.Close()
		delete(s.statements, name)
	}
}

func (s *MySql) stmtInsertIgnore(table string) (*sql.Stmt, error) {
	query := fmt.Sprintf(
		`INSERT IGNORE INTO %s (chat_id, flow, state, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		table,
	)
	return s.prepareStmt("insertIgnore."+table, query)
}

func (s *MySql) stmtSelectByChat(table string) (*sql.Stmt, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE chat_id = ?`, registrationColumns, table)
	return s.prepareStmt("selectByChat."+table, query)
}

func (s *MySql) stmtUpdate(table string) (*sql.Stmt, error) {
	query := fmt.Sprintf(
		`UPDATE %s SET
                   full_name = ?,
                   school = ?,
                   grade = ?,
                   subjects = ?,
                   phone = ?,
                   is_subscribed = ?,
                   state = ?,
                   updated_at = ?
                   WHERE chat_id = ?`,
		table,
	)
	return s.prepareStmt("update."+table, query)
}

func (s *MySql) stmtSelectSubscribed(table string) (*sql.Stmt, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM %s WHERE is_subscribed = 1 ORDER BY created_at DESC, id DESC`,
		registrationColumns, table,
	)
	return s.prepareStmt("selectSubscribed."+table, query)
}

func (s *MySql) stmtCount(table string) (*sql.Stmt, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE is_subscribed = ?`, table)
	return s.prepareStmt("count."+table, query)
}
