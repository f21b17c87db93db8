package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Open はdatabaseURLで指定されたPostgreSQLへの接続プールを生成する。
// sql.Openの時点では接続は張られないため、疎通確認は呼び出し側がdb.Ping()で行う。
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return db, nil
}
