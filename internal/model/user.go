// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザー（サロンオーナー）を表す。
// すべてのパッケージ・会計データはユーザー単位に分離される。
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
