// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/salondesk/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error
}

// PackageRepository は施術パッケージの永続化インターフェース。
// すべての読み書きはオーナーのユーザーID境界を越えない。
type PackageRepository interface {
	// FindByID は指定IDのパッケージを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Package, error)

	// ListByUserID はユーザーのパッケージ一覧を作成日時の降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Package, error)

	// ListByIDs はユーザーが所有するパッケージのうち指定IDに一致するものを返す。
	// 見つからないIDは結果に含まれない（欠落の検出は呼び出し側で行う）。
	ListByIDs(ctx context.Context, userID string, ids []string) ([]*model.Package, error)

	// CountByUserID はユーザーのパッケージ総数を返す。
	CountByUserID(ctx context.Context, userID string) (int, error)

	// Create はパッケージを作成する。
	Create(ctx context.Context, pkg *model.Package) error

	// Update はパッケージを更新する。
	Update(ctx context.Context, pkg *model.Package) error

	// DeleteByID は指定IDのパッケージを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// BillRepository は会計データの永続化インターフェース。
//
// 一覧・ランク・期間集計はすべて created_at DESC, id DESC の全順序に基づく。
// タイムスタンプが同一でもIDが副キーとなるため順序は常に決定的である。
type BillRepository interface {
	// FindByID は指定IDの会計を明細付きで取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Bill, error)

	// CountByUserID はユーザーの会計総数を返す。
	CountByUserID(ctx context.Context, userID string) (int, error)

	// ListCreatedBetween は作成日時が [start, end) に含まれるユーザーの会計を返す。
	// endがゼロ値の場合は上限なし（[start, +∞)）として扱う。
	// 結果は作成日時の昇順（同時刻はID昇順）で、明細は含まない。
	ListCreatedBetween(ctx context.Context, userID string, start, end time.Time) ([]*model.Bill, error)

	// ListRecentByUserID は作成日時の降順（同時刻はID降順）で直近limit件の会計を
	// 明細付きで返す。
	ListRecentByUserID(ctx context.Context, userID string, limit int) ([]*model.Bill, error)

	// RankByID は指定会計の、ユーザーの全会計を作成日時降順に並べたときの
	// 0始まりの順位を返す。会計が存在しない場合は-1を返す。
	RankByID(ctx context.Context, userID, billID string) (int, error)

	// CreateWithItems は会計と明細を同一トランザクションで作成する。
	CreateWithItems(ctx context.Context, bill *model.Bill) error

	// UpdateWithItems は会計の合計金額・更新日時と明細を同一トランザクションで
	// 置き換える。created_atは変更しない。
	UpdateWithItems(ctx context.Context, bill *model.Bill) error

	// DeleteByID は指定IDの会計を削除する。明細はCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}
