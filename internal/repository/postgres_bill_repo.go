package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/salondesk/internal/model"
)

// PostgresBillRepo はPostgreSQLを使用した会計リポジトリ。
type PostgresBillRepo struct {
	db *sql.DB
}

// NewPostgresBillRepo はPostgresBillRepoを生成する。
func NewPostgresBillRepo(db *sql.DB) *PostgresBillRepo {
	return &PostgresBillRepo{db: db}
}

// FindByID は指定IDの会計を明細付きで取得する。見つからない場合はnilを返す。
func (r *PostgresBillRepo) FindByID(ctx context.Context, id string) (*model.Bill, error) {
	bill := &model.Bill{}

	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, total_amount, created_at, updated_at
		 FROM bills WHERE id = $1`,
		id,
	).Scan(&bill.ID, &bill.UserID, &bill.TotalAmount, &bill.CreatedAt, &bill.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("会計の取得に失敗しました: %w", err)
	}

	items, err := r.listItems(ctx, bill.ID)
	if err != nil {
		return nil, err
	}
	bill.Items = items

	return bill, nil
}

// CountByUserID はユーザーの会計総数を返す。
func (r *PostgresBillRepo) CountByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bills WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("会計数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// ListCreatedBetween は作成日時が [start, end) に含まれるユーザーの会計を返す。
// endがゼロ値の場合は上限なしとして扱う。結果は明細を含まない。
func (r *PostgresBillRepo) ListCreatedBetween(ctx context.Context, userID string, start, end time.Time) ([]*model.Bill, error) {
	query := `SELECT id, user_id, total_amount, created_at, updated_at
	          FROM bills
	          WHERE user_id = $1 AND created_at >= $2`
	args := []any{userID, start}

	if !end.IsZero() {
		query += ` AND created_at < $3`
		args = append(args, end)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("期間内の会計一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanBills(rows)
}

// ListRecentByUserID は作成日時の降順（同時刻はID降順）で直近limit件の会計を
// 明細付きで返す。
func (r *PostgresBillRepo) ListRecentByUserID(ctx context.Context, userID string, limit int) ([]*model.Bill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, total_amount, created_at, updated_at
		 FROM bills
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("直近の会計一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	bills, err := scanBills(rows)
	if err != nil {
		return nil, err
	}

	for _, bill := range bills {
		items, err := r.listItems(ctx, bill.ID)
		if err != nil {
			return nil, err
		}
		bill.Items = items
	}

	return bills, nil
}

// RankByID は指定会計の、ユーザーの全会計を作成日時降順（同時刻はID降順）に
// 並べたときの0始まりの順位を返す。会計が存在しない場合は-1を返す。
func (r *PostgresBillRepo) RankByID(ctx context.Context, userID, billID string) (int, error) {
	var rank int
	err := r.db.QueryRowContext(ctx,
		`SELECT rank FROM (
		    SELECT id, ROW_NUMBER() OVER (ORDER BY created_at DESC, id DESC) - 1 AS rank
		    FROM bills
		    WHERE user_id = $1
		 ) ranked
		 WHERE id = $2`,
		userID, billID,
	).Scan(&rank)

	if err == sql.ErrNoRows {
		return -1, nil
	}
	if err != nil {
		return -1, fmt.Errorf("会計の順位算出に失敗しました: %w", err)
	}

	return rank, nil
}

// CreateWithItems は会計と明細を同一トランザクションで作成する。
func (r *PostgresBillRepo) CreateWithItems(ctx context.Context, bill *model.Bill) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bills (id, user_id, total_amount, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		bill.ID, bill.UserID, bill.TotalAmount, bill.CreatedAt, bill.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("会計の作成に失敗しました: %w", err)
	}

	if err := insertItems(ctx, tx, bill.ID, bill.Items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// UpdateWithItems は会計の合計金額・更新日時と明細を同一トランザクションで
// 置き換える。created_atは変更しない。
func (r *PostgresBillRepo) UpdateWithItems(ctx context.Context, bill *model.Bill) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE bills SET total_amount = $2, updated_at = $3 WHERE id = $1`,
		bill.ID, bill.TotalAmount, bill.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("会計の更新に失敗しました: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM bill_items WHERE bill_id = $1`,
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("会計明細の削除に失敗しました: %w", err)
	}

	if err := insertItems(ctx, tx, bill.ID, bill.Items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// DeleteByID は指定IDの会計を削除する。明細はCASCADE削除される。
func (r *PostgresBillRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM bills WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("会計の削除に失敗しました: %w", err)
	}
	return nil
}

// listItems は会計の明細をposition昇順で取得する。
func (r *PostgresBillRepo) listItems(ctx context.Context, billID string) ([]model.BillItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT package_name, package_type, package_price
		 FROM bill_items
		 WHERE bill_id = $1
		 ORDER BY position ASC`,
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("会計明細の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var items []model.BillItem
	for rows.Next() {
		var item model.BillItem
		if err := rows.Scan(&item.PackageName, &item.PackageType, &item.PackagePrice); err != nil {
			return nil, fmt.Errorf("会計明細の読み取りに失敗しました: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("会計明細の走査に失敗しました: %w", err)
	}

	return items, nil
}

// insertItems は明細行を入力順のpositionで一括挿入する。
func insertItems(ctx context.Context, tx *sql.Tx, billID string, items []model.BillItem) error {
	for i, item := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO bill_items (id, bill_id, package_name, package_type, package_price, position)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New().String(), billID, item.PackageName, item.PackageType, item.PackagePrice, i,
		)
		if err != nil {
			return fmt.Errorf("会計明細の作成に失敗しました: %w", err)
		}
	}
	return nil
}

// scanBills はクエリ結果から会計のスライスを構築する（明細なし）。
func scanBills(rows *sql.Rows) ([]*model.Bill, error) {
	var bills []*model.Bill
	for rows.Next() {
		bill := &model.Bill{}
		if err := rows.Scan(&bill.ID, &bill.UserID, &bill.TotalAmount, &bill.CreatedAt, &bill.UpdatedAt); err != nil {
			return nil, fmt.Errorf("会計の読み取りに失敗しました: %w", err)
		}
		bills = append(bills, bill)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("会計の走査に失敗しました: %w", err)
	}

	return bills, nil
}

// compile-time interface check
var _ BillRepository = (*PostgresBillRepo)(nil)
