package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/salondesk/internal/model"
)

// PostgresPackageRepo はPostgreSQLを使用した施術パッケージリポジトリ。
type PostgresPackageRepo struct {
	db *sql.DB
}

// NewPostgresPackageRepo はPostgresPackageRepoを生成する。
func NewPostgresPackageRepo(db *sql.DB) *PostgresPackageRepo {
	return &PostgresPackageRepo{db: db}
}

// FindByID は指定IDのパッケージを取得する。見つからない場合はnilを返す。
func (r *PostgresPackageRepo) FindByID(ctx context.Context, id string) (*model.Package, error) {
	pkg := &model.Package{}

	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, package_type, price, description, created_at, updated_at
		 FROM packages WHERE id = $1`,
		id,
	).Scan(&pkg.ID, &pkg.UserID, &pkg.Name, &pkg.Type, &pkg.Price, &pkg.Description, &pkg.CreatedAt, &pkg.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("パッケージの取得に失敗しました: %w", err)
	}

	return pkg, nil
}

// ListByUserID はユーザーのパッケージ一覧を作成日時の降順で返す。
func (r *PostgresPackageRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Package, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, package_type, price, description, created_at, updated_at
		 FROM packages
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("パッケージ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanPackages(rows)
}

// ListByIDs はユーザーが所有するパッケージのうち指定IDに一致するものを返す。
// 見つからないIDは結果に含まれない。
func (r *PostgresPackageRepo) ListByIDs(ctx context.Context, userID string, ids []string) ([]*model.Package, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, package_type, price, description, created_at, updated_at
		 FROM packages
		 WHERE user_id = $1 AND id = ANY($2)`,
		userID, pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("パッケージの一括取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanPackages(rows)
}

// CountByUserID はユーザーのパッケージ総数を返す。
func (r *PostgresPackageRepo) CountByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM packages WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("パッケージ数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// Create はパッケージを作成する。
func (r *PostgresPackageRepo) Create(ctx context.Context, pkg *model.Package) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO packages (id, user_id, name, package_type, price, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		pkg.ID, pkg.UserID, pkg.Name, pkg.Type, pkg.Price, pkg.Description, pkg.CreatedAt, pkg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("パッケージの作成に失敗しました: %w", err)
	}
	return nil
}

// Update はパッケージを更新する。
func (r *PostgresPackageRepo) Update(ctx context.Context, pkg *model.Package) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE packages SET
		    name = $2, package_type = $3, price = $4, description = $5, updated_at = $6
		 WHERE id = $1`,
		pkg.ID, pkg.Name, pkg.Type, pkg.Price, pkg.Description, pkg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("パッケージの更新に失敗しました: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのパッケージを削除する。
func (r *PostgresPackageRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM packages WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("パッケージの削除に失敗しました: %w", err)
	}
	return nil
}

// scanPackages はクエリ結果からパッケージのスライスを構築する。
func scanPackages(rows *sql.Rows) ([]*model.Package, error) {
	var pkgs []*model.Package
	for rows.Next() {
		pkg := &model.Package{}
		if err := rows.Scan(
			&pkg.ID, &pkg.UserID, &pkg.Name, &pkg.Type, &pkg.Price,
			&pkg.Description, &pkg.CreatedAt, &pkg.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("パッケージの読み取りに失敗しました: %w", err)
		}
		pkgs = append(pkgs, pkg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("パッケージの走査に失敗しました: %w", err)
	}

	return pkgs, nil
}

// compile-time interface check
var _ PackageRepository = (*PostgresPackageRepo)(nil)
