// Package model はドメインモデルを定義する。
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PackageType は施術パッケージの種別を表す。
type PackageType string

const (
	// PackageTypeBasic はベーシックパッケージ。
	PackageTypeBasic PackageType = "Basic"
	// PackageTypePremium はプレミアムパッケージ。
	PackageTypePremium PackageType = "Premium"
)

// IsValid は種別が定義済みの値かどうかを返す。
func (t PackageType) IsValid() bool {
	return t == PackageTypeBasic || t == PackageTypePremium
}

// Package はサロンが提供する施術パッケージ（メニュー）を表す。
type Package struct {
	ID          string
	UserID      string
	Name        string
	Type        PackageType
	Price       decimal.Decimal
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Bill は会計（チェックアウト）を表す。
// TotalAmountは常にItemsのPackagePriceの合計と一致する。
type Bill struct {
	ID          string
	UserID      string
	Items       []BillItem
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BillItem は会計の明細行を表す。
// 会計作成時点のパッケージ内容のスナップショットであり、
// 元のPackageがその後編集・削除されても明細は変化しない。
type BillItem struct {
	PackageName  string
	PackageType  PackageType
	PackagePrice decimal.Decimal
}

// ComputeTotal は明細の合計金額を返す。
func ComputeTotal(items []BillItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.PackagePrice)
	}
	return total
}
