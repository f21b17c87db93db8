package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/hitoshi/salondesk/internal/bill"
	"github.com/hitoshi/salondesk/internal/model"
	"github.com/hitoshi/salondesk/internal/repository"
)

// Aggregate はダッシュボード1画面分の集計結果。
// 売上は会計明細の合計金額の総和で、区間は ComputeWindows の定義に従う。
type Aggregate struct {
	TodaysRevenue     decimal.Decimal
	WeeksRevenue      decimal.Decimal
	MonthsRevenue     decimal.Decimal
	TodaysBillCount   int
	TotalBillCount    int
	TotalPackageCount int
	// HighestBillToday は当日の最高額会計。正の金額の会計が1件もなければ nil。
	HighestBillToday *model.Bill
	RecentBills      []bill.RecentBill
}

// Service はダッシュボード集計を提供する。
type Service struct {
	billRepo repository.BillRepository
	pkgRepo  repository.PackageRepository
}

func NewService(billRepo repository.BillRepository, pkgRepo repository.PackageRepository) *Service {
	return &Service{billRepo: billRepo, pkgRepo: pkgRepo}
}

// ComputeDashboard は基準時刻 now のダッシュボード集計を1単位として計算する。
// 各読み取りは並行して実行し、いずれかが失敗した場合は部分的な結果を返さず
// エラーを返す。
func (s *Service) ComputeDashboard(ctx context.Context, userID string, now time.Time) (*Aggregate, error) {
	windows := ComputeWindows(now)

	agg := &Aggregate{
		TodaysRevenue: decimal.Zero,
		WeeksRevenue:  decimal.Zero,
		MonthsRevenue: decimal.Zero,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		bills, err := s.billRepo.ListCreatedBetween(ctx, userID, windows.Today.Start, windows.Today.End)
		if err != nil {
			return fmt.Errorf("当日の会計の取得に失敗しました: %w", err)
		}
		agg.TodaysRevenue = sumTotals(bills)
		agg.TodaysBillCount = len(bills)
		agg.HighestBillToday = highestBill(bills)
		return nil
	})

	g.Go(func() error {
		bills, err := s.billRepo.ListCreatedBetween(ctx, userID, windows.Week.Start, windows.Week.End)
		if err != nil {
			return fmt.Errorf("今週の会計の取得に失敗しました: %w", err)
		}
		agg.WeeksRevenue = sumTotals(bills)
		return nil
	})

	g.Go(func() error {
		bills, err := s.billRepo.ListCreatedBetween(ctx, userID, windows.Month.Start, windows.Month.End)
		if err != nil {
			return fmt.Errorf("今月の会計の取得に失敗しました: %w", err)
		}
		agg.MonthsRevenue = sumTotals(bills)
		return nil
	})

	g.Go(func() error {
		count, err := s.billRepo.CountByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("会計件数の取得に失敗しました: %w", err)
		}
		agg.TotalBillCount = count
		return nil
	})

	g.Go(func() error {
		count, err := s.pkgRepo.CountByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("パッケージ件数の取得に失敗しました: %w", err)
		}
		agg.TotalPackageCount = count
		return nil
	})

	g.Go(func() error {
		bills, err := s.billRepo.ListRecentByUserID(ctx, userID, bill.EditableWindow)
		if err != nil {
			return fmt.Errorf("直近の会計の取得に失敗しました: %w", err)
		}
		recent := make([]bill.RecentBill, len(bills))
		for i, b := range bills {
			recent[i] = bill.RecentBill{Bill: b, Editable: bill.IsEditable(i)}
		}
		agg.RecentBills = recent
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return agg, nil
}

func sumTotals(bills []*model.Bill) decimal.Decimal {
	total := decimal.Zero
	for _, b := range bills {
		total = total.Add(b.TotalAmount)
	}
	return total
}

// highestBill は bills のうち合計金額が最大のものを返す。同額の場合は
// 先に現れたものを採用する。正の金額の会計がなければ nil を返す。
func highestBill(bills []*model.Bill) *model.Bill {
	var highest *model.Bill
	for _, b := range bills {
		if !b.TotalAmount.IsPositive() {
			continue
		}
		if highest == nil || b.TotalAmount.GreaterThan(highest.TotalAmount) {
			highest = b
		}
	}
	return highest
}
