package bill

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/salondesk/internal/model"
	"github.com/hitoshi/salondesk/internal/repository"
)

// RecentBill は会計と編集可否フラグを結合したドメインオブジェクト。
// Editableは一覧取得時点の順位に基づく参考情報であり、
// 変更時には改めてサーバー側で再判定される。
type RecentBill struct {
	Bill     *model.Bill
	Editable bool
}

// Service は会計管理のサービス層。
// チェックアウト時の明細スナップショット作成と、編集可能ウィンドウの強制を行う。
type Service struct {
	billRepo repository.BillRepository
	pkgRepo  repository.PackageRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(billRepo repository.BillRepository, pkgRepo repository.PackageRepository) *Service {
	return &Service{
		billRepo: billRepo,
		pkgRepo:  pkgRepo,
	}
}

// CreateBill は選択されたパッケージから会計を作成する（チェックアウト）。
// packageIDsは選択順を保持し、同一パッケージの複数選択を許容する。
// 明細は作成時点のパッケージ内容のスナップショットとして保存され、
// 合計金額は明細の合計としてサーバー側で算出される。
func (s *Service) CreateBill(ctx context.Context, userID string, packageIDs []string) (*model.Bill, error) {
	if len(packageIDs) == 0 {
		return nil, model.NewEmptyBillError()
	}

	items, err := s.snapshotItems(ctx, userID, packageIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	b := &model.Bill{
		ID:          uuid.New().String(),
		UserID:      userID,
		Items:       items,
		TotalAmount: model.ComputeTotal(items),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.billRepo.CreateWithItems(ctx, b); err != nil {
		return nil, fmt.Errorf("会計の作成に失敗しました: %w", err)
	}

	return b, nil
}

// GetBill は会計を明細付きで取得する。
// 他ユーザーの会計は存在しないものとして扱う。
func (s *Service) GetBill(ctx context.Context, userID, billID string) (*model.Bill, error) {
	b, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("会計の取得に失敗しました: %w", err)
	}
	if b == nil || b.UserID != userID {
		return nil, model.NewBillNotFoundError(billID)
	}
	return b, nil
}

// ListRecentBills は編集可能ウィンドウ分の直近の会計を編集可否フラグ付きで返す。
func (s *Service) ListRecentBills(ctx context.Context, userID string) ([]RecentBill, error) {
	bills, err := s.billRepo.ListRecentByUserID(ctx, userID, EditableWindow)
	if err != nil {
		return nil, fmt.Errorf("直近の会計一覧の取得に失敗しました: %w", err)
	}

	results := make([]RecentBill, len(bills))
	for i, b := range bills {
		results[i] = RecentBill{Bill: b, Editable: IsEditable(i)}
	}
	return results, nil
}

// UpdateBill は会計の明細を新しいパッケージ選択で置き換える。
// 編集可能ウィンドウ外の会計は変更できない（作成日時と順位は変化しない）。
// 明細は現在のパッケージ内容から再スナップショットされ、合計金額も再計算される。
func (s *Service) UpdateBill(ctx context.Context, userID, billID string, packageIDs []string) (*model.Bill, error) {
	if len(packageIDs) == 0 {
		return nil, model.NewEmptyBillError()
	}

	b, err := s.requireEditable(ctx, userID, billID)
	if err != nil {
		return nil, err
	}

	items, err := s.snapshotItems(ctx, userID, packageIDs)
	if err != nil {
		return nil, err
	}

	b.Items = items
	b.TotalAmount = model.ComputeTotal(items)
	b.UpdatedAt = time.Now()

	if err := s.billRepo.UpdateWithItems(ctx, b); err != nil {
		return nil, fmt.Errorf("会計の更新に失敗しました: %w", err)
	}

	return b, nil
}

// DeleteBill は会計を削除する。編集可能ウィンドウ外の会計は削除できない。
func (s *Service) DeleteBill(ctx context.Context, userID, billID string) error {
	if _, err := s.requireEditable(ctx, userID, billID); err != nil {
		return err
	}

	if err := s.billRepo.DeleteByID(ctx, billID); err != nil {
		return fmt.Errorf("会計の削除に失敗しました: %w", err)
	}

	return nil
}

// requireEditable は会計の所有者を確認し、書き込み時点の順位で
// 編集可否を再評価する。クライアントが会計を読み込んでから変更するまでの間に
// 新しい会計が作成され順位がウィンドウ外に押し出された場合は競合として拒否する。
func (s *Service) requireEditable(ctx context.Context, userID, billID string) (*model.Bill, error) {
	b, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("会計の取得に失敗しました: %w", err)
	}
	if b == nil || b.UserID != userID {
		return nil, model.NewBillNotFoundError(billID)
	}

	rank, err := s.billRepo.RankByID(ctx, userID, billID)
	if err != nil {
		return nil, fmt.Errorf("会計の順位算出に失敗しました: %w", err)
	}
	// 取得と順位算出の間に会計が削除された場合は競合ではなく不存在として扱う
	if rank < 0 {
		return nil, model.NewBillNotFoundError(billID)
	}
	if !IsEditable(rank) {
		return nil, model.NewBillNotEditableError(billID)
	}

	return b, nil
}

// snapshotItems は選択されたパッケージIDから明細スナップショットを構築する。
// ユーザーが所有しないIDが含まれる場合はエラーを返す。
func (s *Service) snapshotItems(ctx context.Context, userID string, packageIDs []string) ([]model.BillItem, error) {
	pkgs, err := s.pkgRepo.ListByIDs(ctx, userID, packageIDs)
	if err != nil {
		return nil, fmt.Errorf("パッケージの取得に失敗しました: %w", err)
	}

	byID := make(map[string]*model.Package, len(pkgs))
	for _, pkg := range pkgs {
		byID[pkg.ID] = pkg
	}

	items := make([]model.BillItem, 0, len(packageIDs))
	for _, id := range packageIDs {
		pkg, ok := byID[id]
		if !ok {
			return nil, model.NewPackageNotFoundError(id)
		}
		items = append(items, model.BillItem{
			PackageName:  pkg.Name,
			PackageType:  pkg.Type,
			PackagePrice: pkg.Price,
		})
	}

	return items, nil
}
