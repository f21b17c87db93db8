// Package catalog は施術パッケージ（メニュー）管理のドメインロジックを提供する。
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hitoshi/salondesk/internal/model"
	"github.com/hitoshi/salondesk/internal/repository"
	"github.com/hitoshi/salondesk/internal/security"
)

// PackageInput はパッケージの作成・更新入力を表す。
type PackageInput struct {
	Name        string
	Type        model.PackageType
	Price       decimal.Decimal
	Description string
}

// Service はパッケージ管理のサービス層。
// 入力のバリデーションとサニタイズ、オーナー境界の確認を行う。
type Service struct {
	pkgRepo   repository.PackageRepository
	sanitizer security.InputSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(pkgRepo repository.PackageRepository, sanitizer security.InputSanitizerService) *Service {
	return &Service{
		pkgRepo:   pkgRepo,
		sanitizer: sanitizer,
	}
}

// ListPackages はユーザーのパッケージ一覧を作成日時の降順で返す。
func (s *Service) ListPackages(ctx context.Context, userID string) ([]*model.Package, error) {
	pkgs, err := s.pkgRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("パッケージ一覧の取得に失敗しました: %w", err)
	}
	return pkgs, nil
}

// CreatePackage はパッケージを作成する。
func (s *Service) CreatePackage(ctx context.Context, userID string, input PackageInput) (*model.Package, error) {
	cleaned, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	pkg := &model.Package{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        cleaned.Name,
		Type:        cleaned.Type,
		Price:       cleaned.Price,
		Description: cleaned.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.pkgRepo.Create(ctx, pkg); err != nil {
		return nil, fmt.Errorf("パッケージの作成に失敗しました: %w", err)
	}

	return pkg, nil
}

// UpdatePackage はパッケージを更新する。
// 他ユーザーのパッケージは存在しないものとして扱う。
// パッケージの編集は過去の会計明細（スナップショット）には影響しない。
func (s *Service) UpdatePackage(ctx context.Context, userID, packageID string, input PackageInput) (*model.Package, error) {
	pkg, err := s.pkgRepo.FindByID(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("パッケージの取得に失敗しました: %w", err)
	}
	if pkg == nil || pkg.UserID != userID {
		return nil, model.NewPackageNotFoundError(packageID)
	}

	cleaned, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	pkg.Name = cleaned.Name
	pkg.Type = cleaned.Type
	pkg.Price = cleaned.Price
	pkg.Description = cleaned.Description
	pkg.UpdatedAt = time.Now()

	if err := s.pkgRepo.Update(ctx, pkg); err != nil {
		return nil, fmt.Errorf("パッケージの更新に失敗しました: %w", err)
	}

	return pkg, nil
}

// DeletePackage はパッケージを削除する。
// 作成済みの会計明細はスナップショットのため削除後も保持される。
func (s *Service) DeletePackage(ctx context.Context, userID, packageID string) error {
	pkg, err := s.pkgRepo.FindByID(ctx, packageID)
	if err != nil {
		return fmt.Errorf("パッケージの取得に失敗しました: %w", err)
	}
	if pkg == nil || pkg.UserID != userID {
		return model.NewPackageNotFoundError(packageID)
	}

	if err := s.pkgRepo.DeleteByID(ctx, packageID); err != nil {
		return fmt.Errorf("パッケージの削除に失敗しました: %w", err)
	}

	return nil
}

// validate は入力をサニタイズして検証する。
func (s *Service) validate(input PackageInput) (PackageInput, error) {
	input.Name = s.sanitizer.SanitizeText(input.Name)
	input.Description = s.sanitizer.SanitizeText(input.Description)

	if input.Name == "" {
		return input, model.NewInvalidRequestError("パッケージ名が空です")
	}
	if !input.Type.IsValid() {
		return input, model.NewInvalidPackageTypeError(string(input.Type))
	}
	if input.Price.IsNegative() {
		return input, model.NewInvalidPriceError()
	}

	return input, nil
}
