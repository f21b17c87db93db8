package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/salondesk/internal/model"
	"github.com/hitoshi/salondesk/internal/repository"
)

// minPasswordLength はパスワードの最小文字数。
const minPasswordLength = 8

// Service は認証に関するビジネスロジックを提供する。
// パスワードはbcryptでハッシュ化して保存し、平文は保持しない。
type Service struct {
	userRepo repository.UserRepository
	tokens   *TokenManager
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, tokens *TokenManager) *Service {
	return &Service{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Register は新規ユーザーを登録し、アクセストークンを発行する。
// メールアドレスが登録済みの場合、パスワードが短すぎる場合はエラーを返す。
func (s *Service) Register(ctx context.Context, email, name, password string) (*model.User, string, error) {
	if len(password) < minPasswordLength {
		return nil, "", model.NewWeakPasswordError()
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, "", model.NewEmailExistsError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", err
	}

	slog.Info("new user registered",
		slog.String("user_id", user.ID),
	)

	return user, token, nil
}

// Login はメールアドレスとパスワードを検証し、アクセストークンを発行する。
// ユーザーの存在有無を区別できないよう、失敗理由は常に同一のエラーにする。
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if user == nil {
		return nil, "", model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", model.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// CurrentUser は認証済みユーザーIDからユーザー情報を取得する。
func (s *Service) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}
