// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, billing, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeEmailExists        = "EMAIL_EXISTS"
	ErrCodeWeakPassword       = "WEAK_PASSWORD"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeInvalidPackageType = "INVALID_PACKAGE_TYPE"
	ErrCodeInvalidPrice       = "INVALID_PRICE"
	ErrCodePackageNotFound    = "PACKAGE_NOT_FOUND"
	ErrCodeBillNotFound       = "BILL_NOT_FOUND"
	ErrCodeEmptyBill          = "EMPTY_BILL"
	ErrCodeBillNotEditable    = "BILL_NOT_EDITABLE"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewInvalidCredentialsError は認証情報不一致エラーを生成する。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewEmailExistsError はメールアドレス重複エラーを生成する。
func NewEmailExistsError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailExists,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "auth",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewWeakPasswordError はパスワード強度不足エラーを生成する。
func NewWeakPasswordError() *APIError {
	return &APIError{
		Code:     ErrCodeWeakPassword,
		Message:  "パスワードは8文字以上で入力してください。",
		Category: "validation",
		Action:   "より長いパスワードを設定してください。",
	}
}

// NewInvalidRequestError はリクエスト形式エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}

// NewInvalidPackageTypeError は無効なパッケージ種別エラーを生成する。
func NewInvalidPackageTypeError(got string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPackageType,
		Message:  fmt.Sprintf("無効なパッケージ種別です: %s", got),
		Category: "validation",
		Action:   "種別には Basic または Premium を指定してください。",
	}
}

// NewInvalidPriceError は無効な価格エラーを生成する。
func NewInvalidPriceError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPrice,
		Message:  "価格には0以上の数値を指定してください。",
		Category: "validation",
		Action:   "価格を確認してください。",
	}
}

// NewPackageNotFoundError はパッケージ未検出エラーを生成する。
func NewPackageNotFoundError(packageID string) *APIError {
	return &APIError{
		Code:     ErrCodePackageNotFound,
		Message:  fmt.Sprintf("指定されたパッケージが見つかりません: %s", packageID),
		Category: "billing",
		Action:   "パッケージIDを確認してください。",
	}
}

// NewBillNotFoundError は会計未検出エラーを生成する。
func NewBillNotFoundError(billID string) *APIError {
	return &APIError{
		Code:     ErrCodeBillNotFound,
		Message:  fmt.Sprintf("指定された会計が見つかりません: %s", billID),
		Category: "billing",
		Action:   "会計IDを確認してください。",
	}
}

// NewEmptyBillError は明細なし会計エラーを生成する。
func NewEmptyBillError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyBill,
		Message:  "会計には1件以上のパッケージを含めてください。",
		Category: "validation",
		Action:   "パッケージを選択してから会計を作成してください。",
	}
}

// NewBillNotEditableError は編集可能ウィンドウ外の会計に対する変更エラーを生成する。
func NewBillNotEditableError(billID string) *APIError {
	return &APIError{
		Code:     ErrCodeBillNotEditable,
		Message:  fmt.Sprintf("この会計は編集可能期間を過ぎています: %s", billID),
		Category: "billing",
		Action:   "編集・削除は直近15件の会計に対してのみ実行できます。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewRateLimitedError はレート制限超過エラーを生成する。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimited,
		Message:  "リクエストが多すぎます。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
