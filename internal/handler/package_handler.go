package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/hitoshi/salondesk/internal/catalog"
	"github.com/hitoshi/salondesk/internal/middleware"
	"github.com/hitoshi/salondesk/internal/model"
)

// PackageServiceInterface はパッケージハンドラーが必要とするサービスインターフェース。
type PackageServiceInterface interface {
	// ListPackages はユーザーのパッケージ一覧を作成日時の降順で返す。
	ListPackages(ctx context.Context, userID string) ([]*model.Package, error)
	// CreatePackage はパッケージを作成する。
	CreatePackage(ctx context.Context, userID string, input catalog.PackageInput) (*model.Package, error)
	// UpdatePackage はパッケージを更新する。
	UpdatePackage(ctx context.Context, userID, packageID string, input catalog.PackageInput) (*model.Package, error)
	// DeletePackage はパッケージを削除する。
	DeletePackage(ctx context.Context, userID, packageID string) error
}

// PackageHandler は施術パッケージ管理のHTTPハンドラー。
type PackageHandler struct {
	service PackageServiceInterface
}

// NewPackageHandler はPackageHandlerを生成する。
func NewPackageHandler(service PackageServiceInterface) *PackageHandler {
	return &PackageHandler{
		service: service,
	}
}

// packageRequest はパッケージ作成・更新リクエストのボディ。
type packageRequest struct {
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
}

// packageResponse はパッケージ情報のAPIレスポンス。
type packageResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toPackageResponse(pkg *model.Package) packageResponse {
	return packageResponse{
		ID:          pkg.ID,
		Name:        pkg.Name,
		Type:        string(pkg.Type),
		Price:       pkg.Price,
		Description: pkg.Description,
		CreatedAt:   pkg.CreatedAt,
		UpdatedAt:   pkg.UpdatedAt,
	}
}

// ListPackages はユーザーのパッケージ一覧を取得する。
// GET /api/packages
func (h *PackageHandler) ListPackages(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	pkgs, err := h.service.ListPackages(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// 空一覧はnullではなく[]で返す
	responses := make([]packageResponse, 0, len(pkgs))
	for _, pkg := range pkgs {
		responses = append(responses, toPackageResponse(pkg))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// CreatePackage はパッケージを作成する。
// POST /api/packages
func (h *PackageHandler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req packageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	pkg, err := h.service.CreatePackage(r.Context(), userID, catalog.PackageInput{
		Name:        req.Name,
		Type:        model.PackageType(req.Type),
		Price:       req.Price,
		Description: req.Description,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toPackageResponse(pkg))
}

// UpdatePackage はパッケージを更新する。
// PUT /api/packages/:id
func (h *PackageHandler) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	packageID := chi.URLParam(r, "id")

	var req packageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	pkg, err := h.service.UpdatePackage(r.Context(), userID, packageID, catalog.PackageInput{
		Name:        req.Name,
		Type:        model.PackageType(req.Type),
		Price:       req.Price,
		Description: req.Description,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPackageResponse(pkg))
}

// DeletePackage はパッケージを削除する。
// DELETE /api/packages/:id
func (h *PackageHandler) DeletePackage(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	packageID := chi.URLParam(r, "id")

	if err := h.service.DeletePackage(r.Context(), userID, packageID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// apiErrorResponse はAPIエラーレスポンスの統一フォーマット。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeAPIErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     model.ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthorized, model.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case model.ErrCodeEmailExists, model.ErrCodeBillNotEditable:
		return http.StatusConflict
	case model.ErrCodeWeakPassword, model.ErrCodeInvalidRequest,
		model.ErrCodeInvalidPackageType, model.ErrCodeInvalidPrice,
		model.ErrCodeEmptyBill:
		return http.StatusBadRequest
	case model.ErrCodePackageNotFound, model.ErrCodeBillNotFound, model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
