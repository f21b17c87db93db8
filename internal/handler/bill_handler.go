package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/hitoshi/salondesk/internal/bill"
	"github.com/hitoshi/salondesk/internal/middleware"
	"github.com/hitoshi/salondesk/internal/model"
)

// BillServiceInterface は会計ハンドラーが必要とするサービスインターフェース。
type BillServiceInterface interface {
	// CreateBill は選択されたパッケージからチェックアウトを実行する。
	CreateBill(ctx context.Context, userID string, packageIDs []string) (*model.Bill, error)
	// GetBill は会計を取得する。
	GetBill(ctx context.Context, userID, billID string) (*model.Bill, error)
	// ListRecentBills は直近の会計一覧を編集可否フラグ付きで返す。
	ListRecentBills(ctx context.Context, userID string) ([]bill.RecentBill, error)
	// UpdateBill は編集可能ウィンドウ内の会計の明細を差し替える。
	UpdateBill(ctx context.Context, userID, billID string, packageIDs []string) (*model.Bill, error)
	// DeleteBill は編集可能ウィンドウ内の会計を削除する。
	DeleteBill(ctx context.Context, userID, billID string) error
}

// BillCreatedRecorder は会計作成メトリクスの記録インターフェース。
type BillCreatedRecorder interface {
	RecordBillCreated()
}

// BillHandler は会計管理のHTTPハンドラー。
type BillHandler struct {
	service  BillServiceInterface
	recorder BillCreatedRecorder
}

// NewBillHandler はBillHandlerを生成する。recorderはnil可。
func NewBillHandler(service BillServiceInterface, recorder BillCreatedRecorder) *BillHandler {
	return &BillHandler{
		service:  service,
		recorder: recorder,
	}
}

// billRequest は会計の作成・更新リクエストのボディ。
type billRequest struct {
	PackageIDs []string `json:"package_ids"`
}

// billItemResponse は会計明細のAPIレスポンス。
type billItemResponse struct {
	PackageName  string          `json:"package_name"`
	PackageType  string          `json:"package_type"`
	PackagePrice decimal.Decimal `json:"package_price"`
}

// billResponse は会計情報のAPIレスポンス。
type billResponse struct {
	ID          string             `json:"id"`
	Items       []billItemResponse `json:"items"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// recentBillResponse は直近の会計一覧のAPIレスポンス。編集可否フラグを含む。
type recentBillResponse struct {
	billResponse
	Editable bool `json:"editable"`
}

func toBillResponse(b *model.Bill) billResponse {
	items := make([]billItemResponse, 0, len(b.Items))
	for _, item := range b.Items {
		items = append(items, billItemResponse{
			PackageName:  item.PackageName,
			PackageType:  string(item.PackageType),
			PackagePrice: item.PackagePrice,
		})
	}
	return billResponse{
		ID:          b.ID,
		Items:       items,
		TotalAmount: b.TotalAmount,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// CreateBill はチェックアウトを実行する。
// POST /api/bills
func (h *BillHandler) CreateBill(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req billRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	b, err := h.service.CreateBill(r.Context(), userID, req.PackageIDs)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.recorder != nil {
		h.recorder.RecordBillCreated()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toBillResponse(b))
}

// ListRecentBills は直近の会計一覧を編集可否フラグ付きで取得する。
// GET /api/bills
func (h *BillHandler) ListRecentBills(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	bills, err := h.service.ListRecentBills(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]recentBillResponse, 0, len(bills))
	for _, rb := range bills {
		responses = append(responses, recentBillResponse{
			billResponse: toBillResponse(rb.Bill),
			Editable:     rb.Editable,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// GetBill は会計を取得する。
// GET /api/bills/:id
func (h *BillHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	billID := chi.URLParam(r, "id")

	b, err := h.service.GetBill(r.Context(), userID, billID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toBillResponse(b))
}

// UpdateBill は会計の明細を差し替える。
// PUT /api/bills/:id
func (h *BillHandler) UpdateBill(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	billID := chi.URLParam(r, "id")

	var req billRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	b, err := h.service.UpdateBill(r.Context(), userID, billID, req.PackageIDs)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toBillResponse(b))
}

// DeleteBill は会計を削除する。
// DELETE /api/bills/:id
func (h *BillHandler) DeleteBill(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	billID := chi.URLParam(r, "id")

	if err := h.service.DeleteBill(r.Context(), userID, billID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
