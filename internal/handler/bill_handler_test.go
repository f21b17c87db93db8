package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/salondesk/internal/bill"
	"github.com/hitoshi/salondesk/internal/model"
)

// --- モック定義 ---

// mockBillService はBillServiceInterfaceのモック実装。
type mockBillService struct {
	createBillFn      func(ctx context.Context, userID string, packageIDs []string) (*model.Bill, error)
	getBillFn         func(ctx context.Context, userID, billID string) (*model.Bill, error)
	listRecentBillsFn func(ctx context.Context, userID string) ([]bill.RecentBill, error)
	updateBillFn      func(ctx context.Context, userID, billID string, packageIDs []string) (*model.Bill, error)
	deleteBillFn      func(ctx context.Context, userID, billID string) error
}

func (m *mockBillService) CreateBill(ctx context.Context, userID string, packageIDs []string) (*model.Bill, error) {
	if m.createBillFn != nil {
		return m.createBillFn(ctx, userID, packageIDs)
	}
	return nil, nil
}

func (m *mockBillService) GetBill(ctx context.Context, userID, billID string) (*model.Bill, error) {
	if m.getBillFn != nil {
		return m.getBillFn(ctx, userID, billID)
	}
	return nil, nil
}

func (m *mockBillService) ListRecentBills(ctx context.Context, userID string) ([]bill.RecentBill, error) {
	if m.listRecentBillsFn != nil {
		return m.listRecentBillsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockBillService) UpdateBill(ctx context.Context, userID, billID string, packageIDs []string) (*model.Bill, error) {
	if m.updateBillFn != nil {
		return m.updateBillFn(ctx, userID, billID, packageIDs)
	}
	return nil, nil
}

func (m *mockBillService) DeleteBill(ctx context.Context, userID, billID string) error {
	if m.deleteBillFn != nil {
		return m.deleteBillFn(ctx, userID, billID)
	}
	return nil
}

type countingBillRecorder struct {
	count int
}

func (r *countingBillRecorder) RecordBillCreated() {
	r.count++
}

// --- POST /api/bills テスト ---

func TestBillHandler_CreateBill_Success(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	svc := &mockBillService{
		createBillFn: func(ctx context.Context, userID string, packageIDs []string) (*model.Bill, error) {
			if len(packageIDs) != 2 {
				t.Errorf("packageIDs length = %d, want 2", len(packageIDs))
			}
			return &model.Bill{
				ID:     "bill-1",
				UserID: userID,
				Items: []model.BillItem{
					{PackageName: "カットコース", PackageType: model.PackageTypeBasic, PackagePrice: decimal.NewFromInt(5000)},
					{PackageName: "カラーコース", PackageType: model.PackageTypePremium, PackagePrice: decimal.NewFromInt(12000)},
				},
				TotalAmount: decimal.NewFromInt(17000),
				CreatedAt:   now,
				UpdatedAt:   now,
			}, nil
		},
	}
	recorder := &countingBillRecorder{}

	h := NewBillHandler(svc, recorder)

	body := bytes.NewBufferString(`{"package_ids":["pkg-1","pkg-2"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/bills", body)
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.CreateBill(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["id"] != "bill-1" {
		t.Errorf("id = %v, want bill-1", result["id"])
	}
	items, ok := result["items"].([]interface{})
	if !ok || len(items) != 2 {
		t.Errorf("items = %v, want 2 entries", result["items"])
	}
	if recorder.count != 1 {
		t.Errorf("recorded bill creations = %d, want 1", recorder.count)
	}
}

func TestBillHandler_CreateBill_EmptyBill(t *testing.T) {
	svc := &mockBillService{
		createBillFn: func(ctx context.Context, userID string, packageIDs []string) (*model.Bill, error) {
			return nil, model.NewEmptyBillError()
		},
	}
	recorder := &countingBillRecorder{}
	h := NewBillHandler(svc, recorder)

	body := bytes.NewBufferString(`{"package_ids":[]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/bills", body)
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.CreateBill(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
	if recorder.count != 0 {
		t.Errorf("recorded bill creations = %d, want 0", recorder.count)
	}
}

// --- GET /api/bills テスト ---

func TestBillHandler_ListRecentBills_IncludesEditableFlag(t *testing.T) {
	svc := &mockBillService{
		listRecentBillsFn: func(ctx context.Context, userID string) ([]bill.RecentBill, error) {
			return []bill.RecentBill{
				{Bill: &model.Bill{ID: "bill-new", TotalAmount: decimal.NewFromInt(100)}, Editable: true},
				{Bill: &model.Bill{ID: "bill-old", TotalAmount: decimal.NewFromInt(200)}, Editable: false},
			}, nil
		},
	}
	h := NewBillHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/bills", nil)
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.ListRecentBills(w, req)

	var result []map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("result length = %d, want 2", len(result))
	}
	if result[0]["editable"] != true {
		t.Errorf("result[0].editable = %v, want true", result[0]["editable"])
	}
	if result[1]["editable"] != false {
		t.Errorf("result[1].editable = %v, want false", result[1]["editable"])
	}
}

// --- GET /api/bills/:id テスト ---

func TestBillHandler_GetBill_NotFound(t *testing.T) {
	svc := &mockBillService{
		getBillFn: func(ctx context.Context, userID, billID string) (*model.Bill, error) {
			return nil, model.NewBillNotFoundError(billID)
		},
	}
	h := NewBillHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/bills/bill-missing", nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "bill-missing")
	w := httptest.NewRecorder()

	h.GetBill(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNotFound)
	}
}

// --- PUT /api/bills/:id テスト ---

func TestBillHandler_UpdateBill_OutsideWindow_Returns409(t *testing.T) {
	svc := &mockBillService{
		updateBillFn: func(ctx context.Context, userID, billID string, packageIDs []string) (*model.Bill, error) {
			return nil, model.NewBillNotEditableError(billID)
		},
	}
	h := NewBillHandler(svc, nil)

	body := bytes.NewBufferString(`{"package_ids":["pkg-1"]}`)
	req := httptest.NewRequest(http.MethodPut, "/api/bills/bill-old", body)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "bill-old")
	w := httptest.NewRecorder()

	h.UpdateBill(w, req)

	if w.Result().StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusConflict)
	}

	errResp := parseAPIErrorResponse(t, w)
	if errResp["code"] != model.ErrCodeBillNotEditable {
		t.Errorf("code = %q, want %q", errResp["code"], model.ErrCodeBillNotEditable)
	}
}

// --- DELETE /api/bills/:id テスト ---

func TestBillHandler_DeleteBill_Success(t *testing.T) {
	deleted := ""
	svc := &mockBillService{
		deleteBillFn: func(ctx context.Context, userID, billID string) error {
			deleted = billID
			return nil
		},
	}
	h := NewBillHandler(svc, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/bills/bill-1", nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "bill-1")
	w := httptest.NewRecorder()

	h.DeleteBill(w, req)

	if w.Result().StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNoContent)
	}
	if deleted != "bill-1" {
		t.Errorf("deleted = %q, want bill-1", deleted)
	}
}

func TestBillHandler_DeleteBill_OutsideWindow_Returns409(t *testing.T) {
	svc := &mockBillService{
		deleteBillFn: func(ctx context.Context, userID, billID string) error {
			return model.NewBillNotEditableError(billID)
		},
	}
	h := NewBillHandler(svc, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/bills/bill-old", nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "bill-old")
	w := httptest.NewRecorder()

	h.DeleteBill(w, req)

	if w.Result().StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusConflict)
	}
}
