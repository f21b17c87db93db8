package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/salondesk/internal/dashboard"
	"github.com/hitoshi/salondesk/internal/middleware"
	"github.com/hitoshi/salondesk/internal/model"
)

// DashboardServiceInterface はダッシュボードハンドラーが必要とするサービスインターフェース。
type DashboardServiceInterface interface {
	// ComputeDashboard は基準時刻nowのダッシュボード集計を1単位として計算する。
	ComputeDashboard(ctx context.Context, userID string, now time.Time) (*dashboard.Aggregate, error)
}

// RollupRecorder はダッシュボード集計メトリクスの記録インターフェース。
type RollupRecorder interface {
	RecordDashboardRollup(duration time.Duration)
}

// DashboardHandler はダッシュボード分析のHTTPハンドラー。
type DashboardHandler struct {
	service  DashboardServiceInterface
	recorder RollupRecorder
	// now はテストで基準時刻を固定するために差し替え可能にする。
	now func() time.Time
}

// NewDashboardHandler はDashboardHandlerを生成する。recorderはnil可。
func NewDashboardHandler(service DashboardServiceInterface, recorder RollupRecorder) *DashboardHandler {
	return &DashboardHandler{
		service:  service,
		recorder: recorder,
		now:      time.Now,
	}
}

// highestBillResponse は当日の最高額会計のAPIレスポンス。
type highestBillResponse struct {
	ID          string          `json:"id"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// analyticsResponse はダッシュボード分析のAPIレスポンス。
// フィールド名は既存クライアントとの互換のためcamelCaseで固定する。
type analyticsResponse struct {
	TodaysTotalSales     decimal.Decimal      `json:"todaysTotalSales"`
	HighestBillToday     *highestBillResponse `json:"highestBillToday"`
	TotalPackages        int                  `json:"totalPackages"`
	TotalBills           int                  `json:"totalBills"`
	RecentBills          []recentBillResponse `json:"recentBills"`
	ThisWeeksTotalSales  decimal.Decimal      `json:"thisWeeksTotalSales"`
	ThisMonthsTotalSales decimal.Decimal      `json:"thisMonthsTotalSales"`
	TodaysBillsCount     int                  `json:"todaysBillsCount"`
}

// GetAnalytics はダッシュボード分析を取得する。
// GET /api/dashboard/analytics
func (h *DashboardHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	start := time.Now()
	agg, err := h.service.ComputeDashboard(r.Context(), userID, h.now())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if h.recorder != nil {
		h.recorder.RecordDashboardRollup(time.Since(start))
	}

	resp := analyticsResponse{
		TodaysTotalSales:     agg.TodaysRevenue,
		ThisWeeksTotalSales:  agg.WeeksRevenue,
		ThisMonthsTotalSales: agg.MonthsRevenue,
		TodaysBillsCount:     agg.TodaysBillCount,
		TotalBills:           agg.TotalBillCount,
		TotalPackages:        agg.TotalPackageCount,
		RecentBills:          make([]recentBillResponse, 0, len(agg.RecentBills)),
	}

	if agg.HighestBillToday != nil {
		resp.HighestBillToday = &highestBillResponse{
			ID:          agg.HighestBillToday.ID,
			TotalAmount: agg.HighestBillToday.TotalAmount,
			CreatedAt:   agg.HighestBillToday.CreatedAt,
		}
	}

	for _, rb := range agg.RecentBills {
		resp.RecentBills = append(resp.RecentBills, recentBillResponse{
			billResponse: toBillResponse(rb.Bill),
			Editable:     rb.Editable,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
