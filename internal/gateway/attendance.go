package gateway

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/noah-isme/intranet-portal-client/internal/models"
)

// AttendanceGateway wraps /attendance.
type AttendanceGateway struct {
	base
}

func NewAttendanceGateway(deps Deps) *AttendanceGateway {
	return &AttendanceGateway{base: newBase("attendance", deps)}
}

// MyRecords lists the signed-in user's attendance history.
func (g *AttendanceGateway) MyRecords(ctx context.Context) ([]models.Attendance, error) {
	return list[models.Attendance](ctx, g.base, "attendance.my", "/attendance/my")
}

// ListByDate lists every employee's attendance on one day.
func (g *AttendanceGateway) ListByDate(ctx context.Context, date time.Time) ([]models.Attendance, error) {
	endpoint := withQuery("/attendance", url.Values{"date": {date.Format("2006-01-02")}})
	return list[models.Attendance](ctx, g.base, "attendance.by_date", endpoint)
}

// Today returns the signed-in user's record for today, or nil before check-in.
func (g *AttendanceGateway) Today(ctx context.Context) (*models.Attendance, error) {
	return one[models.Attendance](ctx, g.base, "attendance.today", http.MethodGet, "/attendance/today", nil)
}

func (g *AttendanceGateway) CheckIn(ctx context.Context, note string) (*models.Attendance, error) {
	return one[models.Attendance](ctx, g.base, "attendance.check_in", http.MethodPost, "/attendance/check-in", models.CheckRequest{Note: note})
}

func (g *AttendanceGateway) CheckOut(ctx context.Context, note string) (*models.Attendance, error) {
	return one[models.Attendance](ctx, g.base, "attendance.check_out", http.MethodPost, "/attendance/check-out", models.CheckRequest{Note: note})
}
