package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"github.com/albapepper/dupepanel/internal/api/handler"
	"github.com/albapepper/dupepanel/internal/api/respond"
	"github.com/albapepper/dupepanel/internal/backup"
	"github.com/albapepper/dupepanel/internal/config"
	"github.com/albapepper/dupepanel/internal/kvstore"
	"github.com/albapepper/dupepanel/internal/notifications"
	"github.com/albapepper/dupepanel/internal/rules"
	"github.com/albapepper/dupepanel/internal/sales"
	"github.com/albapepper/dupepanel/internal/settings"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type fakeNotifier struct {
	calls int
	err   error
}

func (f *fakeNotifier) RequestTest(context.Context) error {
	f.calls++
	return f.err
}

type fakeDB struct{ err error }

func (f fakeDB) HealthCheck(context.Context) error { return f.err }

type RouterTestSuite struct {
	suite.Suite
	kv       *kvstore.MemoryStore
	sales    *sales.Store
	notifier *fakeNotifier
	deps     handler.Deps
	router   *chi.Mux
}

func testConfig() *config.Config {
	return &config.Config{
		CORSAllowOrigins: []string{"http://localhost:5173"},
		RateLimitEnabled: false,
	}
}

func (s *RouterTestSuite) SetupTest() {
	s.kv = kvstore.NewMemoryStore()
	s.sales = sales.NewStore(s.kv, time.UTC)
	s.sales.SetClock(func() time.Time { return now })
	plates := sales.NewPlateStore(s.kv)
	st := settings.NewStore(s.kv)
	svc := backup.NewService(s.sales, plates, st, s.kv)
	svc.SetClock(func() time.Time { return now })
	s.notifier = &fakeNotifier{}

	s.deps = handler.Deps{
		Sales:    s.sales,
		Plates:   plates,
		Settings: st,
		Backup:   svc,
		Queue:    s.kv,
		Notifier: s.notifier,
		Location: time.UTC,
	}
	s.router = s.newRouter(s.deps, testConfig())
}

func (s *RouterTestSuite) newRouter(d handler.Deps, cfg *config.Config) *chi.Mux {
	h := handler.New(d)
	h.SetClock(func() time.Time { return now })
	return NewRouter(h, cfg)
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterTestSuite) decode(rec *httptest.ResponseRecorder, v interface{}) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func (s *RouterTestSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var e respond.ErrorResponse
	s.decode(rec, &e)
	return e.Error.Code
}

func (s *RouterTestSuite) TestRootAndHealth() {
	rec := s.do(http.MethodGet, "/", "")
	s.Equal(http.StatusOK, rec.Code)
	s.NotEmpty(rec.Header().Get("X-Process-Time"))

	rec = s.do(http.MethodGet, "/health", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"healthy"`)

	rec = s.do(http.MethodGet, "/health/db", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "not_configured")

	s.Equal(http.StatusOK, s.do(http.MethodGet, "/metrics", "").Code)
}

func (s *RouterTestSuite) TestHealthDBDown() {
	d := s.deps
	d.DB = fakeDB{err: errors.New("connection refused")}
	s.router = s.newRouter(d, testConfig())

	rec := s.do(http.MethodGet, "/health/db", "")
	s.Equal(http.StatusServiceUnavailable, rec.Code)
	s.Contains(rec.Body.String(), "disconnected")
}

func (s *RouterTestSuite) TestSaleLifecycle() {
	ts := now.Add(-30 * time.Minute).UnixMilli()
	rec := s.do(http.MethodPost, "/api/v1/sales", `{"timestamp":`+jsonInt(ts)+`,"plate":" ab12 "}`)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var created sales.Sale
	s.decode(rec, &created)
	s.NotEmpty(created.ID)
	s.Equal("AB12", created.Plate)
	s.Equal("2026-03-14", created.Date)
	s.Equal("11:30", created.Time)

	rec = s.do(http.MethodGet, "/api/v1/sales", "")
	var list []sales.Sale
	s.decode(rec, &list)
	s.Len(list, 1)

	rec = s.do(http.MethodPut, "/api/v1/sales/"+created.ID, `{"date":"2026-03-14","time":"09:15"}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var updated sales.Sale
	s.decode(rec, &updated)
	s.Equal(created.ID, updated.ID)
	s.Equal(time.Date(2026, 3, 14, 9, 15, 0, 0, time.UTC).UnixMilli(), updated.Timestamp)

	rec = s.do(http.MethodGet, "/api/v1/sales/"+created.ID, "")
	s.Equal(http.StatusOK, rec.Code)

	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/api/v1/sales/"+created.ID, "").Code)
	rec = s.do(http.MethodGet, "/api/v1/sales/"+created.ID, "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("NOT_FOUND", s.errorCode(rec))
}

func (s *RouterTestSuite) TestCreateSale_Rejections() {
	future := now.Add(time.Minute).UnixMilli()
	rec := s.do(http.MethodPost, "/api/v1/sales", `{"timestamp":`+jsonInt(future)+`}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("FUTURE_TIMESTAMP", s.errorCode(rec))

	rec = s.do(http.MethodPost, "/api/v1/sales", `{"date":"14/03/2026","time":"10:00"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_FAILED", s.errorCode(rec))

	rec = s.do(http.MethodPost, "/api/v1/sales", `{"plate":"TOO-LONG-PLATE"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_FAILED", s.errorCode(rec))

	rec = s.do(http.MethodPost, "/api/v1/sales", `{`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("INVALID_BODY", s.errorCode(rec))
}

func (s *RouterTestSuite) TestDashboard() {
	for _, ago := range []time.Duration{30 * time.Minute, 5 * time.Hour} {
		_, err := s.sales.Create(context.Background(), sales.Input{At: now.Add(-ago)})
		s.Require().NoError(err)
	}

	rec := s.do(http.MethodGet, "/api/v1/dashboard", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var sum rules.Summary
	s.decode(rec, &sum)
	s.Equal(now.UnixMilli(), sum.GeneratedAt)
	s.Equal(rules.Quota{Count: 1, Limit: 2, Status: rules.StatusWarning}, sum.TwoHour)
	s.Equal(20, sum.Price.Percentage)
	s.Len(sum.Weekly, 7)
	s.Len(sum.Cooldowns, 2)
}

func (s *RouterTestSuite) TestPlates() {
	rec := s.do(http.MethodPost, "/api/v1/plates", `{"license":"abc1"}`)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var plate sales.Plate
	s.decode(rec, &plate)
	s.Equal("ABC1", plate.License)

	rec = s.do(http.MethodPost, "/api/v1/plates", `{"license":" ABC1"}`)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("DUPLICATE_PLATE", s.errorCode(rec))

	rec = s.do(http.MethodPost, "/api/v1/plates", `{"license":""}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	_, err := s.sales.Create(context.Background(), sales.Input{At: now.Add(-time.Hour), Plate: "abc1"})
	s.Require().NoError(err)

	rec = s.do(http.MethodGet, "/api/v1/plates", "")
	var views []handler.PlateView
	s.decode(rec, &views)
	s.Require().Len(views, 1)
	s.Equal(1, views[0].Usage)

	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/api/v1/plates/"+plate.ID, "").Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, "/api/v1/plates/"+plate.ID, "").Code)
}

func (s *RouterTestSuite) TestSettingsPartialUpdate() {
	rec := s.do(http.MethodPut, "/api/v1/settings", `{"notifyOneSlot":false}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var got settings.Settings
	s.decode(rec, &got)
	want := settings.Default()
	want.NotifyOneSlot = false
	s.Equal(want, got)

	rec = s.do(http.MethodPut, "/api/v1/settings", `{"theme":"neon"}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/settings", "")
	s.decode(rec, &got)
	s.Equal(settings.ThemeSystem, got.Theme)
}

func (s *RouterTestSuite) TestExportImportAndClear() {
	_, err := s.sales.Create(context.Background(), sales.Input{At: now.Add(-time.Hour)})
	s.Require().NoError(err)

	rec := s.do(http.MethodGet, "/api/v1/export", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get("Content-Disposition"), "dupepanel-backup-2026-03-14.json")
	exported := rec.Body.String()

	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/api/v1/data", "").Code)
	list, err := s.sales.List(context.Background())
	s.Require().NoError(err)
	s.Empty(list)

	rec = s.do(http.MethodPost, "/api/v1/import", exported)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Contains(rec.Body.String(), `"sales":1`)
	list, err = s.sales.List(context.Background())
	s.Require().NoError(err)
	s.Len(list, 1)

	rec = s.do(http.MethodPost, "/api/v1/import", `{"sales":[]}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("INVALID_BACKUP", s.errorCode(rec))
}

func (s *RouterTestSuite) TestNotifications() {
	queue := []notifications.Scheduled{{ID: "a-2", Time: now.UnixMilli(), Kind: notifications.KindTwoSlots, Slots: 2}}
	s.Require().NoError(notifications.SaveQueue(context.Background(), s.kv, queue))

	rec := s.do(http.MethodGet, "/api/v1/notifications/scheduled", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var view handler.ScheduledView
	s.decode(rec, &view)
	s.Equal(queue, view.Queue)
	s.Empty(view.Shown)

	s.Equal(http.StatusAccepted, s.do(http.MethodPost, "/api/v1/notifications/test", "").Code)
	s.Equal(1, s.notifier.calls)

	s.notifier.err = errors.New("bridge down")
	s.Equal(http.StatusServiceUnavailable, s.do(http.MethodPost, "/api/v1/notifications/test", "").Code)
}

func (s *RouterTestSuite) TestRateLimit() {
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitRequests = 2
	cfg.RateLimitWindow = time.Minute
	s.router = s.newRouter(s.deps, cfg)

	s.Equal(http.StatusOK, s.do(http.MethodGet, "/health", "").Code)
	rec := s.do(http.MethodGet, "/health", "")
	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.Equal("60", rec.Header().Get("Retry-After"))
	s.Equal("RATE_LIMITED", s.errorCode(rec))
}

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
