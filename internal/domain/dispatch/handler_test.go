package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mediflow/mediflow/internal/domain/staff"
)

func newTestHandler() (*Handler, *echo.Echo, *mockDirectory) {
	svc, _, dir := newFixture()
	return NewHandler(svc), echo.New(), dir
}

func TestHandler_CreateRequest(t *testing.T) {
	h, e, _ := newTestHandler()

	body := `{"patient_name":"Carmen Diaz","address":"Av. Central 123","studies":[{"code":"CBC"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/service-requests", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateRequest(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var sr ServiceRequest
	json.Unmarshal(rec.Body.Bytes(), &sr)
	if sr.Status != StatusPending {
		t.Errorf("status = %s, want pendiente", sr.Status)
	}
}

func TestHandler_CreateRequest_BadRequest(t *testing.T) {
	h, e, _ := newTestHandler()

	body := `{"patient_name":"Carmen Diaz"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/service-requests", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateRequest(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_AssignRequest_NotEligible(t *testing.T) {
	h, e, dir := newTestHandler()
	agent := addAgent(dir, false, staff.StatusActive)
	sr := newRequest(t, h.svc)

	body := fmt.Sprintf(`{"staff_id":%q,"unit":"Unit-1"}`, agent)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(sr.ID.String())

	err := h.AssignRequest(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusConflict {
		t.Errorf("expected 409, got %v", err)
	}
}

func TestHandler_AcceptRequest_AlreadyClaimed(t *testing.T) {
	h, e, dir := newTestHandler()
	agentA := addAgent(dir, true, staff.StatusActive)
	agentB := addAgent(dir, true, staff.StatusActive)
	sr := newRequest(t, h.svc)
	if err := h.svc.Accept(context.Background(), sr.ID, agentA); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	body := fmt.Sprintf(`{"staff_id":%q}`, agentB)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(sr.ID.String())

	err := h.AcceptRequest(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusConflict {
		t.Errorf("expected 409, got %v", err)
	}
}

func TestHandler_GetRequest_NotFound(t *testing.T) {
	h, e, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("2da8f1e1-5c3f-4e0f-9f58-1f1b6f6ddc11")

	err := h.GetRequest(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_StaffEarnings(t *testing.T) {
	h, e, dir := newTestHandler()
	agent := addAgent(dir, true, staff.StatusActive)
	sr := newRequest(t, h.svc)
	if err := h.svc.Accept(context.Background(), sr.ID, agent); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	for i := 0; i < 4; i++ {
		if _, err := h.svc.Advance(context.Background(), sr.ID, agent); err != nil {
			t.Fatalf("Advance %d: %v", i, err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(agent.String())

	if err := h.StaffEarnings(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var summary EarningsSummary
	json.Unmarshal(rec.Body.Bytes(), &summary)
	if summary.Total != testTariff || summary.Completed != 1 {
		t.Errorf("summary = %+v, want total %v over 1 request", summary, testTariff)
	}
}
