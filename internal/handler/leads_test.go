package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"agrocrm/internal/apierror"
	"agrocrm/internal/dto"
	"agrocrm/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLeadService returns canned values and records the inputs handlers pass
// down, so these tests cover binding, defaults, and error mapping only.
type stubLeadService struct {
	lastFilter dto.LeadFilter
	lastCreate dto.CreateLeadRequest
	err        error
}

var _ service.LeadService = (*stubLeadService)(nil)

func (s *stubLeadService) Create(_ context.Context, req dto.CreateLeadRequest) (*dto.LeadResponse, error) {
	s.lastCreate = req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.LeadResponse{ID: uuid.NewString(), Name: req.Name, CPF: req.CPF, City: req.City, Status: "new"}, nil
}

func (s *stubLeadService) GetByID(context.Context, uuid.UUID) (*dto.LeadResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.LeadResponse{}, nil
}

func (s *stubLeadService) List(_ context.Context, f dto.LeadFilter) (*dto.LeadListResponse, error) {
	s.lastFilter = f
	if s.err != nil {
		return nil, s.err
	}
	return &dto.LeadListResponse{Data: []dto.LeadResponse{}, Page: f.Page, PageSize: f.PageSize}, nil
}

func (s *stubLeadService) Update(context.Context, uuid.UUID, dto.UpdateLeadRequest) (*dto.LeadResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.LeadResponse{}, nil
}

func (s *stubLeadService) Delete(context.Context, uuid.UUID) (*dto.DeleteResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.DeleteResponse{Success: true, Message: "Lead deleted successfully"}, nil
}

func (s *stubLeadService) Stats(context.Context) (*dto.LeadStatsResponse, error) {
	return &dto.LeadStatsResponse{}, nil
}
func (s *stubLeadService) TotalCount(context.Context) (int64, error)                { return 0, nil }
func (s *stubLeadService) StatsByStatus(context.Context) ([]dto.StatusCount, error) { return nil, nil }
func (s *stubLeadService) StatsByCity(context.Context, int) ([]dto.CityCount, error) {
	return nil, nil
}
func (s *stubLeadService) Priority(context.Context, int) ([]dto.LeadResponse, error) {
	return nil, nil
}
func (s *stubLeadService) Recent(context.Context, int) ([]dto.LeadResponse, error) { return nil, nil }
func (s *stubLeadService) WithoutContact(context.Context, int) ([]dto.LeadResponse, error) {
	return nil, nil
}

func (s *stubLeadService) Export(_ context.Context, format string) ([]byte, string, string, error) {
	if format != "csv" {
		return nil, "", "", apierror.Validation("Invalid format")
	}
	return []byte("Name,CPF\n"), "text/csv", "leads.csv", nil
}

func newLeadsRouter(svc service.LeadService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewLeadsHandler(svc)
	r.GET("/leads", h.List)
	r.GET("/leads/export", h.Export)
	r.GET("/leads/:id", h.GetByID)
	r.POST("/leads", h.Create)
	return r
}

func TestListAppliesQueryDefaults(t *testing.T) {
	svc := &stubLeadService{}
	r := newLeadsRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leads", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, svc.lastFilter.Page)
	assert.Equal(t, 10, svc.lastFilter.PageSize)
	assert.Equal(t, "createdAt", svc.lastFilter.SortField)
	assert.Equal(t, "desc", svc.lastFilter.SortOrder)
}

func TestListBindsRepeatedAndRangeParams(t *testing.T) {
	svc := &stubLeadService{}
	r := newLeadsRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/leads?status=new&status=lost&city=Sorriso&areaMin=50&sortField=totalAreaHectares&page=2&pageSize=25", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"new", "lost"}, svc.lastFilter.Status)
	assert.Equal(t, []string{"Sorriso"}, svc.lastFilter.City)
	require.NotNil(t, svc.lastFilter.AreaMin)
	assert.Equal(t, 50.0, *svc.lastFilter.AreaMin)
	assert.Equal(t, "totalAreaHectares", svc.lastFilter.SortField)
	assert.Equal(t, 2, svc.lastFilter.Page)
	assert.Equal(t, 25, svc.lastFilter.PageSize)
}

func TestListRejectsOutOfRangeFilter(t *testing.T) {
	r := newLeadsRouter(&stubLeadService{})

	for _, query := range []string{
		"pageSize=500",             // above max
		"status=bogus",             // unknown enum value
		"sortField=passwordHash",   // not whitelisted
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leads?"+query, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestCreateValidatesBody(t *testing.T) {
	r := newLeadsRouter(&stubLeadService{})

	body := `{"name":"Jo","cpf":"11111111111","city":""}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp apierror.ValidationError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "Name")
	assert.Contains(t, resp.Fields, "CPF")
	assert.Contains(t, resp.Fields, "City")
}

func TestCreateAcceptsFormattedCPF(t *testing.T) {
	svc := &stubLeadService{}
	r := newLeadsRouter(svc)

	body := `{"name":"João Silva","cpf":"123.456.789-09","city":"Sorriso"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "123.456.789-09", svc.lastCreate.CPF)
}

func TestServiceErrorMapping(t *testing.T) {
	svc := &stubLeadService{err: apierror.Conflict("CPF already registered")}
	r := newLeadsRouter(svc)

	body := `{"name":"João Silva","cpf":"12345678909","city":"Sorriso"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
	var resp apierror.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CPF already registered", resp.Detail)
}

func TestExportSetsAttachmentHeaders(t *testing.T) {
	r := newLeadsRouter(&stubLeadService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leads/export?format=csv", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=leads.csv", w.Header().Get("Content-Disposition"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leads/export?format=docx", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetByIDRejectsMalformedUUID(t *testing.T) {
	r := newLeadsRouter(&stubLeadService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leads/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
