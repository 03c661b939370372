package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hemantmeena2005/eventbooking/internal/domain"
	"github.com/hemantmeena2005/eventbooking/internal/dto"
	"github.com/hemantmeena2005/eventbooking/pkg/middleware"
)

// MockEventService is a mock implementation of EventService
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) CreateEvent(ctx context.Context, organizerID string, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	args := m.Called(ctx, organizerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.EventResponse), args.Error(1)
}

func (m *MockEventService) GetEvent(ctx context.Context, id string) (*dto.EventResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.EventResponse), args.Error(1)
}

func (m *MockEventService) ListEvents(ctx context.Context) ([]*dto.EventResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dto.EventResponse), args.Error(1)
}

func (m *MockEventService) DeleteEvent(ctx context.Context, id, organizerID string) error {
	args := m.Called(ctx, id, organizerID)
	return args.Error(0)
}

func setupEventRouter(svc *MockEventService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	if userID != "" {
		router.Use(func(c *gin.Context) {
			c.Set(middleware.UserIDKey, userID)
			c.Next()
		})
	}

	h := NewEventHandler(svc)
	events := router.Group("/events")
	{
		events.GET("", h.ListEvents)
		events.GET("/:id", h.GetEvent)
		events.POST("", h.CreateEvent)
		events.DELETE("/:id", h.DeleteEvent)
	}

	return router
}

func TestEventHandler_CreateEvent(t *testing.T) {
	svc := new(MockEventService)
	svc.On("CreateEvent", mock.Anything, "organizer-001", mock.Anything).Return(&dto.EventResponse{
		ID:               "event-001",
		Title:            "Summer Jazz Night",
		Capacity:         100,
		TicketsAvailable: 100,
		OrganizerID:      "organizer-001",
	}, nil)

	router := setupEventRouter(svc, "organizer-001")

	body, _ := json.Marshal(&dto.CreateEventRequest{
		Title:            "Summer Jazz Night",
		Description:      "An open-air jazz concert",
		Venue:            "Riverside Park",
		Date:             time.Now().Add(30 * 24 * time.Hour),
		Price:            49.50,
		TicketsAvailable: 100,
	})

	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestEventHandler_CreateEvent_Unauthorized(t *testing.T) {
	svc := new(MockEventService)
	router := setupEventRouter(svc, "")

	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "CreateEvent")
}

func TestEventHandler_CreateEvent_ValidationError(t *testing.T) {
	svc := new(MockEventService)
	svc.On("CreateEvent", mock.Anything, "organizer-001", mock.Anything).Return(nil, domain.ErrInvalidTitle)

	router := setupEventRouter(svc, "organizer-001")

	body, _ := json.Marshal(&dto.CreateEventRequest{
		Title:            "   ",
		Description:      "desc",
		Venue:            "venue",
		Date:             time.Now(),
		TicketsAvailable: 10,
	})

	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventHandler_GetEvent(t *testing.T) {
	svc := new(MockEventService)
	svc.On("GetEvent", mock.Anything, "event-001").Return(&dto.EventResponse{
		ID:               "event-001",
		Title:            "Summer Jazz Night",
		TicketsAvailable: 42,
	}, nil)
	svc.On("GetEvent", mock.Anything, "event-999").Return(nil, domain.ErrEventNotFound)

	router := setupEventRouter(svc, "")

	req := httptest.NewRequest(http.MethodGet, "/events/event-001", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/events/event-999", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEventHandler_ListEvents(t *testing.T) {
	svc := new(MockEventService)
	svc.On("ListEvents", mock.Anything).Return([]*dto.EventResponse{
		{ID: "event-001", Title: "Summer Jazz Night"},
		{ID: "event-002", Title: "Winter Gala"},
	}, nil)

	router := setupEventRouter(svc, "")

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                 `json:"success"`
		Data    []*dto.EventResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data, 2)
}

func TestEventHandler_DeleteEvent(t *testing.T) {
	svc := new(MockEventService)
	svc.On("DeleteEvent", mock.Anything, "event-001", "organizer-001").Return(nil)
	svc.On("DeleteEvent", mock.Anything, "event-001", "organizer-002").Return(domain.ErrEventNotFound)

	router := setupEventRouter(svc, "organizer-001")
	req := httptest.NewRequest(http.MethodDelete, "/events/event-001", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	router = setupEventRouter(svc, "organizer-002")
	req = httptest.NewRequest(http.MethodDelete, "/events/event-001", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
