package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidarico/subtitle-portal/internal/projects/domain"
	"github.com/davidarico/subtitle-portal/internal/projects/service"
)

type fakeService struct {
	createFn      func(ctx context.Context, name, audioURL, textURL string) (*domain.Project, error)
	createFilesFn func(ctx context.Context, name string, audio, text service.Artifact) (*domain.Project, error)
	listFn        func(ctx context.Context) ([]domain.Project, error)
	refreshFn     func(ctx context.Context, ids []string) ([]domain.RefreshResult, error)
	transcriptFn  func(ctx context.Context, id string) (*domain.Project, json.RawMessage, error)
}

func (f *fakeService) Create(ctx context.Context, name, audioURL, textURL string) (*domain.Project, error) {
	return f.createFn(ctx, name, audioURL, textURL)
}

func (f *fakeService) CreateFromFiles(ctx context.Context, name string, audio, text service.Artifact) (*domain.Project, error) {
	return f.createFilesFn(ctx, name, audio, text)
}

func (f *fakeService) List(ctx context.Context) ([]domain.Project, error) {
	return f.listFn(ctx)
}

func (f *fakeService) Refresh(ctx context.Context, ids []string) ([]domain.RefreshResult, error) {
	return f.refreshFn(ctx, ids)
}

func (f *fakeService) Transcript(ctx context.Context, id string) (*domain.Project, json.RawMessage, error) {
	return f.transcriptFn(ctx, id)
}

func newRouter(svc ProjectService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r.Group("/projects"), svc)
	return r
}

func TestCreate_JSONBody(t *testing.T) {
	svc := &fakeService{
		createFn: func(ctx context.Context, name, audioURL, textURL string) (*domain.Project, error) {
			assert.Equal(t, "interview", name)
			assert.Equal(t, "https://m/a.mp3", audioURL)
			assert.Equal(t, "https://m/a.txt", textURL)
			return &domain.Project{ID: "p-1", Name: name, Status: domain.StatusPending, ThirdPartyID: "job-1"}, nil
		},
	}

	body, _ := json.Marshal(gin.H{"name": "interview", "audio_url": "https://m/a.mp3", "text_url": "https://m/a.txt"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/projects", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"job-1"`)
}

func TestCreate_InvalidBody(t *testing.T) {
	svc := &fakeService{
		createFn: func(ctx context.Context, name, audioURL, textURL string) (*domain.Project, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/projects", bytes.NewReader([]byte(`{invalid`)))
	req.Header.Set("Content-Type", "application/json")
	newRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefresh_ReturnsPartialResults(t *testing.T) {
	svc := &fakeService{
		refreshFn: func(ctx context.Context, ids []string) ([]domain.RefreshResult, error) {
			require.Equal(t, []string{"a", "b"}, ids)
			return []domain.RefreshResult{
				{ID: "a", Status: domain.StatusPending},
				{ID: "b", Error: "poll job job-b: timeout"},
			}, nil
		},
	}

	body, _ := json.Marshal(gin.H{"ids": []string{"a", "b"}})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/projects/refresh", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pending"`)
	assert.Contains(t, w.Body.String(), "timeout")
}

func TestTranscript_Download(t *testing.T) {
	doc := json.RawMessage(`{"monologues":[]}`)
	svc := &fakeService{
		transcriptFn: func(ctx context.Context, id string) (*domain.Project, json.RawMessage, error) {
			assert.Equal(t, "p-1", id)
			return &domain.Project{ID: "p-1", Name: "interview", Status: domain.StatusCompleted}, doc, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/projects/p-1/transcript", nil)
	newRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="interview.json"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, string(doc), w.Body.String())
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{fmt.Errorf("%w: bad ids", domain.ErrInvalidInput), http.StatusBadRequest},
		{domain.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: status is %q", domain.ErrNotReady, "pending"), http.StatusConflict},
		{fmt.Errorf("%w: boom", domain.ErrUpstream), http.StatusBadGateway},
		{fmt.Errorf("%w: boom", domain.ErrSubmission), http.StatusBadGateway},
		{fmt.Errorf("%w: boom", domain.ErrPersistence), http.StatusInternalServerError},
		{errors.New("unclassified"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		svc := &fakeService{
			transcriptFn: func(ctx context.Context, id string) (*domain.Project, json.RawMessage, error) {
				return nil, nil, tt.err
			},
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/projects/p-1/transcript", nil)
		newRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, tt.wantStatus, w.Code, "error %v", tt.err)
	}
}

func TestList(t *testing.T) {
	svc := &fakeService{
		listFn: func(ctx context.Context) ([]domain.Project, error) {
			return []domain.Project{
				{ID: "p-2", Name: "newest", Status: domain.StatusPending},
				{ID: "p-1", Name: "oldest", Status: domain.StatusCompleted},
			}, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	newRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "newest")
	assert.Contains(t, w.Body.String(), "oldest")
}
