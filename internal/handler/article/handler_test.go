package article

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsai/admin-api/internal/middleware"
	"github.com/newsai/admin-api/internal/model"
	"github.com/newsai/admin-api/pkg/errors"
)

// stubService implements article.Servicer with canned answers
type stubService struct {
	articles   []*model.Article
	total      int
	lastFilter *model.ArticleFilter

	hardDeleted  []uuid.UUID
	bulkIDs      []uuid.UUID
	bulkStatus   model.ArticleStatus
	statusErr    error
	hardDelErr   error
	changedID    uuid.UUID
	changeStatus model.ArticleStatus
}

func (s *stubService) CreateArticle(ctx context.Context, a *model.Article) error {
	a.ID = uuid.New()
	return nil
}

func (s *stubService) GetArticle(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	for _, a := range s.articles {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, errors.NotFound("article", nil)
}

func (s *stubService) UpdateArticle(ctx context.Context, a *model.Article) error { return nil }

func (s *stubService) ListArticles(ctx context.Context, filter *model.ArticleFilter) ([]*model.Article, int, error) {
	filter.Normalize()
	s.lastFilter = filter
	return s.articles, s.total, nil
}

func (s *stubService) ChangeStatus(ctx context.Context, id uuid.UUID, status model.ArticleStatus) (*model.Article, error) {
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	s.changedID = id
	s.changeStatus = status
	return &model.Article{Status: status}, nil
}

func (s *stubService) ToggleFlag(ctx context.Context, id uuid.UUID, flag string) (*model.Article, error) {
	return &model.Article{Featured: flag == "featured"}, nil
}

func (s *stubService) SoftDeleteArticle(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubService) RestoreArticle(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	return &model.Article{Status: model.ArticleStatusDraft}, nil
}

func (s *stubService) HardDeleteArticle(ctx context.Context, id uuid.UUID) error {
	if s.hardDelErr != nil {
		return s.hardDelErr
	}
	s.hardDeleted = append(s.hardDeleted, id)
	return nil
}

func (s *stubService) DuplicateArticle(ctx context.Context, id, authorID uuid.UUID) (*model.Article, error) {
	return &model.Article{Title: "Copy of something", Status: model.ArticleStatusDraft}, nil
}

func (s *stubService) BulkChangeStatus(ctx context.Context, ids []uuid.UUID, status model.ArticleStatus) (int, error) {
	s.bulkIDs = ids
	s.bulkStatus = status
	return len(ids), nil
}

func (s *stubService) BulkSoftDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	s.bulkIDs = ids
	return len(ids), nil
}

func (s *stubService) BulkRestore(ctx context.Context, ids []uuid.UUID) (int, error) {
	s.bulkIDs = ids
	return len(ids), nil
}

func newTestRouter(svc *stubService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// Inject a fixed operator identity the way the auth middleware would
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uuid.New().String())
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1/admin"))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListArticlesResponseShape(t *testing.T) {
	a := &model.Article{Title: "One", Status: model.ArticleStatusPublished}
	a.ID = uuid.New()
	svc := &stubService{articles: []*model.Article{a}, total: 48}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/api/v1/admin/articles?page=2&limit=15&status=published&search=gpt", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Articles   []json.RawMessage `json:"articles"`
			Total      int               `json:"total"`
			TotalPages int               `json:"total_pages"`
			Page       int               `json:"page"`
			Limit      int               `json:"limit"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Len(t, resp.Data.Articles, 1)
	assert.Equal(t, 48, resp.Data.Total)
	assert.Equal(t, 4, resp.Data.TotalPages)
	assert.Equal(t, 2, resp.Data.Page)
	assert.Equal(t, 15, resp.Data.Limit)

	require.NotNil(t, svc.lastFilter)
	assert.Equal(t, "published", svc.lastFilter.Status)
	assert.Equal(t, "gpt", svc.lastFilter.Search)
	assert.Equal(t, 2, svc.lastFilter.Page)
}

func TestListArticlesAllSentinelSkipsCategoryFilter(t *testing.T) {
	svc := &stubService{}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/api/v1/admin/articles?category=all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, svc.lastFilter.CategoryID)
}

func TestListArticlesRejectsBadCategory(t *testing.T) {
	r := newTestRouter(&stubService{})
	w := doJSON(t, r, http.MethodGet, "/api/v1/admin/articles?category=not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChangeStatus(t *testing.T) {
	svc := &stubService{}
	r := newTestRouter(svc)
	id := uuid.New()

	w := doJSON(t, r, http.MethodPatch, "/api/v1/admin/articles/"+id.String()+"/status",
		map[string]string{"status": "published"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, svc.changedID)
	assert.Equal(t, model.ArticleStatusPublished, svc.changeStatus)
}

func TestChangeStatusServiceErrorMapsToHTTP(t *testing.T) {
	svc := &stubService{statusErr: errors.BadRequest("invalid article status", nil)}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPatch, "/api/v1/admin/articles/"+uuid.New().String()+"/status",
		map[string]string{"status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHardDeleteRequiresTypedConfirmation(t *testing.T) {
	svc := &stubService{}
	r := newTestRouter(svc)
	id := uuid.New()
	path := fmt.Sprintf("/api/v1/admin/articles/%s/permanent", id)

	// Missing confirmation
	w := doJSON(t, r, http.MethodDelete, path, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.hardDeleted)

	// Wrong phrase
	w = doJSON(t, r, http.MethodDelete, path, map[string]string{"confirm": "delete"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.hardDeleted)

	// Exact phrase
	w = doJSON(t, r, http.MethodDelete, path, map[string]string{"confirm": "DELETE"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uuid.UUID{id}, svc.hardDeleted)
}

func TestHardDeleteConflictWhenNotTrashed(t *testing.T) {
	svc := &stubService{hardDelErr: errors.Conflict("article must be moved to trash before permanent deletion", nil)}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodDelete, "/api/v1/admin/articles/"+uuid.New().String()+"/permanent",
		map[string]string{"confirm": "DELETE"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBulkChangeStatus(t *testing.T) {
	svc := &stubService{}
	r := newTestRouter(svc)
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	w := doJSON(t, r, http.MethodPost, "/api/v1/admin/articles/bulk/status",
		map[string]interface{}{"ids": ids, "status": "archived"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ids, svc.bulkIDs)
	assert.Equal(t, model.ArticleStatusArchived, svc.bulkStatus)

	var resp struct {
		Data struct {
			Affected int `json:"affected"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Affected)
}

func TestBulkRequiresIDs(t *testing.T) {
	r := newTestRouter(&stubService{})
	w := doJSON(t, r, http.MethodPost, "/api/v1/admin/articles/bulk/delete",
		map[string]interface{}{"ids": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateArticle(t *testing.T) {
	svc := &stubService{}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/api/v1/admin/articles", map[string]interface{}{
		"title":   "Fresh piece",
		"content": "Body text",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateArticleValidation(t *testing.T) {
	r := newTestRouter(&stubService{})

	// Title too short for the binding rule
	w := doJSON(t, r, http.MethodPost, "/api/v1/admin/articles", map[string]interface{}{
		"title":   "ab",
		"content": "Body text",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportArticlesSetsDisposition(t *testing.T) {
	a := &model.Article{Title: "One"}
	a.ID = uuid.New()
	svc := &stubService{articles: []*model.Article{a}, total: 1}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/api/v1/admin/articles/export?format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "articles.csv")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
}
