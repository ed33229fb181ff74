package project_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/Narendra1431-dot/Portfolio-web-development/internal/project"
	"github.com/Narendra1431-dot/Portfolio-web-development/internal/store"
	"github.com/Narendra1431-dot/Portfolio-web-development/testing/testdb"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
}

func setupRouter(t *testing.T, repo project.Repository) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	handler := project.NewHandler(project.NewService(repo), logger, nil)
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func get(t *testing.T, router http.Handler, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func strPtr(s string) *string { return &s }

// seedProjects inserts n projects with created_at one minute apart, oldest
// first. Every project whose index satisfies featured(i) is featured.
func seedProjects(t *testing.T, st *store.Store, n int, featured func(i int) bool) []project.Project {
	t.Helper()
	base := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

	projects := make([]project.Project, n)
	for i := range projects {
		projects[i] = project.Project{
			Title:        fmt.Sprintf("Project %d", i+1),
			Description:  fmt.Sprintf("Description %d", i+1),
			TechStackRaw: "Go, Rust, C++",
			Featured:     featured(i),
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
			UpdatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
	}
	_, err := st.DB().NewInsert().Model(&projects).Exec(context.Background())
	require.NoError(t, err)
	return projects
}

func TestProjectsHandler(t *testing.T) {
	t.Run("All", func(t *testing.T) {
		st := testdb.NewSQLite(t, project.Table)
		seedProjects(t, st, 3, func(i int) bool { return i == 0 })
		router := setupRouter(t, project.NewRepository(st))

		w, env := get(t, router, "/api/projects?action=all")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, "success", env.Status)
		assert.Equal(t, project.MsgAllRetrieved, env.Message)
		require.NotNil(t, env.Count)
		assert.Equal(t, 3, *env.Count)

		var projects []project.Project
		require.NoError(t, json.Unmarshal(env.Data, &projects))
		require.Len(t, projects, 3)
		assert.Equal(t, "Project 3", projects[0].Title)
		assert.Equal(t, "Project 1", projects[2].Title)
		assert.Equal(t, []string{"Go", "Rust", "C++"}, projects[0].TechStack)
	})

	t.Run("FeaturedCappedAndFiltered", func(t *testing.T) {
		st := testdb.NewSQLite(t, project.Table)
		// 8 featured, 4 not featured, interleaved.
		seedProjects(t, st, 12, func(i int) bool { return i%3 != 2 })
		router := setupRouter(t, project.NewRepository(st))

		w, env := get(t, router, "/api/projects?action=featured")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, project.MsgFeaturedRetrieved, env.Message)
		require.NotNil(t, env.Count)
		assert.Equal(t, project.FeaturedLimit, *env.Count)

		var projects []project.Project
		require.NoError(t, json.Unmarshal(env.Data, &projects))
		require.Len(t, projects, project.FeaturedLimit)
		for i, p := range projects {
			assert.True(t, p.Featured, p.Title)
			if i > 0 {
				assert.True(t, projects[i-1].CreatedAt.After(p.CreatedAt), "newest first")
			}
		}
		// Index 11 is not featured.
		assert.Equal(t, "Project 11", projects[0].Title)
	})

	t.Run("DefaultAndUnknownActionAreFeatured", func(t *testing.T) {
		st := testdb.NewSQLite(t, project.Table)
		seedProjects(t, st, 2, func(i int) bool { return i == 1 })
		router := setupRouter(t, project.NewRepository(st))

		for _, target := range []string{"/api/projects", "/api/projects?action=unknown"} {
			w, env := get(t, router, target)
			assert.Equal(t, http.StatusOK, w.Code, target)
			assert.Equal(t, project.MsgFeaturedRetrieved, env.Message, target)
			require.NotNil(t, env.Count)
			assert.Equal(t, 1, *env.Count, target)
		}
	})

	t.Run("BulkInsertKeepsFeaturedFlag", func(t *testing.T) {
		st := testdb.NewSQLite(t, project.Table)
		// The first row of the statement is not featured.
		seedProjects(t, st, 2, func(i int) bool { return i == 1 })

		var featured int
		err := st.DB().NewSelect().Table("projects").ColumnExpr("count(*)").Where("featured = ?", true).Scan(context.Background(), &featured)
		require.NoError(t, err)
		assert.Equal(t, 1, featured)
	})

	t.Run("EmptyListEncodesArray", func(t *testing.T) {
		st := testdb.NewSQLite(t, project.Table)
		router := setupRouter(t, project.NewRepository(st))

		_, env := get(t, router, "/api/projects?action=all")
		assert.JSONEq(t, `[]`, string(env.Data))
		require.NotNil(t, env.Count)
		assert.Equal(t, 0, *env.Count)
	})

	t.Run("Detail", func(t *testing.T) {
		st := testdb.NewSQLite(t, project.Table)
		start := project.NewDate(2023, time.May, 1)
		p := project.Project{
			Title:        "Portfolio",
			Description:  "Personal site",
			TechStackRaw: "HTML5, CSS3",
			URL:          strPtr("https://example.com"),
			StartDate:    &start,
			Featured:     true,
		}
		_, err := st.DB().NewInsert().Model(&p).Exec(context.Background())
		require.NoError(t, err)
		router := setupRouter(t, project.NewRepository(st))

		w, env := get(t, router, fmt.Sprintf("/api/projects?action=detail&id=%d", p.ID))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, project.MsgDetailRetrieved, env.Message)
		assert.Nil(t, env.Count)

		var data map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "Portfolio", data["title"])
		assert.Equal(t, []any{"HTML5", "CSS3"}, data["tech_stack"])
		assert.Equal(t, "https://example.com", data["url"])
		assert.Nil(t, data["github_url"])
		assert.Equal(t, "2023-05-01", data["start_date"])
		assert.Nil(t, data["end_date"])
		assert.Equal(t, true, data["featured"])
		assert.NotContains(t, data, "TechStackRaw")
	})

	t.Run("DetailNotFound", func(t *testing.T) {
		st := testdb.NewSQLite(t, project.Table)
		router := setupRouter(t, project.NewRepository(st))

		w, env := get(t, router, "/api/projects?action=detail&id=999")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "error", env.Status)
		assert.Equal(t, project.MsgNotFound, env.Message)
	})

	t.Run("NonGetRejected", func(t *testing.T) {
		st := testdb.NewSQLite(t, project.Table)
		router := setupRouter(t, project.NewRepository(st))

		req := httptest.NewRequest(http.MethodPost, "/api/projects?action=all", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"status":"error","message":"Invalid request method"}`, w.Body.String())
	})

	t.Run("QueryFailure", func(t *testing.T) {
		// No projects table.
		st := testdb.NewSQLite(t)
		router := setupRouter(t, project.NewRepository(st))

		w, env := get(t, router, "/api/projects?action=all")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "error", env.Status)
		assert.Contains(t, env.Message, "Database query failed: ")
		assert.Contains(t, env.Message, "no such table")
		assert.NotContains(t, env.Message, "store execute")
	})
}

type countingRepository struct {
	calls int
}

func (r *countingRepository) GetAll(ctx context.Context) ([]project.Project, error) {
	r.calls++
	return nil, nil
}

func (r *countingRepository) GetFeatured(ctx context.Context, limit int) ([]project.Project, error) {
	r.calls++
	return nil, nil
}

func (r *countingRepository) GetByID(ctx context.Context, id int64) (*project.Project, error) {
	r.calls++
	return nil, project.ErrProjectNotFound
}

func TestDetailInvalidIDSkipsStorage(t *testing.T) {
	repo := &countingRepository{}
	router := setupRouter(t, repo)

	for _, id := range []string{"abc", "", "0", "-3", "1.5", "12abc"} {
		w, env := get(t, router, "/api/projects?action=detail&id="+id)
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
		assert.Equal(t, project.MsgInvalidID, env.Message, id)
	}
	_, env := get(t, router, "/api/projects?action=detail")
	assert.Equal(t, project.MsgInvalidID, env.Message)

	assert.Zero(t, repo.calls)
}

func TestServiceRejectsNonPositiveID(t *testing.T) {
	repo := &countingRepository{}
	svc := project.NewService(repo)

	_, err := svc.GetProjectByID(context.Background(), 0)
	assert.ErrorIs(t, err, project.ErrInvalidInput)
	assert.Zero(t, repo.calls)

	_, err = svc.GetProjectByID(context.Background(), 7)
	assert.ErrorIs(t, err, project.ErrProjectNotFound)
	assert.Equal(t, 1, repo.calls)
}
