package ticktick

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskbridge/internal/config"
	"taskbridge/internal/service"
)

type call struct {
	method string
	path   string
	body   map[string]any
}

func newServer(t *testing.T, routes map[string]string) (*Client, *[]call) {
	t.Helper()
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		c := call{method: r.Method, path: r.URL.Path}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&c.body)
		}
		calls = append(calls, c)

		resp, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)
	return NewWithHTTPClient(srv.URL, "key", srv.Client()), &calls
}

func TestNew_RequiresAccessKey(t *testing.T) {
	cfg, _ := config.New(t.TempDir())
	_, err := New(cfg, nil)
	assert.Error(t, err)

	cfg.TickTick.AccessKey = "key"
	c, err := New(cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestListProjects(t *testing.T) {
	c, _ := newServer(t, map[string]string{
		"GET /project": `[{"id":"p1","name":"Work","sortOrder":-5},{"id":"p2","name":"Home","sortOrder":3}]`,
	})

	projects, err := c.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Work", projects[0].Name)
	assert.Equal(t, int64(-5), projects[0].SortOrder)
}

func TestProjectData(t *testing.T) {
	c, _ := newServer(t, map[string]string{
		"GET /project/p1/data": `{"project":{"id":"p1","name":"Work"},"tasks":[{"id":"t1","projectId":"p1","title":"Ship","status":0,"completedTime":1735689599000}],"columns":[]}`,
	})

	data, err := c.ProjectData(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Work", data.Project.Name)
	require.Len(t, data.Tasks, 1)
	assert.Equal(t, service.Timestamp("2024-12-31T23:59:59.000Z"), data.Tasks[0].CompletedTime)

	tasks, err := c.ListProjectTasks(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "t1", tasks[0].ID)
}

func TestProjectData_NoTasks(t *testing.T) {
	c, _ := newServer(t, map[string]string{
		"GET /project/p1/data": `{"project":{"id":"p1","name":"Work"}}`,
	})

	data, err := c.ProjectData(context.Background(), "p1")
	require.NoError(t, err)
	assert.NotNil(t, data.Tasks)
	assert.Empty(t, data.Tasks)
}

func TestWrites(t *testing.T) {
	c, calls := newServer(t, map[string]string{
		"POST /project":                     `{"id":"p9","name":"New"}`,
		"POST /project/p9":                  `{"id":"p9","name":"Renamed"}`,
		"DELETE /project/p9":                ``,
		"POST /task":                        `{"id":"t1","projectId":"p9","title":"Buy milk"}`,
		"POST /task/t1":                     `{"id":"t1","projectId":"p9","title":"Buy oat milk"}`,
		"POST /project/p9/task/t1/complete": ``,
		"DELETE /project/p9/task/t1":        ``,
	})
	ctx := context.Background()

	p, err := c.CreateProject(ctx, service.Project{Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, "p9", p.ID)

	p, err = c.UpdateProject(ctx, service.Project{ID: "p9", Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.Name)

	task, err := c.CreateTask(ctx, service.Task{ProjectID: "p9", Title: "Buy milk"})
	require.NoError(t, err)
	assert.Equal(t, "t1", task.ID)

	task, err = c.UpdateTask(ctx, service.Task{ID: "t1", ProjectID: "p9", Title: "Buy oat milk"})
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", task.Title)

	require.NoError(t, c.CompleteTask(ctx, "p9", "t1"))
	require.NoError(t, c.DeleteTask(ctx, "p9", "t1"))
	require.NoError(t, c.DeleteProject(ctx, "p9"))

	require.Len(t, *calls, 7)
	assert.Equal(t, "New", (*calls)[0].body["name"])
	assert.Equal(t, "p9", (*calls)[2].body["projectId"])
}

func TestAPIError(t *testing.T) {
	c, _ := newServer(t, map[string]string{})

	_, err := c.GetProject(context.Background(), "missing")
	var apiErr *service.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
