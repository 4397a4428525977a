package output_test

import (
	"bytes"
	"testing"

	"taskbridge/internal/output"
	"taskbridge/internal/result"
	"taskbridge/internal/service"
	"taskbridge/internal/testutil"
	"taskbridge/internal/ynab"
)

func TestText_Projects(t *testing.T) {
	var buf bytes.Buffer
	err := output.Text(&buf, []service.Project{
		{ID: "w1", Name: "Work"},
		{ID: "h1", Name: "  ", Closed: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.Golden(t, "text_projects", buf.Bytes())
}

func TestText_ProjectData(t *testing.T) {
	var buf bytes.Buffer
	err := output.Text(&buf, service.ProjectData{
		Project: service.Project{ID: "w1", Name: "Work"},
		Tasks: []service.Task{
			{ID: "t1", Title: "Buy milk"},
			{ID: "t2"},
			{ID: "t3", Title: "Pack\nbags", Items: []service.ChecklistItem{
				{Title: "socks", Status: service.StatusCompleted},
				{Title: "shirts"},
			}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.Golden(t, "text_project_data", buf.Bytes())
}

func TestText_EmptyProject(t *testing.T) {
	var buf bytes.Buffer
	if err := output.Text(&buf, service.ProjectData{Project: service.Project{Name: "Someday"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "------------\nSomeday\n------------\nno tasks found\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestText_String(t *testing.T) {
	var buf bytes.Buffer
	if err := output.Text(&buf, "Task t1 deleted"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "Task t1 deleted\n" {
		t.Errorf("expected message line, got %q", buf.String())
	}
}

func TestText_FallbackJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := output.Text(&buf, map[string]int{"count": 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "{\n  \"count\": 2\n}\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestText_BudgetsFallBackToJSON(t *testing.T) {
	list := ynab.BudgetList{Budgets: []ynab.BudgetSummary{{ID: "b1", Name: "Household"}}}

	var buf bytes.Buffer
	if err := output.Text(&buf, list); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.GoldenJSON(t, "text_budgets", list)
	testutil.Golden(t, "text_budgets", buf.Bytes())
}

func TestJSON_Ok(t *testing.T) {
	var buf bytes.Buffer
	if err := output.JSON(&buf, result.Ok[any]("Task t1 completed")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.Golden(t, "json_ok", buf.Bytes())
}

func TestJSON_Failure(t *testing.T) {
	var buf bytes.Buffer
	res := result.Err[any](result.NotFound, "Project not found: Garden", true)
	if err := output.JSON(&buf, res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.Golden(t, "json_failure", buf.Bytes())
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	output.Error(&buf, &result.Failure{Message: "taskId is required"})
	if buf.String() != "error: taskId is required\n" {
		t.Errorf("expected error line, got %q", buf.String())
	}
}

func TestFormatCommand(t *testing.T) {
	var buf bytes.Buffer
	output.FormatCommand(&buf, "get_projects", "List all projects")
	expected := "  get_projects                    List all projects\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{"json", "text"} {
		if !output.ValidFormat(f) {
			t.Errorf("expected %q to be valid", f)
		}
	}
	if output.ValidFormat("yaml") {
		t.Error("expected yaml to be invalid")
	}
}
