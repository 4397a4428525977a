package commands

import "github.com/mark3labs/mcp-go/mcp"

func projectIDOption() mcp.ToolOption {
	return mcp.WithString("projectId", mcp.Description("TickTick project ID"))
}

func projectNameOption() mcp.ToolOption {
	return mcp.WithString("projectName",
		mcp.Description("Alternative to projectId - can specify project by name"))
}

func taskIDOption(desc string, opts ...mcp.PropertyOption) mcp.ToolOption {
	return mcp.WithString("taskId", append([]mcp.PropertyOption{mcp.Description(desc)}, opts...)...)
}

var checklistItemSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title":         map[string]any{"type": "string", "description": "Subtask title"},
		"startDate":     map[string]any{"type": "string", "description": "Start date in yyyy-MM-dd'T'HH:mm:ssZ format"},
		"isAllDay":      map[string]any{"type": "boolean", "description": "All day flag"},
		"sortOrder":     map[string]any{"type": "number", "description": "Order of subtask"},
		"timeZone":      map[string]any{"type": "string", "description": "Timezone"},
		"status":        map[string]any{"type": "number", "description": "Completion status (0: Normal, 2: Completed)"},
		"completedTime": map[string]any{"type": "string", "description": "Completion time in yyyy-MM-dd'T'HH:mm:ssZ format"},
	},
}

var taskSchema = map[string]any{
	"id":        map[string]any{"type": "string", "description": "Task ID (required for updates, not allowed for creation)"},
	"projectId": map[string]any{"type": "string", "description": "Project ID (required for new tasks, cannot be changed in updates)"},
	"title":     map[string]any{"type": "string", "description": "Task title"},
	"content":   map[string]any{"type": "string", "description": "Task content (mutually exclusive with items)"},
	"desc":      map[string]any{"type": "string", "description": "Task description"},
	"startDate": map[string]any{"type": "string", "description": "Start date in yyyy-MM-dd'T'HH:mm:ssZ format"},
	"dueDate":   map[string]any{"type": "string", "description": "Due date in yyyy-MM-dd'T'HH:mm:ssZ format"},
	"timeZone":  map[string]any{"type": "string", "description": "Timezone (e.g. America/Los_Angeles)"},
	"isAllDay":  map[string]any{"type": "boolean", "description": "All day flag"},
	"priority": map[string]any{
		"type":        "number",
		"description": "Priority (0: None, 1: Low, 3: Medium, 5: High)",
		"enum":        []int{0, 1, 3, 5},
	},
	"status": map[string]any{"type": "number", "description": "Completion status (0: Normal, 2: Completed)"},
	"items": map[string]any{
		"type":        "array",
		"description": "List of subtasks (mutually exclusive with content)",
		"items":       checklistItemSchema,
	},
	"sortOrder": map[string]any{"type": "number", "description": "The order of task"},
	"reminders": map[string]any{
		"type":        "array",
		"description": "Lists of reminders specific to the task",
		"items":       map[string]any{"type": "string"},
	},
	"repeatFlag": map[string]any{"type": "string", "description": "Recurring rules of task. Example: RRULE:FREQ=DAILY;INTERVAL=1"},
}

var projectSchema = map[string]any{
	"id":        map[string]any{"type": "string", "description": "Project ID (required for updates, not allowed for creation)"},
	"name":      map[string]any{"type": "string", "description": "Project name"},
	"color":     map[string]any{"type": "string", "description": "Project color, e.g. #F18181"},
	"sortOrder": map[string]any{"type": "number", "description": "Sort order value"},
	"viewMode": map[string]any{
		"type":        "string",
		"description": "View mode",
		"enum":        []string{"list", "kanban", "timeline"},
	},
	"kind": map[string]any{
		"type":        "string",
		"description": "Project kind",
		"enum":        []string{"TASK", "NOTE"},
	},
}

func taskDataOption(required bool) mcp.ToolOption {
	opts := []mcp.PropertyOption{
		mcp.Description("Task data for creating or updating tasks"),
		mcp.Properties(taskSchema),
	}
	if required {
		opts = append(opts, mcp.Required())
	}
	return mcp.WithObject("taskData", opts...)
}

func projectDataOption(required bool) mcp.ToolOption {
	opts := []mcp.PropertyOption{
		mcp.Description("Project data for creating or updating projects"),
		mcp.Properties(projectSchema),
	}
	if required {
		opts = append(opts, mcp.Required())
	}
	return mcp.WithObject("projectData", opts...)
}

func budgetIDOption() mcp.ToolOption {
	return mcp.WithString("budgetId", mcp.Required(), mcp.Description("The budget ID"))
}

func budgetMonthOption() mcp.ToolOption {
	return mcp.WithString("budgetMonth", mcp.Required(),
		mcp.Description("The budget month. Format: YYYY-MM-DD or `current`"))
}
