package result

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskbridge/internal/service"
)

func TestRetriable(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{400, true},
		{401, false},
		{403, true},
		{404, true},
		{429, true},
		{500, false},
		{503, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, Retriable(tt.status))
		})
	}
}

func TestFromError_APIError(t *testing.T) {
	err := fmt.Errorf("get project: %w", &service.APIError{StatusCode: 401})
	res := FromError[string]("fetch project", err)

	require.False(t, res.IsOk())
	f := res.Failure()
	assert.Equal(t, UpstreamError, f.Kind)
	assert.Equal(t, "HTTP error! status: 401", f.Message)
	assert.False(t, f.CanTryAnotherApproach)
	assert.Equal(t, 401, f.StatusCode)
}

func TestFromError_Timeout(t *testing.T) {
	res := FromError[string]("fetch projects", context.DeadlineExceeded)

	f := res.Failure()
	require.NotNil(t, f)
	assert.Equal(t, "Failed to fetch projects: context deadline exceeded", f.Message)
	assert.True(t, f.CanTryAnotherApproach)
}

func TestFail_PropagatesSameFailure(t *testing.T) {
	orig := Denied[bool]("nope")
	moved := Fail[string](orig.Failure())

	assert.Same(t, orig.Failure(), moved.Failure())
	assert.Equal(t, "", moved.Data())
}

func TestMarshalJSON(t *testing.T) {
	b, err := json.Marshal(Ok("abc"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":"abc"}`, string(b))

	b, err = json.Marshal(Err[string](NotFound, "Project not found: x", false))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"Project not found: x","canTryAnotherApproach":false}`, string(b))
}

func TestAny(t *testing.T) {
	res := Ok(42).Any()
	assert.True(t, res.IsOk())
	assert.Equal(t, 42, res.Data())

	failed := Validation[int]("taskId is required").Any()
	assert.Equal(t, ValidationError, failed.Failure().Kind)
	assert.True(t, failed.Failure().CanTryAnotherApproach)
}
