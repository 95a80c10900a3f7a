package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dataclean/internal/shared/testutil"
)

func TestHealthService_HealthCheck(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		withNil  bool
		expected int
	}{
		{"with store", 3, false, 3},
		{"without store", 0, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)

			var hs *HealthService
			if tt.withNil {
				hs = NewHealthService("1.2.3", nil, logger)
			} else {
				store := &MockStore{}
				store.On("Count").Return(tt.count)
				hs = NewHealthService("1.2.3", store, logger)
				defer store.AssertExpectations(t)
			}

			before := time.Now().UTC()
			status := hs.HealthCheck(context.Background())

			assert.Equal(t, "ok", status.Status)
			assert.Equal(t, "1.2.3", status.Version)
			assert.Equal(t, tt.expected, status.Datasets)
			assert.NotEmpty(t, status.Uptime)
			assert.False(t, status.Timestamp.Before(before.Add(-time.Second)))
		})
	}
}

func TestHealthService_Version(t *testing.T) {
	hs := NewHealthService("1.2.3", nil, nil)

	info := hs.Version()
	assert.Equal(t, "1.2.3", info["version"])
	for _, key := range []string{"api_version", "go_version", "os", "arch", "uptime", "start_time"} {
		assert.Contains(t, info, key)
	}
}
