package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunHealthChecks(t *testing.T) {
	status := RunHealthChecks(context.Background(), map[string]HealthCheck{
		"mongo": func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})

	assert.False(t, status.Healthy)
	assert.True(t, status.Services["mongo"])
	assert.False(t, status.Services["redis"])
	assert.Equal(t, status, GetHealthStatus())
}
