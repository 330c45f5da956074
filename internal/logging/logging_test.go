package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBadLevelFallsBackToInfo(t *testing.T) {
	log, err := New("not-a-real-level", true)
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestQueryLoggerDoesNotPanicOnError(t *testing.T) {
	log, err := New("debug", true)
	require.NoError(t, err)
	ql := NewQueryLogger(log, 200)
	assert.NotPanics(t, func() {
		ql.Log("SELECT 1", 5, nil)
		ql.Log("SELECT 1", 500, nil)
		ql.Log("SELECT 1", 5, errors.New("boom"))
	})
}
