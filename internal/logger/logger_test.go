package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONOutsideLocal(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Environment: "production", Level: "warn", Output: &buf})

	log.Info("dropped")
	log.WithError(errors.New("boom")).Warn("kept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "boom", line["error"])
}

func TestNew_TextLocally(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Output: &buf})

	log.Debug("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestNew_UnknownLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "loud", Output: &buf})

	log.Debug("dropped")
	log.Info("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "msg=kept")
}

func TestRequestID(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/recipes", nil)
	_, err := uuid.Parse(RequestID(r))
	assert.NoError(t, err, "generated when missing")

	r.Header.Set(RequestIDHeader, "abc")
	assert.Equal(t, "abc", RequestID(r))
}

func TestWithRequest(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Environment: "test", Output: &buf})
	r := httptest.NewRequest("POST", "/api/shopping_list", nil)

	log.WithRequest(r, "req-1").Info("request")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["req_id"])
	assert.Equal(t, "POST", line["method"])
	assert.Equal(t, "/api/shopping_list", line["path"])
}

func TestWithError_Nil(t *testing.T) {
	log := Discard()
	assert.Same(t, log.Entry, log.WithError(nil))
}
