package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pawnshop-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushSendsExpectedBody(t *testing.T) {
	var got pushRequest
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewLineClient("token-123", "U-recipient")
	c.pushURL = srv.URL

	c.Push(context.Background(), "hello")

	assert.Equal(t, "Bearer token-123", auth)
	assert.Equal(t, "U-recipient", got.To)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "text", got.Messages[0].Type)
	assert.Equal(t, "hello", got.Messages[0].Text)
}

func TestPushSwallowsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewLineClient("bad-token", "U-recipient")
	c.pushURL = srv.URL

	// Must not panic or surface the failure
	c.Push(context.Background(), "hello")
}

func TestPushDisabledWithoutCredentials(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewLineClient("", "")
	c.pushURL = srv.URL

	assert.False(t, c.Enabled())
	c.Push(context.Background(), "hello")
	assert.False(t, called)
}

func TestContractCreatedMessage(t *testing.T) {
	msg := ContractCreatedMessage(&models.ContractCreatedEvent{
		ContractNumber: "CN0001",
		CustomerName:   "Somchai Jaidee",
		ProductName:    "iPhone 15",
		PawnAmount:     50000,
		EndDate:        "2024-01-31",
	})

	assert.Contains(t, msg, "CN0001")
	assert.Contains(t, msg, "Somchai Jaidee")
	assert.Contains(t, msg, "iPhone 15")
	assert.Contains(t, msg, "50000.00")
	assert.Contains(t, msg, "2024-01-31")
}

func TestContractForfeitedMessage(t *testing.T) {
	msg := ContractForfeitedMessage(&models.ContractForfeitedEvent{
		ContractNumber: "CN0002",
		EndDate:        "2024-01-15",
		OverdueDays:    17,
	})

	assert.Contains(t, msg, "CN0002")
	assert.Contains(t, msg, "overdue")
	assert.Contains(t, msg, "17")
}
