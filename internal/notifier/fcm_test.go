package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFCMNotifier_Send(t *testing.T) {
	var got fcmMessage
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":1,"failure":0,"results":[{"message_id":"m-1"}]}`))
	}))
	defer server.Close()

	n := NewFCMNotifier(server.URL, "secret", time.Second, zap.NewNop())
	err := n.Send(context.Background(), "There are bad guardians", "Bori bit someone!", "device-1")
	require.NoError(t, err)

	assert.Equal(t, "key=secret", auth)
	assert.Equal(t, "device-1", got.To)
	assert.Equal(t, "There are bad guardians", got.Notification.Title)
	assert.Equal(t, "Bori bit someone!", got.Notification.Body)
}

func TestFCMNotifier_EmptyToken(t *testing.T) {
	n := NewFCMNotifier("http://127.0.0.1:1", "secret", time.Second, zap.NewNop())
	err := n.Send(context.Background(), "t", "b", "")
	assert.True(t, errors.Is(err, ErrNoToken))
}

func TestFCMNotifier_HTTPErrorNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := NewFCMNotifier(server.URL, "secret", time.Second, zap.NewNop())
	err := n.Send(context.Background(), "t", "b", "device-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFCMNotifier_RejectedMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":0,"failure":1,"results":[{"error":"NotRegistered"}]}`))
	}))
	defer server.Close()

	n := NewFCMNotifier(server.URL, "secret", time.Second, zap.NewNop())
	err := n.Send(context.Background(), "t", "b", "device-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NotRegistered")
}
