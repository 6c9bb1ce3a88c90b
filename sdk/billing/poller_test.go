package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type billingServer struct {
	confirmCalls atomic.Int32
	pollCalls    atomic.Int32

	// subscriptionAt returns the payload for a given poll attempt.
	subscriptionAt func(attempt int32) Subscription
}

func (s *billingServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /billing/confirm", func(w http.ResponseWriter, r *http.Request) {
		s.confirmCalls.Add(1)
		json.NewEncoder(w).Encode(apiResponse{Success: true})
	})
	mux.HandleFunc("GET /subscriptions/me", func(w http.ResponseWriter, r *http.Request) {
		attempt := s.pollCalls.Add(1)
		json.NewEncoder(w).Encode(apiResponse{
			Success: true,
			Data:    s.subscriptionAt(attempt),
		})
	})
	return mux
}

func fastConfig() PollerConfig {
	return PollerConfig{Attempts: 4, Interval: 5 * time.Millisecond}
}

func TestConfirmAndPoll_SubscriptionVisibleAfterDelay(t *testing.T) {
	server := &billingServer{
		subscriptionAt: func(attempt int32) Subscription {
			if attempt < 3 {
				// Webhook has not landed yet: still the virtual default.
				return Subscription{Plan: "free", Status: "active", Virtual: true}
			}
			return Subscription{ID: 1, Plan: "pro", Status: "active"}
		},
	}
	ts := httptest.NewServer(server.handler())
	defer ts.Close()

	client := NewClient(ts.URL, "token")
	sub, err := client.ConfirmAndPoll(context.Background(), "cs_123", "pro", fastConfig())

	require.NoError(t, err)
	assert.Equal(t, "pro", sub.Plan)
	assert.Equal(t, int32(1), server.confirmCalls.Load())
	assert.Equal(t, int32(3), server.pollCalls.Load())
}

func TestConfirmAndPoll_AnyPaidPlanCounts(t *testing.T) {
	server := &billingServer{
		subscriptionAt: func(attempt int32) Subscription {
			return Subscription{ID: 1, Plan: "ultimate", Status: "active"}
		},
	}
	ts := httptest.NewServer(server.handler())
	defer ts.Close()

	client := NewClient(ts.URL, "token")
	sub, err := client.ConfirmAndPoll(context.Background(), "cs_123", "pro", fastConfig())

	require.NoError(t, err)
	assert.Equal(t, "ultimate", sub.Plan)
}

func TestConfirmAndPoll_PropagationDelayed(t *testing.T) {
	server := &billingServer{
		subscriptionAt: func(attempt int32) Subscription {
			return Subscription{Plan: "free", Status: "active", Virtual: true}
		},
	}
	ts := httptest.NewServer(server.handler())
	defer ts.Close()

	client := NewClient(ts.URL, "token")
	_, err := client.ConfirmAndPoll(context.Background(), "cs_123", "pro", fastConfig())

	assert.ErrorIs(t, err, ErrPropagationDelayed)
	assert.Equal(t, int32(4), server.pollCalls.Load())
}

func TestConfirmAndPoll_ContextCancellation(t *testing.T) {
	server := &billingServer{
		subscriptionAt: func(attempt int32) Subscription {
			return Subscription{Plan: "free", Status: "active", Virtual: true}
		},
	}
	ts := httptest.NewServer(server.handler())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(ts.URL, "token")
	_, err := client.ConfirmAndPoll(ctx, "cs_123", "pro", PollerConfig{Attempts: 5, Interval: time.Minute})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfirmAndPoll_PollIsAuthorityOverConfirm(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /billing/confirm", func(w http.ResponseWriter, r *http.Request) {
		// The webhook already reconciled this session for another request.
		http.Error(w, "forbidden", http.StatusForbidden)
	})
	mux.HandleFunc("GET /subscriptions/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(apiResponse{
			Success: true,
			Data:    Subscription{ID: 1, Plan: "pro", Status: "active"},
		})
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	client := NewClient(ts.URL, "token")
	sub, err := client.ConfirmAndPoll(context.Background(), "cs_123", "pro", fastConfig())

	require.NoError(t, err)
	assert.Equal(t, "pro", sub.Plan)
}
