package scheduler

import (
	"context"
	"github.com/RezaEskandarii/remindfire/custom_errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestNewQStashScheduler_RequiresToken(t *testing.T) {
	_, err := NewQStashScheduler("", "", "https://app.example.com/api/push/send")
	assert.ErrorIs(t, err, custom_errors.ErrTransportUnavailable)
}

func TestQStashScheduler_Schedule(t *testing.T) {
	var (
		gotPath, gotAuth, gotNotBefore, gotForward, gotBody string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotNotBefore = r.Header.Get("Upstash-Not-Before")
		gotForward = r.Header.Get("Upstash-Forward-Authorization")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"msg_1"}`))
	}))
	defer server.Close()

	q, err := NewQStashScheduler(server.URL+"/v2/", "qs-token", "https://app.example.com/api/push/send",
		WithCallbackSecret("cron-secret"), WithHTTPClient(server.Client()))
	require.NoError(t, err)

	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, q.Schedule(context.Background(), []byte(`{"subjectId":"s1"}`), at))

	assert.Equal(t, "/v2/publish/https://app.example.com/api/push/send", gotPath)
	assert.Equal(t, "Bearer qs-token", gotAuth)
	assert.Equal(t, "1773133200", gotNotBefore)
	assert.Equal(t, "Bearer cron-secret", gotForward)
	assert.Equal(t, `{"subjectId":"s1"}`, gotBody)
}

func TestQStashScheduler_Schedule_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("invalid token"))
	}))
	defer server.Close()

	q, err := NewQStashScheduler(server.URL, "bad", "https://app.example.com/api/push/send", WithHTTPClient(server.Client()))
	require.NoError(t, err)

	err = q.Schedule(context.Background(), []byte(`{}`), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "qstash 401: invalid token")
}

func TestLocalScheduler_Schedule_Fires(t *testing.T) {
	var mu sync.Mutex
	var got []string
	done := make(chan struct{}, 2)

	l := NewLocalScheduler(func(ctx context.Context, body []byte) {
		mu.Lock()
		got = append(got, string(body))
		mu.Unlock()
		done <- struct{}{}
	})
	defer l.Stop()

	require.NoError(t, l.Schedule(context.Background(), []byte("later"), time.Now().Add(30*time.Millisecond)))
	require.NoError(t, l.Schedule(context.Background(), []byte("past"), time.Now().Add(-time.Hour)))

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timer did not fire")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"past", "later"}, got)
}

func TestLocalScheduler_Stop_DropsPending(t *testing.T) {
	fired := make(chan struct{}, 1)
	l := NewLocalScheduler(func(ctx context.Context, body []byte) {
		fired <- struct{}{}
	})

	require.NoError(t, l.Schedule(context.Background(), []byte("x"), time.Now().Add(time.Hour)))

	assert.Equal(t, 1, l.Stop())
	assert.Equal(t, 0, l.Stop())
	assert.ErrorIs(t, l.Schedule(context.Background(), []byte("y"), time.Now()), ErrSchedulerStopped)

	select {
	case <-fired:
		t.Fatal("handler ran after stop")
	default:
	}
}
