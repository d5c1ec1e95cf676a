package api

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
	"go.uber.org/zap"

	"github.com/h0rv/prep/internal/config"
)

func createTestConfig(baseURL string) config.APIConfig {
	cfg := config.Default().API
	cfg.BaseURL = baseURL
	cfg.RequestTimeout = 2 * time.Second
	cfg.RetryBackoff = time.Millisecond
	return cfg
}

func createTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(createTestConfig(srv.URL), zap.NewNop()), srv
}

func TestClient_GetSuccess(t *testing.T) {
	var gotPath, gotReqID, gotAccept string
	client, _ := createTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotReqID = r.Header.Get("X-Request-ID")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`{"problems":[{"id":1}]}`))
	})

	out := client.Get(context.Background(), PathProblems)

	require.True(t, out.OK())
	assert.Equal(t, "/api/v1/leetcode/problems", gotPath)
	assert.Equal(t, "application/json", gotAccept)
	assert.NotEmpty(t, gotReqID)
	assert.Equal(t, gotReqID, out.RequestID)
	assert.Equal(t, http.StatusOK, out.Status)
	assert.JSONEq(t, `{"problems":[{"id":1}]}`, string(out.Payload))
}

func TestClient_StatusFailure(t *testing.T) {
	var hits atomic.Int32
	client, _ := createTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"简历不存在"}`))
	})

	out := client.Get(context.Background(), ResumePath(9))

	assert.False(t, out.OK())
	assert.Equal(t, FailureStatus, out.Class)
	assert.Equal(t, http.StatusNotFound, out.Status)
	assert.Equal(t, "简历不存在", out.Detail)
	assert.ErrorIs(t, out.Err, ErrStatus)
	assert.Nil(t, out.Payload)
	assert.Equal(t, int32(1), hits.Load(), "4xx is not retried")
}

func TestClient_GetRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	client, _ := createTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	out := client.Get(context.Background(), PathQuestions)

	assert.True(t, out.OK())
	assert.Equal(t, int32(3), hits.Load())
}

func TestClient_MutationsAreNotRetried(t *testing.T) {
	var hits atomic.Int32
	client, _ := createTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	out := client.Post(context.Background(), PathSubmissions, map[string]any{"problem_id": 1})

	assert.Equal(t, FailureStatus, out.Class)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	cfg := createTestConfig(srv.URL)
	cfg.GetRetries = 0
	srv.Close()

	client := New(cfg, zap.NewNop())
	out := client.Get(context.Background(), PathProblems)

	assert.Equal(t, FailureNetwork, out.Class)
	assert.Equal(t, 0, out.Status)
	assert.Error(t, out.Err)
}

func TestClient_CancelledContext(t *testing.T) {
	client, _ := createTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := client.Get(ctx, PathProblems)
	assert.Equal(t, FailureNetwork, out.Class)
}

func TestClient_DecodeFailure(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"plain text", "hello"},
		{"json string", `"ok"`},
		{"truncated", `{"problems":[`},
		{"empty 200", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := createTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			out := client.Get(context.Background(), PathOverview)
			assert.Equal(t, FailureDecode, out.Class)
			assert.ErrorIs(t, out.Err, ErrNotJSON)
		})
	}
}

func TestClient_PostAndPutSendJSON(t *testing.T) {
	var method, contentType string
	var body map[string]any
	client, _ := createTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"id":3}`))
	})

	out := client.Put(context.Background(), ResumePath(3), map[string]any{"title": "后端工程师"})

	require.True(t, out.OK())
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "后端工程师", body["title"])
}

func TestClient_DeleteNoContent(t *testing.T) {
	client, _ := createTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	out := client.Delete(context.Background(), ResumePath(1))
	assert.True(t, out.OK())
	assert.JSONEq(t, `{}`, string(out.Payload))
}

func TestClient_PostFormMultipart(t *testing.T) {
	var questionID, answer, audio string
	client, _ := createTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		questionID = r.FormValue("question_id")
		answer = r.FormValue("answer_text")
		if f, _, err := r.FormFile("audio_file"); err == nil {
			buf := make([]byte, 8)
			n, _ := f.Read(buf)
			audio = string(buf[:n])
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	out := client.PostForm(context.Background(), PathAnalyzeAnswer, FormPayload{
		Fields: map[string]string{"question_id": "7", "answer_text": "使用哈希表"},
		Files:  []FormFile{{Field: "audio_file", Filename: "a.wav", Content: []byte("RIFF")}},
	})

	require.True(t, out.OK())
	assert.Equal(t, "7", questionID)
	assert.Equal(t, "使用哈希表", answer)
	assert.Equal(t, "RIFF", audio)
}

func TestClient_BreakerOpens(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	cfg := createTestConfig(srv.URL)
	cfg.GetRetries = 0
	cfg.Breaker.MinRequests = 2
	cfg.Breaker.FailureRatio = 0.5
	client := New(cfg, zap.NewNop())

	assert.Equal(t, FailureStatus, client.Get(context.Background(), PathGoals).Class)
	assert.Equal(t, FailureStatus, client.Get(context.Background(), PathGoals).Class)

	out := client.Get(context.Background(), PathGoals)
	assert.Equal(t, FailureUnavailable, out.Class)
	assert.ErrorIs(t, out.Err, ErrUnavailable)
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_HealthOutsideRoot(t *testing.T) {
	var gotPath string
	client, _ := createTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	out := client.Health(context.Background())
	assert.True(t, out.OK())
	assert.Equal(t, "/health", gotPath)
}

func TestDecode(t *testing.T) {
	type exported struct {
		DownloadURL string `json:"download_url"`
	}

	v, ok := Decode[exported](Outcome{Payload: json.RawMessage(`{"download_url":"/api/x.pdf"}`)})
	assert.True(t, ok)
	assert.Equal(t, "/api/x.pdf", v.DownloadURL)

	_, ok = Decode[exported](Outcome{Class: FailureNetwork})
	assert.False(t, ok)
}

func TestOutcome_Message(t *testing.T) {
	assert.Equal(t, "", Outcome{}.Message())
	assert.Equal(t, "HTTP 500", Outcome{Class: FailureStatus, Status: 500}.Message())
	assert.Equal(t, "HTTP 404: 简历不存在", Outcome{Class: FailureStatus, Status: 404, Detail: "简历不存在"}.Message())
	assert.Equal(t, "网络错误", Outcome{Class: FailureNetwork}.Message())
}

func TestEndpoints(t *testing.T) {
	assert.Equal(t, "/leetcode/problems/42", ProblemPath(42))
	assert.Equal(t, "/resumes/3/optimize", ResumeOptimizePath(3))
	assert.Equal(t, "/resumes/3/export/pdf", ResumeExportPDFPath(3))
	assert.Equal(t, "/leetcode/sync?batch_size=50&max_problems=100", SyncPath(100, 50))
	assert.Equal(t, "/leetcode/problems", ProblemsQuery{}.Path())
	assert.Equal(t, "/leetcode/problems?difficulty=%E4%B8%AD%E7%AD%89&page_size=100", ProblemsQuery{Difficulty: "中等", PageSize: 100}.Path())
}
