package batch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/require"
)

func newServiceUnderTest(t *testing.T, handler http.Handler) *OpenAIService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := openai.NewClient(
		option.WithBaseURL(server.URL),
		option.WithAPIKey("test-key"),
		option.WithMaxRetries(0),
	)
	return NewOpenAIService(&client)
}

func TestOpenAIServiceUploadFile(t *testing.T) {
	var (
		gotPurpose string
		gotContent []byte
	)

	svc := newServiceUnderTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/files", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotPurpose = r.FormValue("purpose")

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		gotContent, err = io.ReadAll(file)
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id":"file-abc123",
			"object":"file",
			"bytes":44,
			"created_at":1730366400,
			"filename":"sample.jsonl",
			"purpose":"batch",
			"status":"pending"
		}`))
	}))

	content := []byte("{\"custom_id\":\"task-0\"}\n")
	file, err := svc.UploadFile(context.Background(), "sample.jsonl", content, "batch")
	require.NoError(t, err)

	require.Equal(t, "file-abc123", file.ID)
	require.Equal(t, FileStatusPending, file.Status)
	require.Equal(t, "batch", gotPurpose)
	require.Equal(t, content, gotContent)
}

func TestOpenAIServiceCreateAndGetBatch(t *testing.T) {
	var createBody map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("/batches", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &createBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id":"batch-1",
			"object":"batch",
			"endpoint":"/chat/completions",
			"input_file_id":"file-abc123",
			"completion_window":"24h",
			"status":"validating",
			"created_at":1730366400
		}`))
	})
	mux.HandleFunc("/batches/batch-1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id":"batch-1",
			"object":"batch",
			"endpoint":"/chat/completions",
			"input_file_id":"file-abc123",
			"completion_window":"24h",
			"status":"failed",
			"error_file_id":"file-err",
			"created_at":1730366400,
			"errors":{"object":"list","data":[{"code":"invalid_request","message":"bad line"}]},
			"request_counts":{"total":2,"completed":1,"failed":1}
		}`))
	})

	svc := newServiceUnderTest(t, mux)

	job, err := svc.CreateBatch(context.Background(), "file-abc123", BatchEndpoint, CompletionWindow)
	require.NoError(t, err)
	require.Equal(t, "batch-1", job.ID)
	require.Equal(t, JobStatusValidating, job.Status)
	require.Equal(t, "file-abc123", createBody["input_file_id"])
	require.Equal(t, "/chat/completions", createBody["endpoint"])
	require.Equal(t, "24h", createBody["completion_window"])

	job, err = svc.GetBatch(context.Background(), "batch-1")
	require.NoError(t, err)
	require.Equal(t, JobStatusFailed, job.Status)
	require.Equal(t, "file-err", job.ErrorFileID)
	require.Equal(t, []JobError{{Code: "invalid_request", Message: "bad line"}}, job.Errors)
	require.Equal(t, JobCounts{Total: 2, Completed: 1, Failed: 1}, job.Counts)
}

func TestOpenAIServiceFileContent(t *testing.T) {
	const ndjson = "{\"a\":1}\n{\"b\":2}\n"

	svc := newServiceUnderTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/files/file-out/content", r.URL.Path)
		w.Header().Set("Content-Type", "application/jsonl")
		_, _ = w.Write([]byte(ndjson))
	}))

	content, err := svc.FileContent(context.Background(), "file-out")
	require.NoError(t, err)
	require.Equal(t, []byte(ndjson), content)
}
