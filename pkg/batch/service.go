package batch

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/openai/openai-go"
)

// Service abstracts the remote file and batch endpoints so the driver can be
// exercised against a scripted fake in tests.
type Service interface {
	UploadFile(ctx context.Context, filename string, content []byte, purpose string) (File, error)
	GetFile(ctx context.Context, id string) (File, error)
	FileContent(ctx context.Context, id string) ([]byte, error)
	CreateBatch(ctx context.Context, inputFileID, endpoint, window string) (Job, error)
	GetBatch(ctx context.Context, id string) (Job, error)
}

// OpenAIService implements Service on top of the OpenAI SDK client.
type OpenAIService struct {
	client *openai.Client
}

// NewOpenAIService wraps an SDK client, typically one routed at an Azure endpoint.
func NewOpenAIService(client *openai.Client) *OpenAIService {
	return &OpenAIService{client: client}
}

// UploadFile sends the raw bytes unchanged; the remote service validates content.
func (s *OpenAIService) UploadFile(ctx context.Context, filename string, content []byte, purpose string) (File, error) {
	file, err := s.client.Files.New(ctx, openai.FileNewParams{
		File:    openai.File(bytes.NewReader(content), filename, "application/jsonl"),
		Purpose: openai.FilePurpose(purpose),
	})
	if err != nil {
		return File{}, err
	}
	return convertFile(file), nil
}

func (s *OpenAIService) GetFile(ctx context.Context, id string) (File, error) {
	file, err := s.client.Files.Get(ctx, id)
	if err != nil {
		return File{}, err
	}
	return convertFile(file), nil
}

func (s *OpenAIService) FileContent(ctx context.Context, id string) ([]byte, error) {
	resp, err := s.client.Files.Content(ctx, id)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file %s content: %w", id, err)
	}
	return data, nil
}

func (s *OpenAIService) CreateBatch(ctx context.Context, inputFileID, endpoint, window string) (Job, error) {
	job, err := s.client.Batches.New(ctx, openai.BatchNewParams{
		InputFileID:      inputFileID,
		Endpoint:         openai.BatchNewParamsEndpoint(endpoint),
		CompletionWindow: openai.BatchNewParamsCompletionWindow(window),
	})
	if err != nil {
		return Job{}, err
	}
	return convertJob(job), nil
}

func (s *OpenAIService) GetBatch(ctx context.Context, id string) (Job, error) {
	job, err := s.client.Batches.Get(ctx, id)
	if err != nil {
		return Job{}, err
	}
	return convertJob(job), nil
}

func convertFile(file *openai.FileObject) File {
	if file == nil {
		return File{}
	}
	return File{
		ID:       file.ID,
		Filename: file.Filename,
		Purpose:  string(file.Purpose),
		Bytes:    file.Bytes,
		Status:   FileStatus(file.Status),
	}
}

func convertJob(job *openai.Batch) Job {
	if job == nil {
		return Job{}
	}
	result := Job{
		ID:           job.ID,
		Status:       JobStatus(job.Status),
		OutputFileID: job.OutputFileID,
		ErrorFileID:  job.ErrorFileID,
		Counts: JobCounts{
			Total:     int(job.RequestCounts.Total),
			Completed: int(job.RequestCounts.Completed),
			Failed:    int(job.RequestCounts.Failed),
		},
	}
	for _, e := range job.Errors.Data {
		result.Errors = append(result.Errors, JobError{
			Code:    e.Code,
			Message: e.Message,
		})
	}
	return result
}
