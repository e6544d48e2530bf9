package batch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"aoai-tools/pkg/aoai"
)

// Fixed parameters of the batch endpoint. The service rejects other values
// for chat-completion batches, so neither is configurable per call.
const (
	UploadPurpose    = "batch"
	BatchEndpoint    = "/chat/completions"
	CompletionWindow = "24h"
)

const (
	defaultFileInterval  = 30 * time.Second
	defaultBatchInterval = 5 * time.Second
)

// Driver runs the upload → poll → submit → poll → fetch sequence against a Service.
type Driver struct {
	svc         Service
	logger      aoai.Logger
	out         io.Writer
	filePoller  *Poller
	batchPoller *Poller
}

// DriverOption configures optional driver behaviour.
type DriverOption func(*driverOptions)

type driverOptions struct {
	logger      aoai.Logger
	out         io.Writer
	sleep       SleepFunc
	filePolicy  *PollPolicy
	batchPolicy *PollPolicy
}

// WithDriverLogger injects a custom logger implementation.
func WithDriverLogger(logger aoai.Logger) DriverOption {
	return func(opts *driverOptions) {
		opts.logger = logger
	}
}

// WithOutput redirects record printing away from standard output.
func WithOutput(w io.Writer) DriverOption {
	return func(opts *driverOptions) {
		opts.out = w
	}
}

// WithSleep replaces the poll sleep function, enabling tests without real waits.
func WithSleep(sleep SleepFunc) DriverOption {
	return func(opts *driverOptions) {
		opts.sleep = sleep
	}
}

// WithFilePollPolicy overrides the file-processing poll policy.
func WithFilePollPolicy(policy PollPolicy) DriverOption {
	return func(opts *driverOptions) {
		opts.filePolicy = &policy
	}
}

// WithBatchPollPolicy overrides the batch-status poll policy.
func WithBatchPollPolicy(policy PollPolicy) DriverOption {
	return func(opts *driverOptions) {
		opts.batchPolicy = &policy
	}
}

// NewDriver constructs a driver with the service's historical poll cadence:
// 30s for file processing, 5s for batch status, both uncapped.
func NewDriver(svc Service, opts ...DriverOption) *Driver {
	optState := driverOptions{}
	for _, opt := range opts {
		opt(&optState)
	}

	logger := optState.logger
	if logger == nil {
		logger = aoai.NewLogger("info")
	}
	out := optState.out
	if out == nil {
		out = os.Stdout
	}
	filePolicy := PollPolicy{Interval: defaultFileInterval}
	if optState.filePolicy != nil {
		filePolicy = *optState.filePolicy
	}
	batchPolicy := PollPolicy{Interval: defaultBatchInterval}
	if optState.batchPolicy != nil {
		batchPolicy = *optState.batchPolicy
	}

	return &Driver{
		svc:         svc,
		logger:      logger,
		out:         out,
		filePoller:  NewPoller(filePolicy, optState.sleep),
		batchPoller: NewPoller(batchPolicy, optState.sleep),
	}
}

// Run executes the full batch sequence for the input file at path.
func (d *Driver) Run(ctx context.Context, path string) error {
	fileID, err := d.SubmitFile(ctx, path)
	if err != nil {
		return err
	}
	if err := d.AwaitFileProcessed(ctx, fileID); err != nil {
		return err
	}
	batchID, err := d.SubmitBatch(ctx, fileID)
	if err != nil {
		return err
	}
	job, err := d.AwaitBatchTerminal(ctx, batchID)
	if err != nil {
		return err
	}
	return d.FetchOutput(ctx, job)
}

// SubmitFile uploads the newline-delimited-JSON file at path with purpose
// "batch" and returns the service-assigned file id unchanged. The content is
// not validated locally; malformed lines are rejected remotely.
func (d *Driver) SubmitFile(ctx context.Context, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", aoai.E(aoai.KindUpload, "batch.SubmitFile", fmt.Errorf("read input %s: %w", path, err))
	}

	file, err := d.svc.UploadFile(ctx, filepath.Base(path), content, UploadPurpose)
	if err != nil {
		return "", aoai.E(aoai.KindUpload, "batch.SubmitFile", err)
	}

	d.logger.Info(ctx, "input file uploaded", aoai.Fields{
		"file_id": file.ID,
		"bytes":   file.Bytes,
		"status":  file.Status,
	})
	return file.ID, nil
}

// AwaitFileProcessed polls the file status until it reaches "processed".
// A file that lands in "error" fails immediately rather than polling forever.
func (d *Driver) AwaitFileProcessed(ctx context.Context, fileID string) error {
	err := d.filePoller.Poll(ctx, func(ctx context.Context) (bool, error) {
		file, err := d.svc.GetFile(ctx, fileID)
		if err != nil {
			return false, aoai.E(aoai.KindUpload, "batch.AwaitFileProcessed", err)
		}
		d.logger.Info(ctx, "file status", aoai.Fields{
			"file_id": fileID,
			"status":  file.Status,
		})
		if file.Status == FileStatusError {
			return false, aoai.E(aoai.KindUpload, "batch.AwaitFileProcessed",
				fmt.Errorf("file %s failed remote processing", fileID))
		}
		return file.Status == FileStatusProcessed, nil
	})
	if err == ErrPollExhausted {
		return aoai.E(aoai.KindPollTimeout, "batch.AwaitFileProcessed",
			fmt.Errorf("file %s not processed within poll budget", fileID))
	}
	return err
}

// SubmitBatch creates the batch job exactly once, bound to the fixed
// chat-completions endpoint and 24-hour completion window.
func (d *Driver) SubmitBatch(ctx context.Context, fileID string) (string, error) {
	job, err := d.svc.CreateBatch(ctx, fileID, BatchEndpoint, CompletionWindow)
	if err != nil {
		return "", aoai.E(aoai.KindSubmission, "batch.SubmitBatch", err)
	}
	d.logger.Info(ctx, "batch job submitted", aoai.Fields{
		"batch_id":      job.ID,
		"input_file_id": fileID,
		"status":        job.Status,
	})
	return job.ID, nil
}

// AwaitBatchTerminal polls the job until it reaches a terminal status and
// returns the final snapshot. Polling stops unconditionally on the first
// terminal observation; a failed job has its error records logged first.
func (d *Driver) AwaitBatchTerminal(ctx context.Context, batchID string) (Job, error) {
	var job Job
	err := d.batchPoller.Poll(ctx, func(ctx context.Context) (bool, error) {
		snapshot, err := d.svc.GetBatch(ctx, batchID)
		if err != nil {
			return false, aoai.E(aoai.KindSubmission, "batch.AwaitBatchTerminal", err)
		}
		job = snapshot
		d.logger.Info(ctx, "batch status", aoai.Fields{
			"batch_id":  batchID,
			"status":    job.Status,
			"completed": job.Counts.Completed,
			"failed":    job.Counts.Failed,
			"total":     job.Counts.Total,
		})
		if job.Status == JobStatusFailed {
			for _, jobErr := range job.Errors {
				d.logger.Error(ctx, fmt.Errorf("batch error %s: %s", jobErr.Code, jobErr.Message), aoai.Fields{
					"batch_id": batchID,
				})
			}
		}
		return job.Status.Terminal(), nil
	})
	if err == ErrPollExhausted {
		return Job{}, aoai.E(aoai.KindPollTimeout, "batch.AwaitBatchTerminal",
			fmt.Errorf("batch %s not terminal within poll budget", batchID))
	}
	if err != nil {
		return Job{}, err
	}
	return job, nil
}

// FetchOutput retrieves the job's output file, falling back to the error file
// when no output was produced, and pretty-prints every record in order. A job
// with neither file prints nothing.
func (d *Driver) FetchOutput(ctx context.Context, job Job) error {
	fileID := job.OutputFileID
	if fileID == "" {
		fileID = job.ErrorFileID
	}
	if fileID == "" {
		d.logger.Info(ctx, "batch produced no output or error file", aoai.Fields{
			"batch_id": job.ID,
			"status":   job.Status,
		})
		return nil
	}

	content, err := d.svc.FileContent(ctx, fileID)
	if err != nil {
		return aoai.E(aoai.KindRetrieval, "batch.FetchOutput", err)
	}
	if err := printRecords(d.out, content); err != nil {
		return aoai.E(aoai.KindRetrieval, "batch.FetchOutput", err)
	}
	return nil
}

// printRecords re-indents each newline-delimited JSON record independently,
// preserving record order and key order within records.
func printRecords(w io.Writer, content []byte) error {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, raw, "", "  "); err != nil {
			return fmt.Errorf("parse output record at line %d: %w", line, err)
		}
		if _, err := fmt.Fprintln(w, pretty.String()); err != nil {
			return err
		}
	}
	return scanner.Err()
}
