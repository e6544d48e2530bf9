// Package batch drives an Azure OpenAI batch chat-completion job from upload
// to output retrieval. The remote service owns every record here; the driver
// only observes status transitions and reads results.
package batch

// FileStatus is the processing status of an uploaded file.
type FileStatus string

const (
	FileStatusPending   FileStatus = "pending"
	FileStatusRunning   FileStatus = "running"
	FileStatusProcessed FileStatus = "processed"
	FileStatusError     FileStatus = "error"
)

// JobStatus is the lifecycle status of a batch job.
type JobStatus string

const (
	JobStatusValidating JobStatus = "validating"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusFinalizing JobStatus = "finalizing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelling JobStatus = "cancelling"
	JobStatusCancelled  JobStatus = "cancelled"
	JobStatusExpired    JobStatus = "expired"
)

// Terminal reports whether no further transition can occur.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled, JobStatusExpired:
		return true
	}
	return false
}

// File is a snapshot of a remote uploaded-file record.
type File struct {
	ID       string     `json:"id"`
	Filename string     `json:"filename"`
	Purpose  string     `json:"purpose"`
	Bytes    int64      `json:"bytes"`
	Status   FileStatus `json:"status"`
}

// JobError is a single validation or execution error attached to a job.
type JobError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JobCounts summarises request-level progress for a job.
type JobCounts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// Job is a snapshot of a remote batch-job record.
type Job struct {
	ID           string     `json:"id"`
	Status       JobStatus  `json:"status"`
	OutputFileID string     `json:"output_file_id,omitempty"`
	ErrorFileID  string     `json:"error_file_id,omitempty"`
	Errors       []JobError `json:"errors,omitempty"`
	Counts       JobCounts  `json:"request_counts"`
}
