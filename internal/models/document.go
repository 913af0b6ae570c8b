package models

// DocumentReference identifies a stored source document by bucket and object key.
type DocumentReference struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// BlockKind classifies one unit of a text detection result.
type BlockKind string

const (
	BlockKindPage BlockKind = "PAGE"
	BlockKindLine BlockKind = "LINE"
	BlockKindWord BlockKind = "WORD"
	// BlockKindOther covers every detection result the pipeline does not
	// consume. Such blocks are ignored, never rejected.
	BlockKindOther BlockKind = "OTHER"
)

// Block is one unit of a text detection result. Text is only populated for
// LINE blocks. Blocks arrive in reading order within a page, pages in page
// order.
type Block struct {
	Kind BlockKind
	Text string
}

// JobStatus is the reported state of an asynchronous text detection job.
// Any value other than IN_PROGRESS is terminal.
type JobStatus string

const (
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusSucceeded  JobStatus = "SUCCEEDED"
	JobStatusFailed     JobStatus = "FAILED"
)

// Terminal reports whether the job has stopped. Statuses outside the known
// set (e.g. PARTIAL_SUCCESS) count as terminal but not successful.
func (s JobStatus) Terminal() bool {
	return s != JobStatusInProgress
}

// DetectionPage is one page of results from a text detection job. NextToken
// is empty when no further pages exist.
type DetectionPage struct {
	Status    JobStatus
	Blocks    []Block
	NextToken string
}

// UploadTarget is a freshly issued write-once upload location.
type UploadTarget struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Link   string `json:"link"`
}
