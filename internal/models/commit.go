package models

// ErrorKind classifies a failed GitHub operation.
type ErrorKind string

const (
	ErrorKindNotFound         ErrorKind = "NotFound"
	ErrorKindPermissionDenied ErrorKind = "PermissionDenied"
	ErrorKindAuthExpired      ErrorKind = "AuthExpired"
	ErrorKindTimeout          ErrorKind = "Timeout"
	ErrorKindRateLimited      ErrorKind = "RateLimited"
	ErrorKindUnknown          ErrorKind = "Unknown"
)

// UserMessage is the human-readable explanation returned to the dashboard.
// Each kind asks the user for a different action.
func (k ErrorKind) UserMessage() string {
	switch k {
	case ErrorKindNotFound:
		return "Repository not found. Check if the repository exists and you have access to it."
	case ErrorKindPermissionDenied:
		return "Permission denied. Check if your GitHub token has write access to this repository."
	case ErrorKindAuthExpired:
		return "Authentication expired. Please re-login to GitHub."
	case ErrorKindTimeout:
		return "GitHub did not respond in time. Please try again."
	case ErrorKindRateLimited:
		return "GitHub rate limit reached. Please try again later."
	default:
		return "Unknown error occurred"
	}
}

// CommitJob is one "append today's entry" request. It is never persisted.
type CommitJob struct {
	Credential      Credential
	Repo            RepoName
	Strategy        ContentStrategy
	ActorUsername   string
	MessageOverride string
}

// CommitResult is the outcome of a CommitJob.
type CommitResult struct {
	Success      bool            `json:"success"`
	AppendedText string          `json:"appended_text,omitempty"`
	Strategy     ContentStrategy `json:"strategy,omitempty"`
	ErrorKind    ErrorKind       `json:"error_kind,omitempty"`
	ErrorDetail  string          `json:"error_detail,omitempty"`
}

// Message returns the text shown to the user for a failed result.
// Unknown failures carry the raw upstream message when there is one.
func (r CommitResult) Message() string {
	if r.Success {
		return ""
	}
	if r.ErrorKind == ErrorKindUnknown && r.ErrorDetail != "" {
		return r.ErrorDetail
	}
	return r.ErrorKind.UserMessage()
}
