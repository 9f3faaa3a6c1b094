package mydropbox

import (
	"context"
	"io"
)

// Gateway is the remote storage gateway as seen by the client.
// Implementations return an error for any outcome other than HTTP 200.
type Gateway interface {
	Register(ctx context.Context, cred Credential) error
	Login(ctx context.Context, cred Credential) error
	Logout(ctx context.Context) error
	ListFiles(ctx context.Context, owner string) ([]FileRecord, error)
	PutFile(ctx context.Context, req PutFileRequest) error
	// FileURL returns the indirect retrieval location of a file, or "" when
	// the gateway did not provide one.
	FileURL(ctx context.Context, owner, fileName string) (string, error)
	ShareFile(ctx context.Context, req ShareRequest) error
	// Fetch retrieves the bytes behind a retrieval location without
	// authentication. The caller closes the returned reader.
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// Identity is the authenticated user of a session.
type Identity struct {
	Username string `json:"username"`
}

// FileRecord is a file entry reported by the gateway listing.
type FileRecord struct {
	Key          string `json:"Key" yaml:"key"`
	Size         int64  `json:"Size" yaml:"size"`
	LastModified string `json:"LastModified" yaml:"last_modified"`
	Owner        string `json:"Owner" yaml:"owner"`
}

// PutFileRequest is the upload payload. Content is the encoded file body.
type PutFileRequest struct {
	Owner    string `json:"owner"`
	FileName string `json:"file_name"`
	Content  string `json:"file"`
}

type ShareRequest struct {
	FileName  string `json:"file_name" yaml:"file_name"`
	Recipient string `json:"recipient" yaml:"recipient"`
}

type UploadResult struct {
	FileName string `json:"file_name" yaml:"file_name"`
	Owner    string `json:"owner" yaml:"owner"`
	Size     int64  `json:"size_bytes" yaml:"size_bytes"`
}

type DownloadResult struct {
	FileName  string `json:"file_name" yaml:"file_name"`
	Owner     string `json:"owner" yaml:"owner"`
	LocalPath string `json:"local_path" yaml:"local_path"`
	Size      int64  `json:"size_bytes" yaml:"size_bytes"`
}

// AccountAction names an account operation for reporting.
type AccountAction string

const (
	ActionRegister AccountAction = "register"
	ActionLogin    AccountAction = "login"
	ActionLogout   AccountAction = "logout"
)

type AccountResult struct {
	Action   AccountAction `json:"action" yaml:"action"`
	Username string        `json:"username,omitempty" yaml:"username,omitempty"`
}
