package mydropbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Service implements the file and account operations on top of a Gateway.
//
// Service keeps no user state of its own. Operations that change who is
// logged in take the caller's *Session explicitly.
type Service struct {
	gateway  Gateway
	localDir string
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLocalDir sets the directory local file names are resolved against.
func WithLocalDir(dir string) ServiceOption {
	return func(s *Service) {
		s.localDir = dir
	}
}

// WithLogger sets the logger used for operation diagnostics.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a Service backed by gw.
func NewService(gw Gateway, opts ...ServiceOption) (*Service, error) {
	if gw == nil {
		return nil, errors.New("new service: gateway is required")
	}

	s := &Service{
		gateway:  gw,
		localDir: ".",
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Register creates a new account. secret and confirmation must match;
// otherwise ErrPasswordMismatch is returned and the gateway is not called.
func (s *Service) Register(ctx context.Context, username, secret, confirmation string) error {
	if username == "" {
		return fmt.Errorf("register: %w", ErrEmptyUsername)
	}
	if secret != confirmation {
		return fmt.Errorf("register: %w", ErrPasswordMismatch)
	}

	cred := NewCredential(username, secret)
	if err := s.gateway.Register(ctx, cred); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	s.logger.DebugContext(ctx, "user registered", "credential", cred)
	return nil
}

// Login authenticates username and, on success, makes it the session identity.
// Any HTTP 200 from the gateway counts as success.
func (s *Service) Login(ctx context.Context, session *Session, username, secret string) error {
	if username == "" {
		return fmt.Errorf("login: %w", ErrEmptyUsername)
	}

	cred := NewCredential(username, secret)
	if err := s.gateway.Login(ctx, cred); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if previous := session.Username(); previous != "" && previous != username {
		s.logger.DebugContext(ctx, "replacing session identity", "previous", previous, "username", username)
	}
	session.SetIdentity(username)
	return nil
}

// Logout ends the session. The session is cleared whatever the gateway answers.
// An anonymous session is cleared without calling the gateway.
func (s *Service) Logout(ctx context.Context, session *Session) error {
	if !session.IsAuthenticated() {
		session.Clear()
		return nil
	}

	err := s.gateway.Logout(ctx)
	session.Clear()
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// View lists the files visible to owner.
func (s *Service) View(ctx context.Context, owner string) ([]FileRecord, error) {
	if owner == "" {
		return nil, fmt.Errorf("view: %w", ErrEmptyOwner)
	}

	files, err := s.gateway.ListFiles(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("view: %w", err)
	}
	return files, nil
}

// Upload reads fileName from the local directory and stores it under owner.
// A local read failure returns ErrReadFile before any gateway call.
func (s *Service) Upload(ctx context.Context, fileName, owner string) (UploadResult, error) {
	if owner == "" {
		return UploadResult{}, fmt.Errorf("upload: %w", ErrEmptyOwner)
	}
	if !IsValidFileName(fileName) {
		return UploadResult{}, fmt.Errorf("upload %q: %w", fileName, ErrInvalidFileName)
	}

	content, size, err := ReadContent(s.localPath(fileName))
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload: %w", err)
	}

	req := PutFileRequest{
		Owner:    owner,
		FileName: fileName,
		Content:  content,
	}
	if err := s.gateway.PutFile(ctx, req); err != nil {
		return UploadResult{}, fmt.Errorf("upload: %w", err)
	}

	return UploadResult{
		FileName: fileName,
		Owner:    owner,
		Size:     size,
	}, nil
}

// Download resolves the retrieval location of owner's fileName, fetches it and
// writes the bytes to the local path fileName, replacing any existing file.
// Nothing is written when the location is missing or the fetch fails.
func (s *Service) Download(ctx context.Context, fileName, owner string) (DownloadResult, error) {
	if !IsValidFileName(fileName) {
		return DownloadResult{}, fmt.Errorf("download %q: %w", fileName, ErrInvalidFileName)
	}

	fileURL, err := s.gateway.FileURL(ctx, owner, fileName)
	if err != nil {
		return DownloadResult{}, fmt.Errorf("download: %w", err)
	}
	if fileURL == "" {
		return DownloadResult{}, fmt.Errorf("download %s: %w", fileName, ErrFileNotFound)
	}

	s.logger.DebugContext(ctx, "fetching file", "file", fileName, "owner", owner)

	body, err := s.gateway.Fetch(ctx, fileURL)
	if err != nil {
		return DownloadResult{}, fmt.Errorf("download: %w", err)
	}
	defer func() { _ = body.Close() }()

	localPath := s.localPath(fileName)
	written, err := writeFile(localPath, body)
	if err != nil {
		return DownloadResult{}, fmt.Errorf("download: %w", err)
	}

	return DownloadResult{
		FileName:  fileName,
		Owner:     owner,
		LocalPath: localPath,
		Size:      written,
	}, nil
}

// Share grants recipient access to fileName. Ownership is checked by the gateway.
func (s *Service) Share(ctx context.Context, fileName, recipient string) error {
	if !IsValidFileName(fileName) {
		return fmt.Errorf("share %q: %w", fileName, ErrInvalidFileName)
	}

	req := ShareRequest{
		FileName:  fileName,
		Recipient: recipient,
	}
	if err := s.gateway.ShareFile(ctx, req); err != nil {
		return fmt.Errorf("share: %w", err)
	}
	return nil
}

func (s *Service) localPath(fileName string) string {
	return filepath.Join(s.localDir, fileName)
}

// writeFile copies r into a temporary file next to path and renames it over
// path once the copy is complete. On failure path is left as it was.
func writeFile(path string, r io.Reader) (int64, error) {
	file, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}
	tmpPath := file.Name()

	written, err := io.Copy(file, r)
	if err != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("write file: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("replace file: %w", err)
	}

	return written, nil
}
