package shell

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sagarc03/mydropbox"
)

// Formatter formats command results for output.
type Formatter interface {
	FormatList(w io.Writer, owner string, files []mydropbox.FileRecord) error
	FormatUpload(w io.Writer, result mydropbox.UploadResult) error
	FormatDownload(w io.Writer, result mydropbox.DownloadResult) error
	FormatShare(w io.Writer, req mydropbox.ShareRequest) error
	FormatAccount(w io.Writer, result mydropbox.AccountResult) error
	FormatError(w io.Writer, err error) error
	FormatNotice(w io.Writer, message string) error
}

// Output format names accepted by NewFormatter.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// NewFormatter returns the formatter for format. An empty format is text.
func NewFormatter(format string, quiet bool) (Formatter, error) {
	switch format {
	case "", FormatText:
		return &HumanFormatter{Quiet: quiet}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// HumanFormatter outputs the interactive text messages.
type HumanFormatter struct {
	Quiet bool
}

// FormatList prints a table of files, or a notice when there are none.
func (f *HumanFormatter) FormatList(w io.Writer, _ string, files []mydropbox.FileRecord) error {
	if len(files) == 0 {
		_, _ = fmt.Fprintln(w, "No files found for this owner.")
		return nil
	}

	// Calculate column widths
	maxKeyLen := 3 // "KEY"
	for i := range files {
		if len(files[i].Key) > maxKeyLen {
			maxKeyLen = len(files[i].Key)
		}
	}
	if maxKeyLen > 60 {
		maxKeyLen = 60
	}

	_, _ = fmt.Fprintf(w, "%-*s  %10s  %-25s  %s\n", maxKeyLen, "KEY", "SIZE", "LAST MODIFIED", "OWNER")
	_, _ = fmt.Fprintf(w, "%s  %s  %s  %s\n",
		strings.Repeat("-", maxKeyLen), strings.Repeat("-", 10), strings.Repeat("-", 25), strings.Repeat("-", 10))

	var total int64
	for i := range files {
		file := &files[i]
		key := file.Key
		if len(key) > maxKeyLen {
			key = key[:maxKeyLen-3] + "..."
		}
		_, _ = fmt.Fprintf(w, "%-*s  %10s  %-25s  %s\n",
			maxKeyLen,
			key,
			formatSize(file.Size),
			file.LastModified,
			file.Owner,
		)
		total += file.Size
	}

	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "\n%d file(s) (%s total)\n", len(files), formatSize(total))
	}
	return nil
}

// FormatUpload confirms an upload.
func (f *HumanFormatter) FormatUpload(w io.Writer, result mydropbox.UploadResult) error {
	_, _ = fmt.Fprintln(w, "File uploaded successfully.")
	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "  %s (%s)\n", result.FileName, formatSize(result.Size))
	}
	return nil
}

// FormatDownload confirms a download.
func (f *HumanFormatter) FormatDownload(w io.Writer, result mydropbox.DownloadResult) error {
	_, _ = fmt.Fprintln(w, "File downloaded successfully.")
	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "  %s -> %s (%s)\n", result.FileName, result.LocalPath, formatSize(result.Size))
	}
	return nil
}

// FormatShare confirms a share.
func (f *HumanFormatter) FormatShare(w io.Writer, req mydropbox.ShareRequest) error {
	_, _ = fmt.Fprintf(w, "File %s shared with %s successfully.\n", req.FileName, req.Recipient)
	return nil
}

// FormatAccount confirms an account operation.
func (f *HumanFormatter) FormatAccount(w io.Writer, result mydropbox.AccountResult) error {
	switch result.Action {
	case mydropbox.ActionRegister:
		_, _ = fmt.Fprintf(w, "User %s created successfully.\n", result.Username)
	case mydropbox.ActionLogin:
		_, _ = fmt.Fprintf(w, "Logged in as %s.\n", result.Username)
	case mydropbox.ActionLogout:
		_, _ = fmt.Fprintln(w, "Logged out successfully.")
	}
	return nil
}

// FormatError prints a one-line diagnostic. Well-known failures use their
// fixed message.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintln(w, humanError(err))
	return nil
}

// FormatNotice prints an informational line unless Quiet is set.
func (f *HumanFormatter) FormatNotice(w io.Writer, message string) error {
	if !f.Quiet {
		_, _ = fmt.Fprintln(w, message)
	}
	return nil
}

func humanError(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCommand):
		return "Invalid command. Please try again."
	case errors.Is(err, mydropbox.ErrEmptyOwner):
		return "Owner's name cannot be empty."
	case errors.Is(err, mydropbox.ErrPasswordMismatch):
		return "Passwords do not match."
	case errors.Is(err, mydropbox.ErrFileNotFound):
		return "File not found."
	case errors.Is(err, mydropbox.ErrInvalidFileName):
		return "Invalid file name."
	case errors.Is(err, mydropbox.ErrNotLoggedIn):
		return "Please log in first."
	case errors.Is(err, ErrPromptCancelled):
		return "Cancelled."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatList formats the listing as JSON.
func (f *JSONFormatter) FormatList(w io.Writer, owner string, files []mydropbox.FileRecord) error {
	if files == nil {
		files = []mydropbox.FileRecord{}
	}
	output := struct {
		Owner string                 `json:"owner"`
		Files []mydropbox.FileRecord `json:"files"`
	}{
		Owner: owner,
		Files: files,
	}
	return writeJSON(w, output)
}

// FormatUpload formats an upload result as JSON.
func (f *JSONFormatter) FormatUpload(w io.Writer, result mydropbox.UploadResult) error {
	return writeJSON(w, result)
}

// FormatDownload formats a download result as JSON.
func (f *JSONFormatter) FormatDownload(w io.Writer, result mydropbox.DownloadResult) error {
	return writeJSON(w, result)
}

// FormatShare formats a share as JSON.
func (f *JSONFormatter) FormatShare(w io.Writer, req mydropbox.ShareRequest) error {
	return writeJSON(w, req)
}

// FormatAccount formats an account result as JSON.
func (f *JSONFormatter) FormatAccount(w io.Writer, result mydropbox.AccountResult) error {
	return writeJSON(w, result)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// FormatNotice is a no-op: JSON output carries results only.
func (f *JSONFormatter) FormatNotice(io.Writer, string) error {
	return nil
}

// YAMLFormatter outputs YAML documents.
type YAMLFormatter struct{}

func (f *YAMLFormatter) FormatList(w io.Writer, owner string, files []mydropbox.FileRecord) error {
	if files == nil {
		files = []mydropbox.FileRecord{}
	}
	output := struct {
		Owner string                 `yaml:"owner"`
		Files []mydropbox.FileRecord `yaml:"files"`
	}{
		Owner: owner,
		Files: files,
	}
	return writeYAML(w, output)
}

func (f *YAMLFormatter) FormatUpload(w io.Writer, result mydropbox.UploadResult) error {
	return writeYAML(w, result)
}

func (f *YAMLFormatter) FormatDownload(w io.Writer, result mydropbox.DownloadResult) error {
	return writeYAML(w, result)
}

func (f *YAMLFormatter) FormatShare(w io.Writer, req mydropbox.ShareRequest) error {
	return writeYAML(w, req)
}

func (f *YAMLFormatter) FormatAccount(w io.Writer, result mydropbox.AccountResult) error {
	return writeYAML(w, result)
}

func (f *YAMLFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `yaml:"error"`
	}{
		Error: err.Error(),
	}
	return writeYAML(w, output)
}

func (f *YAMLFormatter) FormatNotice(io.Writer, string) error {
	return nil
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML writes a value as a single YAML document.
func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.1f TB", float64(bytes)/TB)
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
