package mydropbox

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
)

// EncodeContent converts raw file bytes to the text form carried in upload payloads.
func EncodeContent(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeContent reverses EncodeContent.
func DecodeContent(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	return b, nil
}

// ReadContent reads the file at path and returns its encoded content and raw size.
// Errors wrap ErrReadFile.
func ReadContent(path string) (string, int64, error) {
	file, err := os.Open(path) //#nosec G304 -- path is user-provided input
	if err != nil {
		return "", 0, fmt.Errorf("%w %s: %w", ErrReadFile, path, err)
	}
	defer func() { _ = file.Close() }()

	b, err := io.ReadAll(file)
	if err != nil {
		return "", 0, fmt.Errorf("%w %s: %w", ErrReadFile, path, err)
	}

	return EncodeContent(b), int64(len(b)), nil
}
