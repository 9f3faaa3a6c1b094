package mydropbox_test

import (
	"testing"
	"unicode/utf8"

	"github.com/sagarc03/mydropbox"
)

func TestIsValidFileName(t *testing.T) {
	// Create a name with invalid UTF-8 (without embedding raw invalid bytes in source)
	invalidUTF8 := string([]byte{'a', 0xff, 'b'})

	tt := []struct {
		Name     string
		FileName string
		Want     bool
	}{
		// Basics
		{Name: "empty", FileName: "", Want: false},
		{Name: "single dot", FileName: ".", Want: false},
		{Name: "double dot", FileName: "..", Want: false},

		// Paths are not file names
		{Name: "absolute path", FileName: "/etc/passwd", Want: false},
		{Name: "nested path", FileName: "dir/file.txt", Want: false},
		{Name: "parent traversal", FileName: "../file.txt", Want: false},
		{Name: "backslash", FileName: `dir\file.txt`, Want: false},

		// Control chars / NUL
		{Name: "contains tab", FileName: "my\tfile.txt", Want: false},
		{Name: "contains NUL", FileName: "file\x00.txt", Want: false},
		{Name: "contains DEL", FileName: "file\x7f.txt", Want: false},
		{Name: "contains control char", FileName: "file\x1f.txt", Want: false},

		// UTF-8 validity
		{Name: "invalid utf8", FileName: invalidUTF8, Want: false},

		// Valid examples
		{Name: "simple", FileName: "notes.txt", Want: true},
		{Name: "hidden file", FileName: ".hidden", Want: true},
		{Name: "underscores and dashes", FileName: "my_file-v2.tar.gz", Want: true},
		{Name: "no extension", FileName: "README", Want: true},
		{Name: "unicode", FileName: "世界.txt", Want: true},
		{Name: "hash", FileName: "report#1.pdf", Want: true},
		{Name: "double dots inside name", FileName: "v1..2.txt", Want: true},
		{Name: "trailing tilde", FileName: "backup~.txt", Want: true},
		{Name: "question mark", FileName: "what?.txt", Want: true},
		{Name: "space", FileName: "my file.txt", Want: true},
	}

	// sanity check for our generated invalid UTF-8 case
	if utf8.ValidString(invalidUTF8) {
		t.Fatalf("test setup error: invalidUTF8 is unexpectedly valid")
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			got := mydropbox.IsValidFileName(tc.FileName)
			if got != tc.Want {
				expected := "valid"
				if !tc.Want {
					expected = "invalid"
				}
				t.Errorf("expected file name %q to be %s, got %v", tc.FileName, expected, got)
			}
		})
	}
}
