// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// TempPrefix names the private directories created by WriteTempFile.
const TempPrefix = "pdfbook-"

// WriteTempFile writes content to a uniquely named file inside a fresh
// private directory (mode 0700). The cleanup function removes the whole
// directory, including anything a collaborator wrote next to the file.
func WriteTempFile(content []byte, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	dir, err := os.MkdirTemp("", TempPrefix+"*")
	if err != nil {
		return "", nil, fmt.Errorf("creating temp directory: %w", err)
	}
	cleanup = func() { _ = os.RemoveAll(dir) }

	path = filepath.Join(dir, uuid.NewString()+"."+extension)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "book" -> false (name)
//   - "./pdfbook.yaml" -> true (relative path)
//   - "/etc/pdfbook/print.yaml" -> true (absolute)
//   - "C:\books\print.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// AssetPath resolves a manifest asset reference against root. The
// reference is read as a URI and only its percent-decoded path counts, so
// "img/my%20cover.png#v2" names root/img/my cover.png. A reference without
// a path reports false.
func AssetPath(ref, root string) (string, bool, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", false, err
	}
	if u.Path == "" {
		return "", false, nil
	}
	return filepath.Join(root, filepath.FromSlash(u.Path)), true, nil
}

// ReplaceExt swaps the extension of path for ext (which includes the dot).
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
