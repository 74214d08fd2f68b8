package local_fs

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLocalFS_SendFile(t *testing.T) {
	// Setup temporary directory
	tempDir := t.TempDir()

	// Create LocalFS client
	client, err := NewClient(&Config{
		SavePath: tempDir,
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	// Prepare data
	filename := "test_file.txt"
	content := "hello world"
	modTime := time.Date(2023, 10, 1, 12, 0, 0, 0, time.UTC)
	reader := strings.NewReader(content)

	// Call SendFile
	savedPath, err := client.SendFile(filename, reader, modTime)
	if err != nil {
		t.Fatalf("SendFile failed: %v", err)
	}

	// Verify file existence
	if _, err := os.Stat(savedPath); os.IsNotExist(err) {
		t.Fatalf("File not found at %s", savedPath)
	}

	// Verify content
	savedContent, err := os.ReadFile(savedPath)
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}
	if string(savedContent) != content {
		t.Errorf("Content mismatch: expected %s, got %s", content, string(savedContent))
	}

	// Verify modification time
	fileInfo, err := os.Stat(savedPath)
	if err != nil {
		t.Fatalf("Failed to stat saved file: %v", err)
	}
	// Allow small difference due to filesystem precision/delays
	if !fileInfo.ModTime().Equal(modTime) {
		diff := fileInfo.ModTime().Sub(modTime)
		if diff < -time.Second || diff > time.Second {
			t.Errorf("ModTime mismatch: expected %v, got %v (diff %v)", modTime, fileInfo.ModTime(), diff)
		}
	}
}

func TestLocalFS_SendContent(t *testing.T) {
	tempDir := t.TempDir()

	client, err := NewClient(&Config{
		SavePath: tempDir,
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	// Test with a subdirectory to ensure SendContent creates directories
	filename := "subdir/test_content.txt"
	content := []byte("hello content")
	modTime := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	savedPath, err := client.SendContent(filename, content, modTime)
	if err != nil {
		t.Fatalf("SendContent failed: %v", err)
	}

	savedContent, err := os.ReadFile(savedPath)
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}
	if !bytes.Equal(savedContent, content) {
		t.Errorf("Content mismatch: expected %s, got %s", content, string(savedContent))
	}
}

func TestLocalFS_ListAndDelete(t *testing.T) {
	tempDir := t.TempDir()

	client, err := NewClient(&Config{
		SavePath: tempDir,
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	// Prepare a few flat keys plus an unrelated one
	files := []string{"db-backup-20260101-030000.sqlite3", "db-backup-20260102-030000.sqlite3", "other.txt"}
	for _, name := range files {
		if _, err := client.SendContent(name, []byte("x"), time.Time{}); err != nil {
			t.Fatalf("SendContent failed: %v", err)
		}
	}

	// List with prefix filters unrelated entries
	keys, err := client.List("db-backup-")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"db-backup-20260101-030000.sqlite3", "db-backup-20260102-030000.sqlite3"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("List = %v, want %v", keys, want)
	}

	// Delete removes the file
	if err := client.Delete(want[0]); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, want[0])); !os.IsNotExist(err) {
		t.Errorf("Expected %s to be deleted", want[0])
	}

	keys, err = client.List("db-backup-")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{want[1]}) {
		t.Errorf("List after delete = %v, want %v", keys, []string{want[1]})
	}
}
