package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSetContext(t *testing.T) {
	globalContext = &CrashContext{}

	SetBasePath("/tmp/test-researcher")
	SetVersion("1.0.0-test")
	SetCommand("analyze overview")

	globalContext.mu.RLock()
	defer globalContext.mu.RUnlock()

	if globalContext.basePath != "/tmp/test-researcher" {
		t.Errorf("Expected basePath '/tmp/test-researcher', got '%s'", globalContext.basePath)
	}
	if globalContext.version != "1.0.0-test" {
		t.Errorf("Expected version '1.0.0-test', got '%s'", globalContext.version)
	}
	if globalContext.command != "analyze overview" {
		t.Errorf("Expected command 'analyze overview', got '%s'", globalContext.command)
	}
}

func TestCreateCrashLog(t *testing.T) {
	globalContext = &CrashContext{
		version: "1.0.0",
		command: "data full",
	}

	log := createCrashLog("test panic")

	if log.PanicValue != "test panic" {
		t.Errorf("Expected PanicValue 'test panic', got '%s'", log.PanicValue)
	}
	if log.Version != "1.0.0" {
		t.Errorf("Expected Version '1.0.0', got '%s'", log.Version)
	}
	if log.Command != "data full" {
		t.Errorf("Expected Command 'data full', got '%s'", log.Command)
	}
	if log.StackTrace == "" {
		t.Error("Expected non-empty StackTrace")
	}
	if log.GoVersion == "" {
		t.Error("Expected non-empty GoVersion")
	}
}

func TestFormatCrashLog(t *testing.T) {
	log := CrashLog{
		Timestamp:  time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Version:    "1.0.0",
		Command:    "serve",
		PanicValue: "test panic",
		StackTrace: "goroutine 1 [running]:\nmain.main()",
		GoVersion:  "go1.24.3",
		OS:         "linux",
		Arch:       "amd64",
	}

	formatted := formatCrashLog(log)

	expectedStrings := []string{
		"RESEARCHER CRASH LOG",
		"Timestamp: 2025-01-01T12:00:00Z",
		"Version:   1.0.0",
		"Command:   serve",
		"Go:        go1.24.3",
		"OS/Arch:   linux/amd64",
		"PANIC VALUE",
		"test panic",
		"STACK TRACE",
		"goroutine 1 [running]",
	}

	for _, expected := range expectedStrings {
		if !strings.Contains(formatted, expected) {
			t.Errorf("Expected formatted log to contain '%s'", expected)
		}
	}
}

func TestWriteCrashLog(t *testing.T) {
	basePath := filepath.Join(t.TempDir(), ".researcher")

	globalContext = &CrashContext{
		basePath: basePath,
		version:  "1.0.0",
		command:  "analyze",
	}

	log := CrashLog{
		Timestamp:  time.Now(),
		Version:    "1.0.0",
		Command:    "analyze",
		PanicValue: "test panic",
		StackTrace: "test stack",
		GoVersion:  "go1.24",
		OS:         "test",
		Arch:       "test",
	}

	if err := writeCrashLog(log); err != nil {
		t.Fatalf("writeCrashLog failed: %v", err)
	}

	crashDir := filepath.Join(basePath, CrashLogDir)
	if _, err := os.Stat(crashDir); os.IsNotExist(err) {
		t.Error("Expected crash log directory to be created")
	}

	logs, err := ListCrashLogs()
	if err != nil {
		t.Fatalf("ListCrashLogs failed: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("Expected 1 crash log, got %d", len(logs))
	}

	content, err := ReadCrashLog(logs[0])
	if err != nil {
		t.Fatalf("ReadCrashLog failed: %v", err)
	}
	if !strings.Contains(content, "test panic") {
		t.Error("Expected crash log to contain panic value")
	}
}

func TestCleanOldLogs(t *testing.T) {
	basePath := filepath.Join(t.TempDir(), ".researcher")
	crashDir := filepath.Join(basePath, CrashLogDir)

	if err := os.MkdirAll(crashDir, 0755); err != nil {
		t.Fatalf("Failed to create crash dir: %v", err)
	}

	globalContext = &CrashContext{basePath: basePath}

	for i := range MaxCrashLogs + 5 {
		filename := filepath.Join(crashDir, "crash-20250101_1200"+string(rune('0'+i%10))+string(rune('0'+i/10))+".log")
		if err := os.WriteFile(filename, []byte("test"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}

	if err := cleanOldCrashLogs(crashDir); err != nil {
		t.Fatalf("cleanOldCrashLogs failed: %v", err)
	}

	logs, err := ListCrashLogs()
	if err != nil {
		t.Fatalf("ListCrashLogs failed: %v", err)
	}
	if len(logs) != MaxCrashLogs {
		t.Errorf("Expected %d crash logs after cleanup, got %d", MaxCrashLogs, len(logs))
	}
}

func TestGetCrashLogPath(t *testing.T) {
	globalContext = &CrashContext{basePath: "/tmp/test"}

	testTime := time.Date(2025, 1, 15, 14, 30, 45, 0, time.UTC)
	path := getCrashLogPath(testTime)

	expectedPath := "/tmp/test/logs/crash-20250115_143045.log"
	if path != expectedPath {
		t.Errorf("Expected path '%s', got '%s'", expectedPath, path)
	}
}

func TestDefaultBasePath(t *testing.T) {
	globalContext = &CrashContext{}

	dir := getCrashLogDir()
	expected := filepath.Join(".researcher", "logs")
	if dir != expected {
		t.Errorf("Expected default dir '%s', got '%s'", expected, dir)
	}
}
