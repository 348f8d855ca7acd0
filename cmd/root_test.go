package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestRootCmd(t *testing.T) {
	// Reset flags and config
	viper.Reset()

	// Capture output
	b := bytes.NewBufferString("")
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)

	// Test --help to ensure banner/template works
	rootCmd.SetArgs([]string{"--help"})

	err := rootCmd.Execute()
	assert.NoError(t, err)

	output := b.String()
	assert.Contains(t, output, "Researcher analyzes the garment worker productivity dataset") // Short desc
	assert.Contains(t, output, "Usage:")
	assert.Contains(t, output, "analyze")
	assert.Contains(t, output, "serve")
	assert.Contains(t, output, "mcp")
}

func TestVersion(t *testing.T) {
	v := GetVersion()
	assert.Equal(t, "0.1.0", v)
}

func TestReportTitle(t *testing.T) {
	assert.Equal(t, "Dataset Overview", reportTitle("overview"))
	assert.Equal(t, "Department Analysis", reportTitle("department_analysis"))
	assert.Equal(t, "Time Trends", reportTitle("time_trends"))
	assert.Equal(t, "Correlation Analysis", reportTitle("correlation_analysis"))
	assert.Equal(t, "Productivity Statistics", reportTitle("productivity_stats"))
}
