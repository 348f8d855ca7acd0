/*
Copyright © 2025 thoughtbruno
*/
package main

import (
	"github.com/thoughtbruno/llm-researcher/cmd"
	"github.com/thoughtbruno/llm-researcher/internal/logger"
)

func main() {
	defer logger.HandlePanic()
	cmd.Execute()
}
