package main

import (
	"os"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
