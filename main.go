package main

import (
	_ "embed"

	"github.com/dailynotes/daily-note-sync-service/cmd"
)

//go:embed config/config.yaml
var c string

func main() {
	cmd.Execute(c)
}
