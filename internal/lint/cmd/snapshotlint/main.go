package main

import (
	"github.com/phoenixkonsole/papara/internal/lint"
	"golang.org/x/tools/go/analysis/singlechecker"
)

func main() {
	singlechecker.Main(lint.Analyzer)
}
