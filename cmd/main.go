package main

import "github.com/yungbote/mindbridge-backend/internal/cli"

func main() {
	cli.Execute()
}
