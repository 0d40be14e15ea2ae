package main

import "github.com/acidburn0zzz/ppadl/internal/cli"

func main() {
	cli.Execute()
}
