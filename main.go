package main

import (
	"context"

	"github.com/bjulian5/promote/cmd"
)

func main() {
	ctx := context.Background()
	cmd.Execute(ctx)
}
