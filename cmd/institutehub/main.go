// cmd/institutehub/main.go
//
// InstituteHub serves an institute's public website and the admin console
// that edits its content through the institute content API.
package main

import (
	"context"
	"log"

	"github.com/dalemusser/institutehub/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
