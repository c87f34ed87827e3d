// @title removeer API
// @version 1.0
// @description Background removal service: upload an image, get back a URL for the processed result
// @host localhost:5000
// @BasePath /api
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/foztr/removeer/internal/bootstrap"
)

func main() {
	fmt.Printf("[%s] [INFO] [BOOT] starting removeer-server...\n", time.Now().Format("2006-01-02 15:04:05.000"))
	if err := bootstrap.Run(context.Background()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "removeer-server failed: %v\n", err)
		os.Exit(1)
	}
}
