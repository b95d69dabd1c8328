package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ericman314/pinewood-server/internal/app"
	"github.com/ericman314/pinewood-server/internal/realtime"
	"github.com/ericman314/pinewood-server/internal/services"
)

// dataload replays a race-day SQL dump from disk, the offline twin of
// POST /api/mysqldump. With a realtime bus configured, running servers are
// told to refetch.
func main() {
	var file string
	var dryRun bool
	flag.StringVar(&file, "file", "", "path to the SQL dump (- for stdin)")
	flag.BoolVar(&dryRun, "dry-run", false, "read the dump and print its size without applying it")
	flag.Parse()

	if file == "" {
		fmt.Println("usage: dataload -file dump.sql [-dry-run]")
		os.Exit(2)
	}

	var raw []byte
	var err error
	if file == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(file)
	}
	if err != nil {
		fmt.Printf("read dump: %v\n", err)
		os.Exit(1)
	}
	if dryRun {
		fmt.Printf("dump %s: %d bytes\n", file, len(raw))
		return
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx := context.Background()
	in := services.DataLoadInput{Secret: application.Cfg.LegacySecret, SQL: string(raw)}
	if err := application.Services.DataLoad.Load(ctx, in); err != nil {
		application.Log.Error("Data load failed", "error", err, "file", file)
		application.Close()
		os.Exit(1)
	}
	if application.Bus != nil {
		application.Emitter.Broadcast(ctx, realtime.Message{Event: realtime.EventNewData})
	}
	application.Log.Info("Data load complete", "file", file, "bytes", len(raw))
}
