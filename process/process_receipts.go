package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gelojavonitalla/idmc-gcfsm-sub004/models"
	"github.com/gelojavonitalla/idmc-gcfsm-sub004/pkg/receipt"
)

// global flags (parsed in main)
var (
	verbose bool
	dry     bool
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

func mustDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set in env")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	return gdb
}

// Back-fills extraction suggestions for receipt images dropped into the
// uploads directory out-of-band (bulk imports, email attachments saved by
// hand), then keeps watching for new files.
func main() {
	dir := flag.String("dir", "uploads/receipts", "receipts directory to process")
	watch := flag.Bool("watch", false, "keep watching the directory after the initial sweep")
	flag.BoolVar(&dry, "dry", false, "only print proposed changes")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.Parse()

	gdb := mustDBFromEnv()
	engine := receipt.New(receipt.NewTesseract(), receipt.NewImagingRaster())
	ctx := context.Background()

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		processFile(ctx, gdb, engine, filepath.Join(*dir, e.Name()))
	}
	if !*watch {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatalf("watcher: %v", err)
	}
	defer watcher.Close()
	if err := watcher.Add(*dir); err != nil {
		log.Fatalf("watch %s: %v", *dir, err)
	}
	log.Printf("watching %s", *dir)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			processFile(ctx, gdb, engine, ev.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watch error: %v", err)
		}
	}
}

// processFile runs the extraction engine over one image and records the
// suggestions on its Receipt row, creating the row if the file was dropped
// in without going through the upload endpoint.
func processFile(ctx context.Context, gdb *gorm.DB, engine *receipt.Engine, path string) {
	name := filepath.Base(path)
	if !imageExts[strings.ToLower(filepath.Ext(name))] {
		if verbose {
			log.Printf("skip non-image %s", name)
		}
		return
	}

	var rec models.Receipt
	known := gdb.Where("file_name = ? OR store_path LIKE ?", name, "%/"+name).First(&rec).Error == nil
	if known && rec.RawText != "" && !rec.Failed {
		if verbose {
			log.Printf("skip %s: already extracted", name)
		}
		return
	}

	suggestion := engine.Suggest(ctx, receipt.Input{ImagePath: path})
	if dry {
		log.Printf("dry-run %s: amount=%v ref=%v datetime=%v bank=%v",
			name, deref(suggestion.Amount), derefS(suggestion.Reference),
			derefS(suggestion.DateTime), derefS(suggestion.Bank))
		return
	}

	rec.FileName = name
	if rec.StorePath == "" {
		rec.StorePath = filepath.Join("receipts", name)
	}
	rec.RawText = suggestion.RawText
	rec.SuggestedAmount = suggestion.Amount
	rec.SuggestedRef = suggestion.Reference
	rec.SuggestedDateTime = suggestion.DateTime
	rec.SuggestedBank = suggestion.Bank
	rec.Failed = suggestion.RawText == ""
	if rec.Failed {
		rec.FailedReason = "no text recognized"
	} else {
		rec.FailedReason = ""
	}
	if err := gdb.Save(&rec).Error; err != nil {
		log.Printf("save receipt %s: %v", name, err)
		return
	}
	log.Printf("processed %s receipt_id=%d failed=%v", name, rec.ID, rec.Failed)
}

func deref(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func derefS(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
