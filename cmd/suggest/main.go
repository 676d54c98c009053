package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gelojavonitalla/idmc-gcfsm-sub004/pkg/receipt"
)

// Runs the extraction engine over one receipt image (or pasted text) and
// prints the suggestion. Handy for checking a problem receipt without the
// server or database.
func main() {
	text := flag.String("text", "", "already-recognized text instead of an image")
	flag.Parse()

	in := receipt.Input{Text: *text}
	if *text == "" {
		if flag.NArg() < 1 {
			fmt.Println("usage: go run ./cmd/suggest <image-path> | -text \"receipt text\"")
			os.Exit(2)
		}
		in.ImagePath = flag.Arg(0)
	}

	engine := receipt.New(receipt.NewTesseract(), receipt.NewImagingRaster())
	best := engine.BestText(context.Background(), in)
	log.Printf("best transcript confidence=%.1f len=%d", best.Confidence, len(best.Text))

	out, err := json.MarshalIndent(receipt.ExtractFields(best.Text), "", "  ")
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	fmt.Println(string(out))
}
