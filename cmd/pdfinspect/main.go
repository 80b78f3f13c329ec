// Command pdfinspect prints the structure of a PDF file.
//
// Usage:
//
//	pdfinspect [-v] [-strict] info FILE
//	pdfinspect [-v] [-strict] objects FILE
//	pdfinspect [-v] [-strict] stream [-raw] NUM FILE
//	pdfinspect [-v] [-strict] text [-page N] FILE
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/midbel/hexdump"

	"github.com/tsawler/pdfcore/core"
	"github.com/tsawler/pdfcore/logger"
	"github.com/tsawler/pdfcore/reader"
)

func main() {
	var (
		verbose = flag.Bool("v", false, "log recovered problems to stderr")
		strict  = flag.Bool("strict", false, "fail on the first malformed object")
	)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	opts := []reader.Option{}
	if *verbose {
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts, reader.WithLogger(logger.Slog(slog.New(h))))
	}
	if *strict {
		opts = append(opts, reader.WithParsingMode(reader.Strict))
	}

	cmd, args := flag.Arg(0), flag.Args()[1:]
	var err error
	switch cmd {
	case "info":
		err = runInfo(args, opts)
	case "objects":
		err = runObjects(args, opts)
	case "stream":
		err = runStream(args, opts)
	case "text":
		err = runText(args, opts)
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-v] [-strict] info|objects|stream|text [flags] FILE\n", os.Args[0])
	flag.PrintDefaults()
}

func load(file string, opts []reader.Option) (*reader.Document, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return reader.Parse(data, opts...)
}

func runInfo(args []string, opts []reader.Option) error {
	if len(args) != 1 {
		return fmt.Errorf("info: expected FILE")
	}
	doc, err := load(args[0], opts)
	if err != nil {
		return err
	}

	fmt.Printf("version: %s\n", doc.Version())
	fmt.Printf("pages:   %d\n", doc.PageCount())
	fmt.Printf("objects: %d\n", doc.NumObjects())
	fmt.Printf("trailer: %s\n", doc.Trailer())

	if page, err := doc.Page(0); err == nil {
		if box, err := page.MediaBox(); err == nil {
			fmt.Printf("mediabox: %s\n", formatBox(box))
		}
		if box, err := page.CropBox(); err == nil {
			fmt.Printf("cropbox: %s\n", formatBox(box))
		}
	}

	meta, err := doc.Metadata()
	if err != nil {
		return err
	}
	for _, key := range sortedKeys(meta) {
		fmt.Printf("%s: %s\n", key, meta[key])
	}
	return nil
}

func runObjects(args []string, opts []reader.Option) error {
	if len(args) != 1 {
		return fmt.Errorf("objects: expected FILE")
	}
	doc, err := load(args[0], opts)
	if err != nil {
		return err
	}

	for _, id := range doc.Objects() {
		obj, _ := doc.GetObject(id)
		entry, _ := doc.XRef().Get(id.Number)
		fmt.Printf("%s\t%s\t%s\n", id, entry.Type, summarize(obj))
	}
	return nil
}

func runStream(args []string, opts []reader.Option) error {
	set := flag.NewFlagSet("stream", flag.ExitOnError)
	raw := set.Bool("raw", false, "dump the encoded bytes")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() != 2 {
		return fmt.Errorf("stream: expected NUM FILE")
	}
	num, err := strconv.Atoi(set.Arg(0))
	if err != nil {
		return fmt.Errorf("stream: invalid object number %q", set.Arg(0))
	}
	doc, err := load(set.Arg(1), opts)
	if err != nil {
		return err
	}

	entry, ok := doc.XRef().Get(num)
	if !ok {
		return fmt.Errorf("object %d not in xref", num)
	}
	id := core.ObjectID{Number: num}
	if entry.Type == core.XRefInUse {
		id.Generation = entry.Generation
	}
	obj, ok := doc.GetObject(id)
	if !ok {
		return fmt.Errorf("object %s not loaded", id)
	}
	stream, ok := obj.(*core.Stream)
	if !ok {
		return fmt.Errorf("object %s is %s, not a stream", id, obj.Type())
	}

	fmt.Println(stream.Dict)
	body := stream.Data
	if !*raw {
		if body, err = doc.DecodeStream(stream); err != nil {
			return err
		}
		if typ, _ := stream.Dict.GetName("Type"); typ == "ObjStm" {
			objStm, err := core.NewObjectStream(stream, doc.Config().MaxNesting)
			if err != nil {
				return err
			}
			fmt.Printf("object stream: %d of %d objects, bodies at %d: %v\n",
				objStm.Len(), objStm.N(), objStm.First(), objStm.ObjectNumbers())
		}
	}
	fmt.Println(hexdump.Dump(body))
	return nil
}

func runText(args []string, opts []reader.Option) error {
	set := flag.NewFlagSet("text", flag.ExitOnError)
	page := set.Int("page", 0, "1-based page to extract; all pages when 0")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() != 1 {
		return fmt.Errorf("text: expected FILE")
	}
	doc, err := load(set.Arg(0), opts)
	if err != nil {
		return err
	}

	if *page > 0 {
		txt, err := doc.ExtractText(*page - 1)
		if err != nil {
			return err
		}
		fmt.Println(txt)
		return nil
	}

	txt, pageErrors, err := doc.ExtractAllText(context.Background())
	if err != nil {
		return err
	}
	fmt.Println(txt)
	for _, pe := range pageErrors {
		fmt.Fprintln(os.Stderr, pe)
	}
	return nil
}
