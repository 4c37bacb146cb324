package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/randomouscrap98/blfgotools/blf"
)

const (
	AppVersion = "0.2.0"
)

// Quick way to fail on error, since most commands are "doing" something on
// behalf of something else.
func fatalIfErr(subject string, doing string, err error) {
	if err != nil {
		log.Fatalf("%s - Couldn't %s: %s", subject, doing, err)
	}
}

// **********************************
// *        SCAN COMMANDS           *
// **********************************

// Scan command
type ScanCmd struct {
	Dir     string `arg:"" type:"existingdir" default:"." help:"Folder of containers to scan (not recursive)"`
	Workers int    `short:"w" help:"How many files to read at once (default: number of cpus)"`
	All     bool   `help:"Also report files that aren't containers"`
}

func (c *ScanCmd) Run() error {
	files := mustListFiles(c.Dir)
	if c.Workers <= 0 {
		c.Workers = blf.DefaultConfig().Workers
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	reports, err := blf.ScanFiles(ctx, files, c.Workers)
	fatalIfErr("scan", "scan files", err)
	result := make([]blf.FileReport, 0, len(reports))
	for _, r := range reports {
		if c.All || r.IsContainer() {
			result = append(result, r)
		}
	}
	log.Printf("Scan found %d containers\n", len(result))
	PrintJson(result)
	return nil
}

// Info command
type InfoCmd struct {
	File string `arg:"" type:"existingfile" help:"Container file to describe"`
}

func (c *InfoCmd) Run() error {
	report := blf.InspectFile(c.File)
	if report.Skipped == blf.SkipNotContainer {
		log.Printf("%s doesn't look like a container\n", c.File)
	}
	PrintJson(report)
	return nil
}

// **********************************
// *       EXTRACT COMMANDS         *
// **********************************

// Extract command. Anything set here overrides the config file.
type ExtractCmd struct {
	Dir        string `arg:"" type:"existingdir" default:"." help:"Folder of containers to extract (not recursive)"`
	Outdir     string `type:"path" short:"o" help:"Root output folder (kind folders go inside)"`
	Config     string `type:"existingfile" short:"c" help:"TOML config file"`
	Script     string `type:"existingfile" short:"s" help:"Lua script with a decide(info) function to answer for you"`
	Yes        bool   `short:"y" help:"Convert everything without asking"`
	Format     string `help:"Screenshot output format (jpg, png, bmp, gif)"`
	Thumbnail  int    `help:"Also write a square thumbnail of this size for screenshots"`
	Background string `help:"Thumbnail background color"`
	Hex        bool   `help:"Also write gametypes, map variants and films as Intel HEX"`
}

func (c *ExtractCmd) loadConfig() *blf.Config {
	config := blf.DefaultConfig()
	if c.Config != "" {
		var err error
		config, err = blf.LoadConfig(c.Config)
		fatalIfErr(c.Config, "load config", err)
		log.Printf("Loaded config %s\n", c.Config)
	}
	if c.Outdir != "" {
		config.Output = c.Outdir
	}
	if c.Script != "" {
		config.Script = c.Script
	}
	if c.Format != "" {
		config.Screenshots.Format = c.Format
	}
	if c.Thumbnail > 0 {
		config.Screenshots.ThumbnailWidth = c.Thumbnail
		config.Screenshots.ThumbnailHeight = c.Thumbnail
	}
	if c.Background != "" {
		config.Screenshots.Background = c.Background
	}
	if c.Hex {
		config.HexExport = true
	}
	return config
}

func (c *ExtractCmd) Run() error {
	config := c.loadConfig()
	decisions, err := config.DecisionMap()
	fatalIfErr("extract", "read decisions", err)
	screenshots, err := config.ScreenshotOptions()
	fatalIfErr("extract", "read screenshot options", err)

	var decider blf.Decider
	switch {
	case c.Yes:
		decider = &blf.FixedDecider{Response: blf.ResponseYes}
	case config.Script != "":
		script, err := blf.LoadScriptDecider(config.Script)
		fatalIfErr(config.Script, "load decision script", err)
		defer script.Close()
		decider = script
	default:
		// stdout is for the json result
		decider = blf.NewConsolePrompter(os.Stdin, os.Stderr)
	}

	session := blf.NewSession(decider)
	for kind, decision := range decisions {
		session.Decisions[kind] = decision
	}
	processor := blf.Processor{
		OutputDir:   config.Output,
		Session:     session,
		Screenshots: screenshots,
		HexExport:   config.HexExport,
	}

	reports := processor.ProcessFiles(mustListFiles(c.Dir))
	written := 0
	failed := 0
	for _, r := range reports {
		written += len(r.Outputs)
		if r.Error != "" {
			failed++
		}
	}
	result := make(map[string]interface{})
	result["OutputFolder"] = config.Output
	result["FilesWritten"] = written
	result["FilesFailed"] = failed
	result["Reports"] = reports
	PrintJson(result)
	return nil
}

// Single payload command
type PayloadCmd struct {
	File    string `arg:"" type:"existingfile" help:"Container file to pull the payload out of"`
	Outfile string `type:"path" short:"o" help:"Where to write the payload (default: content name + extension)"`
	Hex     bool   `help:"Write the payload as Intel HEX instead of raw"`
}

func (c *PayloadCmd) Run() error {
	data, err := os.ReadFile(c.File)
	fatalIfErr(c.File, "read container", err)
	ext, err := blf.Extract(data)
	if errors.Is(err, blf.ErrNotAContainer) {
		log.Fatalf("%s isn't a container\n", c.File)
	}
	fatalIfErr(c.File, "extract payload", err)
	if ext.Result == nil {
		log.Fatalf("%s has unknown header type '%s', no payload to write\n", c.File, ext.Metadata.HeaderType)
	}
	payload := ext.Result.Payload(data)
	extension := ext.Result.Extension
	if c.Hex {
		extension = blf.HexExtension
	}
	if c.Outfile == "" {
		c.Outfile = blf.OutputName(&ext.Metadata, c.File) + extension
	}
	out := payload
	if c.Hex {
		var buf bytes.Buffer
		err = blf.BinToHex(payload, &buf)
		fatalIfErr(c.File, "convert payload to hex", err)
		out = buf.Bytes()
	}
	err = os.WriteFile(c.Outfile, out, 0644)
	fatalIfErr(c.Outfile, "write payload", err)
	log.Printf("Wrote %s payload to %s\n", ext.Kind, c.Outfile)
	result := make(map[string]interface{})
	result["Infile"] = c.File
	result["Outfile"] = c.Outfile
	result["Kind"] = ext.Kind
	result["Start"] = ext.Result.Start
	result["End"] = ext.Result.End
	result["PayloadLength"] = len(payload)
	result["MD5"] = blf.Md5String(payload)
	PrintJson(result)
	return nil
}

// Hex to bin, for turning a --hex export back into the raw payload
type Hex2BinCmd struct {
	Infile  string `arg:"" type:"existingfile" help:"Intel HEX file to convert"`
	Outfile string `type:"path" short:"o"`
}

func (c *Hex2BinCmd) Run() error {
	if c.Outfile == "" {
		base := filepath.Base(c.Infile)
		c.Outfile = fmt.Sprintf("%s_%s.bin", base[:len(base)-len(filepath.Ext(base))], FileSafeDateTime())
	}
	f, err := os.Open(c.Infile)
	fatalIfErr(c.Infile, "open hex file", err)
	defer f.Close()
	bin, err := blf.HexToBin(f)
	fatalIfErr(c.Infile, "convert hex", err)
	err = os.WriteFile(c.Outfile, bin, 0644)
	fatalIfErr(c.Outfile, "write bin file", err)
	result := make(map[string]interface{})
	result["Infile"] = c.Infile
	result["Outfile"] = c.Outfile
	result["BinLength"] = len(bin)
	result["MD5"] = blf.Md5String(bin)
	PrintJson(result)
	return nil
}

// **********************************
// *    ALL TOGETHER COMMANDS       *
// **********************************

var cli struct {
	Scan    ScanCmd          `cmd:"" help:"Read every container in a folder and report metadata and payload ranges"`
	Info    InfoCmd          `cmd:"" help:"Report metadata and payload range for one file"`
	Extract ExtractCmd       `cmd:"" help:"Pull payloads out of every container in a folder, asking what to keep"`
	Payload PayloadCmd       `cmd:"" help:"Write the payload of a single container without asking"`
	Hex2Bin Hex2BinCmd       `cmd:"" help:"Convert an exported hex payload back to bin" name:"hex2bin"`
	Version kong.VersionFlag `help:"Show version information"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("blfgotools"),
		kong.ShortUsageOnError(),
		kong.Description("A set of tools for pulling content out of BLF containers"),
		kong.Vars{
			"version": AppVersion,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
