package blf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Reasons a file produced no output
const (
	SkipNotContainer   = "not a container"
	SkipUnknownType    = "unknown header type"
	SkipPayloadMissing = "payload not found"
	SkipDeclined       = "declined"
)

// What happened to one file. Exactly one of Outputs, Skipped or Error is
// usually set.
type FileReport struct {
	File     string
	Metadata *ContainerMetadata `json:",omitempty"`
	Kind     ContentKind
	Payload  *ExtractionResult `json:",omitempty"`
	MD5      string            `json:",omitempty"`
	Outputs  []string          `json:",omitempty"`
	Skipped  string            `json:",omitempty"`
	Error    string            `json:",omitempty"`
}

func (r *FileReport) IsContainer() bool {
	return r.Metadata != nil
}

// Read and extract one file without deciding anything. The returned data
// and extraction are nil when the file isn't a usable container.
func inspectFile(path string) (FileReport, []byte, *Extraction) {
	report := FileReport{File: path}
	data, err := os.ReadFile(path)
	if err != nil {
		report.Error = err.Error()
		return report, nil, nil
	}
	ext, err := Extract(data)
	if ext != nil {
		report.Metadata = &ext.Metadata
		report.Kind = ext.Kind
		report.Payload = ext.Result
		if ext.Result != nil {
			report.MD5 = Md5String(ext.Result.Payload(data))
		}
	}
	switch {
	case err == nil:
		if ext.Result == nil {
			report.Skipped = SkipUnknownType
		}
	case errors.Is(err, ErrNotAContainer):
		report.Skipped = SkipNotContainer
	case IsPayloadMissing(err):
		report.Skipped = SkipPayloadMissing
		report.Error = err.Error()
	default:
		report.Error = err.Error()
	}
	return report, data, ext
}

// Read and extract one file for reporting only
func InspectFile(path string) FileReport {
	report, _, _ := inspectFile(path)
	return report
}

// Metadata only pass over many files, workers at a time. Nothing is
// written. Reports come back in the same order as paths.
func ScanFiles(ctx context.Context, paths []string, workers int) ([]FileReport, error) {
	if workers <= 0 {
		workers = 1
	}
	results := make([]FileReport, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], _, _ = inspectFile(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// gctx is always done once Wait returns; only the caller's counts
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Runs the whole extract flow for a batch: read, extract, ask, write.
// One file's failure never stops the rest. Session is required.
type Processor struct {
	OutputDir   string
	Session     *Session
	Screenshots ScreenshotOptions
	HexExport   bool // Also write binary payloads as Intel HEX
}

func logMetadata(path string, meta *ContainerMetadata) {
	log.Printf("File: %s\n", filepath.Base(path))
	log.Printf("Creator: %s (XUID: %s)\n", meta.CreatorName, meta.CreatorID)
	log.Printf("Modifier: %s (XUID: %s)\n", meta.ModifierName, meta.ModifierID)
	log.Printf("Content: %s\n", meta.ContentName)
	log.Printf("Description: %s\n", meta.Description)
	log.Printf("Header Type: %s\n", meta.HeaderType)
}

func (p *Processor) ProcessFile(path string) FileReport {
	report, data, ext := inspectFile(path)
	if report.Metadata != nil {
		logMetadata(path, report.Metadata)
	}
	switch {
	case report.Skipped == SkipNotContainer:
		return report
	case report.Skipped == SkipPayloadMissing:
		log.Printf("%s - %s. Skipping file.\n", filepath.Base(path), report.Error)
		return report
	case report.Error != "":
		log.Printf("Error processing file %s: %s\n", filepath.Base(path), report.Error)
		return report
	case report.Skipped == SkipUnknownType:
		log.Printf("Unknown header type '%s'. Skipping file.\n", report.Metadata.HeaderType)
		return report
	}

	if p.Session == nil {
		report.Error = ErrNoSession.Error()
		log.Printf("Error processing file %s: %s\n", filepath.Base(path), report.Error)
		return report
	}
	convert, err := p.Session.ShouldConvert(path, ext)
	if err != nil {
		report.Error = err.Error()
		log.Printf("Error processing file %s: %s\n", filepath.Base(path), err)
		return report
	}
	if !convert {
		report.Skipped = SkipDeclined
		return report
	}

	outputs, err := p.writeOutputs(path, data, ext)
	report.Outputs = outputs
	if err != nil {
		report.Error = err.Error()
		log.Printf("Error processing file %s: %s\n", filepath.Base(path), err)
	}
	return report
}

// Write the payload (and any extra forms of it) and return every path
// written
func (p *Processor) writeOutputs(path string, data []byte, ext *Extraction) ([]string, error) {
	outpath, err := OutputPath(p.OutputDir, ext, path)
	if err != nil {
		return nil, err
	}
	payload := ext.Result.Payload(data)
	base := strings.TrimSuffix(outpath, ext.Result.Extension)
	outputs := make([]string, 0, 2)

	if ext.Kind == KindScreenshot {
		format, err := p.Screenshots.OutputFormat()
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := ConvertScreenshot(payload, format, &buf); err != nil {
			return nil, err
		}
		outpath = base + p.Screenshots.Extension()
		if err := WritePayload(outpath, buf.Bytes()); err != nil {
			return nil, err
		}
		log.Printf("Screenshot saved as %s: %s\n", format, outpath)
		outputs = append(outputs, outpath)
		if p.Screenshots.WantsThumbnail() {
			buf.Reset()
			if err := WriteThumbnail(payload, &p.Screenshots, &buf); err != nil {
				return outputs, fmt.Errorf("Couldn't make thumbnail: %w", err)
			}
			thumbpath := base + ThumbnailSuffix + ".png"
			if err := WritePayload(thumbpath, buf.Bytes()); err != nil {
				return outputs, err
			}
			log.Printf("Thumbnail saved: %s\n", thumbpath)
			outputs = append(outputs, thumbpath)
		}
		return outputs, nil
	}

	if err := WritePayload(outpath, payload); err != nil {
		return nil, err
	}
	log.Printf("File saved: %s\n", outpath)
	outputs = append(outputs, outpath)
	if p.HexExport {
		var buf bytes.Buffer
		if err := BinToHex(payload, &buf); err != nil {
			return outputs, err
		}
		hexpath := base + HexExtension
		if err := WritePayload(hexpath, buf.Bytes()); err != nil {
			return outputs, err
		}
		log.Printf("Hex file saved: %s\n", hexpath)
		outputs = append(outputs, hexpath)
	}
	return outputs, nil
}

// Process every file in order
func (p *Processor) ProcessFiles(paths []string) []FileReport {
	results := make([]FileReport, 0, len(paths))
	for _, path := range paths {
		results = append(results, p.ProcessFile(path))
	}
	log.Printf("Processing complete.\n")
	return results
}
