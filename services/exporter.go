package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"slidecast/internal/config"
	"slidecast/internal/logger"
	"slidecast/internal/tool"
	"slidecast/models"
)

var slidePageRe = regexp.MustCompile(`-(\d+)\.png$`)

// LibreOfficeExporter renders slide decks to per-slide PNG images by
// converting the deck to PDF with soffice and rasterizing the pages with
// pdftoppm. Speaker notes are read directly from the pptx archive.
type LibreOfficeExporter struct {
	soffice  *tool.Tool
	pdftoppm *tool.Tool
}

// NewLibreOfficeExporter resolves the export toolchain from the settings.
func NewLibreOfficeExporter(cfg *config.Settings) *LibreOfficeExporter {
	return &LibreOfficeExporter{
		soffice:  tool.New("soffice", cfg.ExportEnginePath, cfg.ExportTimeout),
		pdftoppm: tool.New("pdftoppm", cfg.PDFRenderPath, cfg.ExportTimeout),
	}
}

// Name identifies the export engine.
func (e *LibreOfficeExporter) Name() string { return "libreoffice" }

// Available reports whether both soffice and pdftoppm can be invoked.
func (e *LibreOfficeExporter) Available() error {
	if err := e.soffice.Available(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrExportEngineUnavailable, err)
	}
	if err := e.pdftoppm.Available(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrExportEngineUnavailable, err)
	}
	return nil
}

// Export converts the deck into one PNG per slide under imageDir and
// returns the image paths in slide order.
func (e *LibreOfficeExporter) Export(ctx context.Context, sourcePath, imageDir string) ([]string, error) {
	if _, err := os.Stat(sourcePath); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSourceUnreadable, err)
	}

	logger.Info("exporting %s to pdf", filepath.Base(sourcePath))
	if _, err := e.soffice.Run(ctx,
		"--headless",
		"--convert-to", "pdf",
		"--outdir", imageDir,
		sourcePath,
	); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrExportFailed, err)
	}

	stem := deckStem(sourcePath)
	pdfPath := filepath.Join(imageDir, stem+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		// soffice derives the output name from the input; fall back to
		// the only pdf in the directory.
		matches, _ := filepath.Glob(filepath.Join(imageDir, "*.pdf"))
		if len(matches) != 1 {
			return nil, fmt.Errorf("%w: converted pdf not found in %s", models.ErrExportFailed, imageDir)
		}
		pdfPath = matches[0]
	}

	logger.Info("rasterizing %s", filepath.Base(pdfPath))
	prefix := filepath.Join(imageDir, "slide")
	if _, err := e.pdftoppm.Run(ctx,
		"-png",
		"-r", fmt.Sprint(config.ExportDPI),
		pdfPath,
		prefix,
	); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrExportFailed, err)
	}

	images, err := collectSlideImages(imageDir)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: no slide images produced", models.ErrExportFailed)
	}
	return images, nil
}

// collectSlideImages finds the rendered pages and orders them by their
// numeric page suffix, not lexically, so slide-10 sorts after slide-9.
func collectSlideImages(imageDir string) ([]string, error) {
	entries, err := os.ReadDir(imageDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrExportFailed, err)
	}

	type page struct {
		num  int
		path string
	}
	var pages []page
	for _, entry := range entries {
		m := slidePageRe.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		num, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		pages = append(pages, page{num: num, path: filepath.Join(imageDir, entry.Name())})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].num < pages[j].num })

	paths := make([]string, len(pages))
	for i, p := range pages {
		paths[i] = p.path
	}
	return paths, nil
}

// deckStem returns the deck filename without directory or extension.
func deckStem(sourcePath string) string {
	base := filepath.Base(sourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
