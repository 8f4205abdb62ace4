// Package importer reads scenario files in HCL, JSON and ASCII-map form.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gridpath/scenario"
)

// Importer interface defines methods for importing scenarios from various formats
type Importer interface {
	// CanImport checks if the given content can be imported by this importer
	CanImport(content string) bool

	// Import converts the input content into a scenario
	Import(content string) (*scenario.Scenario, error)

	// GetFormatName returns the human-readable name of the format
	GetFormatName() string

	// GetFileExtensions returns common file extensions for this format
	GetFileExtensions() []string
}

// namedImporter is implemented by importers whose error messages benefit
// from the source file name.
type namedImporter interface {
	ImportNamed(name, content string) (*scenario.Scenario, error)
}

// ImporterRegistry manages available importers
type ImporterRegistry struct {
	importers []Importer
}

// NewImporterRegistry creates a new importer registry
func NewImporterRegistry() *ImporterRegistry {
	return &ImporterRegistry{
		importers: []Importer{
			NewJSONImporter(),
			NewHCLImporter(),
			NewASCIIImporter(),
		},
	}
}

// Register adds a new importer to the registry
func (r *ImporterRegistry) Register(importer Importer) {
	r.importers = append(r.importers, importer)
}

// DetectFormat attempts to detect the format of the given content
func (r *ImporterRegistry) DetectFormat(content string) (Importer, error) {
	for _, imp := range r.importers {
		if imp.CanImport(content) {
			return imp, nil
		}
	}
	return nil, fmt.Errorf("unable to detect format")
}

// Import attempts to import content using auto-detection
func (r *ImporterRegistry) Import(content string) (*scenario.Scenario, error) {
	importer, err := r.DetectFormat(content)
	if err != nil {
		return nil, err
	}
	return importer.Import(content)
}

// ImportWithFormat imports content using a specific format
func (r *ImporterRegistry) ImportWithFormat(content, format string) (*scenario.Scenario, error) {
	imp, err := r.byFormat(format)
	if err != nil {
		return nil, err
	}
	return imp.Import(content)
}

// ImportFile reads path and imports it, choosing the importer by file
// extension and falling back to content detection.
func (r *ImporterRegistry) ImportFile(path string) (*scenario.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	content := string(data)

	imp := r.byExtension(filepath.Ext(path))
	if imp == nil {
		if imp, err = r.DetectFormat(content); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	var s *scenario.Scenario
	if named, ok := imp.(namedImporter); ok {
		s, err = named.ImportNamed(path, content)
	} else {
		s, err = imp.Import(content)
	}
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

func (r *ImporterRegistry) byFormat(format string) (Importer, error) {
	format = strings.ToLower(format)
	for _, imp := range r.importers {
		if strings.ToLower(imp.GetFormatName()) == format {
			return imp, nil
		}
	}
	return nil, fmt.Errorf("unknown format: %s", format)
}

func (r *ImporterRegistry) byExtension(ext string) Importer {
	ext = strings.ToLower(ext)
	for _, imp := range r.importers {
		for _, e := range imp.GetFileExtensions() {
			if e == ext {
				return imp
			}
		}
	}
	return nil
}

// GetAvailableFormats returns a list of available import formats
func (r *ImporterRegistry) GetAvailableFormats() []string {
	formats := make([]string, len(r.importers))
	for i, imp := range r.importers {
		formats[i] = imp.GetFormatName()
	}
	return formats
}
