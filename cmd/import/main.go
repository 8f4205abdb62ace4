// Command import converts a scenario in any supported format (HCL, JSON,
// ASCII map) to the JSON scenario format.
package main

import (
	"flag"
	"fmt"
	"os"

	"gridpath/importer"
	"gridpath/scenario"
)

func main() {
	var (
		inputFile = flag.String("i", "", "Input file path")
		format    = flag.String("f", "", "Format (hcl, json, ascii) - auto-detect if not specified")
		output    = flag.String("o", "", "Output file path (default: stdout)")
	)

	flag.Parse()

	if *inputFile == "" {
		fmt.Fprintf(os.Stderr, "Error: input file required (-i)\n")
		flag.Usage()
		os.Exit(2)
	}

	registry := importer.NewImporterRegistry()

	var (
		s   *scenario.Scenario
		err error
	)
	if *format != "" {
		var content []byte
		content, err = os.ReadFile(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
			os.Exit(1)
		}
		s, err = registry.ImportWithFormat(string(content), *format)
	} else {
		s, err = registry.ImportFile(*inputFile)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing scenario: %v\n", err)
		os.Exit(1)
	}

	jsonData, err := importer.MarshalJSON(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error converting to JSON: %v\n", err)
		os.Exit(1)
	}

	if *output != "" {
		if err := os.WriteFile(*output, jsonData, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Converted %s (%d queries) to %s\n", *inputFile, len(s.Queries), *output)
	} else {
		os.Stdout.Write(jsonData)
	}
}
