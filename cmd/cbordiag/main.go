package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ericyao2013/jsoncons/cbor"
)

// CLI defines the cbordiag command-line interface.
//
// The tool reads one or more CBOR data items from a file or from a hex
// literal and renders each in RFC 8949 diagnostic notation (default)
// or as JSON. With --validate it only checks well-formedness.
type CLI struct {
	Input    string `arg:"" optional:"" help:"Input file (omit when using --hex)"`
	Hex      string `short:"x" help:"Inline hex-encoded CBOR instead of a file"`
	JSON     bool   `help:"Emit JSON instead of diagnostic notation"`
	Validate bool   `help:"Only validate well-formedness, print nothing on success"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("cbordiag"),
		kong.Description("Render CBOR data items in diagnostic notation or JSON."),
	)

	if err := run(&cli); err != nil {
		ctx.FatalIfErrorf(err)
	}
}

func run(cli *CLI) error {
	data, err := readInput(cli)
	if err != nil {
		return err
	}

	if cli.Validate {
		return cbor.ValidateDocument(data)
	}

	for len(data) > 0 {
		var line string
		if cli.JSON {
			var js []byte
			js, data, err = cbor.ToJSONBytes(data)
			line = string(js)
		} else {
			line, data, err = cbor.DiagBytes(data)
		}
		if err != nil {
			return err
		}
		fmt.Println(line)
	}
	return nil
}

func readInput(cli *CLI) ([]byte, error) {
	if cli.Hex != "" {
		if cli.Input != "" {
			return nil, errors.New("provide either a file or --hex, not both")
		}
		clean := strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\t' {
				return -1
			}
			return r
		}, cli.Hex)
		data, err := hex.DecodeString(clean)
		if err != nil {
			return nil, fmt.Errorf("decode hex: %w", err)
		}
		return data, nil
	}
	if cli.Input == "" {
		return nil, errors.New("no input: pass a file or --hex")
	}
	data, err := os.ReadFile(cli.Input)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}
