// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// simplelist is a standalone inspection tool for saved list
// directories. It decodes a saved list and prints it as an indented
// tree (default), JSON, or YAML, and can print a BLAKE3 digest of
// the uncompressed payload so logically-identical saves can be
// compared across machines without decompressing by hand.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/pflag"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/simplelist/lib/simplelist"
	"github.com/bureau-foundation/simplelist/lib/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	var output string
	var digest bool
	var bareScalars bool
	var typedArrays bool

	flagSet := pflag.NewFlagSet("simplelist", pflag.ContinueOnError)
	flagSet.StringVarP(&output, "output", "o", "tree", "output format: tree, json, or yaml")
	flagSet.BoolVar(&digest, "digest", false, "print the BLAKE3 digest of the uncompressed payload and exit")
	flagSet.BoolVar(&bareScalars, "bare-scalars", false, "decode unnamed length-1 vectors as bare scalars (json/yaml output)")
	flagSet.BoolVar(&typedArrays, "typed-arrays", false, "decode null-free unnamed numeric vectors as plain arrays (json/yaml output)")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	if flagSet.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: simplelist [flags] <saved-list-directory>\n")
		flagSet.PrintDefaults()
		return 2
	}
	path := flagSet.Arg(0)

	store, err := storage.NewDirStore(filepath.Dir(path))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	dir := filepath.Base(path)

	if digest {
		if err := printDigest(store, dir); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	if err := printList(context.Background(), store, dir, output, bareScalars, typedArrays); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// printDigest hashes the uncompressed payload with BLAKE3. Hashing
// after decompression makes the digest stable across gzip
// implementations and compression levels.
func printDigest(store storage.Store, dir string) error {
	compressed, err := store.ReadFile(store.Join(dir, simplelist.ContentsFile))
	if err != nil {
		return err
	}
	reader, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return fmt.Errorf("opening payload: %w", err)
	}
	defer reader.Close()
	payload, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("decompressing payload: %w", err)
	}

	sum := blake3.Sum256(payload)
	fmt.Printf("%x\n", sum)
	return nil
}

func printList(ctx context.Context, store storage.Store, dir, output string, bareScalars, typedArrays bool) error {
	switch output {
	case "tree":
		return printTreeOutput(store, dir)
	case "json", "yaml":
		// Externals resolve through the default registry; a missing
		// codec fails the whole render rather than printing a
		// placeholder. Use the tree output to inspect such saves.
		value, err := simplelist.Load(ctx, store, dir, &simplelist.LoadOptions{
			BareScalars: bareScalars,
			TypedArrays: typedArrays,
		})
		if err != nil {
			return err
		}
		display := displayValue(value)
		if output == "json" {
			data, err := json.MarshalIndent(display, "", "  ")
			if err != nil {
				return fmt.Errorf("rendering JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}
		data, err := yaml.Marshal(display)
		if err != nil {
			return fmt.Errorf("rendering YAML: %w", err)
		}
		fmt.Print(string(data))
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want tree, json, or yaml)", output)
	}
}

// displayValue converts decoded native values into plain JSON- and
// YAML-friendly trees. Named lists and vectors become maps (name
// order is lost — this is display, not round-tripping), unnamed ones
// become arrays.
func displayValue(value any) any {
	switch v := value.(type) {
	case *simplelist.List:
		if v.Names != nil {
			object := make(map[string]any, len(v.Values))
			for i, child := range v.Values {
				object[v.Names[i]] = displayValue(child)
			}
			return object
		}
		values := make([]any, len(v.Values))
		for i, child := range v.Values {
			values[i] = displayValue(child)
		}
		return values
	case *simplelist.Vector:
		if v.Names != nil {
			object := make(map[string]any, len(v.Values))
			for i, element := range v.Values {
				object[v.Names[i]] = element
			}
			return object
		}
		if v.Scalar {
			return v.Values[0]
		}
		return v.Values
	default:
		return value
	}
}

// printTreeOutput renders the raw wire node tree without resolving
// external references, so it works even when no codec for an
// embedded object is available.
func printTreeOutput(store storage.Store, dir string) error {
	compressed, err := store.ReadFile(store.Join(dir, simplelist.ContentsFile))
	if err != nil {
		return err
	}
	reader, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return fmt.Errorf("opening payload: %w", err)
	}
	defer reader.Close()
	payload, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("decompressing payload: %w", err)
	}

	node, err := simplelist.UnmarshalNode(payload)
	if err != nil {
		return err
	}
	printTree(os.Stdout, node, "", 0)
	return nil
}

func printTree(w io.Writer, node simplelist.Node, name string, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	label := ""
	if name != "" {
		label = name + ": "
	}

	switch n := node.(type) {
	case *simplelist.ListNode:
		fmt.Fprintf(w, "%s%slist [%d]\n", indent, label, len(n.Values))
		for i, child := range n.Values {
			childName := ""
			if n.Names != nil {
				childName = n.Names[i]
			}
			printTree(w, child, childName, depth+1)
		}
	case *simplelist.IntegerNode:
		fmt.Fprintf(w, "%s%s%s\n", indent, label, vectorSummary("integer", len(n.Values), n.Scalar))
	case *simplelist.NumberNode:
		fmt.Fprintf(w, "%s%s%s\n", indent, label, vectorSummary("number", len(n.Values), n.Scalar))
	case *simplelist.StringNode:
		fmt.Fprintf(w, "%s%s%s\n", indent, label, vectorSummary("string", len(n.Values), n.Scalar))
	case *simplelist.BooleanNode:
		fmt.Fprintf(w, "%s%s%s\n", indent, label, vectorSummary("boolean", len(n.Values), n.Scalar))
	case *simplelist.FactorNode:
		fmt.Fprintf(w, "%s%sfactor [%d] with %d levels\n", indent, label, len(n.Codes), len(n.Levels))
	case *simplelist.NothingNode:
		fmt.Fprintf(w, "%s%snothing\n", indent, label)
	case *simplelist.ExternalNode:
		fmt.Fprintf(w, "%s%sexternal -> other_contents/%d\n", indent, label, n.Index)
	}
}

func vectorSummary(kind string, length int, scalar bool) string {
	if scalar {
		return kind + " scalar"
	}
	return fmt.Sprintf("%s [%d]", kind, length)
}
