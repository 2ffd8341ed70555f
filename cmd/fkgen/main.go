package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/scohe001/foreign-keys/internal/gen"
	"github.com/scohe001/foreign-keys/internal/naming"
)

var version = "dev"

func main() {
	source := flag.String("source", os.Getenv("GOFILE"), "model source file (defaults to $GOFILE under go:generate)")
	destination := flag.String("destination", "", "output package directory (empty = alongside the source)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("fkgen", version)
		return
	}

	if *source == "" {
		log.Fatal("-source flag is required (or run via go:generate)")
	}

	infos, err := gen.Parse(*source)
	if err != nil {
		log.Fatalf("parse %s: %v", *source, err)
	}
	if len(infos) == 0 {
		log.Fatalf("no model structs found in %s", *source)
	}

	for _, info := range infos {
		info.TableName = inferTableName(info.Name)
	}

	peers, err := parsePeers(*source)
	if err != nil {
		log.Fatalf("parse peers: %v", err)
	}

	opt := gen.RenderOption{PeerInfos: peers}
	outDir := filepath.Dir(*source)

	if *destination != "" {
		outDir = filepath.Join(filepath.Dir(*source), *destination)
		opt.DestPkg = filepath.Base(outDir)
		opt.SourceImport, err = importPathOf(filepath.Dir(*source))
		if err != nil {
			log.Fatalf("resolve source import path: %v", err)
		}
	}

	src, err := gen.RenderFile(infos, opt)
	if err != nil {
		log.Fatalf("render: %v", err)
	}

	base := strings.TrimSuffix(filepath.Base(*source), ".go")
	outPath := filepath.Join(outDir, base+"_gen.go")

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalf("mkdir %s: %v", outDir, err)
	}
	if err := os.WriteFile(outPath, src, 0o644); err != nil { //nolint:gosec // generated code should be world-readable
		log.Fatalf("write %s: %v", outPath, err)
	}

	fmt.Printf("fkgen: wrote %s\n", outPath)
}

// parsePeers parses the sibling model files of source so that relations can
// see struct definitions spread across files. Generated and test files are
// skipped.
func parsePeers(source string) ([]*gen.StructInfo, error) {
	dir := filepath.Dir(source)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var peers []*gen.StructInfo
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}
		if name == filepath.Base(source) ||
			strings.HasSuffix(name, "_test.go") ||
			strings.HasSuffix(name, "_gen.go") {
			continue
		}
		infos, err := gen.Parse(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		peers = append(peers, infos...)
	}
	return peers, nil
}

// importPathOf walks up from dir to the enclosing go.mod and joins the
// module path with the relative directory.
func importPathOf(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err //nolint:wrapcheck // thin wrapper
	}

	cur := abs
	for {
		data, err := os.ReadFile(filepath.Join(cur, "go.mod"))
		if err == nil {
			modPath := modulePath(data)
			if modPath == "" {
				return "", fmt.Errorf("no module directive in %s/go.mod", cur)
			}
			rel, err := filepath.Rel(cur, abs)
			if err != nil {
				return "", err //nolint:wrapcheck // thin wrapper
			}
			if rel == "." {
				return modPath, nil
			}
			return modPath + "/" + filepath.ToSlash(rel), nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", fmt.Errorf("no go.mod found above %s", abs)
		}
		cur = parent
	}
}

// modulePath extracts the module path from go.mod contents.
func modulePath(data []byte) string {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "module "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

// inferTableName converts a CamelCase type name to a snake_case plural table
// name. e.g. "Meal" -> "meals", "PizzaTopping" -> "pizza_toppings"
func inferTableName(typeName string) string {
	return inflection.Plural(naming.CamelToSnake(typeName))
}
