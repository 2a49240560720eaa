package formatter

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tordrt/pgtots/internal/schema"
)

// TypeScriptFormatter renders a schema as a single TypeScript module
type TypeScriptFormatter struct {
	writer  io.Writer
	opts    *Options
	command string
	workers int
}

// NewTypeScriptFormatter creates a new TypeScript formatter
func NewTypeScriptFormatter(w io.Writer, opts *Options) *TypeScriptFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TypeScriptFormatter{
		writer:  w,
		opts:    opts,
		workers: runtime.GOMAXPROCS(0),
	}
}

// WithCommand sets the command line quoted in the header.
func (f *TypeScriptFormatter) WithCommand(command string) *TypeScriptFormatter {
	f.command = command
	return f
}

// WithWorkers limits how many tables are emitted concurrently.
func (f *TypeScriptFormatter) WithWorkers(n int) *TypeScriptFormatter {
	if n > 0 {
		f.workers = n
	}
	return f
}

// Format generates the module and writes it in one piece, so nothing is
// written when generation fails.
func (f *TypeScriptFormatter) Format(ctx context.Context, s *schema.Schema) error {
	out, err := f.Generate(ctx, s)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(f.writer, out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Generate returns the complete TypeScript module for s.
func (f *TypeScriptFormatter) Generate(ctx context.Context, s *schema.Schema) (string, error) {
	log := f.opts.logger()
	results := make([]TableResult, len(s.Tables))
	registry := NewNameRegistry()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)
	for i := range s.Tables {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			table := s.Tables[i]
			results[i] = GenerateTable(table, s.Name, f.opts)
			return registry.Register(table.Name, results[i].Names)
		})
	}
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("failed to generate table declarations: %w", err)
	}

	var tables strings.Builder
	imports := make(map[string]struct{})
	for _, r := range results {
		tables.WriteString(r.Code)
		for _, t := range r.TypesToImport {
			imports[t] = struct{}{}
		}
	}
	tablesTS := registry.Resolve(tables.String())
	for _, missing := range UnresolvedJoins(tablesTS) {
		log.Debug("foreign key target not generated, leaving join type unresolved", "table", missing)
	}

	var b strings.Builder
	if f.opts.WriteHeader {
		f.writeHeader(&b)
	}
	if file := f.opts.jsonTypesFile(); file != "" && len(imports) > 0 {
		fmt.Fprintf(&b, "import { %s } from %s;\n\n",
			strings.Join(sortedKeys(imports), ", "), quote(importPath(file)))
	}
	if _, ok := imports[JSONType]; !ok {
		fmt.Fprintf(&b, "export type %s = unknown;\n", JSONType)
	}
	b.WriteString(GenerateEnumType(s.Enums, f.opts))
	b.WriteString(tablesTS)
	b.WriteString("\n")
	writeTableTypes(&b, s.Tables, results)

	log.Debug("generated typescript", "tables", len(s.Tables), "enums", len(s.Enums), "imports", len(imports))
	return b.String(), nil
}

func (f *TypeScriptFormatter) writeHeader(b *strings.Builder) {
	b.WriteString("/* tslint:disable */\n")
	b.WriteString("/* eslint-disable */\n\n")
	b.WriteString("/**\n")
	b.WriteString(" * AUTO-GENERATED FILE - DO NOT EDIT!\n")
	b.WriteString(" *\n")
	b.WriteString(" * This file was automatically generated by pg-to-ts\n")
	if f.command != "" {
		fmt.Fprintf(b, " * $ %s\n", f.command)
	}
	b.WriteString(" *\n")
	b.WriteString(" */\n\n")
}

// writeTableTypes emits the TableTypes interface and the tables object that
// index every descriptor by its variable name.
func writeTableTypes(b *strings.Builder, tables []schema.Table, results []TableResult) {
	if len(results) == 0 {
		b.WriteString("export interface TableTypes {}\n\n")
		b.WriteString("export const tables = {};\n")
		return
	}

	b.WriteString("export interface TableTypes {\n")
	for i, r := range results {
		fmt.Fprintf(b, "  %s: {\n", propertyName(r.Names.Var))
		fmt.Fprintf(b, "    select: %s;\n", r.Names.Type)
		if tables[i].IsUpdatable {
			fmt.Fprintf(b, "    input: %s;\n", r.Names.Input)
		}
		b.WriteString("  };\n")
	}
	b.WriteString("}\n\n")

	b.WriteString("export const tables = {\n")
	for _, r := range results {
		fmt.Fprintf(b, "  %s,\n", r.Names.Var)
	}
	b.WriteString("};\n")
}

func importPath(file string) string {
	if strings.HasSuffix(file, ".d.ts") {
		return strings.TrimSuffix(file, ".d.ts")
	}
	return strings.TrimSuffix(file, ".ts")
}
