package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/schemaform"
	"github.com/reoring/schemaform/i18n"
	"github.com/reoring/schemaform/jsonvalue"
	"github.com/reoring/schemaform/rules"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "scaffold":
		scaffoldCmd(os.Args[2:])
	case "rules":
		rulesCmd(os.Args[2:])
	case "validate":
		os.Exit(validateCmd(os.Args[2:], os.Stdout))
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `schemaform CLI

Usage:
  schemaform scaffold -schema root.json [-mount point=file.yaml ...] [-config cfg.yaml]
  schemaform rules    -schema root.json [-mount point=file.yaml ...] [-config cfg.yaml]
  schemaform validate -schema root.json -data data.json [-json]

Common flags:
  -config   configuration file (yaml/json/toml); SCHEMAFORM_* variables override it
  -lang     message language (en, ja)
  -pattern  pattern policy for non-string values (strict, lenient)
  -v        debug logging`)
}

// mountFlags collects repeated -mount point=file flags.
type mountFlags []MountConfig

func (m *mountFlags) String() string {
	parts := make([]string, len(*m))
	for i, mc := range *m {
		parts[i] = mc.Point + "=" + mc.Schema
	}
	return strings.Join(parts, ",")
}

func (m *mountFlags) Set(v string) error {
	point, file, ok := strings.Cut(v, "=")
	if !ok || point == "" || file == "" {
		return fmt.Errorf("want point=file, got %q", v)
	}
	*m = append(*m, MountConfig{Point: point, Schema: file})
	return nil
}

type commonFlags struct {
	config  string
	schema  string
	mounts  mountFlags
	lang    string
	pattern string
	verbose bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.config, "config", "", "configuration file")
	fs.StringVar(&c.schema, "schema", "", "schema file mounted at the root")
	fs.Var(&c.mounts, "mount", "point=file schema mount (repeatable)")
	fs.StringVar(&c.lang, "lang", "", "message language")
	fs.StringVar(&c.pattern, "pattern", "", "pattern policy for non-string values")
	fs.BoolVar(&c.verbose, "v", false, "enable debug logs")
}

// session is the state every subcommand starts from.
type session struct {
	cfg      *Config
	logger   *slog.Logger
	compiler *schemaform.Compiler
	mounts   []schemaform.Mount
}

func setup(c *commonFlags) *session {
	cfg, err := loadConfig(c.config)
	if err != nil {
		fatalf("%v", err)
	}
	if c.lang != "" {
		cfg.Language = c.lang
	}
	if c.pattern != "" {
		cfg.PatternPolicy = c.pattern
	}
	if c.verbose {
		cfg.LogLevel = "debug"
	}
	logger := setupLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	i18n.SetLanguage(cfg.Language)

	policy, ok := schemaform.ParsePatternPolicy(cfg.PatternPolicy)
	if !ok {
		fatalf("unknown pattern policy %q", cfg.PatternPolicy)
	}

	specs := cfg.Mounts
	if c.schema != "" {
		specs = append([]MountConfig{{Point: schemaform.RootPoint, Schema: c.schema}}, specs...)
	}
	specs = append(specs, c.mounts...)
	if len(specs) == 0 {
		fatalf("no schema given: use -schema, -mount or mounts in the config file")
	}

	mounts, err := buildMounts(specs)
	if err != nil {
		fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	mounts, err = schemaform.Resolve(ctx, mounts...)
	if err != nil {
		fatalf("resolve mounts: %v", err)
	}
	logger.Debug("mounts resolved", "count", len(mounts))

	return &session{
		cfg:    cfg,
		logger: logger,
		compiler: schemaform.NewCompiler(
			schemaform.WithLogger(logger),
			schemaform.WithPatternPolicy(policy),
		),
		mounts: mounts,
	}
}

func buildMounts(specs []MountConfig) ([]schemaform.Mount, error) {
	out := make([]schemaform.Mount, 0, len(specs))
	for _, spec := range specs {
		point := spec.Point
		if point == "" {
			point = schemaform.RootPoint
		}
		if spec.Async {
			out = append(out, schemaform.Async(point, schemaform.FileLoader(spec.Schema)))
			continue
		}
		s, err := schemaform.LoadSchemaFile(spec.Schema)
		if err != nil {
			return nil, fmt.Errorf("mount %q: %w", point, err)
		}
		out = append(out, schemaform.At(point, s))
	}
	return out, nil
}

func (s *session) rules() rules.Group {
	tree, err := s.compiler.BuildRules(s.mounts...)
	if err != nil {
		fatalf("build rules: %v", err)
	}
	tree, err = applyOverrides(tree, s.cfg.Rules)
	if err != nil {
		fatalf("rule overrides: %v", err)
	}
	return tree
}

func scaffoldCmd(args []string) {
	fs := flag.NewFlagSet("scaffold", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	_ = fs.Parse(args)

	sess := setup(&common)
	data, err := schemaform.Scaffold(sess.mounts...)
	if err != nil {
		fatalf("scaffold: %v", err)
	}
	writeJSON(os.Stdout, jsonvalue.Compact(data))
}

func rulesCmd(args []string) {
	fs := flag.NewFlagSet("rules", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	_ = fs.Parse(args)

	sess := setup(&common)
	writeJSON(os.Stdout, rules.Describe(sess.rules()))
}

// validateCmd returns the process exit code: 0 valid, 1 invalid.
func validateCmd(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var common commonFlags
	var dataPath string
	var asJSON bool
	common.register(fs)
	fs.StringVar(&dataPath, "data", "", "data file to validate (json or yaml)")
	fs.BoolVar(&asJSON, "json", false, "print issues as JSON")
	_ = fs.Parse(args)
	if dataPath == "" {
		fs.Usage()
		os.Exit(2)
	}

	sess := setup(&common)
	data, err := readData(dataPath)
	if err != nil {
		fatalf("read data: %v", err)
	}
	iss := schemaform.Explain(sess.rules(), data)
	sess.logger.Debug("validated", "file", dataPath, "issues", len(iss))

	if asJSON {
		if iss == nil {
			iss = schemaform.Issues{}
		}
		writeJSON(out, iss)
	} else if len(iss) == 0 {
		fmt.Fprintln(out, "valid")
	} else {
		for _, it := range iss {
			fmt.Fprintf(out, "%s: %s (%s)\n", it.Path, it.Message, it.Code)
		}
	}
	if len(iss) > 0 {
		return 1
	}
	return 0
}

func readData(path string) (any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var v any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &v)
	default:
		err = j.Unmarshal(b, &v)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func writeJSON(w io.Writer, v any) {
	b, err := j.MarshalIndent(v, "", "  ")
	if err != nil {
		fatalf("encode output: %v", err)
	}
	b = append(b, '\n')
	if _, err := w.Write(b); err != nil {
		fatalf("write output: %v", err)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
