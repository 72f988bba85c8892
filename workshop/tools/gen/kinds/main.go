// Command kinds scaffolds a new artifact kind: a template_<kind>.go skeleton
// under core/generator plus the registry row and template-table entry to add
// by hand. Run from the repository root:
//
//	go run workshop/tools/gen/kinds/main.go -kind worker -basedir core/workers -ext js
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

type Config struct {
	Kind    string
	BaseDir string
	Suffix  string
	Ext     string
	// Derived fields
	ConstName     string
	TemplateConst string
	FileName      string
}

const fileTemplate = `package generator

// {{.TemplateConst}} renders the per-model {{.Kind}} artifact.
const {{.TemplateConst}} = ` + "`" + `// Code generated by constructors v{{"{{"}}.Version{{"}}"}}. DO NOT EDIT.
// {{"{{"}}.Model.Name{{"}}"}} {{.Kind}} for {{"{{"}}.Service.MicroserviceName{{"}}"}}.

// TODO: fill in the {{.Kind}} template body.
` + "`" + `
`

func main() {
	cfg := parseFlags()

	fmt.Printf("Scaffolding kind: %s\n", cfg.Kind)
	fmt.Printf("  Output: %s/<model>.%s.core.%s\n", cfg.BaseDir, cfg.Suffix, cfg.Ext)

	writeTemplateFile(cfg)
	printWiring(cfg)
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.Kind, "kind", "", "Artifact kind name (e.g., worker)")
	flag.StringVar(&cfg.BaseDir, "basedir", "", "Output base directory (e.g., core/workers)")
	flag.StringVar(&cfg.Suffix, "suffix", "", "File suffix (defaults to the kind name)")
	flag.StringVar(&cfg.Ext, "ext", "js", "File extension")

	flag.Parse()

	if cfg.Kind == "" {
		panic("missing required flag: -kind")
	}
	if cfg.BaseDir == "" {
		panic("missing required flag: -basedir")
	}
	cfg.Kind = strings.ToLower(cfg.Kind)
	if cfg.Suffix == "" {
		cfg.Suffix = cfg.Kind
	}

	title := strings.ToUpper(cfg.Kind[:1]) + cfg.Kind[1:]
	cfg.ConstName = "Kind" + title
	cfg.TemplateConst = title + "Template"
	cfg.FileName = fmt.Sprintf("template_%s.go", cfg.Kind)

	return cfg
}

func writeTemplateFile(cfg Config) {
	target := filepath.Join("core", "generator", cfg.FileName)
	if _, err := os.Stat(target); err == nil {
		panic(fmt.Errorf("refusing to overwrite existing %s", target))
	}

	tmpl := template.Must(template.New("kind").Parse(fileTemplate))

	f, err := os.Create(target)
	if err != nil {
		panic(fmt.Errorf("creating %s: %w", target, err))
	}
	defer f.Close()

	if err := tmpl.Execute(f, cfg); err != nil {
		panic(fmt.Errorf("rendering %s: %w", target, err))
	}
	fmt.Printf("Wrote %s\n", target)
}

func printWiring(cfg Config) {
	fmt.Println()
	fmt.Println("Add to core/artifacts/artifacts.go:")
	fmt.Printf("  %s Kind = %q\n", cfg.ConstName, cfg.Kind)
	fmt.Println("and to DefaultRegistry:")
	fmt.Printf("  {%s, Target{BaseDir: %q, Suffix: %q, Ext: %q}},\n",
		cfg.ConstName, cfg.BaseDir, cfg.Suffix, cfg.Ext)
	fmt.Println()
	fmt.Println("Add to core/generator/generator.go templateSources:")
	fmt.Printf("  artifacts.%s: %s,\n", cfg.ConstName, cfg.TemplateConst)
}
