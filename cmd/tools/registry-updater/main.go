// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"luuno-orchestrator/internal/orchestrator/recommendation"
	"luuno-orchestrator/pkg/registry"
)

const defaultRegistryPath = "configs/templates.json"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		help(out)
		return fmt.Errorf("no command given")
	}

	switch args[0] {
	case "add":
		return runAdd(args[1:], out)
	case "update":
		return runUpdate(args[1:], out)
	case "alias":
		return runAlias(args[1:], out)
	case "validate":
		return runValidate(args[1:], out)
	case "list":
		return runList(args[1:], out)
	case "help":
		help(out)
		return nil
	default:
		help(out)
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func newFlagSet(name string, path *string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(path, "path", defaultRegistryPath, "Path to registry file")
	return fs
}

func runAdd(args []string, out io.Writer) error {
	var (
		path    string
		actions []string
		aliases []string
	)
	fs := newFlagSet("add", &path)
	businessType := fs.String("type", "", "Business type key (e.g., bakery)")
	revenue := fs.String("revenue", "", "Projected revenue increase (e.g., 20-35%)")
	timeSavings := fs.String("time-savings", "", "Projected time savings (e.g., 15-20 hours/week)")
	customers := fs.String("customers", "", "Projected customer growth (e.g., 30-45%)")
	fs.Func("action", "Growth action, repeat 7 times in category order", func(v string) error {
		actions = append(actions, v)
		return nil
	})
	fs.Func("alias", "Alternative business type key, repeatable", func(v string) error {
		aliases = append(aliases, recommendation.NormalizeBusinessType(v))
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return err
	}

	key := recommendation.NormalizeBusinessType(*businessType)
	if key == "" {
		return fmt.Errorf("-type is required for add")
	}
	if len(actions) != len(recommendation.Categories) {
		return fmt.Errorf("exactly %d -action flags are required, got %d", len(recommendation.Categories), len(actions))
	}

	reg, err := loadOrCreate(path)
	if err != nil {
		return err
	}
	if reg.Find(key) != nil {
		return fmt.Errorf("template %s already exists", key)
	}

	tmpl := registry.BusinessTemplate{BusinessType: key, Aliases: aliases, Actions: actions}
	if *revenue != "" || *timeSavings != "" || *customers != "" {
		tmpl.Projections = &registry.Projection{
			RevenueIncrease: *revenue,
			TimeSavings:     *timeSavings,
			CustomerGrowth:  *customers,
		}
	}
	reg.Templates = append(reg.Templates, tmpl)

	if err := save(reg, path); err != nil {
		return err
	}
	fmt.Fprintf(out, "Added template: %s\n", key)
	return nil
}

func runUpdate(args []string, out io.Writer) error {
	var path string
	fs := newFlagSet("update", &path)
	businessType := fs.String("type", "", "Business type to update")
	field := fs.String("field", "", "Field to update (action1..action7, revenueIncrease, timeSavings, customerGrowth)")
	value := fs.String("value", "", "New value for the field")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *businessType == "" || *field == "" || *value == "" {
		return fmt.Errorf("-type, -field and -value are required for update")
	}

	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	key := recommendation.NormalizeBusinessType(*businessType)
	tmpl := reg.Find(key)
	if tmpl == nil {
		return fmt.Errorf("template %s not found", key)
	}

	if err := setField(tmpl, *field, *value); err != nil {
		return err
	}

	if err := save(reg, path); err != nil {
		return err
	}
	fmt.Fprintf(out, "Updated template %s, field %s\n", key, *field)
	return nil
}

func setField(tmpl *registry.BusinessTemplate, field, value string) error {
	if n, ok := strings.CutPrefix(field, "action"); ok {
		i, err := strconv.Atoi(n)
		if err != nil || i < 1 || i > len(tmpl.Actions) {
			return fmt.Errorf("invalid action field: %s", field)
		}
		tmpl.Actions[i-1] = value
		return nil
	}

	if tmpl.Projections == nil {
		tmpl.Projections = &registry.Projection{}
	}
	switch field {
	case "revenueIncrease":
		tmpl.Projections.RevenueIncrease = value
	case "timeSavings":
		tmpl.Projections.TimeSavings = value
	case "customerGrowth":
		tmpl.Projections.CustomerGrowth = value
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return nil
}

func runAlias(args []string, out io.Writer) error {
	var path string
	fs := newFlagSet("alias", &path)
	businessType := fs.String("type", "", "Business type that owns the alias")
	alias := fs.String("alias", "", "Alias to add")
	if err := fs.Parse(args); err != nil {
		return err
	}

	key := recommendation.NormalizeBusinessType(*businessType)
	aliasKey := recommendation.NormalizeBusinessType(*alias)
	if key == "" || aliasKey == "" {
		return fmt.Errorf("-type and -alias are required for alias")
	}

	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	tmpl := reg.Find(key)
	if tmpl == nil {
		return fmt.Errorf("template %s not found", key)
	}
	tmpl.Aliases = append(tmpl.Aliases, aliasKey)

	if err := save(reg, path); err != nil {
		return err
	}
	fmt.Fprintf(out, "Added alias %s -> %s\n", aliasKey, key)
	return nil
}

func runValidate(args []string, out io.Writer) error {
	var path string
	fs := newFlagSet("validate", &path)
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Check(); err != nil {
		return fmt.Errorf("registry validation failed: %w", err)
	}

	fmt.Fprintf(out, "Registry validation passed. Found %d templates.\n", len(reg.Templates))
	return nil
}

func runList(args []string, out io.Writer) error {
	var path string
	fs := newFlagSet("list", &path)
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	for _, tmpl := range reg.Templates {
		if len(tmpl.Aliases) > 0 {
			fmt.Fprintf(out, "%s (%s)\n", tmpl.BusinessType, strings.Join(tmpl.Aliases, ", "))
			continue
		}
		fmt.Fprintln(out, tmpl.BusinessType)
	}
	return nil
}

func loadOrCreate(path string) (*registry.TemplateRegistry, error) {
	reg, err := registry.LoadRegistry(path)
	if err == nil {
		return reg, nil
	}
	if os.IsNotExist(err) {
		return &registry.TemplateRegistry{Version: "1.0", Templates: []registry.BusinessTemplate{}}, nil
	}
	return nil, fmt.Errorf("failed to load registry: %w", err)
}

// save runs the semantic checks before writing so a bad edit never lands on disk.
func save(reg *registry.TemplateRegistry, path string) error {
	if err := reg.Check(); err != nil {
		return err
	}
	reg.LastUpdated = time.Now().UTC().Format("2006-01-02")
	return registry.SaveRegistry(reg, path)
}

func help(out io.Writer) {
	fmt.Fprint(out, `
Usage: registry-updater <command> [flags]

Commands:
  add       Add a new growth template to the registry
  update    Update one field of an existing template
  alias     Add an alias to an existing template
  validate  Validate the registry file
  list      List registered templates and their aliases
  help      Show this help message

Examples:
  registry-updater add -type bakery -action "..." (x7) -revenue 20-35% -time-savings "15-20 hours/week" -customers 30-45%
  registry-updater update -type bakery -field action3 -value "Automate dough prep scheduling"
  registry-updater alias -type salon -alias "beauty parlor"
  registry-updater validate -path configs/templates.json

Use 'registry-updater <command> -h' for more information about a command.
`)
}
