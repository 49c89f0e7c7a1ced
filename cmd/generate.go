package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caryhaynie/opentk/config"
	"github.com/caryhaynie/opentk/gen"
	"github.com/caryhaynie/opentk/loader"
	"github.com/caryhaynie/opentk/model"
	"github.com/caryhaynie/opentk/output"
	"github.com/caryhaynie/opentk/resolver"
	"github.com/caryhaynie/opentk/validate"
)

var (
	genConfig   string
	genOutput   string
	genTargets  []string
	genSections string
	genDocPath  string
	genLicense  string
	genDedup    string
	genDryRun   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [spec.yaml]",
	Short: "Generate binding artifacts for one or more targets",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genConfig, "config", "c", "", "Settings file (.yaml, .yml or .toml)")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "Output directory (overrides output_dir)")
	generateCmd.Flags().StringSliceVarP(&genTargets, "targets", "t", nil, "Targets to generate (comma-separated, default all)")
	generateCmd.Flags().StringVar(&genSections, "sections", "", "Sections to emit (types, enums, delegates, imports, wrappers, loader)")
	generateCmd.Flags().StringVar(&genDocPath, "doc-path", "", "Documentation directory (overrides doc_path and "+resolver.DocPathEnv+")")
	generateCmd.Flags().StringVar(&genLicense, "license", "", "License file prepended to every artifact (overrides license_file)")
	generateCmd.Flags().StringVar(&genDedup, "dedup", "", "Delegate deduplication policy (adjacent, group, scope)")
	generateCmd.Flags().BoolVar(&genDryRun, "dry-run", false, "Show what would be generated without writing")
	rootCmd.AddCommand(generateCmd)
}

// loadSettings reads the settings file, if any, and applies flag overrides.
func loadSettings(cmd *cobra.Command, configPath string) (config.Settings, error) {
	settings := config.Default()
	if configPath != "" {
		s, err := config.Load(configPath)
		if err != nil {
			return settings, err
		}
		settings = s
	}
	if cmd.Flags().Changed("output") {
		settings.OutputDir = genOutput
	}
	if cmd.Flags().Changed("doc-path") {
		settings.DocPath = genDocPath
	}
	if cmd.Flags().Changed("license") {
		settings.LicenseFile = genLicense
	}
	if cmd.Flags().Changed("dedup") {
		settings.Dedup = config.DedupPolicy(genDedup)
	}
	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// loadAndValidate loads a spec and runs the semantic checks against the
// naming settings.
func loadAndValidate(specPath string, settings config.Settings) (*model.Spec, error) {
	spec, err := loader.LoadSpec(specPath, loader.Options{CoreCategory: settings.CoreCategory})
	if err != nil {
		return nil, fmt.Errorf("loading spec: %w", err)
	}
	result := validate.Validate(spec, validate.Options{
		FunctionPrefix: settings.FunctionPrefix,
		DigitPrefix:    settings.DigitPrefix,
		CoreCategory:   settings.CoreCategory,
	})
	if !result.IsValid() {
		return nil, fmt.Errorf("validation failed:\n%s", result.Error())
	}
	return spec, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	specPath := args[0]
	logger.Info("generating", "spec", specPath)

	settings, err := loadSettings(cmd, genConfig)
	if err != nil {
		return err
	}
	spec, err := loadAndValidate(specPath, settings)
	if err != nil {
		return err
	}
	logger.Debug("spec loaded",
		"enums", spec.Enums.Len(), "delegates", spec.Delegates.Len(), "functions", spec.Functions.Len())

	sections, err := gen.ParseSections(genSections)
	if err != nil {
		return err
	}

	ctx := gen.NewContext(spec, settings)
	ctx.Sections = sections
	ctx.Logger = logger

	dirs := searchDirs(specPath)
	docDir, err := resolver.ResolveDocDir(settings.DocPath, dirs)
	if err != nil {
		return err
	}
	if docDir != "" {
		docs, err := resolver.LoadDocs(docDir, logger)
		if err != nil {
			return fmt.Errorf("loading documentation: %w", err)
		}
		logger.Debug("documentation loaded", "dir", docDir, "files", len(docs))
		ctx.Docs = docs
	}
	if ctx.License, err = resolver.ReadLicense(settings.LicenseFile, dirs); err != nil {
		return err
	}

	targets := genTargets
	if len(targets) == 0 {
		targets = gen.All()
	}
	var allFiles []*gen.OutputFile
	for _, name := range targets {
		g, ok := gen.Get(name)
		if !ok {
			return fmt.Errorf("unknown target %q (available: %s)", name, strings.Join(gen.All(), ", "))
		}
		logger.Debug("running generator", "target", g.Name())
		files, err := g.Generate(ctx)
		if err != nil {
			if errors.Is(err, gen.ErrNotSupported) {
				return fmt.Errorf("target %s cannot emit the requested sections: %w", name, err)
			}
			return fmt.Errorf("generator %s failed: %w", name, err)
		}
		allFiles = append(allFiles, files...)
	}

	if genDryRun {
		changes, err := output.Diff(settings.OutputDir, allFiles)
		if err != nil {
			return err
		}
		dests, _ := output.Destinations(settings.OutputDir, allFiles)
		for _, dest := range dests {
			state := "write"
			if errors.Is(changes[dest], output.ErrUnchanged) {
				state = "unchanged"
			}
			fmt.Printf("  Would %s: %s\n", state, dest)
		}
		return nil
	}

	written, err := output.Commit(settings.OutputDir, allFiles)
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	for _, p := range written {
		logger.Debug("wrote", "path", p)
	}
	logger.Info("generated", "files", len(written), "dir", settings.OutputDir)
	return nil
}

// searchDirs returns directories to search for relative doc and license
// paths:
// 1. The spec file's directory
// 2. The directory containing the running executable
func searchDirs(specPath string) []string {
	dirs := []string{filepath.Dir(specPath)}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return dirs
}
