package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	initName   string
	initPrefix string
	initOutput string
	initForce  bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a starter spec and settings file",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().StringVarP(&initName, "name", "n", "gl", "Spec file base name")
	initCmd.Flags().StringVar(&initPrefix, "prefix", "gl", "Entry point prefix of the native API")
	initCmd.Flags().StringVarP(&initOutput, "output", "o", ".", "Output directory")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing files")
	rootCmd.AddCommand(initCmd)
}

const starterSpec = `types:
  - name: GLenum
    csharp: Int32
    c: unsigned int
  - name: GLint
    csharp: Int32
    c: int
  - name: GLsizei
    csharp: Int32
    c: int

enums:
  - name: BeginMode
    constants:
      - name: POINTS
        value: 0x0000
      - name: LINES
        value: 0x0001
      - name: TRIANGLES
        value: 0x0004

delegates:
  - name: DrawArrays
    parameters:
      - name: mode
        type: GLenum
      - name: first
        type: GLint
      - name: count
        type: GLsizei

functions:
  - name: DrawArrays
    delegate: DrawArrays
    version: "1.1"
`

const starterSettings = `# Settings for bind generate -c %[1]s
output_dir: ./generated
namespace: OpenTK
class_name: GL
function_prefix: %[2]s
deprecated_flag: ALLOW_DEPRECATED_GL
core_category: Core
dedup: scope
# doc_path: docs
# license_file: LICENSE.txt
`

func runInit(cmd *cobra.Command, args []string) error {
	logger.Info("initializing project", "dir", initOutput)

	if err := os.MkdirAll(initOutput, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	specPath := filepath.Join(initOutput, initName+".yaml")
	settingsPath := filepath.Join(initOutput, "bind.yaml")
	if err := writeStarter(specPath, starterSpec); err != nil {
		return err
	}
	if err := writeStarter(settingsPath, fmt.Sprintf(starterSettings, settingsPath, initPrefix)); err != nil {
		return err
	}

	if !quiet {
		fmt.Printf("Created:\n")
		fmt.Printf("  %s\n", specPath)
		fmt.Printf("  %s\n", settingsPath)
		fmt.Printf("\nNext: bind generate -c %s %s\n", settingsPath, specPath)
	}
	return nil
}

func writeStarter(path, content string) error {
	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
