package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/javanhut/ditiear/internal/colors"
	"github.com/javanhut/ditiear/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get and set configuration options",
	Long: `Get and set ditiear configuration options.

Configuration can be set at two levels:
- Global (~/.ditiearconfig) - applies to all repositories
- Repository (.ditiear/config) - applies to current repository only

Examples:
  ditiear config                              # Interactive mode
  ditiear config core.cas_root .ditiear/objects
  ditiear config --global core.default_archive update.ditiear
  ditiear config --list
  ditiear config core.cas_root`,
	RunE: runConfig,
}

var (
	configGlobal bool
	configList   bool
)

func init() {
	configCmd.Flags().BoolVar(&configGlobal, "global", false, "use global config file")
	configCmd.Flags().BoolVar(&configList, "list", false, "list all configuration")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configList {
		return listConfig()
	}

	if len(args) == 0 {
		return interactiveConfig()
	}

	if len(args) == 1 {
		return getConfigValue(args[0])
	}

	if len(args) == 2 {
		return setConfigValue(args[0], args[1], configGlobal)
	}

	return fmt.Errorf("invalid usage. See: ditiear config --help")
}

func listConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println(colors.SectionHeader("Core Configuration:"))
	fmt.Printf("  core.cas_root = %s\n", colors.InfoText(cfg.Core.CASRoot))
	fmt.Printf("  core.default_archive = %s\n", colors.InfoText(cfg.Core.DefaultArchive))
	fmt.Printf("  core.root_store_path = %s\n", colors.InfoText(cfg.Core.RootStorePath))

	fmt.Println()
	fmt.Println(colors.SectionHeader("Color Configuration:"))
	fmt.Printf("  color.ui = %s\n", colors.InfoText(fmt.Sprintf("%t", cfg.Color.UI)))
	fmt.Printf("  color.diff = %s\n", colors.InfoText(fmt.Sprintf("%t", cfg.Color.Diff)))

	return nil
}

func getConfigValue(key string) error {
	value, err := config.GetValue(key)
	if err != nil {
		return err
	}

	if value == "" {
		fmt.Printf("%s is %s\n", key, colors.Gray("(not set)"))
	} else {
		fmt.Println(value)
	}

	return nil
}

func setConfigValue(key, value string, global bool) error {
	if err := config.SetValue(key, value, global); err != nil {
		return err
	}

	scope := "repository"
	if global {
		scope = "global"
	}

	fmt.Printf("%s %s config: %s = %s\n",
		colors.SuccessText("Set"),
		scope,
		colors.Bold(key),
		colors.InfoText(value))

	return nil
}

// interactiveConfig runs an interactive configuration session
func interactiveConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Println(colors.SectionHeader("Interactive Configuration"))
	fmt.Println()

	fmt.Printf("CAS root (%s)> ", colors.Dim(cfg.Core.CASRoot))
	casRoot, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read cas root: %w", err)
	}
	casRoot = strings.TrimSpace(casRoot)
	if casRoot != "" {
		cfg.Core.CASRoot = casRoot
	}

	fmt.Printf("Default archive path (%s)> ", colors.Dim(cfg.Core.DefaultArchive))
	archive, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read default archive: %w", err)
	}
	archive = strings.TrimSpace(archive)
	if archive != "" {
		cfg.Core.DefaultArchive = archive
	}

	fmt.Printf("Label store path (%s)> ", colors.Dim(cfg.Core.RootStorePath))
	rootStore, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read root store path: %w", err)
	}
	rootStore = strings.TrimSpace(rootStore)
	if rootStore != "" {
		cfg.Core.RootStorePath = rootStore
	}

	if err := config.SaveRepoConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println(colors.SuccessText("Configuration saved."))
	return nil
}
