package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"rvos/kernel/config"
	"rvos/kernel/kmain"
)

func main() {
	var (
		configPath string
		logLevel   string
		memoryEnd  uint64
	)

	rootCmd := &cobra.Command{
		Use:   "rvos",
		Short: "Hosted Sv39 memory-core teaching kernel",
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	bootCmd := &cobra.Command{
		Use:   "boot",
		Short: "Initialize the memory core and run the boot walkthrough",
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			logrus.SetLevel(level)

			layout := config.Default()
			if configPath != "" {
				if layout, err = config.Load(configPath); err != nil {
					return err
				}
			}
			if memoryEnd != 0 {
				layout.MemoryEnd = memoryEnd
				if err := layout.Validate(); err != nil {
					return err
				}
			}

			if kerr := kmain.Kmain(layout); kerr != nil {
				return fmt.Errorf("%s: %s", kerr.Module, kerr.Message)
			}
			return nil
		},
	}

	bootCmd.Flags().StringVar(&configPath, "config", "", "path to a TOML memory layout file")
	bootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	bootCmd.Flags().Uint64Var(&memoryEnd, "mem-end", 0, "override the physical memory end address")
	rootCmd.AddCommand(bootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
