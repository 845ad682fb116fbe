package ui

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayConfigSimpleOutput(t *testing.T) {
	tcs := []struct {
		name string
		conf DisplayConfig
		want bool
	}{
		{
			name: "interactive terminal with animations",
			conf: DisplayConfig{IsInteractive: true},
			want: false,
		},
		{
			name: "interactive terminal with animations disabled",
			conf: DisplayConfig{IsInteractive: true, DisableAnimation: true},
			want: true,
		},
		{
			name: "piped output",
			conf: DisplayConfig{},
			want: true,
		},
		{
			name: "piped output with animations disabled",
			conf: DisplayConfig{DisableAnimation: true},
			want: true,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.conf.SimpleOutput())
		})
	}
}

// Flags are registered on the root command and inherited by subcommands, the
// same shape the real command tree has.
func TestDisplayConfigFlagHandling(t *testing.T) {
	tcs := []struct {
		name        string
		args        []string
		wantDisable bool
	}{
		{
			name: "no flags",
			args: []string{"logs"},
		},
		{
			name:        "--no-color",
			args:        []string{"logs", "--no-color"},
			wantDisable: true,
		},
		{
			name:        "--no-ansi",
			args:        []string{"logs", "--no-ansi"},
			wantDisable: true,
		},
		{
			name:        "--disable-animation",
			args:        []string{"logs", "--disable-animation"},
			wantDisable: true,
		},
		{
			name:        "global --no-color before the subcommand",
			args:        []string{"--no-color", "logs"},
			wantDisable: true,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			rootCmd := &cobra.Command{Use: "stratus"}
			rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
			rootCmd.PersistentFlags().Bool("no-ansi", false, "Disable ANSI output")
			rootCmd.PersistentFlags().Bool("disable-animation", false, "Disable animations but keep colors")
			rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose logging")

			logsCmd := &cobra.Command{
				Use: "logs",
				Run: func(cmd *cobra.Command, args []string) {},
			}
			rootCmd.AddCommand(logsCmd)

			cmd, args, err := rootCmd.Find(tc.args)
			require.NoError(t, err)
			require.NoError(t, cmd.ParseFlags(args))

			verbose, err := cmd.Flags().GetBool("verbose")
			require.NoError(t, err)

			conf, err := NewDisplayConfig(cmd, verbose)
			require.NoError(t, err)
			assert.Equal(t, tc.wantDisable, conf.DisableAnimation)

			// TTY detection depends on the test environment, but animations
			// off always forces the simple path.
			if conf.DisableAnimation {
				assert.True(t, conf.SimpleOutput())
			}
		})
	}
}
