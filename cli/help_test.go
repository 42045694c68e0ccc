package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapText(t *testing.T) {
	lines := wrapText("archive the app and export an ipa for ad-hoc distribution", 20)
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 20)
	}
	assert.Equal(t, "archive the app and", lines[0])

	assert.Equal(t, []string{"one", "two"}, wrapText("one\ntwo", 20))
}

func TestSplitExamples(t *testing.T) {
	desc, examples := splitExamples("Builds the project.\n\nExamples:\n  seedee build --scheme App")
	assert.Equal(t, "Builds the project.", desc)
	assert.Equal(t, "seedee build --scheme App", examples)

	desc, examples = splitExamples("Just text")
	assert.Equal(t, "Just text", desc)
	assert.Empty(t, examples)
}

func TestStyledHelpRendersSections(t *testing.T) {
	root := NewStandardCommand("seedee", "CI/CD toolkit for Xcode projects")
	build := &cobra.Command{
		Use:     "build",
		Short:   "Build the Xcode project",
		Example: "seedee build --scheme App",
		RunE:    func(*cobra.Command, []string) error { return nil },
	}
	build.Flags().AddFlagSet(NewXcodeFlags().FlagSet())
	root.AddCommand(build)
	SetStyledHelp(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"build", "--help"})
	require.NoError(t, root.Execute())

	help := out.String()
	assert.Contains(t, help, "SEEDEE BUILD")
	assert.Contains(t, help, "USAGE")
	assert.Contains(t, help, "FLAGS")
	assert.Contains(t, help, "--scheme")
	assert.Contains(t, help, "EXAMPLES")
}

func TestVersionCommandJSON(t *testing.T) {
	root := NewStandardCommand("seedee", "")
	root.AddCommand(NewVersionCommand("seedee"))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version", "--json"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), `"version"`)
	assert.Contains(t, out.String(), `"goVersion"`)
}
