// Package biome assembles and runs Biome CLI invocations.
package biome

import "strconv"

// CheckOptions configures "biome check".
type CheckOptions struct {
	Write                  bool
	Unsafe                 bool
	FormatterEnabled       bool
	LinterEnabled          bool
	OrganizeImportsEnabled bool
	Staged                 bool
	Changed                bool
	Since                  string
	Paths                  []string
}

// DefaultCheckOptions enables formatter, linter and import sorting.
func DefaultCheckOptions(paths ...string) CheckOptions {
	return CheckOptions{
		FormatterEnabled:       true,
		LinterEnabled:          true,
		OrganizeImportsEnabled: true,
		Paths:                  paths,
	}
}

// Args returns the argument vector in a fixed order: subcommand, mode flags,
// enable triads, VCS filters, then paths.
func (o CheckOptions) Args() []string {
	args := []string{"check"}
	if o.Write {
		args = append(args, "--write")
	}
	if o.Unsafe {
		args = append(args, "--unsafe")
	}
	args = appendTriads(args, o.FormatterEnabled, o.LinterEnabled, o.OrganizeImportsEnabled)
	if o.Staged {
		args = append(args, "--staged")
	}
	if o.Changed {
		args = append(args, "--changed")
	}
	if o.Since != "" {
		args = append(args, "--since="+o.Since)
	}
	return append(args, o.Paths...)
}

// CIOptions configures "biome ci". CI runs never write to the working tree,
// so there are no write, unsafe or staged options.
type CIOptions struct {
	FormatterEnabled       bool
	LinterEnabled          bool
	OrganizeImportsEnabled bool
	Changed                bool
	Since                  string
	Paths                  []string
}

// DefaultCIOptions enables formatter, linter and import sorting.
func DefaultCIOptions(paths ...string) CIOptions {
	return CIOptions{
		FormatterEnabled:       true,
		LinterEnabled:          true,
		OrganizeImportsEnabled: true,
		Paths:                  paths,
	}
}

// Args returns the argument vector in the same order as CheckOptions.Args.
func (o CIOptions) Args() []string {
	args := appendTriads([]string{"ci"}, o.FormatterEnabled, o.LinterEnabled, o.OrganizeImportsEnabled)
	if o.Changed {
		args = append(args, "--changed")
	}
	if o.Since != "" {
		args = append(args, "--since="+o.Since)
	}
	return append(args, o.Paths...)
}

// appendTriads always emits the three enable flags explicitly.
func appendTriads(args []string, formatter, linter, organizeImports bool) []string {
	return append(args,
		"--formatter-enabled="+strconv.FormatBool(formatter),
		"--linter-enabled="+strconv.FormatBool(linter),
		"--organize-imports-enabled="+strconv.FormatBool(organizeImports),
	)
}
