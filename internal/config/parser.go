package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/ZebulonRouseFrantzich/biomectl/internal/platform"
)

// Parser represents a Lua config parser with platform detection.
type Parser struct {
	detector platform.Detector
	logger   Logger
}

// NewParser creates a new config parser. detector may be nil, in which case
// no platform table is available to the config.
func NewParser(detector platform.Detector, logger Logger) *Parser {
	if logger == nil {
		logger = defaultLogger()
	}
	return &Parser{detector: detector, logger: logger}
}

// ParseFile parses the config at path. A missing file yields Default().
func (p *Parser) ParseFile(ctx context.Context, path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		p.logger.Debug("no config file, using defaults", "path", path)
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxConfigSize+1))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > MaxConfigSize {
		return nil, &ParseError{
			Message: "config file too large",
			Detail:  fmt.Sprintf("%s exceeds %d bytes", path, MaxConfigSize),
		}
	}

	content := string(data)
	for _, finding := range DetectSensitiveData(content) {
		p.logger.Warn("possible secret in config file; prefer the GITHUB_TOKEN environment variable",
			"path", path, "line", finding.Line, "kind", finding.PatternName, "preview", finding.Preview)
	}

	p.logger.Debug("parsing config", "path", path)
	return p.ParseString(ctx, content)
}

// ParseString parses a Lua config from a string.
// Fields the config does not set keep their Default() values.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultParseTimeout)
		defer cancel()
	}

	L := newSandboxedVM(ctx)
	defer L.Close()

	// Detect platform and inject platform table
	if p.detector != nil {
		platformInfo, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, platformInfo); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		if ctx.Err() != nil {
			return nil, &ParseError{Message: "config evaluation timed out", Detail: err.Error()}
		}
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return extractConfig(L)
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig reads the global "biome" table over the defaults.
func extractConfig(L *lua.LState) (*Config, error) {
	biomeTable := L.GetGlobal(luaGlobalBiome)
	if biomeTable.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'biome' table",
			Detail:  fmt.Sprintf("expected table, got %s", biomeTable.Type()),
		}
	}

	config := Default()
	table := biomeTable.(*lua.LTable)

	stringFields := []struct {
		name string
		dest *string
	}{
		{luaFieldBinaryVersion, &config.BinaryVersion},
		{luaFieldDownloadDir, &config.DownloadDir},
		{luaFieldCacheDir, &config.CacheDir},
		{luaFieldDownloadScheme, &config.DownloadScheme},
		{luaFieldSchemeThreshold, &config.SchemeThreshold},
		{luaFieldReleasesURL, &config.ReleasesURL},
		{luaFieldDownloadBaseURL, &config.DownloadBaseURL},
		{luaFieldKeyring, &config.Keyring},
		{luaFieldSignatureSuffix, &config.SignatureSuffix},
	}

	for _, field := range stringFields {
		if err := extractString(table, field.name, field.dest); err != nil {
			return nil, err
		}
	}

	if checksumsVal := table.RawGetString(luaFieldChecksums); checksumsVal.Type() != lua.LTNil {
		checksums, err := extractChecksums(checksumsVal)
		if err != nil {
			return nil, err
		}
		config.Checksums = checksums
	}

	if err := config.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}

	return config, nil
}

// extractString copies a string field into dest. nil (e.g. from
// platform.when) leaves dest untouched; other types are rejected.
func extractString(table *lua.LTable, name string, dest *string) error {
	val := table.RawGetString(name)
	switch val.Type() {
	case lua.LTNil:
		return nil
	case lua.LTString:
		*dest = val.String()
		return nil
	default:
		return &ParseError{
			Message: fmt.Sprintf("invalid '%s'", name),
			Detail:  fmt.Sprintf("expected string, got %s", val.Type()),
		}
	}
}

// extractChecksums reads a map of artifact name to hex digest.
func extractChecksums(val lua.LValue) (map[string]string, error) {
	table, ok := val.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: fmt.Sprintf("invalid '%s'", luaFieldChecksums),
			Detail:  fmt.Sprintf("expected table, got %s", val.Type()),
		}
	}

	checksums := make(map[string]string)
	var bad string
	table.ForEach(func(key, value lua.LValue) {
		if bad != "" {
			return
		}
		if key.Type() != lua.LTString || value.Type() != lua.LTString {
			bad = fmt.Sprintf("entries must be artifact = \"sha256\" strings (got %s = %s)", key.Type(), value.Type())
			return
		}
		checksums[key.String()] = strings.TrimSpace(value.String())
	})

	if bad != "" {
		return nil, &ParseError{Message: fmt.Sprintf("invalid '%s'", luaFieldChecksums), Detail: bad}
	}
	return checksums, nil
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		// Extract the most relevant part of the error
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
