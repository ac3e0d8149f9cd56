package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/foundernote/notes-contract-tests/framework"
	"github.com/foundernote/notes-contract-tests/notesapi"
	"github.com/foundernote/notes-contract-tests/notetests"

	"github.com/alessio/shellescape"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const commandName = "notes-contract-tests"

// commandParams holds the settings for one run. A flag, or its environment variable,
// overrides the config file, which overrides the defaults.
type commandParams struct {
	ServiceURL   string        `yaml:"url" json:"url"`
	UserID       string        `yaml:"user_id" json:"user_id"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	AwaitService time.Duration `yaml:"await_service" json:"await_service"`
	Run          []string      `yaml:"run" json:"run"`
	Skip         []string      `yaml:"skip" json:"skip"`
	Debug        bool          `yaml:"debug" json:"debug"`
	DebugAll     bool          `yaml:"debug_all" json:"debug_all"`
	LogLevel     string        `yaml:"log_level" json:"log_level"`

	// ConfigFile is the file the settings were read from, if any.
	ConfigFile string `yaml:"-" json:"-"`

	filters framework.RegexFilters
}

func defaultParams() commandParams {
	return commandParams{
		UserID:   notetests.DefaultUserID,
		Timeout:  notesapi.DefaultTimeout,
		LogLevel: "info",
	}
}

func (c *commandParams) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ServiceURL, validation.Required, is.URL),
		validation.Field(&c.UserID, validation.Required),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.AwaitService, validation.Min(time.Duration(0))),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
}

// loadConfigFile reads a YAML file over target, expanding environment variables first. It
// does not validate, since flags may still override what the file sets.
func loadConfigFile[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expandedData := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expandedData), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}
	return nil
}

func commandFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Usage: "YAML file with default settings", EnvVars: []string{"NOTES_CONFIG"}},
		&cli.StringFlag{Name: "url", Usage: "base URL of the notes API", EnvVars: []string{"NOTES_API_URL"}},
		&cli.StringFlag{Name: "user-id", Usage: "user that owns the test notes", EnvVars: []string{"NOTES_USER_ID"}},
		&cli.DurationFlag{Name: "timeout", Usage: "timeout for each request", EnvVars: []string{"NOTES_TIMEOUT"}},
		&cli.DurationFlag{Name: "await", Usage: "wait up to this long for the API to start answering", EnvVars: []string{"NOTES_AWAIT"}},
		&cli.StringSliceFlag{Name: "run", Usage: "regex pattern(s) to select tests to run"},
		&cli.StringSliceFlag{Name: "skip", Usage: "regex pattern(s) to select tests not to run"},
		&cli.BoolFlag{Name: "debug", Usage: "enable debug logging for failed tests"},
		&cli.BoolFlag{Name: "debug-all", Usage: "enable debug logging for all tests"},
		&cli.StringFlag{Name: "log-level", Usage: "request log level (debug, info, warn, error)", EnvVars: []string{"LOG_LEVEL"}},
	}
}

// readParams builds the run settings from the parsed command line.
func readParams(c *cli.Context) (commandParams, error) {
	params := defaultParams()
	if c.IsSet("config") {
		if err := loadConfigFile(c.String("config"), &params); err != nil {
			return params, err
		}
		params.ConfigFile = c.String("config")
	}

	if c.IsSet("url") {
		params.ServiceURL = c.String("url")
	}
	if c.IsSet("user-id") {
		params.UserID = c.String("user-id")
	}
	if c.IsSet("timeout") {
		params.Timeout = c.Duration("timeout")
	}
	if c.IsSet("await") {
		params.AwaitService = c.Duration("await")
	}
	if c.IsSet("run") {
		params.Run = c.StringSlice("run")
	}
	if c.IsSet("skip") {
		params.Skip = c.StringSlice("skip")
	}
	if c.IsSet("debug") {
		params.Debug = c.Bool("debug")
	}
	if c.IsSet("debug-all") {
		params.DebugAll = c.Bool("debug-all")
	}
	if c.IsSet("log-level") {
		params.LogLevel = c.String("log-level")
	}
	params.LogLevel = strings.ToLower(params.LogLevel)

	if err := params.Validate(); err != nil {
		return params, fmt.Errorf("invalid parameters: %w", err)
	}
	if err := params.compileFilters(); err != nil {
		return params, fmt.Errorf("invalid parameters: %w", err)
	}
	return params, nil
}

func (c *commandParams) compileFilters() error {
	c.filters = framework.RegexFilters{}
	for _, p := range c.Run {
		if err := c.filters.MustMatch.Set(p); err != nil {
			return err
		}
	}
	for _, p := range c.Skip {
		if err := c.filters.MustNotMatch.Set(p); err != nil {
			return err
		}
	}
	return nil
}

// rerunCommand returns a shell command that runs only the top-level tests that failed, or
// "" if nothing failed. The command repeats the config file and every setting that affects
// how the service is reached.
func (c commandParams) rerunCommand(results framework.Results) string {
	var names []string
	seen := make(map[string]bool)
	for _, f := range results.Failures {
		if len(f.TestID.Path) == 0 || seen[f.TestID.Path[0]] {
			continue
		}
		seen[f.TestID.Path[0]] = true
		names = append(names, regexp.QuoteMeta(f.TestID.Path[0]))
	}
	if len(names) == 0 {
		return ""
	}

	var cmd commandBuilder
	cmd.add(commandName)
	if c.ConfigFile != "" {
		cmd.add("--config", c.ConfigFile)
	}
	cmd.add("--url", c.ServiceURL)
	if c.UserID != notetests.DefaultUserID {
		cmd.add("--user-id", c.UserID)
	}
	if c.Timeout != notesapi.DefaultTimeout {
		cmd.add("--timeout", c.Timeout.String())
	}
	if c.AwaitService > 0 {
		cmd.add("--await", c.AwaitService.String())
	}
	cmd.add("--run", "^("+strings.Join(names, "|")+")(/|$)", "--debug")
	return cmd.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
