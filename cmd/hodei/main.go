package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/andreazorzetto/yh/highlight"
	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cast"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"gopkg.in/yaml.v3"

	"github.com/hodei-artifacts/hodei/conf"
	"github.com/hodei-artifacts/hodei/internal/audit"
	"github.com/hodei-artifacts/hodei/internal/authz"
	"github.com/hodei-artifacts/hodei/internal/build"
	"github.com/hodei-artifacts/hodei/internal/iam"
	"github.com/hodei-artifacts/hodei/internal/log"
	"github.com/hodei-artifacts/hodei/internal/metrics"
	"github.com/hodei-artifacts/hodei/internal/org"
	"github.com/hodei-artifacts/hodei/internal/policy"
	"github.com/hodei-artifacts/hodei/internal/tracing"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "authorize":
			handleAuthorize()
			return
		case "config":
			handleConfigCommand()
			return
		case "version", "--version", "-v":
			showVersion()
			return
		case "help", "--help", "-h":
			showHelp()
			return
		case "build-info":
			showBuildInfo()
			return
		}
	}

	showHelp()
}

func showBuildInfo() {
	fmt.Println(build.GetBuildInfo())
}

type fxLogger struct{}

func (l *fxLogger) LogEvent(event fxevent.Event) {
	log.Debug(context.Background(), "fx event", log.Any("event", event))
}

// fixture is the JSON shape consumed by the authorize subcommand: the
// principals, policy attachments, accounts and service control policies to
// load into the in-memory stores before deciding one request.
type fixture struct {
	Principals []iam.Principal  `json:"principals"`
	Policies   []attachedPolicy `json:"policies"`
	Accounts   []org.Account    `json:"accounts"`
	SCPs       []attachedPolicy `json:"scps"`
}

// attachedPolicy is a policy plus its attachment subject: a principal or
// group id for identity policies, an account id for SCPs.
type attachedPolicy struct {
	policy.Policy

	Subject string `json:"subject"`
}

func handleAuthorize() {
	flags := flag.NewFlagSet("authorize", flag.ExitOnError)
	dataPath := flags.String("data", "", "path to a JSON fixture with principals, policies, accounts and scps")
	principalID := flags.String("principal", "", "principal id making the request")
	action := flags.String("action", "", "action being performed")
	resourceID := flags.String("resource", "", "resource id the action targets")
	accountID := flags.String("account", "", "account owning the resource (optional)")
	contextAttrs := flags.String("context", "", "comma separated key=value request context attributes")

	if err := flags.Parse(os.Args[2:]); err != nil {
		os.Exit(1)
	}

	if *dataPath == "" || *principalID == "" || *action == "" || *resourceID == "" {
		fmt.Fprintln(os.Stderr, "Usage: hodei authorize --data <file> --principal <id> --action <action> --resource <id> [--account <id>] [--context k=v,k=v]")
		os.Exit(1)
	}

	config, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(config.Log)
	tracing.SetupLogger(logger)
	log.SetDefault(logger)

	iamStore := iam.NewMemoryStore()
	orgStore := org.NewMemoryStore()

	if err := loadFixture(*dataPath, iamStore, orgStore); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load fixture: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	provider, err := metrics.NewProvider(config.Metrics)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create metrics provider: %v\n", err)
		os.Exit(1)
	}

	if provider != nil {
		_ = metrics.SetupMetrics(provider, config.Name)

		defer func() { _ = provider.Shutdown(ctx) }()
	}

	request := policy.Request{
		PrincipalID: *principalID,
		Action:      *action,
		Resource: policy.Resource{
			ID:        *resourceID,
			AccountID: *accountID,
		},
		Context: parseContextAttrs(*contextAttrs),
	}

	var decision authz.Decision

	app := fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return &fxLogger{}
		}),
		fx.Supply(config.Authz, config.Org),
		fx.Provide(
			func() iam.PrincipalStore { return iamStore },
			func() iam.PolicyStore { return iamStore },
			func() org.AccountStore { return orgStore },
			func() org.SCPStore { return orgStore },
			func(r *iam.Resolver) authz.IdentityPolicyProvider { return r },
			func(r *org.Resolver) authz.BoundaryPolicyProvider { return r },
			func() audit.Recorder { return audit.NewLogRecorder() },
		),
		iam.Module,
		org.Module,
		authz.Module,
		fx.Invoke(func(authorizer *authz.Authorizer) {
			decision = authorizer.Authorize(ctx, request)
		}),
	)
	if err := app.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to authorize: %v\n", err)
		os.Exit(1)
	}

	out, err := prettyjson.Marshal(decision)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render decision: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(out))

	switch decision.Outcome {
	case authz.OutcomeAllow:
	case authz.OutcomeDeny:
		os.Exit(1)
	default:
		os.Exit(2)
	}
}

func loadFixture(path string, iamStore *iam.MemoryStore, orgStore *org.MemoryStore) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var f fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	for _, principal := range f.Principals {
		iamStore.PutPrincipal(principal)
	}

	for _, attached := range f.Policies {
		iamStore.AttachPolicy(attached.Subject, attached.Policy)
	}

	for _, account := range f.Accounts {
		orgStore.PutAccount(account)
	}

	for _, attached := range f.SCPs {
		orgStore.AttachSCP(attached.Subject, attached.Policy)
	}

	return nil
}

func parseContextAttrs(raw string) map[string]any {
	if raw == "" {
		return nil
	}

	attrs := make(map[string]any)

	for _, pair := range strings.Split(raw, ",") {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}

		attrs[strings.TrimSpace(key)] = coerceAttr(strings.TrimSpace(value))
	}

	return attrs
}

// coerceAttr types a flag value so conditions can compare numbers and
// booleans without string casts.
func coerceAttr(raw string) any {
	if n, err := cast.ToIntE(raw); err == nil {
		return n
	}

	if f, err := cast.ToFloat64E(raw); err == nil {
		return f
	}

	if b, err := cast.ToBoolE(raw); err == nil {
		return b
	}

	return raw
}

func handleConfigCommand() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: hodei config <preview|validate|get>")
		os.Exit(1)
	}

	switch os.Args[2] {
	case "preview":
		configPreview()
	case "validate":
		configValidate()
	case "get":
		configGet()
	default:
		fmt.Println("Usage: hodei config <preview|validate|get>")
		os.Exit(1)
	}
}

func configPreview() {
	format := "yml"

	for i := 3; i < len(os.Args); i++ {
		if os.Args[i] == "--format" || os.Args[i] == "-f" {
			if i+1 < len(os.Args) {
				format = os.Args[i+1]
			}
		}
	}

	config, err := conf.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var output string

	switch format {
	case "json":
		b, err := prettyjson.Marshal(config)
		if err != nil {
			fmt.Printf("Failed to preview config: %v\n", err)
			os.Exit(1)
		}

		output = string(b)
	case "yml", "yaml":
		b, err := yaml.Marshal(config)
		if err != nil {
			fmt.Printf("Failed to preview config: %v\n", err)
			os.Exit(1)
		}

		output, err = highlight.Highlight(bytes.NewBuffer(b))
		if err != nil {
			fmt.Printf("Failed to preview config: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Printf("Unsupported format: %s\n", format)
		os.Exit(1)
	}

	fmt.Println(output)
}

func configValidate() {
	config, err := conf.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	errors := validateConfig(config)

	if len(errors) == 0 {
		fmt.Println("Configuration is valid!")
		return
	}

	fmt.Println("Configuration validation failed:")

	for _, err := range errors {
		fmt.Printf("  - %s\n", err)
	}

	os.Exit(1)
}

func validateConfig(config conf.Config) []string {
	var errors []string

	if config.Name == "" {
		errors = append(errors, "name cannot be empty")
	}

	if config.Log.Name == "" {
		errors = append(errors, "log.name cannot be empty")
	}

	if config.Authz.RequestTimeout < 0 {
		errors = append(errors, "authz.request_timeout cannot be negative")
	}

	if config.Org.MaxDepth < 0 {
		errors = append(errors, "org.max_depth cannot be negative")
	}

	switch config.Metrics.Exporter {
	case "", "stdout", "otlp-grpc", "otlp-http":
	default:
		errors = append(errors, fmt.Sprintf("metrics.exporter %q is not one of stdout, otlp-grpc, otlp-http", config.Metrics.Exporter))
	}

	return errors
}

func configGet() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: hodei config get <key>")
		fmt.Println("")
		fmt.Println("Available keys:")
		fmt.Println("  name                    Service name")
		fmt.Println("  log.level               Log level")
		fmt.Println("  authz.strict            Fail closed on malformed policies")
		fmt.Println("  authz.request_timeout   Default per-request deadline")
		fmt.Println("  org.max_depth           Account hierarchy depth bound")
		fmt.Println("  metrics.exporter        Metric exporter")
		os.Exit(1)
	}

	key := os.Args[3]

	config, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var value interface{}

	switch key {
	case "name":
		value = config.Name
	case "log.level":
		value = config.Log.Level
	case "authz.strict":
		value = config.Authz.Strict
	case "authz.request_timeout":
		value = config.Authz.RequestTimeout
	case "org.max_depth":
		value = config.Org.MaxDepth
	case "metrics.exporter":
		value = config.Metrics.Exporter
	default:
		fmt.Fprintf(os.Stderr, "Unknown config key: %s\n", key)
		os.Exit(1)
	}

	fmt.Println(value)
}

func showHelp() {
	fmt.Println("Hodei Authorization Engine")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  hodei authorize [flags]      Decide one authorization request")
	fmt.Println("  hodei config preview         Preview configuration")
	fmt.Println("  hodei config validate        Validate configuration")
	fmt.Println("  hodei config get <key>       Get a specific config value")
	fmt.Println("  hodei version                Show version")
	fmt.Println("  hodei help                   Show this help message")
	fmt.Println("")
	fmt.Println("Authorize flags:")
	fmt.Println("  --data FILE                  JSON fixture with principals, policies, accounts and scps")
	fmt.Println("  --principal ID               Principal making the request")
	fmt.Println("  --action ACTION              Action being performed")
	fmt.Println("  --resource ID                Resource the action targets")
	fmt.Println("  --account ID                 Account owning the resource")
	fmt.Println("  --context k=v,k=v            Request context attributes")
}

func showVersion() {
	fmt.Println(build.Version)
}
