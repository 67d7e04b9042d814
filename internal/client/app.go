package client

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/MKhiriev/crypto-vault/internal/crypto"
	"github.com/MKhiriev/crypto-vault/internal/logger"
	"github.com/MKhiriev/crypto-vault/internal/service"
	"github.com/MKhiriev/crypto-vault/models"
	"github.com/MKhiriev/crypto-vault/vault"
)

// ServiceFactory opens the vault service. It is called at most once, by the
// first command that needs storage.
type ServiceFactory func(ctx context.Context) (service.VaultService[models.Payload], error)

type App struct {
	newService ServiceFactory
	service    service.VaultService[models.Payload]

	passwords PasswordReader
	clipboard Clipboard
	buildInfo models.AppBuildInfo

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	logger *logger.Logger
}

var _ Client = (*App)(nil)

// Option configures an [App].
type Option func(*App)

// WithStreams replaces stdin, stdout and stderr.
func WithStreams(in io.Reader, out, errOut io.Writer) Option {
	return func(a *App) {
		a.in, a.out, a.errOut = in, out, errOut
	}
}

func WithPasswordReader(r PasswordReader) Option {
	return func(a *App) {
		a.passwords = r
	}
}

func WithClipboard(c Clipboard) Option {
	return func(a *App) {
		a.clipboard = c
	}
}

func WithBuildInfo(info models.AppBuildInfo) Option {
	return func(a *App) {
		a.buildInfo = info
	}
}

// NewApp returns an [App] using the process streams, the system clipboard
// and a password reader that checks [PasswordEnv] before prompting.
func NewApp(newService ServiceFactory, log *logger.Logger, opts ...Option) *App {
	a := &App{
		newService: newService,
		passwords:  NewEnvPasswordReader(os.LookupEnv, NewTermPasswordReader(os.Stdin, os.Stderr)),
		clipboard:  NewSystemClipboard(),
		buildInfo:  models.NewAppBuildInfo("", "", ""),
		in:         os.Stdin,
		out:        os.Stdout,
		errOut:     os.Stderr,
		logger:     log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes args[0] with the remaining arguments.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given", ErrUsage)
	}

	cmd, rest := args[0], args[1:]
	a.logger.Debug().Str("func", "*App.Run").Str("command", cmd).Msg("running command")

	switch cmd {
	case "init":
		return a.runInit(ctx, rest)
	case "show":
		return a.runShow(ctx, rest)
	case "set":
		return a.runSet(ctx, rest)
	case "unset":
		return a.runUnset(ctx, rest)
	case "copy":
		return a.runCopy(ctx, rest)
	case "list":
		return a.runList(ctx, rest)
	case "delete":
		return a.runDelete(ctx, rest)
	case "export":
		return a.runExport(ctx, rest)
	case "import":
		return a.runImport(ctx, rest)
	case "verify":
		return a.runVerify(ctx, rest)
	case "version":
		_, err := fmt.Fprint(a.out, a.buildInfo)
		return err
	case "help":
		Usage(a.out)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func (a *App) runInit(ctx context.Context, args []string) error {
	name, err := exactlyOne(args, "init <name>")
	if err != nil {
		return err
	}
	svc, err := a.vaults(ctx)
	if err != nil {
		return err
	}

	password, err := a.password(true)
	if err != nil {
		return err
	}
	defer crypto.Wipe(password)

	if _, err = svc.Create(ctx, name, models.Payload{}, password); err != nil {
		return err
	}

	fmt.Fprintf(a.errOut, "created vault %q\n", name)
	return nil
}

func (a *App) runShow(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: show <name> [key]", ErrUsage)
	}

	v, err := a.open(ctx, args[0])
	if err != nil {
		return err
	}
	defer v.Close()

	if len(args) == 2 {
		value, ok := v.Value[args[1]]
		if !ok {
			return fmt.Errorf("%w: %q", ErrKeyNotFound, args[1])
		}
		_, err = fmt.Fprintln(a.out, formatValue(value))
		return err
	}

	payload := v.Value
	if payload == nil {
		payload = models.Payload{}
	}
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("render payload: %w", err)
	}
	_, err = fmt.Fprintln(a.out, string(out))
	return err
}

// runSet merges key=value pairs into the payload, or replaces the payload
// with a JSON object read from the input when no pairs are given.
func (a *App) runSet(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: set <name> [key=value...]", ErrUsage)
	}
	name, pairs := args[0], args[1:]

	updates := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return fmt.Errorf("%w: expected key=value, got %q", ErrUsage, pair)
		}
		updates[key] = value
	}

	var replacement models.Payload
	if len(pairs) == 0 {
		data, err := io.ReadAll(a.in)
		if err != nil {
			return fmt.Errorf("read payload: %w", err)
		}
		if replacement, err = (vault.JSONCodec[models.Payload]{}).Decode(data); err != nil {
			return fmt.Errorf("%w: payload must be a JSON object: %w", ErrUsage, err)
		}
		if replacement == nil {
			replacement = models.Payload{}
		}
	}

	return a.update(ctx, name, func(payload models.Payload) models.Payload {
		if replacement != nil {
			return replacement
		}
		if payload == nil {
			payload = models.Payload{}
		}
		for k, v := range updates {
			payload[k] = v
		}
		return payload
	})
}

func (a *App) runUnset(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: unset <name> <key>...", ErrUsage)
	}

	return a.update(ctx, args[0], func(payload models.Payload) models.Payload {
		for _, key := range args[1:] {
			delete(payload, key)
		}
		return payload
	})
}

func (a *App) runCopy(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: copy <name> <key>", ErrUsage)
	}

	v, err := a.open(ctx, args[0])
	if err != nil {
		return err
	}
	defer v.Close()

	value, ok := v.Value[args[1]]
	if !ok {
		return fmt.Errorf("%w: %q", ErrKeyNotFound, args[1])
	}
	if err = a.clipboard.WriteAll(formatValue(value)); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}

	fmt.Fprintf(a.errOut, "copied %q to the clipboard\n", args[1])
	return nil
}

func (a *App) runList(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: list takes no arguments", ErrUsage)
	}
	svc, err := a.vaults(ctx)
	if err != nil {
		return err
	}

	records, err := svc.List(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(a.errOut, "no vaults")
		return nil
	}

	_, err = fmt.Fprintln(a.out, renderRecords(records))
	return err
}

// runDelete removes a vault once the password proves ownership.
func (a *App) runDelete(ctx context.Context, args []string) error {
	name, err := exactlyOne(args, "delete <name>")
	if err != nil {
		return err
	}
	svc, err := a.vaults(ctx)
	if err != nil {
		return err
	}

	password, err := a.password(false)
	if err != nil {
		return err
	}
	defer crypto.Wipe(password)

	if err = svc.Verify(ctx, password, name); err != nil {
		return err
	}
	if err = svc.Delete(ctx, name); err != nil {
		return err
	}

	fmt.Fprintf(a.errOut, "deleted vault %q\n", name)
	return nil
}

func (a *App) runExport(ctx context.Context, args []string) error {
	name, err := exactlyOne(args, "export <name>")
	if err != nil {
		return err
	}
	svc, err := a.vaults(ctx)
	if err != nil {
		return err
	}

	text, err := svc.Export(ctx, name)
	if err != nil {
		return err
	}
	_, err = a.out.Write(text)
	return err
}

func (a *App) runImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	force := fs.Bool("force", false, "replace an existing vault")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	name, err := exactlyOne(fs.Args(), "import [-force] <name>")
	if err != nil {
		return err
	}
	svc, err := a.vaults(ctx)
	if err != nil {
		return err
	}

	text, err := io.ReadAll(a.in)
	if err != nil {
		return fmt.Errorf("read armored vault: %w", err)
	}

	record, err := svc.Import(ctx, name, text, *force)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.errOut, "imported vault %q (version %d)\n", name, record.Version)
	return nil
}

func (a *App) runVerify(ctx context.Context, args []string) error {
	svc, err := a.vaults(ctx)
	if err != nil {
		return err
	}

	password, err := a.password(false)
	if err != nil {
		return err
	}
	defer crypto.Wipe(password)

	if err = svc.Verify(ctx, password, args...); err != nil {
		return err
	}

	fmt.Fprintln(a.errOut, "ok")
	return nil
}

// update opens name, applies fn to its payload and saves the result.
func (a *App) update(ctx context.Context, name string, fn func(models.Payload) models.Payload) error {
	v, err := a.open(ctx, name)
	if err != nil {
		return err
	}
	defer v.Close()

	v.Value = fn(v.Value)

	svc, err := a.vaults(ctx)
	if err != nil {
		return err
	}
	record, err := svc.Save(ctx, v)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.errOut, "saved vault %q (version %d)\n", name, record.Version)
	return nil
}

func (a *App) open(ctx context.Context, name string) (*service.OpenVault[models.Payload], error) {
	svc, err := a.vaults(ctx)
	if err != nil {
		return nil, err
	}

	password, err := a.password(false)
	if err != nil {
		return nil, err
	}
	defer crypto.Wipe(password)

	return svc.Open(ctx, name, password)
}

func (a *App) vaults(ctx context.Context) (service.VaultService[models.Payload], error) {
	if a.service != nil {
		return a.service, nil
	}

	svc, err := a.newService(ctx)
	if err != nil {
		return nil, err
	}
	a.service = svc
	return svc, nil
}

func (a *App) password(confirm bool) ([]byte, error) {
	password, err := a.passwords.ReadPassword("Password: ")
	if err != nil {
		return nil, err
	}
	if !confirm {
		return password, nil
	}

	again, err := a.passwords.ReadPassword("Repeat password: ")
	if err != nil {
		crypto.Wipe(password)
		return nil, err
	}
	defer crypto.Wipe(again)

	if string(password) != string(again) {
		crypto.Wipe(password)
		return nil, ErrPasswordMismatch
	}
	return password, nil
}

func exactlyOne(args []string, usage string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: %s", ErrUsage, usage)
	}
	return args[0], nil
}

// formatValue prints strings bare and everything else as JSON.
func formatValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	out, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(out)
}

// Usage prints the command summary.
func Usage(w io.Writer) {
	commands := map[string]string{
		"init <name>":               "create an empty vault",
		"show <name> [key]":         "print the payload as JSON, or a single value",
		"set <name> [key=value...]": "set values, or replace the payload with a JSON object from stdin",
		"unset <name> <key>...":     "remove values",
		"copy <name> <key>":         "copy a value to the clipboard",
		"list":                      "list stored vaults",
		"delete <name>":             "delete a vault after checking its password",
		"export <name>":             "print the armored vault",
		"import [-force] <name>":    "store an armored vault read from stdin",
		"verify [name...]":          "check the password against vaults",
		"version":                   "print build information",
	}
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "Usage: vault [flags] <command> [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, name := range names {
		fmt.Fprintf(w, "  %-27s %s\n", name, commands[name])
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -suite name        cipher suite for new vaults (aes-256-gcm, xchacha20-poly1305)")
	fmt.Fprintln(w, "  -kdf-time n        Argon2id time cost for new vaults")
	fmt.Fprintln(w, "  -kdf-memory KiB    Argon2id memory cost for new vaults")
	fmt.Fprintln(w, "  -kdf-threads n     Argon2id parallelism for new vaults")
	fmt.Fprintln(w, "  -backend name      storage backend (file, db)")
	fmt.Fprintln(w, "  -f dir             vault directory for the file backend")
	fmt.Fprintln(w, "  -d dsn             database DSN (SQLite path or postgres:// URL)")
	fmt.Fprintln(w, "  -db-timeout d      database timeout")
	fmt.Fprintln(w, "  -workers n         maximum concurrent key derivations")
	fmt.Fprintln(w, "  -log-level level   log level")
	fmt.Fprintln(w, "  -c, -config file   JSON config file")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "The password is read from %s or prompted on the terminal.\n", PasswordEnv)
}
