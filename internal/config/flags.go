package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/pflag"
)

// NetAddress is a pflag.Value that fills the host and port of a [Server]
// from a single "host:port" flag.
type NetAddress struct {
	server *Server
}

// Flags is the command-line layer of the configuration. Only flags that
// were set on the command line override lower layers.
type Flags struct {
	fs     *pflag.FlagSet
	parsed StructuredConfig
}

// BindFlags registers every configuration flag on fs. The returned Flags
// reads fs once it is parsed.
//
// Flags:
//
//	-a/--address       bind address in format [host]:[port]
//	--host             bind host
//	-p/--port          bind port
//	-w/--workers       worker count
//	-t/--timeout       request timeout (seconds or e.g. "1h")
//	--graceful-timeout drain timeout after a termination signal
//	--recycle-delay    pause before a timed-out worker is reused
//	--assets-source    directory mirrored into the asset target dir
//	--assets-target    static asset directory served by the workers
//	--assets-url-prefix URL prefix static assets are served under
//	--assets-command   command collecting static assets before the sync
//	--assets-keep-stale keep target files missing from the source
//	--upstream         application upstream URL
//	--app-version      version reported by /api/version/
//	--log-level        log level
//	-c/--config        JSON or YAML config file path
//	--env-file         dotenv file path
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	registerFlags(fs, &f.parsed)
	return f
}

func registerFlags(fs *pflag.FlagSet, cfg *StructuredConfig) {
	fs.VarP(&NetAddress{server: &cfg.Server}, "address", "a", "Net address host:port")
	fs.StringVar(&cfg.Server.Host, "host", "", "Bind host")
	fs.IntVarP(&cfg.Server.Port, "port", "p", 0, "Bind port")
	fs.IntVarP(&cfg.Server.Workers, "workers", "w", 0, "Number of worker units")
	fs.VarP(&cfg.Server.RequestTimeout, "timeout", "t", "Request timeout (e.g. 3600, 90s, 1h)")
	fs.Var(&cfg.Server.GracefulTimeout, "graceful-timeout", "Drain timeout after a termination signal")
	fs.Var(&cfg.Server.RecycleDelay, "recycle-delay", "Pause before a timed-out worker is reused")
	fs.StringVar(&cfg.Assets.SourceDir, "assets-source", "", "Static asset source directory")
	fs.StringVar(&cfg.Assets.TargetDir, "assets-target", "", "Static asset target directory")
	fs.StringVar(&cfg.Assets.URLPrefix, "assets-url-prefix", "", "URL prefix of static assets")
	fs.StringVar(&cfg.Assets.Command, "assets-command", "", "Command collecting static assets")
	fs.BoolVar(&cfg.Assets.KeepStale, "assets-keep-stale", false, "Keep target files missing from the source")
	fs.StringVar(&cfg.App.UpstreamURL, "upstream", "", "Application upstream URL")
	fs.StringVar(&cfg.App.Version, "app-version", "", "Application version")
	fs.StringVar(&cfg.Log.Level, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVarP(&cfg.FilePath, "config", "c", "", "JSON or YAML config file path")
	fs.StringVar(&cfg.EnvFile, "env-file", "", "Dotenv file path")
}

// values returns the parsed flag values, set or not. A nil Flags has none.
func (f *Flags) values() StructuredConfig {
	if f == nil {
		return StructuredConfig{}
	}
	return f.parsed
}

// apply copies the flags that were set on the command line onto cfg,
// leaving every other setting of cfg untouched.
func (f *Flags) apply(cfg *StructuredConfig) error {
	if f == nil || f.fs == nil {
		return nil
	}

	target := pflag.NewFlagSet("apply", pflag.ContinueOnError)
	registerFlags(target, cfg)

	var errs []error
	f.fs.VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed || target.Lookup(flag.Name) == nil {
			return
		}
		if err := target.Set(flag.Name, flag.Value.String()); err != nil {
			errs = append(errs, fmt.Errorf("flag --%s: %w", flag.Name, err))
		}
	})

	return errors.Join(errs...)
}

// String returns a canonical host:port string for the address.
// If neither host nor port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.server == nil || (a.server.Host == "" && a.server.Port == 0) {
		return ""
	}

	return net.JoinHostPort(a.server.Host, strconv.Itoa(a.server.Port))
}

// Set parses the input string of form host:port and populates the server.
// It validates the port range, checks IP correctness unless host is
// "localhost" or empty, and returns an error if the format or values are
// invalid.
func (a *NetAddress) Set(s string) error {
	host, rawPort, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be within 1-65535")
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.server.Host = host
	a.server.Port = port
	return nil
}

// Type implements pflag.Value.
func (a *NetAddress) Type() string {
	return "address"
}
