package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dorucioclea/foundry/internal/binder"
	"github.com/dorucioclea/foundry/internal/cache"
	"github.com/dorucioclea/foundry/internal/config"
	"github.com/dorucioclea/foundry/internal/domain"
	"github.com/dorucioclea/foundry/internal/gitdb"
	"github.com/dorucioclea/foundry/internal/repo"
	"github.com/dorucioclea/foundry/internal/utils"
	"github.com/dorucioclea/foundry/pkg/version"
)

var (
	cfgFile string
	verbose bool
	log     *utils.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "binder [source]",
	Short: "Compile a contract project and generate Go bindings",
	Long: `Binder resolves a source project (a local directory or a remote git
repository), runs optional hook commands, compiles the contracts and
generates Go bindings for them.

Remote sources are fetched into a persistent bare object database so
repeated builds of the same repository skip work already done.`,
	Version: version.Short(),
	Args:    cobra.MaximumNArgs(1),
	RunE:    run,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.binder/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Source selection
	rootCmd.Flags().String("branch", "", "Branch to check out")
	rootCmd.Flags().String("tag", "", "Tag to check out")
	rootCmd.Flags().String("rev", "", "Revision to check out")
	rootCmd.MarkFlagsMutuallyExclusive("branch", "tag", "rev")

	rootCmd.Flags().String("dest", "", "Persistent checkout directory (default is an ephemeral temp dir)")
	rootCmd.Flags().String("database", "", "Object database path (default is a shared per-repository database)")

	// Pipeline
	rootCmd.Flags().StringArray("command", nil, "Hook command to run before compiling (repeatable)")
	rootCmd.Flags().Bool("deployable", true, "Embed creation bytecode in the bindings")
	rootCmd.Flags().String("keep-artifacts", "", "Retain compiler artifacts in the given directory")
	rootCmd.Flags().Bool("archive-artifacts", false, "Also write a .tar.zst archive of retained artifacts")
	rootCmd.Flags().StringP("bindings", "b", "", "Directory to write generated bindings into")
	rootCmd.Flags().String("package", "", "Package name for generated bindings")
	rootCmd.Flags().Bool("no-cache", false, "Disable the reference-resolution cache")

	_ = viper.BindPFlag("bindings.deployable", rootCmd.Flags().Lookup("deployable"))
	_ = viper.BindPFlag("bindings.directory", rootCmd.Flags().Lookup("bindings"))
	_ = viper.BindPFlag("bindings.package", rootCmd.Flags().Lookup("package"))
	_ = viper.BindPFlag("artifacts.keep", rootCmd.Flags().Lookup("keep-artifacts"))
	_ = viper.BindPFlag("artifacts.archive", rootCmd.Flags().Lookup("archive-artifacts"))

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logLevel := "info"
	if verbose {
		logLevel = "debug"
	}
	log = utils.NewLogger(utils.LoggerOptions{
		Level:   logLevel,
		Format:  "pretty",
		Verbose: verbose,
	})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !verbose {
		utils.SetGlobalLevel(cfg.Logging.Level)
	}
	if err := config.EnsureConfigDir(); err != nil {
		log.Warn().Err(err).Msg("Failed to create config directory")
	}
	if len(args) == 0 {
		return cmd.Help()
	}
	sourceArg := args[0]

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("Shutting down gracefully...")
		cancel()
	}()

	source, closeCache, err := buildSource(cmd, cfg, sourceArg)
	if err != nil {
		return err
	}
	defer closeCache()

	commands, err := hookCommands(cmd)
	if err != nil {
		return err
	}

	b := binder.New(binder.Options{
		Source:           source,
		Commands:         commands,
		CompilerConfig:   cfg.Compiler,
		BindingsDir:      cfg.Bindings.Directory,
		BindingsPackage:  cfg.Bindings.Package,
		Deployable:       &cfg.Bindings.Deployable,
		KeepArtifacts:    cfg.Artifacts.Keep,
		ArchiveArtifacts: cfg.Artifacts.Archive,
		Logger:           log,
	})

	return b.Generate(ctx)
}

// buildSource turns the positional argument into a SourceLocation. URLs
// become remote checkouts, anything else is treated as a local path.
func buildSource(cmd *cobra.Command, cfg *config.Config, arg string) (repo.SourceLocation, func(), error) {
	noop := func() {}

	if !isRemote(arg) {
		return repo.Local(arg), noop, nil
	}

	rb := repo.NewBuilder(arg)

	if branch, _ := cmd.Flags().GetString("branch"); branch != "" {
		rb = rb.Branch(branch)
	}
	if tag, _ := cmd.Flags().GetString("tag"); tag != "" {
		rb = rb.Tag(tag)
	}
	if rev, _ := cmd.Flags().GetString("rev"); rev != "" {
		rb = rb.Rev(rev)
	}
	if dest, _ := cmd.Flags().GetString("dest"); dest != "" {
		rb = rb.Dest(utils.ExpandPath(dest))
	}

	dbPath, _ := cmd.Flags().GetString("database")
	if dbPath == "" {
		dbPath = filepath.Join(cfg.Database.Directory, utils.RepoName(arg))
	}
	rb = rb.Database(utils.ExpandPath(dbPath))
	log.WithRepo(arg).Debug().Str("database", dbPath).Msg("Using object database")

	if verbose {
		rb = rb.CheckoutOptions(gitdb.WithProgress(utils.NewProgressBar(-1, utils.DescFetching)))
		rb = rb.ExtractOptions(gitdb.WithExtractProgress())
	}

	closeCache := noop
	noCacheFlag, _ := cmd.Flags().GetBool("no-cache")
	if cfg.Cache.Enabled && !noCacheFlag {
		resolutions, err := cache.NewResolutionCache(cache.Options{
			Directory: cfg.Cache.Directory,
			TTL:       cfg.Cache.TTL,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Resolution cache unavailable, continuing without it")
		} else {
			rb = rb.CheckoutOptions(gitdb.WithCache(resolutions))
			closeCache = func() { resolutions.Close() }
		}
	}

	source, err := repo.FromBuilder(rb)
	if err != nil {
		closeCache()
		return nil, nil, err
	}
	return source, closeCache, nil
}

func isRemote(arg string) bool {
	return strings.Contains(arg, "://") || strings.HasPrefix(arg, "git@")
}

// hookCommands parses repeated --command flags into argv lists
func hookCommands(cmd *cobra.Command) ([][]string, error) {
	raw, _ := cmd.Flags().GetStringArray("command")

	var commands [][]string
	for _, c := range raw {
		argv := strings.Fields(c)
		if len(argv) == 0 {
			return nil, domain.NewHookCommandError(nil, -1, domain.ErrEmptyHookCommand)
		}
		commands = append(commands, argv)
	}
	return commands, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}
