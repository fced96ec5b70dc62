/*
Simcc is the command-line driver for the SimC compiler front end.

It reads a grammar document and a production-to-AST mapping document, builds
(or loads from cache) an LR parsing table, then either compiles a single
pre-lexed token-stream document or drops into an interactive REPL that reads
one token stream per line.

Usage:

	simcc [flags]

The flags are:

	-v, --version
		Give the current version of simcc and then exit.

	-c, --config FILE
		TOML configuration file. Defaults to "simcc.toml" in the current
		working directory; a missing file is not an error.

	-g, --grammar FILE
		Grammar input document (spec.md §6). Overrides the config file's
		grammar_file.

	-m, --mapping FILE
		Production-to-AST mapping document (spec.md §6). Overrides the
		config file's mapping_file.

	-a, --algorithm {slr1|lr1}
		Table construction algorithm. Overrides the config file's parser
		setting.

	--allow-ambiguous
		Tolerate shift/reduce conflicts on the SLR(1) path (shift wins).

	-t, --tokens FILE
		Token-stream document (spec.md §6) to compile. If omitted and
		--repl is not given, tokens are read from stdin.

	--repl
		Start an interactive session: each line is parsed as a
		space-separated "type:lexeme" token list and compiled immediately.

Exit codes: 0 on success, 1 on any fatal error (spec.md §6).
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dekarrin/simc/internal/config"
	"github.com/dekarrin/simc/internal/diag"
	"github.com/dekarrin/simc/internal/replio"
	"github.com/dekarrin/simc/internal/simcfe"
	"github.com/dekarrin/simc/internal/simcfe/ast"
	"github.com/dekarrin/simc/internal/simcfe/grammar"
	"github.com/dekarrin/simc/internal/simcfe/token"
	"github.com/dekarrin/simc/internal/tablecache"
	"github.com/dekarrin/simc/internal/version"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitFatalError indicates any fatal error surfaced to the boundary,
	// per spec.md §6's exit-code contract.
	ExitFatalError
)

var (
	returnCode = ExitSuccess

	flagVersion        = pflag.BoolP("version", "v", false, "Print the version and exit")
	flagConfig         = pflag.StringP("config", "c", "simcc.toml", "TOML configuration file")
	flagGrammar        = pflag.StringP("grammar", "g", "", "Grammar input document (overrides config)")
	flagMapping        = pflag.StringP("mapping", "m", "", "Production-to-AST mapping document (overrides config)")
	flagAlgorithm      = pflag.StringP("algorithm", "a", "", "Table construction algorithm: slr1 or lr1 (overrides config)")
	flagAllowAmbiguous = pflag.Bool("allow-ambiguous", false, "Tolerate shift/reduce conflicts on the SLR(1) path")
	flagTokens         = pflag.StringP("tokens", "t", "", "Token-stream document to compile (defaults to stdin)")
	flagRepl           = pflag.Bool("repl", false, "Start an interactive token-stream REPL")
)

func init() {
	message.Set(language.English, "%d error(s)",
		plural.Selectf(1, "%d",
			plural.One, "1 error",
			plural.Other, "%[1]d errors",
		),
	)
}

func main() {
	defer func() {
		if p := recover(); p != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", p))
		}
		os.Exit(returnCode)
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("simcc %s\n", version.Current)
		return
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		fail(err)
		return
	}
	cfg = cfg.FillDefaults()

	if *flagGrammar != "" {
		cfg.GrammarFile = *flagGrammar
	}
	if *flagMapping != "" {
		cfg.MappingFile = *flagMapping
	}
	if *flagAlgorithm != "" {
		cfg.Parser = config.Algorithm(*flagAlgorithm)
	}
	if *flagAllowAmbiguous {
		cfg.AllowAmbiguousSLR = true
	}
	if err := cfg.Validate(); err != nil {
		fail(err)
		return
	}

	g, mapping, err := loadDocuments(cfg)
	if err != nil {
		fail(err)
		return
	}

	opts := simcfe.Options{
		Algorithm:      algorithmFor(cfg.Parser),
		AllowAmbiguous: cfg.AllowAmbiguousSLR,
	}

	fe, err := buildFrontend(cfg, g, mapping, opts)
	if err != nil {
		fail(err)
		return
	}

	if *flagRepl {
		runREPL(fe)
		return
	}

	if err := runOnce(fe, *flagTokens); err != nil {
		fail(err)
		return
	}
}

func algorithmFor(a config.Algorithm) simcfe.ParserAlgorithm {
	if a == config.AlgorithmLR1 {
		return simcfe.CanonicalLR1
	}
	return simcfe.SLR1
}

func loadDocuments(cfg config.Config) (grammar.Grammar, ast.Mapping, error) {
	gf, err := os.Open(cfg.GrammarFile)
	if err != nil {
		return grammar.Grammar{}, nil, fmt.Errorf("open grammar file: %w", err)
	}
	defer gf.Close()

	doc, err := grammar.LoadDocument(gf)
	if err != nil {
		return grammar.Grammar{}, nil, err
	}
	g, err := doc.Build()
	if err != nil {
		return grammar.Grammar{}, nil, err
	}

	mf, err := os.Open(cfg.MappingFile)
	if err != nil {
		return grammar.Grammar{}, nil, fmt.Errorf("open mapping file: %w", err)
	}
	defer mf.Close()

	mapping, err := ast.LoadMappingDocument(mf)
	if err != nil {
		return grammar.Grammar{}, nil, err
	}

	return g, mapping, nil
}

func buildFrontend(cfg config.Config, g grammar.Grammar, mapping ast.Mapping, opts simcfe.Options) (*simcfe.Frontend, error) {
	if cfg.TableCache == "" {
		return simcfe.NewFrontend(g, mapping, opts)
	}

	store, err := tablecache.Open(cfg.TableCache)
	if err != nil {
		return nil, fmt.Errorf("open table cache: %w", err)
	}

	fe, hit, err := store.Frontend(g, mapping, opts)
	if err != nil {
		return nil, err
	}
	if hit {
		pterm.Info.Println("loaded parsing table from cache")
	} else {
		pterm.Info.Println("built parsing table and cached it")
	}
	return fe, nil
}

func runOnce(fe *simcfe.Frontend, tokensFile string) error {
	var r = os.Stdin
	if tokensFile != "" {
		f, err := os.Open(tokensFile)
		if err != nil {
			return fmt.Errorf("open token stream: %w", err)
		}
		defer f.Close()
		r = f
	}

	stream, err := token.LoadStreamDocument(r)
	if err != nil {
		return err
	}

	return compileAndReport(fe, stream)
}

var countPrinter = message.NewPrinter(language.English)

func compileAndReport(fe *simcfe.Frontend, stream token.Stream) error {
	result, err := fe.Compile(stream)
	if err != nil {
		wrapped := diag.Wrap(err, "compilation failed: "+err.Error(), err.Error())
		countPrinter.Println(countPrinter.Sprintf("%d error(s)", 1))
		pterm.Error.Println(diag.Public(wrapped))
		return err
	}

	pterm.Success.Printfln("compiled (id %s)", result.CompileID)
	fmt.Println(result.Listing())
	fmt.Println()
	fmt.Println(result.Symbols.String())
	fmt.Println()
	fmt.Println(result.Scopes.String())
	return nil
}

func runREPL(fe *simcfe.Frontend) {
	rd, err := replio.NewInteractiveReader("simc> ")
	if err != nil {
		fail(fmt.Errorf("create readline session: %w", err))
		return
	}
	defer rd.Close()

	pterm.Info.Println(`enter tokens as space-separated "type:lexeme" pairs, or "quit" to exit`)

	for {
		line, err := rd.ReadLine()
		if err != nil {
			return
		}
		if line == "quit" || line == "exit" {
			return
		}

		toks, err := parseReplLine(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}

		_ = compileAndReport(fe, token.NewSliceStream(toks))
	}
}

func parseReplLine(line string) ([]token.Token, error) {
	fields := strings.Fields(line)
	toks := make([]token.Token, 0, len(fields))
	for _, f := range fields {
		parts := strings.SplitN(f, ":", 2)
		lexeme := ""
		if len(parts) == 2 {
			lexeme = parts[1]
		}
		if parts[0] == "" {
			return nil, fmt.Errorf("malformed token field %q: expected type:lexeme", f)
		}
		toks = append(toks, token.New(token.MakeClass(parts[0]), lexeme, 0, 0))
	}
	return toks, nil
}

func fail(err error) {
	pterm.Error.Println(err.Error())
	returnCode = ExitFatalError
}
