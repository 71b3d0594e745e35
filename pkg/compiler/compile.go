// Package compiler runs the front-end stages over one source file.
package compiler

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"pascals/pkg/lexer"
	"pascals/pkg/parser"
	"pascals/pkg/semantic"
	"pascals/pkg/token"
	"pascals/pkg/utils"
)

// Stage is the last front-end stage a run executes.
type Stage int

const (
	StageLex Stage = iota + 1
	StageParse
	StageAnalyze
)

func (s Stage) String() string {
	switch s {
	case StageLex:
		return "lex"
	case StageParse:
		return "parse"
	case StageAnalyze:
		return "analyze"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Options configures a run.
type Options struct {
	Vocabulary string       // keyword register name or alias; empty selects the default
	Filename   string       // reported in positions
	Validate   bool         // check the decorated AST after analysis
	Logger     *slog.Logger // nil discards
}

// Result holds the output of every stage that ran.
type Result struct {
	Source     string
	Vocabulary *lexer.Vocabulary
	Tokens     []token.Token
	Tree       *parser.Node
	Program    *semantic.Program
	Symbols    *semantic.SymbolTable
	Blocks     *semantic.BlockTable
}

// Compile runs the stages up to and including stage over src. Stage errors
// are returned as *diag.Error values unchanged. The result is non-nil even
// on error and carries src for error context.
func Compile(src string, stage Stage, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	name := opts.Vocabulary
	if name == "" {
		name = lexer.DefaultVocabulary
	}
	res := &Result{Source: src}
	vocab, err := lexer.Lookup(name)
	if err != nil {
		return res, err
	}
	log = log.With("file", opts.Filename, "vocabulary", vocab.Name)
	res.Vocabulary = vocab

	start := time.Now()
	res.Tokens, err = lexer.New(vocab, lexer.WithFilename(opts.Filename)).Tokenize(src)
	if err != nil {
		log.Debug("lex failed", "error", err)
		return res, err
	}
	log.Debug("lexed", "tokens", len(res.Tokens), "elapsed", time.Since(start))
	if stage <= StageLex {
		return res, nil
	}

	start = time.Now()
	res.Tree, err = parser.Parse(res.Tokens, parser.WithSpelling(vocab.Spelling))
	if err != nil {
		log.Debug("parse failed", "error", err)
		return res, err
	}
	log.Debug("parsed", "elapsed", time.Since(start))
	if stage <= StageParse {
		return res, nil
	}

	start = time.Now()
	res.Program, res.Symbols, res.Blocks, err = semantic.Analyze(res.Tree, semantic.WithSpelling(vocab.Spelling))
	if err != nil {
		log.Debug("analysis failed", "error", err)
		return res, err
	}
	log.Debug("analyzed", "symbols", res.Symbols.Len(), "blocks", res.Blocks.Len(), "elapsed", time.Since(start))

	if opts.Validate {
		if err := semantic.Validate(res.Program, res.Symbols, res.Blocks); err != nil {
			return res, fmt.Errorf("decorated tree is inconsistent: %w", err)
		}
	}
	return res, nil
}

// CompileFile reads path and compiles it. Positions name the file as given
// unless opts.Filename is set.
func CompileFile(path string, stage Stage, opts Options) (*Result, error) {
	full, _, err := utils.GetPathInfo(path)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	if opts.Filename == "" {
		opts.Filename = path
	}
	return Compile(string(src), stage, opts)
}
