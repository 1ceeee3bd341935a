package driver

import (
	"context"
	"fmt"
	"strconv"

	"vmfkit/internal/diag"
	"vmfkit/internal/lexer"
	"vmfkit/internal/source"
	"vmfkit/internal/token"
	"vmfkit/internal/trace"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize reads path and returns every token up to and including EOF.
// Lexical errors go to the Bag; only I/O failures are returned as error.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "tokenize")
	defer span.End(path)

	fs := source.NewFileSet()
	fs.SetEncoding(opts.Encoding)
	file, err := load(ctx, fs, path, opts.Timer)
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(opts.MaxDiagnostics)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

	done := opts.Timer.Begin("lex")
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	done(fmt.Sprintf("%d tokens", len(tokens)))
	span.WithExtra("tokens", strconv.Itoa(len(tokens)))

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}
