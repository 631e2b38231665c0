package lang

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// ParseReader parses an AST from an io.Reader holding one expression.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*AST, error) {
	var sb strings.Builder

	_, err := io.Copy(&sb, r)
	if err != nil {
		return nil, WrapError(err)
	}

	return ParseString(ctx, sb.String(), opts...)
}

// ParseString parses an AST from a string holding one expression.
//
// Each call scans and builds with fresh state; nothing is retained between
// calls.
func ParseString(ctx context.Context, s string, opts ...Option) (*AST, error) {
	ast := &AST{Source: s}

	applyDefaults(ast)
	applyOptions(ast, opts...)

	ast.logger.TraceContext(ctx, "parse start",
		slog.Int("source_length", len(s)),
		slog.Int("max_depth", ast.maxDepth),
	)

	b := &builder{
		ctx:      ctx,
		lex:      NewLexer(s),
		logger:   ast.logger,
		maxDepth: ast.maxDepth,
	}

	root, err := b.build(modeTop, nil, TierNone)
	if err != nil {
		ast.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	ast.Root = root

	ast.logger.TraceContext(ctx, "parse complete",
		slog.Int("node_count", ast.Len()),
	)

	return ast, nil
}
