// Package parser turns sugar source text into the same call-form AST the
// evaluator consumes directly as JSON: a *value.Value tree where a call is a
// non-empty array whose first element is a string operator name.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/computo-run/computo/internal/cerrors"
	"github.com/computo-run/computo/internal/sugar/lexer"
	"github.com/computo-run/computo/internal/value"
)

// Parser walks a fully buffered token slice with simple index-based
// lookahead, which makes the lambda-vs-grouped-parenthesis ambiguity easy to
// resolve: scanning ahead to the matching ')' costs nothing to undo since
// nothing is consumed until the shape is known.
type Parser struct {
	tokens   []lexer.Token
	idx      int
	arrayKey string
}

// Parse compiles source into the call-form AST, using arrayKey as the
// literal-array wrapper key (defaulting to "array" when empty).
func Parse(source string, arrayKey string) (*value.Value, error) {
	if arrayKey == "" {
		arrayKey = "array"
	}
	lx := lexer.New(source)
	var toks []lexer.Token
	for {
		tok := lx.NextToken()
		if tok.Type == lexer.COMMENT {
			continue
		}
		toks = append(toks, tok)
		if tok.Type == lexer.EOF {
			break
		}
	}
	if errs := lx.Errors(); len(errs) > 0 {
		return nil, parseErrorAt(errs[0].Message, errs[0].Pos)
	}

	p := &Parser{tokens: toks, arrayKey: arrayKey}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur().Type != lexer.EOF {
		return nil, p.errorf("unexpected trailing input %q", p.cur().Literal)
	}
	return expr, nil
}

func parseErrorAt(msg string, pos lexer.Position) error {
	e := cerrors.New(cerrors.ParseError, "%s", msg)
	e.Pos = &cerrors.Position{Line: pos.Line, Column: pos.Column}
	return e
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return parseErrorAt(fmt.Sprintf(format, args...), p.cur().Pos)
}

func (p *Parser) cur() lexer.Token  { return p.tokens[p.idx] }
func (p *Parser) peek() lexer.Token { return p.at(p.idx + 1) }

func (p *Parser) at(i int) lexer.Token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[i]
}

func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	if p.idx < len(p.tokens)-1 {
		p.idx++
	}
	return tok
}

func (p *Parser) expect(tt lexer.TokenType, what string) (lexer.Token, error) {
	if p.cur().Type != tt {
		return lexer.Token{}, p.errorf("expected %s, got %q", what, p.cur().Literal)
	}
	return p.advance(), nil
}

func (p *Parser) expectIdent() (string, error) {
	if p.cur().Type != lexer.IDENT {
		return "", p.errorf("expected an identifier, got %q", p.cur().Literal)
	}
	return p.advance().Literal, nil
}

// parseExpr is the entry point, level 1 of the precedence ladder: let/if/
// lambda forms, which swallow everything to their right at the lowest
// binding power.
func (p *Parser) parseExpr() (*value.Value, error) {
	switch p.cur().Type {
	case lexer.LET:
		return p.parseLet()
	case lexer.IF:
		return p.parseIf()
	case lexer.LPAREN:
		if p.lambdaAhead() {
			return p.parseLambda()
		}
	}
	return p.parseOr()
}

func (p *Parser) parseLet() (*value.Value, error) {
	p.advance() // "let"
	var bindings []*value.Value
	for {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.EQ, "'='"); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, value.NewArray([]*value.Value{value.String(name), expr}))
		if p.cur().Type != lexer.COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(lexer.IN, "'in'"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return callForm("let", value.NewArray(bindings), body), nil
}

func (p *Parser) parseIf() (*value.Value, error) {
	p.advance() // "if"
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.THEN, "'then'"); err != nil {
		return nil, err
	}
	thenExpr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ELSE, "'else'"); err != nil {
		return nil, err
	}
	elseExpr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return callForm("if", cond, thenExpr, elseExpr), nil
}

// lambdaAhead reports whether the parenthesized group starting at the
// current '(' is a lambda parameter list rather than a grouped expression:
// its contents must be a (possibly empty) comma-separated list of bare
// identifiers, and the matching ')' must be followed by "=>". Pure
// lookahead — it never advances the parser.
func (p *Parser) lambdaAhead() bool {
	depth := 0
	i := p.idx
	for {
		tok := p.at(i)
		switch tok.Type {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			depth--
			if depth == 0 {
				return p.at(i+1).Type == lexer.FAT_ARROW && p.onlyIdentsAndCommas(p.idx+1, i)
			}
		case lexer.EOF:
			return false
		}
		i++
	}
}

func (p *Parser) onlyIdentsAndCommas(from, to int) bool {
	for i := from; i < to; i++ {
		tt := p.at(i).Type
		if tt != lexer.IDENT && tt != lexer.COMMA {
			return false
		}
	}
	return true
}

func (p *Parser) parseLambda() (*value.Value, error) {
	p.advance() // "("
	var params []*value.Value
	if p.cur().Type != lexer.RPAREN {
		for {
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			params = append(params, value.String(name))
			if p.cur().Type != lexer.COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.FAT_ARROW, "'=>'"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return callForm("lambda", value.NewArray(params), body), nil
}

// parseOr is level 2.
func (p *Parser) parseOr() (*value.Value, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	if p.cur().Type != lexer.OR {
		return left, nil
	}
	terms := []*value.Value{left}
	for p.cur().Type == lexer.OR {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		terms = append(terms, right)
	}
	return callFormSlice("or", terms), nil
}

// parseAnd is level 3.
func (p *Parser) parseAnd() (*value.Value, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	if p.cur().Type != lexer.AND {
		return left, nil
	}
	terms := []*value.Value{left}
	for p.cur().Type == lexer.AND {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		terms = append(terms, right)
	}
	return callFormSlice("and", terms), nil
}

// parseNot is level 4, a right-associative prefix operator.
func (p *Parser) parseNot() (*value.Value, error) {
	if p.cur().Type == lexer.NOT {
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return callForm("not", operand), nil
	}
	return p.parseComparison()
}

var comparisonOps = map[lexer.TokenType]string{
	lexer.LESS: "<", lexer.GREATER: ">", lexer.LESS_EQ: "<=", lexer.GREATER_EQ: ">=",
	lexer.EQ_EQ: "==", lexer.NOT_EQ: "!=",
}

// parseComparison is level 5: a run of comparisons chains flat when every
// operator in the run is identical (["<", a, b, c]); a run that mixes
// operators has no single call-form shape, so it's rewritten as the
// conjunction of its pairwise comparisons.
func (p *Parser) parseComparison() (*value.Value, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	op, ok := comparisonOps[p.cur().Type]
	if !ok {
		return left, nil
	}
	operands := []*value.Value{left}
	var ops []string
	for {
		op, ok = comparisonOps[p.cur().Type]
		if !ok {
			break
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		operands = append(operands, right)
		ops = append(ops, op)
	}
	same := true
	for _, o := range ops {
		if o != ops[0] {
			same = false
			break
		}
	}
	if same {
		return callFormSlice(ops[0], operands), nil
	}
	pairs := make([]*value.Value, len(ops))
	for i, o := range ops {
		pairs[i] = callForm(o, operands[i], operands[i+1])
	}
	return callFormSlice("and", pairs), nil
}

// parseAdditive is level 6: "+" runs flatten; "-" never does, each one
// starting a fresh binary node the way left-associative subtraction must.
func (p *Parser) parseAdditive() (*value.Value, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == lexer.PLUS || p.cur().Type == lexer.MINUS {
		if p.cur().Type == lexer.PLUS {
			terms := []*value.Value{left}
			for p.cur().Type == lexer.PLUS {
				p.advance()
				right, err := p.parseMultiplicative()
				if err != nil {
					return nil, err
				}
				terms = append(terms, right)
			}
			left = callFormSlice("+", terms)
			continue
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = callForm("-", left, right)
	}
	return left, nil
}

// parseMultiplicative is level 7: "*" runs flatten; "/" and "%" don't.
func (p *Parser) parseMultiplicative() (*value.Value, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == lexer.ASTERISK || p.cur().Type == lexer.SLASH || p.cur().Type == lexer.PERCENT {
		switch p.cur().Type {
		case lexer.ASTERISK:
			terms := []*value.Value{left}
			for p.cur().Type == lexer.ASTERISK {
				p.advance()
				right, err := p.parseUnary()
				if err != nil {
					return nil, err
				}
				terms = append(terms, right)
			}
			left = callFormSlice("*", terms)
		case lexer.SLASH:
			p.advance()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = callForm("/", left, right)
		case lexer.PERCENT:
			p.advance()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = callForm("%", left, right)
		}
	}
	return left, nil
}

// parseUnary is level 8.
func (p *Parser) parseUnary() (*value.Value, error) {
	if p.cur().Type == lexer.MINUS {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return callForm("-", operand), nil
	}
	return p.parsePrimary()
}

// parsePrimary is level 9: literals, variable paths, $input(s), calls,
// grouping, array/object literals.
func (p *Parser) parsePrimary() (*value.Value, error) {
	tok := p.cur()
	switch tok.Type {
	case lexer.INT:
		p.advance()
		n, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return nil, parseErrorAt("invalid integer literal "+tok.Literal, tok.Pos)
		}
		return value.Int(n), nil
	case lexer.FLOAT:
		p.advance()
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, parseErrorAt("invalid float literal "+tok.Literal, tok.Pos)
		}
		return value.Float(f), nil
	case lexer.STRING:
		p.advance()
		return value.String(tok.Literal), nil
	case lexer.TRUE:
		p.advance()
		return value.Bool(true), nil
	case lexer.FALSE:
		p.advance()
		return value.Bool(false), nil
	case lexer.NULL:
		p.advance()
		return value.Null(), nil
	case lexer.IDENT:
		name := tok.Literal
		if p.peek().Type == lexer.LPAREN {
			p.advance() // identifier
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			return callFormSlice(name, args), nil
		}
		p.advance()
		return callForm("$", "/"+name), nil
	case lexer.PATH:
		p.advance()
		return callForm("$", "/"+tok.Literal), nil
	case lexer.INPUT:
		p.advance()
		if p.cur().Type == lexer.LPAREN {
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			return callFormSlice("$input", args), nil
		}
		if tok.Literal == "input" {
			return callFormSlice("$input", nil), nil
		}
		return callForm("$input", "/"+strings.TrimPrefix(tok.Literal, "input/")), nil
	case lexer.INPUTS:
		p.advance()
		if p.cur().Type == lexer.LPAREN {
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			return callFormSlice("$inputs", args), nil
		}
		return callFormSlice("$inputs", nil), nil
	case lexer.DOLLAR:
		p.advance()
		if p.cur().Type == lexer.LPAREN {
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			return callFormSlice("$", args), nil
		}
		return callFormSlice("$", nil), nil
	case lexer.LPAREN:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	case lexer.LBRACK:
		return p.parseArrayLiteral()
	case lexer.LBRACE:
		return p.parseObjectLiteral()
	default:
		return nil, p.errorf("unexpected token %q", tok.Literal)
	}
}

func (p *Parser) parseArgList() ([]*value.Value, error) {
	if _, err := p.expect(lexer.LPAREN, "'('"); err != nil {
		return nil, err
	}
	var args []*value.Value
	if p.cur().Type != lexer.RPAREN {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur().Type != lexer.COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseArrayLiteral() (*value.Value, error) {
	p.advance() // "["
	var elems []*value.Value
	if p.cur().Type != lexer.RBRACK {
		for {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if p.cur().Type != lexer.COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lexer.RBRACK, "']'"); err != nil {
		return nil, err
	}
	out := value.NewObject()
	out.ObjectSet(p.arrayKey, value.NewArray(elems))
	return out, nil
}

// keywordLiteralTypes are token types that also carry their source text as
// Literal, so they double as object-literal keys the way a bare identifier
// named "if" or "true" would if it weren't reserved.
var keywordLiteralTypes = map[lexer.TokenType]bool{
	lexer.LET: true, lexer.IN: true, lexer.IF: true, lexer.THEN: true, lexer.ELSE: true,
	lexer.AND: true, lexer.OR: true, lexer.NOT: true, lexer.TRUE: true, lexer.FALSE: true, lexer.NULL: true,
}

func (p *Parser) parseObjectLiteral() (*value.Value, error) {
	p.advance() // "{"
	out := value.NewObject()
	if p.cur().Type != lexer.RBRACE {
		for {
			key, err := p.parseObjectKey()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.COLON, "':'"); err != nil {
				return nil, err
			}
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			out.ObjectSet(key, v)
			if p.cur().Type != lexer.COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lexer.RBRACE, "'}'"); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Parser) parseObjectKey() (string, error) {
	tok := p.cur()
	if tok.Type == lexer.IDENT || tok.Type == lexer.STRING || keywordLiteralTypes[tok.Type] {
		p.advance()
		return tok.Literal, nil
	}
	return "", p.errorf("expected an object key, got %q", tok.Literal)
}

func callForm(op string, args ...interface{}) *value.Value {
	elems := make([]*value.Value, 0, len(args)+1)
	elems = append(elems, value.String(op))
	for _, a := range args {
		switch v := a.(type) {
		case *value.Value:
			elems = append(elems, v)
		case string:
			elems = append(elems, value.String(v))
		}
	}
	return value.NewArray(elems)
}

func callFormSlice(op string, args []*value.Value) *value.Value {
	elems := make([]*value.Value, 0, len(args)+1)
	elems = append(elems, value.String(op))
	elems = append(elems, args...)
	return value.NewArray(elems)
}
