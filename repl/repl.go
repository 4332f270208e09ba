// Package repl is a minimal interactive shell for manual trading. It
// tokenizes one line at a time, dispatches on the first token, and prints
// the raw JSON of whatever the API returned. The loop never exits on an
// error; it prints it and re-prompts.
package repl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sysdevguru/stockfighter/config"
	"github.com/sysdevguru/stockfighter/models/enum"
	"github.com/sysdevguru/stockfighter/schema"
	"github.com/sysdevguru/stockfighter/sferrors"
)

// API is the slice of the client the shell drives.
type API interface {
	GetOrderbook(exchange, stock string) (*schema.Orderbook, error)
	GetQuote(exchange, stock string) (*schema.Quote, error)
	OrderStatus(id int64, exchange, stock string) (*schema.Order, error)
	TradeStock(qty int64, side enum.Side, exchange, stock string, price *decimal.Decimal, orderType enum.OrderType) (*schema.Order, error)
}

type REPL struct {
	cfg    *config.Config
	api    API
	logger *zap.SugaredLogger
}

func New(cfg *config.Config, api API) *REPL {
	return &REPL{cfg: cfg, api: api, logger: zap.NewNop().Sugar()}
}

func (r *REPL) SetLogger(logger *zap.SugaredLogger) *REPL {
	r.logger = logger
	return r
}

// Execute runs one statement and returns the text to display. API errors
// pass through untouched; anything else that goes wrong mid-line becomes
// a SyntaxError carrying the tokens and the index reached.
func (r *REPL) Execute(stmt string) (string, error) {
	tokens := strings.Split(stmt, " ")
	out, idx, err := r.execute(tokens)
	if err != nil {
		if sferrors.IsAPIError(err) || sferrors.IsSyntaxError(err) {
			return "", err
		}
		r.logger.Debugw("statement failed", "tokens", tokens, "idx", idx, "error", err)
		return "", sferrors.NewSyntaxError(tokens, idx)
	}
	return out, nil
}

// Grammar, first-token dispatch:
//
//	{buy,sell} <order_type> <qty> shares of <exchange>:<stock> at <price>
//	orderbook <exchange>:<stock>
//	quote <exchange>:<stock>
//	status <order_id> <exchange>:<stock>
//	set account <account_id>
//
// Tokens 3 and 4 of a trade ("shares", "of") are positional filler and
// not validated.
func (r *REPL) execute(tokens []string) (string, int, error) {
	idx := 0
	verb, err := tok(tokens, idx)
	if err != nil {
		return "", idx, err
	}

	switch verb {
	case "buy", "sell":
		side := enum.Side(verb)
		idx = 1
		orderType, err := tok(tokens, idx)
		if err != nil {
			return "", idx, err
		}
		idx = 2
		qtyTok, err := tok(tokens, idx)
		if err != nil {
			return "", idx, err
		}
		qty, err := strconv.ParseInt(qtyTok, 10, 64)
		if err != nil {
			return "", idx, err
		}
		idx = 5
		instrument, err := tok(tokens, idx)
		if err != nil {
			return "", idx, err
		}
		exchange, stock, err := splitInstrument(instrument)
		if err != nil {
			return "", idx, err
		}
		idx = 7
		priceTok, err := tok(tokens, idx)
		if err != nil {
			return "", idx, err
		}
		price, err := decimal.NewFromString(priceTok)
		if err != nil {
			return "", idx, err
		}
		order, err := r.api.TradeStock(qty, side, exchange, stock, &price, enum.OrderType(orderType))
		if err != nil {
			return "", idx, err
		}
		return render(order.Raw), idx, nil

	case "orderbook":
		idx = 1
		instrument, err := tok(tokens, idx)
		if err != nil {
			return "", idx, err
		}
		exchange, stock, err := splitInstrument(instrument)
		if err != nil {
			return "", idx, err
		}
		book, err := r.api.GetOrderbook(exchange, stock)
		if err != nil {
			return "", idx, err
		}
		return render(book.Raw), idx, nil

	case "quote":
		idx = 1
		instrument, err := tok(tokens, idx)
		if err != nil {
			return "", idx, err
		}
		exchange, stock, err := splitInstrument(instrument)
		if err != nil {
			return "", idx, err
		}
		quote, err := r.api.GetQuote(exchange, stock)
		if err != nil {
			return "", idx, err
		}
		return render(quote.Raw), idx, nil

	case "status":
		idx = 1
		idTok, err := tok(tokens, idx)
		if err != nil {
			return "", idx, err
		}
		id, err := strconv.ParseInt(idTok, 10, 64)
		if err != nil {
			return "", idx, err
		}
		idx = 2
		instrument, err := tok(tokens, idx)
		if err != nil {
			return "", idx, err
		}
		exchange, stock, err := splitInstrument(instrument)
		if err != nil {
			return "", idx, err
		}
		order, err := r.api.OrderStatus(id, exchange, stock)
		if err != nil {
			return "", idx, err
		}
		return render(order.Raw), idx, nil

	case "set":
		idx = 1
		sub, err := tok(tokens, idx)
		if err != nil {
			return "", idx, err
		}
		if sub != "account" {
			return "", idx, errors.Errorf("unknown setting %q", sub)
		}
		idx = 2
		account, err := tok(tokens, idx)
		if err != nil {
			return "", idx, err
		}
		r.cfg.Reinit(account)
		return fmt.Sprintf("account set to %v", account), idx, nil

	default:
		return "", 0, errors.Errorf("unrecognized command %q", verb)
	}
}

// Run reads newline-delimited statements until EOF, prompting with the
// active account. Errors are printed and the loop continues.
func (r *REPL) Run(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "%v> ", r.cfg.Account())
		if !scanner.Scan() {
			return
		}
		text, err := r.Execute(scanner.Text())
		switch {
		case err == nil:
			if text != "" {
				fmt.Fprintln(out, text)
			}
		case sferrors.IsSyntaxError(err):
			fmt.Fprintln(out, "Syntax Error:")
			fmt.Fprintln(out, err.Error())
		default:
			fmt.Fprintln(out, "SF API Error:")
			fmt.Fprintln(out, err.Error())
		}
	}
}

func tok(tokens []string, idx int) (string, error) {
	if idx >= len(tokens) {
		return "", errors.Errorf("missing token at position %v", idx)
	}
	return tokens[idx], nil
}

func splitInstrument(s string) (string, string, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("expected <exchange>:<stock>, got %q", s)
	}
	return parts[0], parts[1], nil
}

func render(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
