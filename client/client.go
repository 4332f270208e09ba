// Package client is a REST client for the Stockfighter trading API. Every
// method issues one blocking HTTP request, classifies the failure per the
// error taxonomy, and returns a validated entity. No retries, no timeouts
// beyond the transport's own, no connection reuse guarantees.
package client

import (
	"encoding/json"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/sysdevguru/stockfighter/config"
	"github.com/sysdevguru/stockfighter/sferrors"
)

const (
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://api.stockfighter.io/ob/api"
	// AuthHeader carries the api key on every request.
	AuthHeader = "X-Starfighter-Authorization"

	// TestExchange and TestStock are the practice venue values used when
	// an exchange or stock argument is left empty.
	TestExchange = "TESTEX"
	TestStock    = "FOOBAR"
)

type Client struct {
	cfg     *config.Config
	baseURL string
	logger  *zap.SugaredLogger
	request func(req *fasthttp.Request, resp *fasthttp.Response) error
}

func New(cfg *config.Config) *Client {
	c := &Client{
		cfg:     cfg,
		baseURL: DefaultBaseURL,
		logger:  zap.NewNop().Sugar(),
	}
	c.request = func(req *fasthttp.Request, resp *fasthttp.Response) error {
		return fasthttp.Do(req, resp)
	}
	return c
}

func (c *Client) SetBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

func (c *Client) SetLogger(logger *zap.SugaredLogger) *Client {
	c.logger = logger
	return c
}

// call issues one request and returns the status code and body. A 200
// whose body carries ok:false fails here with the generic taxonomy error,
// before any per-call status mapping runs. Transport failures propagate
// unclassified.
func (c *Client) call(method, path string, reqBody interface{}) (int, []byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set(AuthHeader, c.cfg.APIKey())

	if reqBody != nil {
		req.Header.SetContentType("application/json")
		buf, err := json.Marshal(reqBody)
		if err != nil {
			return 0, nil, errors.Wrap(err, "failed to marshal request body")
		}
		req.SetBody(buf)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err := c.request(req, resp); err != nil {
		return 0, nil, errors.Wrapf(err, "%v %v failed", method, path)
	}

	sc := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)
	c.logger.Debugw("stockfighter api call", "method", method, "path", path, "status", sc)

	if sc == fasthttp.StatusOK {
		if ok, err := jsonparser.GetBoolean(body, "ok"); err == nil && !ok {
			return sc, body, sferrors.NewRequestNotOK(sc, body)
		}
	}
	return sc, body, nil
}
