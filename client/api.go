package client

import (
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"

	"github.com/sysdevguru/stockfighter/models/enum"
	"github.com/sysdevguru/stockfighter/schema"
	"github.com/sysdevguru/stockfighter/sferrors"
)

// Healthcheck probes the API, or one venue when venue is non-empty.
// A non-200 status or an ok:false flag fails the check.
func (c *Client) Healthcheck(venue string) error {
	path := "/heartbeat"
	if venue != "" {
		path = fmt.Sprintf("/venues/%v/heartbeat", venue)
	}
	sc, body, err := c.call("GET", path, nil)
	if err != nil {
		if sferrors.IsRequestNotOK(err) {
			return sferrors.NewHealthcheckFailed(sc, body)
		}
		return err
	}
	if sc != fasthttp.StatusOK {
		return sferrors.NewHealthcheckFailed(sc, body)
	}
	if ok, err := jsonparser.GetBoolean(body, "ok"); err != nil || !ok {
		return sferrors.NewHealthcheckFailed(sc, body)
	}
	return nil
}

// GetStocks lists the instruments traded on an exchange.
func (c *Client) GetStocks(exchange string) (*schema.Stocks, error) {
	if exchange == "" {
		exchange = TestExchange
	}
	sc, body, err := c.call("GET", fmt.Sprintf("/venues/%v/stocks", exchange), nil)
	if err != nil {
		return nil, err
	}
	if sc == fasthttp.StatusNotFound {
		return nil, sferrors.NewUnknownExchange(sc)
	}
	return schema.NewStocks(body)
}

// GetOrderbook retrieves the book for a stock. The book payload carries
// venue-specific extras, so it is validated leniently.
func (c *Client) GetOrderbook(exchange, stock string) (*schema.Orderbook, error) {
	exchange, stock = defaults(exchange, stock)
	sc, body, err := c.call("GET", fmt.Sprintf("/venues/%v/stocks/%v", exchange, stock), nil)
	if err != nil {
		return nil, err
	}
	if sc == fasthttp.StatusNotFound {
		return nil, sferrors.NewBadRequest(sc, body)
	}
	return schema.NewOrderbook(body, true)
}

// GetQuote retrieves the latest quote for a stock.
func (c *Client) GetQuote(exchange, stock string) (*schema.Quote, error) {
	exchange, stock = defaults(exchange, stock)
	sc, body, err := c.call("GET", fmt.Sprintf("/venues/%v/stocks/%v/quote", exchange, stock), nil)
	if err != nil {
		return nil, err
	}
	if sc == fasthttp.StatusNotFound {
		return nil, sferrors.NewBadRequest(sc, body)
	}
	return schema.NewQuote(body)
}

// OrderStatus retrieves the current state of an order.
func (c *Client) OrderStatus(id int64, exchange, stock string) (*schema.Order, error) {
	return c.orderByID("GET", id, exchange, stock)
}

// DeleteOrder cancels an order. The exchange responds with the final
// order state.
func (c *Client) DeleteOrder(id int64, exchange, stock string) (*schema.Order, error) {
	return c.orderByID("DELETE", id, exchange, stock)
}

func (c *Client) orderByID(method string, id int64, exchange, stock string) (*schema.Order, error) {
	exchange, stock = defaults(exchange, stock)
	sc, body, err := c.call(method, fmt.Sprintf("/venues/%v/stocks/%v/orders/%v", exchange, stock, id), nil)
	if err != nil {
		return nil, err
	}
	if sc == fasthttp.StatusUnauthorized {
		return nil, sferrors.NewUnauthorized(sc, body)
	}
	return schema.NewOrder(body, false)
}

// AllOrders lists the account's orders on an exchange, narrowed to one
// stock when stock is non-empty.
func (c *Client) AllOrders(exchange, stock string) (*schema.Orders, error) {
	if exchange == "" {
		exchange = TestExchange
	}
	account := c.cfg.Account()
	path := fmt.Sprintf("/venues/%v/accounts/%v/orders", exchange, account)
	if stock != "" {
		path = fmt.Sprintf("/venues/%v/accounts/%v/stocks/%v/orders", exchange, account, stock)
	}
	_, body, err := c.call("GET", path, nil)
	if err != nil {
		return nil, err
	}
	return schema.NewOrders(body)
}

type tradeRequest struct {
	Account   string         `json:"account"`
	Venue     string         `json:"venue"`
	Stock     string         `json:"stock"`
	Price     int64          `json:"price"`
	Qty       int64          `json:"qty"`
	Direction enum.Side      `json:"direction"`
	OrderType enum.OrderType `json:"orderType"`
}

// TradeStock places an order. A nil price makes it a market order: the
// order type is forced to market and the wire price is 0 regardless of
// the requested type. A non-nil price is decimal currency units,
// converted to integer cents by truncation.
func (c *Client) TradeStock(qty int64, side enum.Side, exchange, stock string, price *decimal.Decimal, orderType enum.OrderType) (*schema.Order, error) {
	exchange, stock = defaults(exchange, stock)
	var cents int64
	if price == nil {
		// no price means market order, whatever type was asked for
		orderType = enum.Market
	} else {
		cents = price.Mul(decimal.New(100, 0)).IntPart()
	}
	if orderType == "" {
		orderType = enum.Market
	}

	if !enum.ValidSide(side) {
		return nil, errors.Errorf("invalid direction %q", side)
	}
	if !enum.ValidOrderType(orderType) {
		return nil, errors.Errorf("invalid order type %q", orderType)
	}

	sc, body, err := c.call("POST", fmt.Sprintf("/venues/%v/stocks/%v/orders", exchange, stock), tradeRequest{
		Account:   c.cfg.Account(),
		Venue:     exchange,
		Stock:     stock,
		Price:     cents,
		Qty:       qty,
		Direction: side,
		OrderType: orderType,
	})
	if err != nil {
		return nil, err
	}
	if sc != fasthttp.StatusOK {
		return nil, sferrors.NewBadRequest(sc, body)
	}
	return schema.NewOrder(body, true)
}

// BuyStock is TradeStock with the direction fixed to buy.
func (c *Client) BuyStock(qty int64, exchange, stock string, price *decimal.Decimal, orderType enum.OrderType) (*schema.Order, error) {
	return c.TradeStock(qty, enum.Buy, exchange, stock, price, orderType)
}

// SellStock is TradeStock with the direction fixed to sell.
func (c *Client) SellStock(qty int64, exchange, stock string, price *decimal.Decimal, orderType enum.OrderType) (*schema.Order, error) {
	return c.TradeStock(qty, enum.Sell, exchange, stock, price, orderType)
}

func defaults(exchange, stock string) (string, string) {
	if exchange == "" {
		exchange = TestExchange
	}
	if stock == "" {
		stock = TestStock
	}
	return exchange, stock
}
